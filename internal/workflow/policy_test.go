package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowdash/hr-ops-api/internal/models"
)

func TestCanReview(t *testing.T) {
	require.True(t, CanReview(models.RoleManager))
	require.True(t, CanReview(models.RoleProjectManager))
	require.False(t, CanReview(models.RoleEmployee))
	require.False(t, CanReview(models.RoleOperator))
}

func TestCanAuthor(t *testing.T) {
	require.True(t, CanAuthor(models.RoleEmployee, CapabilityLeave))
	require.True(t, CanAuthor(models.RoleOperator, CapabilityOvertime))
	require.True(t, CanAuthor(models.RoleEmployee, CapabilityFeedback))

	require.False(t, CanAuthor(models.RoleEmployee, CapabilityBonus))
	require.False(t, CanAuthor(models.RoleProjectManager, CapabilityBonus))
	require.True(t, CanAuthor(models.RoleManager, CapabilityBonus))

	require.False(t, CanAuthor(models.RoleEmployee, CapabilityAnnouncement))
	require.True(t, CanAuthor(models.RoleManager, CapabilityAnnouncement))
}
