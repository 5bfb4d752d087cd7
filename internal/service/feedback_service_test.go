package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/hr-ops-api/internal/models"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
)

type feedbackStoreStub struct {
	entries []*models.Feedback
}

func (s *feedbackStoreStub) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	copy := *feedback
	s.entries = append(s.entries, &copy)
	return nil
}

func (s *feedbackStoreStub) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	return s.entries, nil
}

func TestFeedbackServiceSubmitNamed(t *testing.T) {
	store := &feedbackStoreStub{}
	svc := NewFeedbackService(store, nil, nil)

	feedback, err := svc.Submit(context.Background(), &models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee}, CreateFeedbackRequest{
		Message: "more standing desks please",
	})
	require.NoError(t, err)
	require.NotNil(t, feedback.UserID)
	assert.Equal(t, "emp-1", *feedback.UserID)
	assert.False(t, feedback.IsAnonymous)
}

func TestFeedbackServiceSubmitAnonymousDropsAuthor(t *testing.T) {
	store := &feedbackStoreStub{}
	svc := NewFeedbackService(store, nil, nil)

	feedback, err := svc.Submit(context.Background(), &models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee}, CreateFeedbackRequest{
		Message:     "the on-call rotation is too heavy",
		IsAnonymous: true,
	})
	require.NoError(t, err)
	assert.Nil(t, feedback.UserID)
	assert.True(t, feedback.IsAnonymous)
	require.Len(t, store.entries, 1)
	assert.Nil(t, store.entries[0].UserID)
}

func TestFeedbackServiceSubmitRequiresMessage(t *testing.T) {
	svc := NewFeedbackService(&feedbackStoreStub{}, nil, nil)

	_, err := svc.Submit(context.Background(), &models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee}, CreateFeedbackRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestFeedbackServiceListRequiresManager(t *testing.T) {
	svc := NewFeedbackService(&feedbackStoreStub{}, nil, nil)

	_, err := svc.All(context.Background(), &models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	entries, err := svc.All(context.Background(), &models.JWTClaims{UserID: "mgr-1", Role: models.RoleProjectManager})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
