package workflow

import "github.com/flowdash/hr-ops-api/internal/models"

// Capability identifies a request family for authorship checks.
type Capability string

const (
	CapabilityLeave        Capability = "leave"
	CapabilityOvertime     Capability = "overtime"
	CapabilityBonus        Capability = "bonus"
	CapabilityAnnouncement Capability = "announcement"
	CapabilityFeedback     Capability = "feedback"
)

// CanReview reports whether the role may see the pending queue and decide
// requests. Both manager roles see the full queue; team scoping is left to
// a future access-control layer.
func CanReview(role models.UserRole) bool {
	return role == models.RoleManager || role == models.RoleProjectManager
}

// CanAuthor reports whether the role may create entities of the given
// capability. Bonuses and announcements are manager-authored; everything
// else is open to any authenticated principal.
func CanAuthor(role models.UserRole, capability Capability) bool {
	switch capability {
	case CapabilityBonus, CapabilityAnnouncement:
		return role == models.RoleManager
	default:
		return true
	}
}
