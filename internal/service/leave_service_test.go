package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/hr-ops-api/internal/models"
	"github.com/flowdash/hr-ops-api/internal/workflow"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
)

type leaveStoreStub struct {
	requests map[string]*models.LeaveRequest
}

func newLeaveStoreStub() *leaveStoreStub {
	return &leaveStoreStub{requests: make(map[string]*models.LeaveRequest)}
}

func (s *leaveStoreStub) Insert(ctx context.Context, req *models.LeaveRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	copy := *req
	s.requests[req.ID] = &copy
	return nil
}

func (s *leaveStoreStub) FindByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	if req, ok := s.requests[id]; ok {
		copy := *req
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *leaveStoreStub) ListByRequester(ctx context.Context, requesterID string) ([]*models.LeaveRequest, error) {
	var result []*models.LeaveRequest
	for _, req := range s.requests {
		if req.UserID == requesterID {
			copy := *req
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (s *leaveStoreStub) ListPending(ctx context.Context) ([]*models.LeaveRequest, error) {
	var result []*models.LeaveRequest
	for _, req := range s.requests {
		if req.Status == models.ReviewStatusPending {
			copy := *req
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (s *leaveStoreStub) MarkDecided(ctx context.Context, id string, status models.ReviewStatus, reviewerID string, decidedAt time.Time, note *string) error {
	req, ok := s.requests[id]
	if !ok || req.Status != models.ReviewStatusPending {
		return sql.ErrNoRows
	}
	req.Status = status
	req.ReviewerID = &reviewerID
	req.ReviewedAt = &decidedAt
	return nil
}

func (s *leaveStoreStub) Remove(ctx context.Context, id string) error {
	delete(s.requests, id)
	return nil
}

func newTestLeaveService() (*LeaveService, *leaveStoreStub) {
	store := newLeaveStoreStub()
	engine := workflow.New[*models.LeaveRequest](store, workflow.CapabilityLeave, nil)
	return NewLeaveService(engine, nil, nil), store
}

func leaveActor(role models.UserRole) *models.JWTClaims {
	return &models.JWTClaims{UserID: "emp-1", Role: role}
}

func TestLeaveServiceSubmit(t *testing.T) {
	svc, store := newTestLeaveService()

	leave, err := svc.Submit(context.Background(), leaveActor(models.RoleEmployee), CreateLeaveRequest{
		Type:      "annual",
		StartDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC),
		Reason:    "summer break",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveTypeAnnual, leave.Type)
	assert.Equal(t, models.ReviewStatusPending, leave.Status)
	assert.Equal(t, "emp-1", leave.UserID)
	assert.Len(t, store.requests, 1)
}

func TestLeaveServiceSubmitRejectsInvertedDates(t *testing.T) {
	svc, _ := newTestLeaveService()

	_, err := svc.Submit(context.Background(), leaveActor(models.RoleEmployee), CreateLeaveRequest{
		Type:      "ANNUAL",
		StartDate: time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Reason:    "summer break",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLeaveServiceSubmitRejectsUnknownType(t *testing.T) {
	svc, _ := newTestLeaveService()

	_, err := svc.Submit(context.Background(), leaveActor(models.RoleEmployee), CreateLeaveRequest{
		Type:      "SABBATICAL",
		StartDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC),
		Reason:    "long trip",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLeaveServiceDecideLifecycle(t *testing.T) {
	svc, _ := newTestLeaveService()

	leave, err := svc.Submit(context.Background(), leaveActor(models.RoleEmployee), CreateLeaveRequest{
		Type:      "SICK",
		StartDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
		Reason:    "flu",
	})
	require.NoError(t, err)

	manager := &models.JWTClaims{UserID: "mgr-1", Role: models.RoleManager}

	pending, err := svc.Pending(context.Background(), manager)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	decided, err := svc.Decide(context.Background(), manager, leave.ID, DecideRequest{Status: "APPROVED"})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, decided.Status)

	_, err = svc.Decide(context.Background(), manager, leave.ID, DecideRequest{Status: "REJECTED"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrAlreadyDecided.Code, appErr.Code)
}

func TestLeaveServicePendingForbiddenForEmployees(t *testing.T) {
	svc, _ := newTestLeaveService()

	_, err := svc.Pending(context.Background(), leaveActor(models.RoleEmployee))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}
