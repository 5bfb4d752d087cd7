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

type overtimeStoreStub struct {
	requests map[string]*models.OvertimeRequest
}

func newOvertimeStoreStub() *overtimeStoreStub {
	return &overtimeStoreStub{requests: make(map[string]*models.OvertimeRequest)}
}

func (s *overtimeStoreStub) Insert(ctx context.Context, req *models.OvertimeRequest) error {
	for _, existing := range s.requests {
		if existing.UserID == req.UserID && existing.Date.Equal(req.Date) {
			return appErrors.Clone(appErrors.ErrDuplicateRequest, "overtime request already exists for this date")
		}
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	copy := *req
	s.requests[req.ID] = &copy
	return nil
}

func (s *overtimeStoreStub) FindByID(ctx context.Context, id string) (*models.OvertimeRequest, error) {
	if req, ok := s.requests[id]; ok {
		copy := *req
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *overtimeStoreStub) ListByRequester(ctx context.Context, requesterID string) ([]*models.OvertimeRequest, error) {
	var result []*models.OvertimeRequest
	for _, req := range s.requests {
		if req.UserID == requesterID {
			copy := *req
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (s *overtimeStoreStub) ListPending(ctx context.Context) ([]*models.OvertimeRequest, error) {
	var result []*models.OvertimeRequest
	for _, req := range s.requests {
		if req.Status == models.ReviewStatusPending {
			copy := *req
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (s *overtimeStoreStub) MarkDecided(ctx context.Context, id string, status models.ReviewStatus, reviewerID string, decidedAt time.Time, note *string) error {
	req, ok := s.requests[id]
	if !ok || req.Status != models.ReviewStatusPending {
		return sql.ErrNoRows
	}
	req.Status = status
	req.ReviewerID = &reviewerID
	req.ReviewedAt = &decidedAt
	if note != nil {
		req.Remarks = note
	}
	return nil
}

func (s *overtimeStoreStub) Remove(ctx context.Context, id string) error {
	delete(s.requests, id)
	return nil
}

func newTestOvertimeService() (*OvertimeService, *overtimeStoreStub) {
	store := newOvertimeStoreStub()
	engine := workflow.New[*models.OvertimeRequest](store, workflow.CapabilityOvertime, nil, workflow.WithCancel[*models.OvertimeRequest]())
	return NewOvertimeService(engine, nil, nil), store
}

func TestOvertimeServiceSubmit(t *testing.T) {
	svc, store := newTestOvertimeService()

	req, err := svc.Submit(context.Background(), leaveActor(models.RoleEmployee), CreateOvertimeRequest{
		Date:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Hours:  3,
		Reason: "release support",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, req.Status)
	assert.Len(t, store.requests, 1)
}

func TestOvertimeServiceSubmitRejectsExcessiveHours(t *testing.T) {
	svc, _ := newTestOvertimeService()

	_, err := svc.Submit(context.Background(), leaveActor(models.RoleEmployee), CreateOvertimeRequest{
		Date:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Hours:  30,
		Reason: "marathon",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestOvertimeServiceSubmitDuplicateDate(t *testing.T) {
	svc, _ := newTestOvertimeService()
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Submit(context.Background(), leaveActor(models.RoleEmployee), CreateOvertimeRequest{Date: date, Hours: 2, Reason: "deploy"})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), leaveActor(models.RoleEmployee), CreateOvertimeRequest{Date: date, Hours: 4, Reason: "deploy again"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateRequest.Code, appErr.Code)
}

func TestOvertimeServiceDecideStoresRemarks(t *testing.T) {
	svc, store := newTestOvertimeService()

	req, err := svc.Submit(context.Background(), leaveActor(models.RoleEmployee), CreateOvertimeRequest{
		Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Hours: 2, Reason: "deploy",
	})
	require.NoError(t, err)

	remarks := "approved, capped at 2h"
	manager := &models.JWTClaims{UserID: "mgr-1", Role: models.RoleProjectManager}
	decided, err := svc.Decide(context.Background(), manager, req.ID, DecideRequest{Status: "APPROVED", Remarks: &remarks})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, decided.Status)

	stored := store.requests[req.ID]
	require.NotNil(t, stored.Remarks)
	assert.Equal(t, remarks, *stored.Remarks)
}

func TestOvertimeServiceCancel(t *testing.T) {
	svc, store := newTestOvertimeService()

	req, err := svc.Submit(context.Background(), leaveActor(models.RoleEmployee), CreateOvertimeRequest{
		Date: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), Hours: 2, Reason: "deploy",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), leaveActor(models.RoleEmployee), req.ID))
	assert.Empty(t, store.requests)
}
