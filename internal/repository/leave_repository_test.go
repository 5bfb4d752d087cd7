package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/hr-ops-api/internal/models"
)

func TestLeaveRepositoryInsertAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLeaveRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO leave_requests")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := &models.LeaveRequest{
		UserID:    "emp-1",
		Type:      models.LeaveTypeAnnual,
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		Reason:    "family holiday",
		ReviewState: models.ReviewState{
			Status: models.ReviewStatusPending,
		},
	}
	require.NoError(t, repo.Insert(context.Background(), req))
	require.NotEmpty(t, req.ID)

	rows := sqlmock.NewRows([]string{"id", "user_id", "type", "start_date", "end_date", "reason", "status", "reviewer_id", "reviewed_at", "created_at"}).
		AddRow(req.ID, "emp-1", "ANNUAL", req.StartDate, req.EndDate, "family holiday", "PENDING", nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, type, start_date")).
		WithArgs(req.ID).
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, req.ID, found.ID)
	require.Equal(t, models.ReviewStatusPending, found.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryFindMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLeaveRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, type, start_date")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryMarkDecidedZeroRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLeaveRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_requests SET status =")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkDecided(context.Background(), "lv-1", models.ReviewStatusApproved, "mgr-1", time.Now().UTC(), nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryListByRequester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLeaveRepository(db)
	rows := sqlmock.NewRows([]string{"id", "user_id", "type", "start_date", "end_date", "reason", "status", "reviewer_id", "reviewed_at", "created_at"}).
		AddRow("lv-2", "emp-1", "SICK", time.Now(), time.Now(), "flu", "APPROVED", "mgr-1", time.Now(), time.Now()).
		AddRow("lv-1", "emp-1", "ANNUAL", time.Now(), time.Now(), "trip", "PENDING", nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, type, start_date")).
		WithArgs("emp-1").
		WillReturnRows(rows)

	requests, err := repo.ListByRequester(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, requests, 2)
	require.Equal(t, "lv-2", requests[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
