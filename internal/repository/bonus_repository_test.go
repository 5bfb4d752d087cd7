package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/hr-ops-api/internal/models"
)

func TestBonusRepositoryStats(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBonusRepository(db)
	rows := sqlmock.NewRows([]string{"total_approved", "total_pending", "pending_count"}).
		AddRow(1500.0, 400.0, 3)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WillReturnRows(rows)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1500.0, stats.TotalApproved)
	require.Equal(t, 400.0, stats.TotalPending)
	require.Equal(t, 1900.0, stats.TotalAllocated)
	require.Equal(t, 3, stats.PendingCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBonusRepositoryListAllJoinsReviewer(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBonusRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "amount", "type", "reason", "period", "status", "reviewer_id", "reviewed_at", "created_at", "requester_email", "requester_name", "requester_role", "reviewer_email"}).
		AddRow("bn-1", "emp-1", 500.0, "PERFORMANCE", "q1 results", now, "APPROVED", "mgr-1", now, now, "emp@corp.test", "Employee One", "EMPLOYEE", "mgr@corp.test")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT b.id, b.user_id, b.amount")).
		WillReturnRows(rows)

	bonuses, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, bonuses, 1)
	require.NotNil(t, bonuses[0].ReviewerEmail)
	require.Equal(t, "mgr@corp.test", *bonuses[0].ReviewerEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBonusRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewBonusRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bonuses")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	bonus := &models.Bonus{
		UserID: "emp-1",
		Amount: 750,
		Type:   "SPOT",
		Reason: "incident response",
		Period: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		ReviewState: models.ReviewState{
			Status: models.ReviewStatusPending,
		},
	}
	require.NoError(t, repo.Insert(context.Background(), bonus))
	require.NotEmpty(t, bonus.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
