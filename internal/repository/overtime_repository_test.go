package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/hr-ops-api/internal/models"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestOvertimeRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewOvertimeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO overtime_requests")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := &models.OvertimeRequest{
		UserID: "emp-1",
		Date:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Hours:  2.5,
		Reason: "release support",
		ReviewState: models.ReviewState{
			Status: models.ReviewStatusPending,
		},
	}
	require.NoError(t, repo.Insert(context.Background(), req))
	require.NotEmpty(t, req.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOvertimeRepositoryInsertDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewOvertimeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO overtime_requests")).
		WillReturnError(&pq.Error{Code: "23505"})

	req := &models.OvertimeRequest{
		UserID: "emp-1",
		Date:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Hours:  2,
		ReviewState: models.ReviewState{
			Status: models.ReviewStatusPending,
		},
	}
	err := repo.Insert(context.Background(), req)
	require.Error(t, err)
	typed := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrDuplicateRequest.Code, typed.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOvertimeRepositoryMarkDecided(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewOvertimeRepository(db)
	decidedAt := time.Now().UTC()
	remarks := "approved for release night"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE overtime_requests SET status =")).
		WithArgs("ot-1", string(models.ReviewStatusApproved), "mgr-1", decidedAt, &remarks).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkDecided(context.Background(), "ot-1", models.ReviewStatusApproved, "mgr-1", decidedAt, &remarks)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOvertimeRepositoryMarkDecidedAlreadyFinal(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewOvertimeRepository(db)
	decidedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE overtime_requests SET status =")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkDecided(context.Background(), "ot-1", models.ReviewStatusRejected, "mgr-1", decidedAt, nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOvertimeRepositoryListPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewOvertimeRepository(db)
	rows := sqlmock.NewRows([]string{"id", "user_id", "date", "hours", "reason", "remarks", "status", "reviewer_id", "reviewed_at", "created_at", "requester_email", "requester_name", "requester_role"}).
		AddRow("ot-1", "emp-1", time.Now(), 2.0, "deploy", nil, "PENDING", nil, nil, time.Now(), "emp@corp.test", "Employee One", "EMPLOYEE")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT o.id, o.user_id, o.date")).
		WillReturnRows(rows)

	pending, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "ot-1", pending[0].ID)
	require.NotNil(t, pending[0].RequesterEmail)
	require.Equal(t, "emp@corp.test", *pending[0].RequesterEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}
