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

func TestAnnouncementRepositoryListVisible(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnnouncementRepository(db)
	rows := sqlmock.NewRows([]string{"id", "title", "message", "is_pinned", "target_audience", "author_id", "created_at", "updated_at", "author_email", "author_role"}).
		AddRow("ann-2", "Town hall", "Friday 4pm", true, "ALL", "mgr-1", time.Now(), time.Now(), "mgr@corp.test", "MANAGER").
		AddRow("ann-1", "Benefits", "New policy", false, "EMPLOYEES", "mgr-1", time.Now(), time.Now(), "mgr@corp.test", "MANAGER")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.target_audience = ANY($1)")).
		WillReturnRows(rows)

	announcements, err := repo.ListVisible(context.Background(), []models.AnnouncementAudience{
		models.AnnouncementAudienceAll, models.AnnouncementAudienceEmployees,
	})
	require.NoError(t, err)
	require.Len(t, announcements, 2)
	require.True(t, announcements[0].IsPinned)
	require.NotNil(t, announcements[0].AuthorEmail)
	require.Equal(t, "mgr@corp.test", *announcements[0].AuthorEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnnouncementRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO announcements")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	announcement := &models.Announcement{
		Title:          "Town hall",
		Message:        "Friday 4pm",
		TargetAudience: models.AnnouncementAudienceAll,
		AuthorID:       "mgr-1",
	}
	require.NoError(t, repo.Create(context.Background(), announcement))
	require.NotEmpty(t, announcement.ID)
	require.False(t, announcement.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositorySetPinned(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnnouncementRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE announcements SET is_pinned = $2")).
		WithArgs("ann-1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetPinned(context.Background(), "ann-1", true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnnouncementRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcements WHERE id = $1")).
		WithArgs("ann-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "ann-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
