package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/hr-ops-api/internal/models"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
)

type announcementStoreStub struct {
	announcements map[string]*models.Announcement
	listCalls     int
	lastAudiences []models.AnnouncementAudience
}

func newAnnouncementStoreStub() *announcementStoreStub {
	return &announcementStoreStub{announcements: make(map[string]*models.Announcement)}
}

func (s *announcementStoreStub) ListVisible(ctx context.Context, audiences []models.AnnouncementAudience) ([]*models.Announcement, error) {
	s.listCalls++
	s.lastAudiences = audiences
	allowed := make(map[models.AnnouncementAudience]bool)
	for _, audience := range audiences {
		allowed[audience] = true
	}
	var result []*models.Announcement
	for _, announcement := range s.announcements {
		if allowed[announcement.TargetAudience] {
			copy := *announcement
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (s *announcementStoreStub) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	if announcement, ok := s.announcements[id]; ok {
		copy := *announcement
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *announcementStoreStub) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	copy := *announcement
	s.announcements[announcement.ID] = &copy
	return nil
}

func (s *announcementStoreStub) SetPinned(ctx context.Context, id string, pinned bool) error {
	announcement, ok := s.announcements[id]
	if !ok {
		return sql.ErrNoRows
	}
	announcement.IsPinned = pinned
	return nil
}

func (s *announcementStoreStub) Delete(ctx context.Context, id string) error {
	delete(s.announcements, id)
	return nil
}

type cacheStub struct {
	entries map[string][]byte
	deletes int
}

func newCacheStub() *cacheStub {
	return &cacheStub{entries: make(map[string][]byte)}
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.deletes++
	c.entries = make(map[string][]byte)
	return nil
}

type metricsStub struct {
	hits   int
	misses int
	writes int
}

func (m *metricsStub) RecordCacheOperation(hit bool, duration time.Duration) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *metricsStub) ObserveCacheWrite(duration time.Duration) {
	m.writes++
}

func newTestAnnouncementService() (*AnnouncementService, *announcementStoreStub, *cacheStub, *metricsStub) {
	store := newAnnouncementStoreStub()
	cache := newCacheStub()
	metrics := &metricsStub{}
	svc := NewAnnouncementService(store, cache, metrics, time.Minute, nil, nil)
	return svc, store, cache, metrics
}

func TestAnnouncementServiceCreateRequiresManager(t *testing.T) {
	svc, _, _, _ := newTestAnnouncementService()

	_, err := svc.Create(context.Background(), &models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee}, CreateAnnouncementRequest{
		Title: "Town hall", Message: "Friday 4pm", TargetAudience: "ALL",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAnnouncementServiceCreateRejectsUnknownAudience(t *testing.T) {
	svc, _, _, _ := newTestAnnouncementService()

	_, err := svc.Create(context.Background(), managerActor(), CreateAnnouncementRequest{
		Title: "Town hall", Message: "Friday 4pm", TargetAudience: "INTERNS",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAnnouncementServiceAudienceScoping(t *testing.T) {
	svc, store, _, _ := newTestAnnouncementService()
	manager := managerActor()

	_, err := svc.Create(context.Background(), manager, CreateAnnouncementRequest{Title: "All hands", Message: "Monday", TargetAudience: "ALL"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), manager, CreateAnnouncementRequest{Title: "Managers only", Message: "Budget review", TargetAudience: "MANAGERS"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), manager, CreateAnnouncementRequest{Title: "Benefits update", Message: "New policy", TargetAudience: "EMPLOYEES"})
	require.NoError(t, err)
	require.Len(t, store.announcements, 3)

	managerView, _, err := svc.ListFor(context.Background(), manager)
	require.NoError(t, err)
	assert.Len(t, managerView, 2)

	employeeView, _, err := svc.ListFor(context.Background(), &models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee})
	require.NoError(t, err)
	assert.Len(t, employeeView, 2)
	for _, announcement := range employeeView {
		assert.NotEqual(t, models.AnnouncementAudienceManagers, announcement.TargetAudience)
	}
}

func TestAnnouncementServiceCacheReadThrough(t *testing.T) {
	svc, store, cache, metrics := newTestAnnouncementService()
	manager := managerActor()

	_, err := svc.Create(context.Background(), manager, CreateAnnouncementRequest{Title: "All hands", Message: "Monday", TargetAudience: "ALL"})
	require.NoError(t, err)

	_, hit, err := svc.ListFor(context.Background(), manager)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 1, metrics.writes)
	assert.NotEmpty(t, cache.entries)

	_, hit, err = svc.ListFor(context.Background(), manager)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, 1, metrics.hits)
}

func TestAnnouncementServiceInvalidatesOnWrite(t *testing.T) {
	svc, _, cache, _ := newTestAnnouncementService()
	manager := managerActor()

	created, err := svc.Create(context.Background(), manager, CreateAnnouncementRequest{Title: "All hands", Message: "Monday", TargetAudience: "ALL"})
	require.NoError(t, err)
	deletesAfterCreate := cache.deletes

	_, _, err = svc.ListFor(context.Background(), manager)
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	pinned, err := svc.SetPinned(context.Background(), manager, created.ID, true)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)
	assert.Greater(t, cache.deletes, deletesAfterCreate)
	assert.Empty(t, cache.entries)

	require.NoError(t, svc.Delete(context.Background(), manager, created.ID))

	_, err = svc.SetPinned(context.Background(), manager, created.ID, false)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
