package workflow

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/flowdash/hr-ops-api/internal/models"
	appErrors "github.com/flowdash/hr-ops-api/pkg/errors"
)

// Request is the contract every reviewable entity satisfies. The embedded
// ReviewState is the only part of the entity the engine mutates; the
// type-specific payload is opaque and validated by the adapter.
type Request interface {
	RequestID() string
	RequesterID() string
	Review() *models.ReviewState
}

// Store abstracts persistence for one request type. MarkDecided must be a
// conditional update (status still PENDING) and report sql.ErrNoRows when
// the row was already decided, so concurrent decisions cannot both win.
// Insert surfaces uniqueness violations as typed DuplicateRequest errors.
type Store[R Request] interface {
	Insert(ctx context.Context, req R) error
	FindByID(ctx context.Context, id string) (R, error)
	ListByRequester(ctx context.Context, requesterID string) ([]R, error)
	ListPending(ctx context.Context) ([]R, error)
	MarkDecided(ctx context.Context, id string, status models.ReviewStatus, reviewerID string, decidedAt time.Time, note *string) error
	Remove(ctx context.Context, id string) error
}

// Engine drives the shared request lifecycle: submit while authenticated,
// review by managers, single PENDING -> APPROVED/REJECTED transition.
type Engine[R Request] struct {
	store      Store[R]
	capability Capability
	cancelable bool
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures the engine.
type Option[R Request] func(*Engine[R])

// WithCancel enables requester-side cancellation of PENDING requests.
func WithCancel[R Request]() Option[R] {
	return func(e *Engine[R]) {
		e.cancelable = true
	}
}

// WithClock overrides the time source.
func WithClock[R Request](now func() time.Time) Option[R] {
	return func(e *Engine[R]) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an engine for one request type.
func New[R Request](store Store[R], capability Capability, logger *zap.Logger, opts ...Option[R]) *Engine[R] {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine[R]{
		store:      store,
		capability: capability,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// ParseDecision validates a raw decision value against the closed set.
func ParseDecision(raw string) (models.ReviewStatus, error) {
	switch status := models.ReviewStatus(strings.ToUpper(strings.TrimSpace(raw))); status {
	case models.ReviewStatusApproved, models.ReviewStatusRejected:
		return status, nil
	default:
		return "", appErrors.Clone(appErrors.ErrInvalidDecision, "")
	}
}

// Submit stores a new request in PENDING state. The adapter validates the
// payload before calling; the engine owns authorship and lifecycle fields.
func (e *Engine[R]) Submit(ctx context.Context, actor *models.JWTClaims, req R) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !CanAuthor(actor.Role, e.capability) {
		return appErrors.Clone(appErrors.ErrForbidden, "role may not create this request type")
	}
	state := req.Review()
	state.Status = models.ReviewStatusPending
	state.ReviewerID = nil
	state.ReviewedAt = nil
	if err := e.store.Insert(ctx, req); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return err
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store request")
	}
	return nil
}

// ListMine returns the caller's own requests, newest first.
func (e *Engine[R]) ListMine(ctx context.Context, actor *models.JWTClaims) ([]R, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	items, err := e.store.ListByRequester(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return items, nil
}

// ListPending returns the FIFO review queue, oldest first.
func (e *Engine[R]) ListPending(ctx context.Context, actor *models.JWTClaims) ([]R, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !CanReview(actor.Role) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only managers can view pending requests")
	}
	items, err := e.store.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending requests")
	}
	return items, nil
}

// Decide transitions a PENDING request to APPROVED or REJECTED. The store
// update is conditional on the row still being PENDING, so of two
// concurrent decisions exactly one succeeds and the other observes
// AlreadyDecided.
func (e *Engine[R]) Decide(ctx context.Context, actor *models.JWTClaims, id, rawDecision string, note *string) (R, error) {
	var zero R
	if actor == nil {
		return zero, appErrors.ErrUnauthorized
	}
	if !CanReview(actor.Role) {
		return zero, appErrors.Clone(appErrors.ErrForbidden, "only managers can decide requests")
	}
	decision, err := ParseDecision(rawDecision)
	if err != nil {
		return zero, err
	}
	req, err := e.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if req.Review().Status.Terminal() {
		return zero, appErrors.Clone(appErrors.ErrAlreadyDecided, "")
	}
	decidedAt := e.now()
	if err := e.store.MarkDecided(ctx, id, decision, actor.UserID, decidedAt, note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, appErrors.Clone(appErrors.ErrAlreadyDecided, "request was decided concurrently")
		}
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update request")
	}
	reviewerID := actor.UserID
	state := req.Review()
	state.Status = decision
	state.ReviewerID = &reviewerID
	state.ReviewedAt = &decidedAt
	e.logger.Info("request decided",
		zap.String("capability", string(e.capability)),
		zap.String("request_id", id),
		zap.String("decision", string(decision)),
		zap.String("reviewer_id", reviewerID),
	)
	return req, nil
}

// Cancel removes a still-PENDING request on behalf of its requester.
// Available only for request types constructed with WithCancel.
func (e *Engine[R]) Cancel(ctx context.Context, actor *models.JWTClaims, id string) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !e.cancelable {
		return appErrors.Clone(appErrors.ErrForbidden, "cancellation is not available for this request type")
	}
	req, err := e.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if req.RequesterID() != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the requester can cancel this request")
	}
	if req.Review().Status.Terminal() {
		return appErrors.Clone(appErrors.ErrAlreadyDecided, "cannot cancel a processed request")
	}
	if err := e.store.Remove(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel request")
	}
	return nil
}
