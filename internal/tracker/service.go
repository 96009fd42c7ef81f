// ABOUTME: Tracker service wiring storage, clock, events and identity collaborators
// ABOUTME: Shared helpers for storage failures, calendar dates and event publishing

package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/2389/calorie-gateway/internal/auth"
	"github.com/2389/calorie-gateway/internal/events"
	"github.com/2389/calorie-gateway/internal/store"
)

// Config holds the collaborators of a Service. Only Store is meaningful to
// leave nil; every other zero field gets a production default.
type Config struct {
	// Store is optional. Without it every operation returns ErrStorageUnavailable.
	Store     store.Store
	Publisher events.Publisher
	Logger    *slog.Logger
	// Now is the wall clock. Location decides which calendar day "today" is.
	Now      func() time.Time
	Location *time.Location
	NewID    func() string
	// NewAPIKey generates keys for users registered without one.
	NewAPIKey func() string
	Hasher    auth.Hasher
}

// Service implements profile, tracking, food log and user administration operations.
type Service struct {
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
	location  *time.Location
	newID     func() string
	newAPIKey func() string
	hasher    auth.Hasher
}

// New creates a Service from cfg.
func New(cfg Config) *Service {
	s := &Service{
		store:     cfg.Store,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		now:       cfg.Now,
		location:  cfg.Location,
		newID:     cfg.NewID,
		newAPIKey: cfg.NewAPIKey,
		hasher:    cfg.Hasher,
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "tracker")
	if s.now == nil {
		s.now = time.Now
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	if s.newAPIKey == nil {
		s.newAPIKey = auth.GenerateAPIKey
	}
	if s.hasher == nil {
		s.hasher = auth.SHA256Hasher{}
	}
	return s
}

// Today returns the current calendar date in the service's location.
func (s *Service) Today() string {
	return s.now().In(s.location).Format(store.DateLayout)
}

// requireStore returns the store or ErrStorageUnavailable.
func (s *Service) requireStore() (store.Store, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	return s.store, nil
}

// storageFailure logs err with its context and returns the generic caller-facing error.
func (s *Service) storageFailure(action string, err error, attrs ...any) *Error {
	s.logger.Error("storage failure", append([]any{"action", action, "error", err}, attrs...)...)
	return &Error{
		Kind:    KindStorage,
		Message: "Failed to " + action + ". Please try again.",
		Err:     err,
	}
}

// publish emits an event; failures are logged and swallowed.
func (s *Service) publish(ctx context.Context, eventType, userID string, payload any) {
	ev, err := events.New(eventType, userID, s.now(), payload)
	if err == nil {
		err = s.publisher.Publish(ctx, ev)
	}
	if err != nil {
		s.logger.Warn("publishing event failed", "type", eventType, "user_id", userID, "error", err)
	}
}

// validDate reports whether v is a real calendar date in YYYY-MM-DD form.
func validDate(v string) bool {
	_, err := time.Parse(store.DateLayout, v)
	return err == nil
}
