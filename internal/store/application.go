// Package store is the single source of truth for the in-progress
// application and the reference datasets the wizard's dropdowns draw from.
package store

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/internal/api"
	"github.com/hti-gh/applicant-portal/internal/models"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

// Application holds the current applicant's application record. A
// generation counter makes duplicate fetches safe: a response belonging to
// a superseded fetch is discarded instead of overwriting newer state.
type Application struct {
	mu       sync.Mutex
	client   *api.Client
	validate *validator.Validate
	logger   *zap.Logger

	app     *models.Application
	appID   string
	lastErr string
	gen     uint64
}

// NewApplication constructs the application store.
func NewApplication(client *api.Client, validate *validator.Validate, logger *zap.Logger) *Application {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{client: client, validate: validate, logger: logger}
}

// Fetch loads the current applicant's application. On failure the record
// and id are cleared and the error kept for the UI.
func (s *Application) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	app := &models.Application{}
	err := s.client.Get(ctx, "/applications", app)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		// A newer fetch started while this one was in flight.
		s.logger.Debug("discarding stale application response")
		return nil
	}

	if err != nil {
		s.app = nil
		s.appID = ""
		s.lastErr = appErrors.FromError(err).Message
		return err
	}

	s.app = app
	s.appID = app.ID
	s.lastErr = ""
	return nil
}

// Update PUTs a partial patch, then unconditionally re-fetches so client
// state picks up server-computed fields such as the next registration
// stage. It returns a success flag so callers can branch without a
// try/catch; the detail stays available via Err.
func (s *Application) Update(ctx context.Context, patch models.ApplicationUpdate) bool {
	s.mu.Lock()
	id := s.appID
	s.mu.Unlock()

	if id == "" {
		s.setErr("no application loaded")
		return false
	}

	if err := s.client.Put(ctx, "/applications/"+id, patch, nil); err != nil {
		s.logger.Warn("application update failed", zap.Error(err))
		s.setErr(appErrors.FromError(err).Message)
		return false
	}

	if err := s.Fetch(ctx); err != nil {
		return false
	}
	return true
}

// UpdateApplicant patches the nested applicant sub-resource, then
// re-fetches the application. Same success-flag contract as Update.
func (s *Application) UpdateApplicant(ctx context.Context, payload models.ApplicantUpdate) bool {
	if err := s.validate.Struct(payload); err != nil {
		s.setErr("invalid applicant details")
		return false
	}

	s.mu.Lock()
	var applicantID string
	if s.app != nil {
		applicantID = s.app.Applicant.ID
	}
	s.mu.Unlock()

	if applicantID == "" {
		s.setErr("no applicant loaded")
		return false
	}

	if err := s.client.Put(ctx, "/applicants/"+applicantID, payload, nil); err != nil {
		s.logger.Warn("applicant update failed", zap.Error(err))
		s.setErr(appErrors.FromError(err).Message)
		return false
	}

	if err := s.Fetch(ctx); err != nil {
		return false
	}
	return true
}

// Current returns the loaded application, or nil.
func (s *Application) Current() *models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.app == nil {
		return nil
	}
	cp := *s.app
	return &cp
}

// ID returns the loaded application's id, empty when nothing is loaded.
func (s *Application) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appID
}

// Err returns the last store-level error message, empty when healthy.
func (s *Application) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Application) setErr(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}
