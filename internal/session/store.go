// Package session tracks whether an applicant is logged in and keeps the
// token pair alive between runs.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/internal/api"
	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/pkg/config"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

// Store holds the authentication flag and the applicant's profile. It is
// constructed once in main and passed down; mutation goes through its
// methods only.
type Store struct {
	mu        sync.Mutex
	client    *api.Client
	tokens    TokenStore
	validate  *validator.Validate
	logger    *zap.Logger
	cfg       config.SessionConfig
	loggedIn  bool
	user      models.UserInfo
}

// New constructs a session store.
func New(client *api.Client, tokens TokenStore, validate *validator.Validate, logger *zap.Logger, cfg config.SessionConfig) *Store {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, tokens: tokens, validate: validate, logger: logger, cfg: cfg}
}

// Login exchanges the voucher PIN/serial pair for tokens. Unlike the other
// store actions, login errors propagate so the caller picks the message.
func (s *Store) Login(ctx context.Context, pin, serial string) error {
	req := models.LoginRequest{PIN: pin, Serial: serial}
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "PIN and serial number are required")
	}

	resp := &models.LoginResponse{}
	if err := s.client.Post(ctx, "/auth/login", req, resp); err != nil {
		return err
	}

	now := time.Now()
	if err := s.tokens.Save(
		Token{Value: resp.AccessToken, ExpiresAt: now.Add(s.cfg.AccessTTL)},
		Token{Value: resp.RefreshToken, ExpiresAt: now.Add(s.cfg.RefreshTTL)},
	); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	s.mu.Lock()
	s.loggedIn = true
	s.user = resp.User
	s.mu.Unlock()

	s.logger.Info("logged in", zap.String("applicant", resp.User.ID))
	return nil
}

// Check restores the session from the stored access token. The client has
// no signing key, so claims are decoded without verification purely for
// the expiry and subject; the server remains the authority on every call.
func (s *Store) Check() bool {
	raw, ok := s.tokens.AccessToken()
	if !ok {
		s.clear()
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		s.logger.Warn("stored access token unreadable", zap.Error(err))
		s.clear()
		return false
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && time.Now().After(exp.Time) {
		s.clear()
		return false
	}

	s.mu.Lock()
	s.loggedIn = true
	if sub, err := claims.GetSubject(); err == nil && s.user.ID == "" {
		s.user.ID = sub
	}
	s.mu.Unlock()
	return true
}

// Refresh would exchange the refresh token for a new access token.
// TODO: wire to POST /auth/refresh when the API ships it; until then every
// expiry falls through to logout.
func (s *Store) Refresh(ctx context.Context) error {
	return appErrors.Clone(appErrors.ErrSessionExpired, "")
}

// Logout clears tokens and state. It never fails; storage errors are logged.
func (s *Store) Logout() {
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("failed to clear stored tokens", zap.Error(err))
	}
	s.clear()
}

// Clear drops in-memory session state. The API client calls this through
// the unauthorized hook when a request comes back 401/403.
func (s *Store) Clear() {
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("failed to clear stored tokens", zap.Error(err))
	}
	s.clear()
}

func (s *Store) clear() {
	s.mu.Lock()
	s.loggedIn = false
	s.user = models.UserInfo{}
	s.mu.Unlock()
}

// Authenticated reports whether an applicant is logged in.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// User returns the logged-in applicant's identity.
func (s *Store) User() models.UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}
