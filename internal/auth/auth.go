// Package auth signs the operator in and out of the REST API and keeps the
// session manager in step.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/forms"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/internal/session"
	"github.com/me/shipdesk/pkg/model"
)

// Service runs the login and logout flows.
type Service struct {
	api      *api.AuthService
	sessions *session.Manager
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates an auth service. A nil notifier discards notifications.
func NewService(a *api.AuthService, sessions *session.Manager, n notify.Notifier, logger *slog.Logger) *Service {
	if n == nil {
		n = notify.Discard
	}
	return &Service{
		api:      a,
		sessions: sessions,
		notifier: n,
		logger:   logger.With("component", "auth"),
	}
}

// Login validates the form, exchanges it for a session and stores it.
// On any failure the stored session is left as it was.
func (s *Service) Login(ctx context.Context, form forms.LoginForm) (*model.Session, error) {
	if fe := forms.Validate(&form); fe != nil {
		return nil, fe
	}

	pending := s.notifier.Loading("Signing in")
	resp, err := s.api.Login(ctx, form.Credentials())
	if err != nil {
		s.logger.Warn("login failed", "username", form.Username, "error", err)
		pending.Error("Login failed", model.ErrorMessage(err))
		return nil, fmt.Errorf("login: %w", err)
	}

	sess := &model.Session{User: *resp.User, Token: resp.BearerToken()}
	if err := s.sessions.Set(ctx, sess); err != nil {
		pending.Error("Login failed", "The session could not be saved.")
		return nil, err
	}

	s.logger.Info("logged in", "username", sess.User.Username, "role", sess.User.Role)
	pending.Success("Logged in", "Welcome, "+sess.User.DisplayName())
	return sess, nil
}

// Logout drops the local session first, then revokes the token remotely.
// A remote failure is logged only. A failure to purge the persisted copy
// still revokes the token and is returned afterwards.
func (s *Service) Logout(ctx context.Context) error {
	prev, ok := s.sessions.Get()
	clearErr := s.sessions.Clear(ctx)
	if clearErr != nil {
		s.logger.Error("purge persisted session failed", "error", clearErr)
	}
	if ok && prev.Token != "" {
		if err := s.api.Logout(ctx, prev.Token); err != nil {
			s.logger.Warn("remote logout failed", "username", prev.User.Username, "error", err)
		} else {
			s.logger.Info("logged out", "username", prev.User.Username)
		}
	}
	if clearErr != nil {
		return fmt.Errorf("logout: %w", clearErr)
	}
	return nil
}
