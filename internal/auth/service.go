// Package auth orchestrates the account screens: register, login, logout.
// Credentials are forwarded to the backend untouched; on success the opaque
// user identifier from the login response becomes the browser session.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/viannadoces/doceria-web/internal/backend"
	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/pkg/session"
)

type backendAPI interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
}

type sessionWriter interface {
	Issue(ctx context.Context, w http.ResponseWriter, userID string) (*session.Session, error)
	Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Service drives the auth flows.
type Service struct {
	api      backendAPI
	sessions sessionWriter
	log      *logger.Logger
}

func NewService(api backendAPI, sessions sessionWriter, log *logger.Logger) *Service {
	return &Service{api: api, sessions: sessions, log: log}
}

// Register creates a new account and returns the backend's confirmation
// message for the feedback banner.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	message, err := s.api.Register(ctx, email, password)
	if err != nil {
		return "", err
	}
	s.log.Info(s.log.WithField(ctx, "email", email), "account registered")
	return message, nil
}

// Login authenticates against the backend and, on success, issues the browser
// session carrying the returned user identifier verbatim.
func (s *Service) Login(ctx context.Context, w http.ResponseWriter, email, password string) (*session.Session, error) {
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.UserID) == "" {
		// A success status without an identifier is a broken response, not a
		// rejection; the user sees the generic connection message.
		return nil, pkgerrors.New(pkgerrors.CodeBackendUnreachable, "login response missing user id")
	}

	sess, err := s.sessions.Issue(ctx, w, result.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue session")
	}
	s.log.Info(s.log.WithUserID(ctx, sess.UserID), "session issued")
	return sess, nil
}

// Logout revokes the current session. Clearing an absent session is a no-op.
func (s *Service) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := s.sessions.Clear(ctx, w, r); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear session")
	}
	s.log.Info(ctx, "session cleared")
	return nil
}
