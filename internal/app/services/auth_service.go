package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolportal/internal/app/assembler"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/repositories"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/pkg/auth"
)

// AuthService signs users in against the backend and manages the portal
// sessions that hold their bearer tokens.
type AuthService struct {
	store      repositories.SessionStore
	backend    AuthBackend
	jwtService *auth.JWTService
	ttl        time.Duration
	now        func() time.Time
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	store repositories.SessionStore,
	backend AuthBackend,
	jwtService *auth.JWTService,
	ttl time.Duration,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:      store,
		backend:    backend,
		jwtService: jwtService,
		ttl:        ttl,
		now:        time.Now,
		logger:     logger.With().Str("service", "auth").Logger(),
	}
}

// LoginResult is a freshly created session and the signed token naming it.
type LoginResult struct {
	Session      *models.Session
	SessionToken string
}

// Login validates the form, exchanges the credentials upstream and opens a
// portal session. Missing fields fail before any request is made.
func (s *AuthService) Login(ctx context.Context, form models.FormState) (*LoginResult, error) {
	req, err := assembler.Login(form)
	if err != nil {
		return nil, err
	}

	token, err := s.backend.Login(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Info().Str("username", req.Username).Err(err).Msg("Login rejected")
		return nil, err
	}

	claims, err := auth.InspectUpstreamToken(token.AccessToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Could not read backend token claims")
		claims = &auth.UpstreamClaims{}
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(expiresAt) {
		expiresAt = claims.ExpiresAt
	}

	username := claims.Subject
	if username == "" {
		username = req.Username
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		Token:     token.AccessToken,
		Username:  username,
		Role:      claims.Role,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	signed, err := s.jwtService.IssueSessionToken(session.ID, username, expiresAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Str("role", session.Role).Str("sessionID", session.ID).Msg("User signed in")
	return &LoginResult{Session: session, SessionToken: signed}, nil
}

// Authenticate resolves a signed session token to its live session. Every
// failure wraps apperrors.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, sessionToken string) (*models.Session, error) {
	claims, err := s.jwtService.ValidateSessionToken(sessionToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	session, err := s.store.Get(ctx, claims.SessionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound, apperrors.ErrSessionExpired) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
		}
		return nil, err
	}
	return session, nil
}

// Logout removes the session. Removing an unknown session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, apperrors.ErrSessionNotFound) {
		return err
	}
	s.logger.Info().Str("sessionID", sessionID).Msg("User signed out")
	return nil
}

// SweepExpired deletes sessions that are past their expiry.
func (s *AuthService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug().Int64("removed", n).Msg("Expired sessions removed")
	}
	return n, nil
}

// RunSweeper calls SweepExpired every interval until ctx is done.
func (s *AuthService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Session sweep failed")
			}
		}
	}
}
