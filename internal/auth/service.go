package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/models"
)

// CredentialStore creates users and verifies their passwords.
type CredentialStore interface {
	Register(ctx context.Context, name, username, password string) (*models.User, error)
	Verify(ctx context.Context, username, password string) (*models.User, error)
}

// Denylist tracks tokens revoked before their expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Service implements signup, signin and token authentication.
type Service struct {
	creds    CredentialStore
	tokens   *TokenManager
	denylist Denylist
	logger   *slog.Logger
}

// NewService builds the auth service. denylist may be nil, in which case
// tokens stay valid until they expire.
func NewService(creds CredentialStore, tokens *TokenManager, denylist Denylist, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{creds: creds, tokens: tokens, denylist: denylist, logger: logger}
}

// CanRevoke reports whether Signout has anywhere to record revocations.
func (s *Service) CanRevoke() bool { return s.denylist != nil }

// Signup registers a new user.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	if err := models.Validate(req); err != nil {
		return nil, apperr.Validation("Please include both username and password to signup.")
	}
	user, err := s.creds.Register(ctx, req.Name, req.Username, req.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			s.logger.Info("signup rejected: username taken", slog.String("username", req.Username))
		}
		return nil, err
	}
	s.logger.Info("user signed up", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// Signin verifies credentials and returns a signed token.
func (s *Service) Signin(ctx context.Context, req models.SigninRequest) (string, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := models.Validate(req); err != nil {
		return "", err
	}
	user, err := s.creds.Verify(ctx, req.Username, req.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			s.logger.Info("signin failed", slog.String("username", req.Username))
		}
		return "", err
	}
	token, _, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", apperr.Storage("issue token", err)
	}
	s.logger.Info("user signed in", slog.String("user_id", user.ID))
	return token, nil
}

// Authenticate verifies a bearer token and returns the identity it asserts.
func (s *Service) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug("token rejected", slog.String("error", err.Error()))
		return nil, apperr.Unauthorized("invalid token")
	}
	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperr.Storage("check token revocation", fmt.Errorf("denylist: %w", err))
		}
		if revoked {
			return nil, apperr.Unauthorized("token revoked")
		}
	}
	id := &Identity{UserID: claims.UserID, Username: claims.Username, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Signout revokes the token the identity was authenticated with.
func (s *Service) Signout(ctx context.Context, id *Identity) error {
	if id == nil {
		return apperr.Unauthorized("not authenticated")
	}
	if s.denylist == nil || id.TokenID == "" {
		return nil
	}
	if err := s.denylist.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		return apperr.Storage("revoke token", fmt.Errorf("denylist: %w", err))
	}
	s.logger.Info("user signed out", slog.String("user_id", id.UserID))
	return nil
}
