package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fluentview/fluentview-client/internal/api"
	domainerrors "github.com/fluentview/fluentview-client/internal/errors"
	"github.com/fluentview/fluentview-client/internal/store"
)

// AuthService drives the backend's login flow: an ephemeral account is
// created first, an email is attached to it, and the emailed code is
// exchanged for a durable bearer token. The token is the only credential the
// rest of the client uses.
type AuthService struct {
	store  *store.Store
	api    *api.Client
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store *store.Store, api *api.Client, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		api:    api,
		logger: logger,
	}
}

// RegisterRequest carries the email to attach to an ephemeral account.
type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyRequest carries the emailed verification code.
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// NewEphemeralAccount creates an anonymous account and returns its temporary
// token. The token is not persisted; it only bridges the register/verify steps.
func (s *AuthService) NewEphemeralAccount(ctx context.Context) (string, error) {
	token, err := s.api.NewEphemeralAccount(ctx)
	if err != nil {
		return "", fmt.Errorf("create ephemeral account: %w", err)
	}

	s.logger.Debug("ephemeral account created")
	return token, nil
}

// Register attaches an email to the ephemeral account; the server mails a
// verification code.
func (s *AuthService) Register(ctx context.Context, tempToken string, req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	if tempToken == "" {
		return domainerrors.Unauthorized("no temporary token available")
	}

	if err := s.api.Register(ctx, tempToken, req.Email); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	s.logger.Info("registration email sent", "email", req.Email)
	return nil
}

// Verify exchanges the emailed code for a durable token and persists it.
func (s *AuthService) Verify(ctx context.Context, tempToken string, req VerifyRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", formatValidationError(err)
	}
	if tempToken == "" {
		return "", domainerrors.Unauthorized("no temporary token available")
	}

	token, err := s.api.Verify(ctx, tempToken, req.Email, req.Code)
	if err != nil {
		return "", fmt.Errorf("verify: %w", err)
	}

	if err := s.store.SetToken(ctx, token); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}

	s.logger.Info("login verified", "email", req.Email)
	return token, nil
}

// Token returns the persisted bearer token. ErrUnauthorized means logged out.
func (s *AuthService) Token(ctx context.Context) (string, error) {
	token, err := s.store.GetToken(ctx)
	if domainerrors.Is(err, store.ErrKeyNotFound) {
		return "", domainerrors.Unauthorized("not logged in")
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

// Logout wipes everything the client persists: token, progress, and catalog
// caches.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear local data: %w", err)
	}

	s.logger.Info("logged out, local data cleared")
	return nil
}
