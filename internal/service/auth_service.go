package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketflow/ticketflow/internal/auth"
	"github.com/ticketflow/ticketflow/internal/config"
	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/events"
	"github.com/ticketflow/ticketflow/internal/repository"
	"github.com/ticketflow/ticketflow/internal/validation"
	apperrors "github.com/ticketflow/ticketflow/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTLMinute),
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// TokenManager exposes the signer used for session tokens.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterUser creates a new account.
func (s *AuthService) RegisterUser(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	user, err := s.users.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		event := events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRegistered,
			Actor:     user.Email,
			Timestamp: time.Now().UTC(),
			Payload:   events.UserRegisteredPayload{Name: user.Name},
		}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
		}
	}
	return user, nil
}

// LoginUser checks credentials and returns the session identity with a
// freshly signed token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (domain.Identity, string, error) {
	if errs := validation.ValidateLogin(email, password); !errs.OK() {
		return domain.Identity{}, "", apperrors.NewValidationError("login is invalid", errs)
	}
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return domain.Identity{}, "", err
	}
	id := domain.IdentityOf(user)
	token, _, err := s.tokenMgr.GenerateToken(id)
	if err != nil {
		return domain.Identity{}, "", apperrors.NewInternalError(err)
	}
	return id, token, nil
}
