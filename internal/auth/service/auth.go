package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhub/taskhub-backend/internal/auth/jwt"
	"github.com/taskhub/taskhub-backend/internal/auth/repository"
	userdomain "github.com/taskhub/taskhub-backend/internal/user/domain"
	userrepo "github.com/taskhub/taskhub-backend/internal/user/repository"
	"github.com/taskhub/taskhub-backend/pkg/errors"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/principal"
)

// EventPublisher announces new registrations
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, user *userdomain.User)
}

// AuthService handles authentication business logic
type AuthService struct {
	userRepo    *userrepo.UserRepository
	sessionRepo *repository.SessionRepository
	jwtManager  *jwt.Manager
	events      EventPublisher
	logger      *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo *userrepo.UserRepository,
	sessionRepo *repository.SessionRepository,
	jwtManager *jwt.Manager,
	events EventPublisher,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtManager:  jwtManager,
		events:      events,
		logger:      log,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ClientInfo carries request metadata recorded on the session
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// AuthResponse is returned on successful register, login and refresh
type AuthResponse struct {
	User   *userdomain.PublicProfile `json:"user"`
	Tokens *jwt.TokenPair            `json:"tokens"`
}

// Register creates a new user account and logs it in
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest, client *ClientInfo) (*AuthResponse, error) {
	role := principal.RoleUser
	if req.Role != nil {
		parsed, err := principal.ParseRole(*req.Role)
		if err != nil {
			return nil, errors.Validation(map[string]string{"role": "must be admin or user"})
		}
		role = parsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	user := &userdomain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("user registered")

	s.events.PublishUserRegistered(ctx, user)

	tokens, err := s.createSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user.Profile(), Tokens: tokens}, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, client *ClientInfo) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.InvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.InvalidCredentials()
	}

	tokens, err := s.createSession(ctx, user, client)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return &AuthResponse{User: user.Profile(), Tokens: tokens}, nil
}

// Logout revokes the session identified by the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.Revoke(ctx, claims.SessionID); err != nil {
		if errors.IsNotFound(err) {
			return errors.TokenInvalid()
		}
		return err
	}

	s.logger.Info().Str("user_id", claims.UserID).Msg("user logged out")

	return nil
}

// Refresh exchanges a valid refresh token for a new token pair.
// The refresh token is rotated; the old one stops working.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.TokenInvalid()
		}
		return nil, err
	}

	if !session.Active() || session.ID != claims.SessionID {
		return nil, errors.TokenInvalid()
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	tokens, err := s.jwtManager.GenerateTokenPair(&jwt.UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}, session.ID)
	if err != nil {
		return nil, errors.Internal("failed to generate tokens")
	}

	expiresAt := time.Now().Add(s.jwtManager.GetRefreshExpiry())
	if err := s.sessionRepo.RotateRefreshToken(ctx, session.ID, tokens.RefreshToken, expiresAt); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.TokenInvalid()
		}
		return nil, err
	}

	return &AuthResponse{User: user.Profile(), Tokens: tokens}, nil
}

func (s *AuthService) createSession(ctx context.Context, user *userdomain.User, client *ClientInfo) (*jwt.TokenPair, error) {
	sessionID := uuid.New().String()

	tokens, err := s.jwtManager.GenerateTokenPair(&jwt.UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}, sessionID)
	if err != nil {
		return nil, errors.Internal("failed to generate tokens")
	}

	session := &repository.Session{
		ID:           sessionID,
		UserID:       user.ID,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.GetRefreshExpiry()),
	}
	if client != nil {
		session.UserAgent = client.UserAgent
		session.IPAddress = client.IPAddress
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return tokens, nil
}
