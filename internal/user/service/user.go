package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskhub/taskhub-backend/internal/user/domain"
	"github.com/taskhub/taskhub-backend/internal/user/repository"
	"github.com/taskhub/taskhub-backend/pkg/errors"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/principal"
)

// EventPublisher publishes user lifecycle events
type EventPublisher interface {
	PublishUserUpdated(ctx context.Context, user *domain.User)
}

// UserService handles user business logic
type UserService struct {
	userRepo  *repository.UserRepository
	publisher EventPublisher
	logger    *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, publisher EventPublisher, log *logger.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		publisher: publisher,
		logger:    log,
	}
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile updates the authenticated user's own profile
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, _ := s.userRepo.GetByEmail(ctx, *req.Email)
		if existing != nil && existing.ID != userID {
			return nil, errors.Conflict("email already in use")
		}
		user.Email = *req.Email
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Internal("failed to hash password")
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("profile updated")
	s.publisher.PublishUserUpdated(ctx, user)

	return user, nil
}

// List lists all users. Admin only.
func (s *UserService) List(ctx context.Context, p *principal.Principal) ([]*domain.PublicProfile, error) {
	if !principal.CanListUsers(p) {
		return nil, errors.Forbidden("admin role required")
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}

	return profiles, nil
}
