package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/voluntr/volunteer-api/internal/email"
	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
	"github.com/voluntr/volunteer-api/internal/service/notification"
	"github.com/voluntr/volunteer-api/pkg/auth"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/logger"
)

const bcryptCost = 12

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	userRepo        repository.UserRepository
	jwtSvc          auth.JWTService
	notificationSvc notification.Service
	emailSvc        email.Service
	logger          *logger.Logger
}

func NewService(
	userRepo repository.UserRepository,
	jwtSvc auth.JWTService,
	notificationSvc notification.Service,
	emailSvc email.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		userRepo:        userRepo,
		jwtSvc:          jwtSvc,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		logger:          logger,
	}
}

// Register creates an active account and greets it with a welcome
// notification and email, both best-effort.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	role, ok := model.ParseRole(req.Role)
	if !ok || role == model.RoleAdmin {
		return nil, apperrors.Validation("invalid role", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hashed),
		Role:         role,
		Status:       model.UserStatusActive,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("email is already registered", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.notificationSvc != nil {
		_, err := s.notificationSvc.Create(ctx, user.ID,
			"Welcome to the platform",
			"Browse open opportunities and start volunteering.",
			model.NotificationTypeWelcome,
			model.NotificationPriorityNormal,
		)
		if err != nil {
			s.logger.Error(err, "failed to create welcome notification")
		}
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
			s.logger.Error(err, "failed to send welcome email")
		}
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthenticated("invalid credentials")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Status != model.UserStatusActive {
		return nil, apperrors.Forbidden("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthenticated("invalid credentials")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error(err, "failed to update login timestamp")
	}

	token, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtSvc.Expiry().Seconds()),
		User:        user,
	}, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}
