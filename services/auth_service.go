package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
	"github.com/Dosada05/arenarium/utils"
)

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.StaffUser, error)
	// EnsureStaff создаёт учётную запись, если такого email ещё нет.
	EnsureStaff(ctx context.Context, email, password string, role models.StaffRole) (*models.StaffUser, error)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	staffRepo repositories.StaffRepository
	logger    *slog.Logger
}

func NewAuthService(staffRepo repositories.StaffRepository, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		staffRepo: staffRepo,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.StaffUser, error) {
	user, err := s.staffRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrStaffNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find staff user by email: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) EnsureStaff(ctx context.Context, email, password string, role models.StaffRole) (*models.StaffUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !utils.IsValidEmail(email) {
		return nil, validationError("invalid email %q", email)
	}
	if len(password) < 8 {
		return nil, validationError("password must be at least 8 characters")
	}
	if role != models.RoleAdmin && role != models.RoleEditor {
		return nil, validationError("unknown staff role %q", role)
	}

	existing, err := s.staffRepo.GetByEmail(ctx, email)
	if err == nil {
		existing.PasswordHash = ""
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrStaffNotFound) {
		return nil, fmt.Errorf("failed to find staff user by email: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	user := &models.StaffUser{Email: email, PasswordHash: hash, Role: role}
	if err := s.staffRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrStaffEmailConflict) {
			return s.EnsureStaff(ctx, email, password, role)
		}
		return nil, fmt.Errorf("failed to create staff user: %w", err)
	}
	s.logger.Info("staff user created", slog.String("email", email), slog.String("role", string(role)))
	user.PasswordHash = ""
	return user, nil
}
