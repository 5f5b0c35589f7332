// Package services содержит логику регистрации, входа и проверки JWT.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/social-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/social-hub/internal/lib/password"
	"github.com/magabrotheeeer/social-hub/internal/models"
	"github.com/magabrotheeeer/social-hub/internal/services/errs"
	"github.com/magabrotheeeer/social-hub/internal/storage"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или storage.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID или storage.ErrNotFound.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает участника с хэшированным паролем. Новый пользователь
// всегда получает роль Participant и статус заявки "not applied".
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (string, error) {
	const op = "services.auth.Register"
	uid, err := s.create(ctx, name, email, rawPassword, models.RoleParticipant)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// CreateAdmin заводит администратора. Через HTTP администратора создать нельзя,
// только из командной строки сервера.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, rawPassword string) (string, error) {
	const op = "services.auth.CreateAdmin"
	uid, err := s.create(ctx, name, email, rawPassword, models.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

func (s *AuthService) create(ctx context.Context, name, email, rawPassword, role string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Name:                    name,
		Email:                   email,
		PasswordHash:            hashed,
		Role:                    role,
		OrganizerApprovalStatus: models.ApprovalNotApplied,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return "", errs.ErrEmailTaken
	}
	if err != nil {
		return "", err
	}
	return uid, nil
}

// Login проверяет пароль пользователя и выпускает JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Login"
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil, fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
	}
	token, err := s.jwtMaker.GenerateToken(user.UUID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает пользователя, от имени которого он выпущен.
// Роль берётся из базы: после одобрения заявки токен со старой ролью
// сразу получает права организатора.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (models.Actor, error) {
	const op = "services.auth.ValidateToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Actor{}, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUser(ctx, claims.UserUID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Actor{}, fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
	}
	if err != nil {
		return models.Actor{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.Actor{UserUID: user.UUID, Role: user.Role}, nil
}
