// Package services реализует работу с профилем пользователя и заявкой
// на роль организатора.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/social-hub/internal/lib/password"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	"github.com/magabrotheeeer/social-hub/internal/models"
	"github.com/magabrotheeeer/social-hub/internal/services/errs"
	"github.com/magabrotheeeer/social-hub/internal/storage"
)

// UserRepository описывает операции хранилища, нужные сервису профиля.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userUID, name, email, passwordHash, avatar string) (*models.User, error)
	TransitionApprovalStatus(ctx context.Context, userUID string, from, to models.ApprovalStatus, role string) (*models.User, error)
}

// UserService — сервис профиля пользователя.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// GetProfile возвращает профиль пользователя.
func (s *UserService) GetProfile(ctx context.Context, userUID string) (*models.User, error) {
	const op = "services.user.GetProfile"
	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return u, nil
}

// UpdateProfile сохраняет имя, email и аватар. Пароль меняется, только если он передан.
func (s *UserService) UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "services.user.UpdateProfile"
	var hash string
	if upd.Password != "" {
		h, err := password.GetHash(upd.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		hash = h
	}
	u, err := s.repo.UpdateProfile(ctx, userUID, upd.Name, upd.Email, hash, upd.Avatar)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	s.log.Info("profile updated", sl.Op(op), slog.String("user_uid", userUID))
	return u, nil
}

// RequestOrganizer подаёт заявку на роль организатора. Подать её может только
// участник со статусом "not applied" или "rejected".
func (s *UserService) RequestOrganizer(ctx context.Context, userUID string) (*models.User, error) {
	const op = "services.user.RequestOrganizer"
	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	if u.Role != models.RoleParticipant {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrForbidden)
	}
	if !u.OrganizerApprovalStatus.CanTransitionTo(models.ApprovalPending) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInvalidTransition)
	}
	updated, err := s.repo.TransitionApprovalStatus(ctx, userUID, u.OrganizerApprovalStatus, models.ApprovalPending, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	s.log.Info("organizer request submitted", sl.Op(op), slog.String("user_uid", userUID))
	return updated, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return errs.ErrNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		return errs.ErrEmailTaken
	case errors.Is(err, storage.ErrConflict):
		return errs.ErrInvalidTransition
	}
	return err
}
