// Package services реализует административные операции: просмотр заявок
// на роль организатора, их одобрение или отклонение и просмотр регистраций.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/social-hub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	"github.com/magabrotheeeer/social-hub/internal/models"
	"github.com/magabrotheeeer/social-hub/internal/services/errs"
	"github.com/magabrotheeeer/social-hub/internal/storage"
)

// Repository описывает операции хранилища, нужные администратору.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	TransitionApprovalStatus(ctx context.Context, userUID string, from, to models.ApprovalStatus, role string) (*models.User, error)
	ListUsersByApprovalStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.User, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListRegistrations(ctx context.Context, eventID string) ([]*models.Registration, error)
}

// Publisher отправляет сообщения в очередь уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// AdminService — сервис администратора.
type AdminService struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// NewAdminService создает новый экземпляр AdminService. publisher может быть nil,
// тогда уведомления не отправляются.
func NewAdminService(repo Repository, publisher Publisher, log *slog.Logger) *AdminService {
	return &AdminService{repo: repo, publisher: publisher, log: log}
}

// ListOrganizerRequests возвращает пользователей с заявкой в статусе pending.
func (s *AdminService) ListOrganizerRequests(ctx context.Context) ([]*models.User, error) {
	const op = "services.admin.ListOrganizerRequests"
	users, err := s.repo.ListUsersByApprovalStatus(ctx, models.ApprovalPending)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// ApproveOrganizer одобряет заявку и назначает пользователю роль Organizer.
func (s *AdminService) ApproveOrganizer(ctx context.Context, userUID string) (*models.User, error) {
	return s.decide(ctx, userUID, models.ApprovalApproved, models.RoleOrganizer)
}

// RejectOrganizer отклоняет заявку; роль пользователя не меняется.
func (s *AdminService) RejectOrganizer(ctx context.Context, userUID string) (*models.User, error) {
	return s.decide(ctx, userUID, models.ApprovalRejected, "")
}

func (s *AdminService) decide(ctx context.Context, userUID string, decision models.ApprovalStatus, role string) (*models.User, error) {
	const op = "services.admin.decide"
	log := s.log.With(sl.Op(op), slog.String("user_uid", userUID), slog.String("decision", string(decision)))

	u, err := s.repo.GetUser(ctx, userUID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !u.OrganizerApprovalStatus.CanTransitionTo(decision) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInvalidTransition)
	}

	updated, err := s.repo.TransitionApprovalStatus(ctx, userUID, u.OrganizerApprovalStatus, decision, role)
	switch {
	case errors.Is(err, storage.ErrConflict):
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInvalidTransition)
	case errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("organizer request decided")

	s.notify(log, updated, decision)
	return updated, nil
}

// notify публикует решение в очередь. Ошибка публикации только логируется:
// решение уже сохранено.
func (s *AdminService) notify(log *slog.Logger, u *models.User, decision models.ApprovalStatus) {
	if s.publisher == nil {
		return
	}
	msg := models.OrganizerDecision{
		UserUID:  u.UUID,
		Email:    u.Email,
		Name:     u.Name,
		Decision: decision,
	}
	if err := s.publisher.Publish(rabbitmq.OrganizerDecisionRoutingKey, msg); err != nil {
		log.Error("failed to publish organizer decision", sl.Err(err))
	}
}

// EventRegistrations возвращает регистрации на мероприятие.
func (s *AdminService) EventRegistrations(ctx context.Context, eventID string) ([]*models.Registration, error) {
	const op = "services.admin.EventRegistrations"
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	regs, err := s.repo.ListRegistrations(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return regs, nil
}
