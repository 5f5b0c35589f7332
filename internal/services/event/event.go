// Package services реализует публичный каталог мероприятий, управление
// мероприятиями организаторами и запись участников.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/social-hub/internal/cache"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	"github.com/magabrotheeeer/social-hub/internal/models"
	"github.com/magabrotheeeer/social-hub/internal/services/errs"
	"github.com/magabrotheeeer/social-hub/internal/storage"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Repository описывает операции хранилища для мероприятий и регистраций.
type Repository interface {
	CreateEvent(ctx context.Context, event models.Event) (string, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, event models.Event) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	RegisterForEvent(ctx context.Context, eventID, userUID string) (*models.Registration, error)
	UnregisterFromEvent(ctx context.Context, eventID, userUID string) error
}

// Cache — кэш отдельных мероприятий.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// EventService — сервис мероприятий.
type EventService struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewEventService создает новый экземпляр EventService.
func NewEventService(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *EventService {
	return &EventService{repo: repo, cache: cache, ttl: ttl, log: log}
}

// List возвращает мероприятия по фильтру. Limit приводится к диапазону 1..100.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	const op = "services.event.List"
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	events, err := s.repo.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// Get возвращает мероприятие, сначала пробуя кэш. Ошибки кэша не мешают
// чтению из базы.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	const op = "services.event.Get"
	log := s.log.With(sl.Op(op), slog.String("event_id", id))

	var cached models.Event
	found, err := s.cache.Get(ctx, cache.EventKey(id), &cached)
	if err != nil {
		log.Warn("cache read failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	if err := s.cache.Set(ctx, cache.EventKey(id), e, s.ttl); err != nil {
		log.Warn("cache write failed", sl.Err(err))
	}
	return e, nil
}

// Create создает мероприятие от имени организатора или администратора.
func (s *EventService) Create(ctx context.Context, actor models.Actor, input models.DummyEvent) (*models.Event, error) {
	const op = "services.event.Create"
	if actor.Role != models.RoleOrganizer && !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrForbidden)
	}
	e, err := fromInput(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.OrganizerID = actor.UserUID

	id, err := s.repo.CreateEvent(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	created, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	s.log.Info("event created", sl.Op(op), slog.String("event_id", id), slog.String("organizer", actor.UserUID))
	return created, nil
}

// Update изменяет мероприятие. Разрешено владельцу и администратору.
func (s *EventService) Update(ctx context.Context, actor models.Actor, id string, input models.DummyEvent) (*models.Event, error) {
	const op = "services.event.Update"
	if err := s.checkOwner(ctx, actor, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e, err := fromInput(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.ID = id

	updated, err := s.repo.UpdateEvent(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// Delete удаляет мероприятие. Разрешено владельцу и администратору.
func (s *EventService) Delete(ctx context.Context, actor models.Actor, id string) error {
	const op = "services.event.Delete"
	if err := s.checkOwner(ctx, actor, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}
	s.invalidate(ctx, id)
	s.log.Info("event deleted", sl.Op(op), slog.String("event_id", id))
	return nil
}

// Register записывает пользователя на мероприятие с учетом вместимости.
func (s *EventService) Register(ctx context.Context, userUID, eventID string) (*models.Registration, error) {
	const op = "services.event.Register"
	reg, err := s.repo.RegisterForEvent(ctx, eventID, userUID)
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		return nil, fmt.Errorf("%s: %w", op, errs.ErrAlreadyRegistered)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	s.invalidate(ctx, eventID)
	return reg, nil
}

// Unregister отменяет запись пользователя.
func (s *EventService) Unregister(ctx context.Context, userUID, eventID string) error {
	const op = "services.event.Unregister"
	if err := s.repo.UnregisterFromEvent(ctx, eventID, userUID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, errs.ErrNotRegistered)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, eventID)
	return nil
}

func (s *EventService) checkOwner(ctx context.Context, actor models.Actor, id string) error {
	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return translate(err)
	}
	if e.OrganizerID != actor.UserUID && !actor.IsAdmin() {
		return errs.ErrForbidden
	}
	return nil
}

func (s *EventService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, cache.EventKey(id)); err != nil {
		s.log.Warn("cache invalidate failed", slog.String("event_id", id), sl.Err(err))
	}
}

func fromInput(input models.DummyEvent) (models.Event, error) {
	startsAt, err := time.Parse(time.RFC3339, input.StartsAt)
	if err != nil {
		return models.Event{}, fmt.Errorf("%w: startsAt must be RFC 3339", errs.ErrInvalidInput)
	}
	endsAt, err := time.Parse(time.RFC3339, input.EndsAt)
	if err != nil {
		return models.Event{}, fmt.Errorf("%w: endsAt must be RFC 3339", errs.ErrInvalidInput)
	}
	if endsAt.Before(startsAt) {
		return models.Event{}, fmt.Errorf("%w: endsAt is before startsAt", errs.ErrInvalidInput)
	}
	return models.Event{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Capacity:    input.Capacity,
		ImageURL:    input.ImageURL,
	}, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return errs.ErrNotFound
	case errors.Is(err, storage.ErrEventFull):
		return errs.ErrEventFull
	}
	return err
}
