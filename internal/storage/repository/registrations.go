package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/social-hub/internal/models"
	"github.com/magabrotheeeer/social-hub/internal/storage"
)

// RegisterForEvent записывает пользователя на мероприятие. Вместимость
// проверяется под блокировкой строки мероприятия.
func (s *Storage) RegisterForEvent(ctx context.Context, eventID, userUID string) (*models.Registration, error) {
	const op = "storage.RegisterForEvent"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var capacity int
	if err := tx.QueryRowContext(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, eventID).
		Scan(&capacity); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	if capacity > 0 {
		var registered int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).
			Scan(&registered); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if registered >= capacity {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrEventFull)
		}
	}

	reg := &models.Registration{EventID: eventID, UserUID: userUID}
	if err := tx.QueryRowContext(ctx, `INSERT INTO registrations (event_id, user_uid)
			  VALUES ($1, $2)
			  RETURNING id, created_at`, eventID, userUID).Scan(&reg.ID, &reg.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reg, nil
}

// UnregisterFromEvent удаляет регистрацию пользователя.
func (s *Storage) UnregisterFromEvent(ctx context.Context, eventID, userUID string) error {
	const op = "storage.UnregisterFromEvent"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = $1 AND user_uid = $2`, eventID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return requireAffected(res, op)
}

// ListRegistrations возвращает регистрации мероприятия с данными участников.
func (s *Storage) ListRegistrations(ctx context.Context, eventID string) ([]*models.Registration, error) {
	const op = "storage.ListRegistrations"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT r.id, r.event_id, r.user_uid, u.name, u.email, r.created_at
			  FROM registrations r
			  JOIN users u ON u.uid = r.user_uid
			  WHERE r.event_id = $1
			  ORDER BY r.created_at, r.id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Registration, 0)
	for rows.Next() {
		r := &models.Registration{}
		if err := rows.Scan(&r.ID, &r.EventID, &r.UserUID, &r.UserName, &r.UserEmail, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
