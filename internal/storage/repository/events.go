package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/social-hub/internal/models"
	"github.com/magabrotheeeer/social-hub/internal/storage"
)

const eventColumns = `e.id, e.title, e.description, e.category, e.location, e.starts_at, e.ends_at,
	e.capacity, (SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id),
	e.organizer_uid, e.image_url, e.created_at`

func scanEvent(row rowScanner) (*models.Event, error) {
	e := &models.Event{}
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &e.Location,
		&e.StartsAt, &e.EndsAt, &e.Capacity, &e.Registered, &e.OrganizerID,
		&e.ImageURL, &e.CreatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateEvent сохраняет мероприятие и возвращает его ID.
func (s *Storage) CreateEvent(ctx context.Context, event models.Event) (string, error) {
	const op = "storage.CreateEvent"
	if err := ctxErr(ctx, op); err != nil {
		return "", err
	}

	query := `INSERT INTO events (title, description, category, location, starts_at, ends_at,
			      capacity, organizer_uid, image_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var id string
	if err := s.DB.QueryRowContext(ctx, query,
		event.Title, event.Description, event.Category, event.Location, event.StartsAt,
		event.EndsAt, event.Capacity, event.OrganizerID, event.ImageURL).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapError(err))
	}
	return id, nil
}

// GetEvent возвращает мероприятие по ID вместе с числом регистраций.
func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	const op = "storage.GetEvent"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	e, err := scanEvent(s.DB.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return e, nil
}

// ListEvents возвращает мероприятия по фильтру, ближайшие первыми.
func (s *Storage) ListEvents(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	const op = "storage.ListEvents"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(e.title ILIKE $%d OR e.description ILIKE $%d)", len(args), len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("e.category = $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + ` FROM events e`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY e.starts_at, e.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateEvent обновляет изменяемые поля мероприятия.
func (s *Storage) UpdateEvent(ctx context.Context, event models.Event) (*models.Event, error) {
	const op = "storage.UpdateEvent"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE events
			  SET title = $1, description = $2, category = $3, location = $4,
			      starts_at = $5, ends_at = $6, capacity = $7, image_url = $8
			  WHERE id = $9`,
		event.Title, event.Description, event.Category, event.Location,
		event.StartsAt, event.EndsAt, event.Capacity, event.ImageURL, event.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err := requireAffected(res, op); err != nil {
		return nil, err
	}
	return s.GetEvent(ctx, event.ID)
}

// DeleteEvent удаляет мероприятие вместе с регистрациями.
func (s *Storage) DeleteEvent(ctx context.Context, id string) error {
	const op = "storage.DeleteEvent"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return requireAffected(res, op)
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
