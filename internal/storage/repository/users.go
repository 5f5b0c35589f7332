package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/social-hub/internal/models"
	"github.com/magabrotheeeer/social-hub/internal/storage"
)

const userColumns = `uid, name, email, password_hash, avatar, role, organizer_approval_status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var status string
	if err := row.Scan(&u.UUID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar,
		&u.Role, &status, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.OrganizerApprovalStatus = models.ApprovalStatus(status)
	return u, nil
}

// RegisterUser сохраняет нового пользователя и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	if err := ctxErr(ctx, op); err != nil {
		return "", err
	}

	query := `INSERT INTO users (name, email, password_hash, avatar, role, organizer_approval_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid`
	var newID string
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Avatar, user.Role,
		string(user.OrganizerApprovalStatus)).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, userUID)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// UpdateProfile обновляет имя, email и аватар пользователя. Если passwordHash
// пуст, пароль не меняется.
func (s *Storage) UpdateProfile(ctx context.Context, userUID, name, email, passwordHash, avatar string) (*models.User, error) {
	const op = "storage.UpdateProfile"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users
			  SET name = $1,
			      email = $2,
			      avatar = $3,
			      password_hash = COALESCE(NULLIF($4, ''), password_hash)
			  WHERE uid = $5
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, name, email, avatar, passwordHash, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// TransitionApprovalStatus переводит заявку пользователя из from в to. Если
// role не пуст, роль пользователя меняется в том же запросе. Переход в pending
// запоминает время подачи заявки. Если текущий статус уже не равен from,
// возвращается storage.ErrConflict.
func (s *Storage) TransitionApprovalStatus(ctx context.Context, userUID string, from, to models.ApprovalStatus, role string) (*models.User, error) {
	const op = "storage.TransitionApprovalStatus"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users
			  SET organizer_approval_status = $1::text,
			      role = COALESCE(NULLIF($2, ''), role),
			      organizer_requested_at = CASE WHEN $1::text = 'pending' THEN NOW() ELSE organizer_requested_at END
			  WHERE uid = $3 AND organizer_approval_status = $4
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, string(to), role, userUID, string(from)))
	if err == nil {
		return u, nil
	}
	err = mapError(err)
	if err == storage.ErrNotFound {
		if _, getErr := s.GetUser(ctx, userUID); getErr == nil {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

// ListUsersByApprovalStatus возвращает пользователей с заданным статусом заявки,
// раньше поданные заявки первыми. Пользователи без времени заявки идут в конце.
func (s *Storage) ListUsersByApprovalStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.User, error) {
	const op = "storage.ListUsersByApprovalStatus"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE organizer_approval_status = $1 ORDER BY organizer_requested_at NULLS LAST, created_at, uid`,
		string(status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
