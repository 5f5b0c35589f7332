package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/social-hub/internal/migrations"
	"github.com/magabrotheeeer/social-hub/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		_ = pgContainer.Terminate(ctx)
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var s *Storage
	for range 10 {
		s, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")
	t.Cleanup(func() {
		_ = s.Close()
	})

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, filepath.Join(root, "migrations")))

	return s
}

// createUser сохраняет пользователя с уникальным email и возвращает его UID.
func createUser(t *testing.T, s *Storage, role string, status models.ApprovalStatus) string {
	t.Helper()
	uid, err := s.RegisterUser(context.Background(), models.User{
		Name:                    "User " + role,
		Email:                   uuid.NewString() + "@example.com",
		PasswordHash:            "hash",
		Role:                    role,
		OrganizerApprovalStatus: status,
	})
	require.NoError(t, err)
	return uid
}

func createEvent(t *testing.T, s *Storage, organizerUID string, capacity int) string {
	t.Helper()
	start := time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC)
	id, err := s.CreateEvent(context.Background(), models.Event{
		Title:       "Go meetup",
		Description: "talks about concurrency",
		Category:    "tech",
		Location:    "Berlin",
		StartsAt:    start,
		EndsAt:      start.Add(2 * time.Hour),
		Capacity:    capacity,
		OrganizerID: organizerUID,
	})
	require.NoError(t, err)
	return id
}
