package socialhub

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/social-hub/internal/config"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/health"
	"github.com/magabrotheeeer/social-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/social-hub/internal/models"
)

// fakeAuth принимает токен, равный роли пользователя.
type fakeAuth struct {
	AuthService
}

func (fakeAuth) ValidateToken(_ context.Context, token string) (models.Actor, error) {
	switch token {
	case models.RoleParticipant, models.RoleOrganizer, models.RoleAdmin:
		return models.Actor{UserUID: "uid-" + token, Role: token}, nil
	}
	return models.Actor{}, errors.New("bad token")
}

type fakeAdmin struct {
	AdminService
}

func (fakeAdmin) EventRegistrations(_ context.Context, eventID string) ([]*models.Registration, error) {
	return []*models.Registration{{ID: 1, EventID: eventID}}, nil
}

func (fakeAdmin) ListOrganizerRequests(context.Context) ([]*models.User, error) {
	return []*models.User{}, nil
}

func (fakeAdmin) ApproveOrganizer(_ context.Context, uid string) (*models.User, error) {
	return &models.User{UUID: uid, Role: models.RoleOrganizer, OrganizerApprovalStatus: models.ApprovalApproved}, nil
}

func (fakeAdmin) RejectOrganizer(_ context.Context, uid string) (*models.User, error) {
	return &models.User{UUID: uid, OrganizerApprovalStatus: models.ApprovalRejected}, nil
}

type fakeEvents struct {
	EventService
}

func (fakeEvents) Create(_ context.Context, actor models.Actor, _ models.DummyEvent) (*models.Event, error) {
	return &models.Event{ID: "e1", OrganizerID: actor.UserUID}, nil
}

func (fakeEvents) List(context.Context, models.EventFilter) ([]*models.Event, error) {
	return []*models.Event{}, nil
}

func newRouter(t *testing.T, limit config.RateLimit) http.Handler {
	t.Helper()
	limiter := middlewarectx.NewLimiterStore(limit)
	t.Cleanup(limiter.Stop)

	r := chi.NewRouter()
	RegisterRoutes(r, slog.New(slog.NewTextHandler(io.Discard, nil)), Services{
		Auth:   fakeAuth{},
		Events: fakeEvents{},
		Admin:  fakeAdmin{},
	}, limiter, map[string]health.Pinger{})
	return r
}

func do(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutes_Pipeline(t *testing.T) {
	h := newRouter(t, config.RateLimit{RequestsPerMinute: 6000, Burst: 100})

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"registrations without token", http.MethodGet, "/api/admin/events/e1/registrations", "", http.StatusUnauthorized},
		{"registrations as participant", http.MethodGet, "/api/admin/events/e1/registrations", models.RoleParticipant, http.StatusOK},
		{"registrations as organizer", http.MethodGet, "/api/admin/events/e1/registrations", models.RoleOrganizer, http.StatusOK},
		{"requests without token", http.MethodGet, "/api/admin/organizer-requests", "", http.StatusUnauthorized},
		{"requests as participant", http.MethodGet, "/api/admin/organizer-requests", models.RoleParticipant, http.StatusForbidden},
		{"requests as organizer", http.MethodGet, "/api/admin/organizer-requests", models.RoleOrganizer, http.StatusForbidden},
		{"requests as admin", http.MethodGet, "/api/admin/organizer-requests", models.RoleAdmin, http.StatusOK},
		{"approve as participant", http.MethodPut, "/api/admin/users/u1/approve-organizer", models.RoleParticipant, http.StatusForbidden},
		{"approve as admin", http.MethodPut, "/api/admin/users/u1/approve-organizer", models.RoleAdmin, http.StatusOK},
		{"reject with bad token", http.MethodPut, "/api/admin/users/u1/reject-organizer", "garbage", http.StatusUnauthorized},
		{"reject as admin", http.MethodPut, "/api/admin/users/u1/reject-organizer", models.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.path, tt.token)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestAdminRoutes_ForbiddenBody(t *testing.T) {
	h := newRouter(t, config.RateLimit{RequestsPerMinute: 6000, Burst: 100})

	rec := do(h, http.MethodGet, "/api/admin/organizer-requests", models.RoleParticipant)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"status":"Error","error":"access denied"}`, rec.Body.String())
}

func TestEventRoutes_CreateRequiresOrganizer(t *testing.T) {
	h := newRouter(t, config.RateLimit{RequestsPerMinute: 6000, Burst: 100})

	rec := do(h, http.MethodPost, "/api/events", models.RoleParticipant)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(h, http.MethodGet, "/api/publicEvents", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicRoutes_RateLimited(t *testing.T) {
	h := newRouter(t, config.RateLimit{RequestsPerMinute: 1, Burst: 1})

	first := do(h, http.MethodGet, "/api/publicEvents", "")
	require.Equal(t, http.StatusOK, first.Code)

	second := do(h, http.MethodGet, "/api/publicEvents", "")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), `"retryAfter":`)
}
