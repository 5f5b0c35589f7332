package join

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/social-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/social-hub/internal/models"
	"github.com/magabrotheeeer/social-hub/internal/services/errs"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, userUID, eventID string) (*models.Registration, error) {
	args := m.Called(ctx, userUID, eventID)
	if res := args.Get(0); res != nil {
		return res.(*models.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestEventJoinHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{name: "registered", wantStatus: http.StatusCreated, wantBody: `"eventId":"e1"`},
		{name: "event full", serviceErr: errs.ErrEventFull, wantStatus: http.StatusConflict, wantBody: "event is full"},
		{name: "twice", serviceErr: errs.ErrAlreadyRegistered, wantStatus: http.StatusConflict, wantBody: "already registered"},
		{name: "no event", serviceErr: errs.ErrNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			call := svc.On("Register", mock.Anything, "u1", "e1")
			if tt.serviceErr != nil {
				call.Return(nil, tt.serviceErr).Once()
			} else {
				call.Return(&models.Registration{ID: 1, EventID: "e1", UserUID: "u1"}, nil).Once()
			}

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "e1")
			req := httptest.NewRequest(http.MethodPost, "/api/events/e1/register", nil)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithActor(ctx, models.Actor{UserUID: "u1", Role: models.RoleParticipant}))
			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
