// Package registrations реализует просмотр записей на мероприятие.
package registrations

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/social-hub/internal/http/response"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	"github.com/magabrotheeeer/social-hub/internal/models"
)

// Service описывает получение регистраций.
type Service interface {
	EventRegistrations(ctx context.Context, eventID string) ([]*models.Registration, error)
}

// Handler обрабатывает GET /admin/events/{eventId}/registrations.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Регистрации на мероприятие
// @Description Доступно любому аутентифицированному пользователю.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "ID мероприятия"
// @Success 200 {object} response.Response{data=[]models.Registration}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/events/{eventId}/registrations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.registrations"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	eventID := chi.URLParam(r, "eventId")
	regs, err := h.service.EventRegistrations(r.Context(), eventID)
	if err != nil {
		log.Info("failed to list registrations", slog.String("event_id", eventID), sl.Err(err))
		code, body := response.FromServiceError(err)
		render.Status(r, code)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(regs))
}
