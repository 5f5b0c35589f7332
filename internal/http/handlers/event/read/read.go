// Package read реализует HTTP-обработчик получения мероприятия по ID.
package read

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

// Service описывает чтение мероприятия.
type Service interface {
	Get(ctx context.Context, id string) (*models.Event, error)
}

// Handler обрабатывает GET /publicEvents/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мероприятие по ID
// @Tags Events
// @Produce json
// @Param id path string true "ID мероприятия"
// @Success 200 {object} response.Response{data=models.Event}
// @Failure 404 {object} response.ErrorResponse
// @Failure 429 {object} response.RateLimitedResponse
// @Router /publicEvents/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Info("failed to read event", slog.String("event_id", id), sl.Err(err))
		code, body := response.FromServiceError(err)
		render.Status(r, code)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(event))
}
