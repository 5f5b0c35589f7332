// Package leave реализует HTTP-обработчик отмены записи на мероприятие.
package leave

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/social-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/social-hub/internal/http/response"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
)

// Service описывает отмену записи.
type Service interface {
	Unregister(ctx context.Context, userUID, eventID string) error
}

// Handler обрабатывает DELETE /events/{id}/register.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отмена записи на мероприятие
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID мероприятия"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /events/{id}/register [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.leave"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}
	eventID := chi.URLParam(r, "id")

	if err := h.service.Unregister(r.Context(), actor.UserUID, eventID); err != nil {
		log.Info("unregister failed", slog.String("event_id", eventID), sl.Err(err))
		code, body := response.FromServiceError(err)
		render.Status(r, code)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]string{"eventId": eventID}))
}
