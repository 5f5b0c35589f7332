// Package join реализует HTTP-обработчик записи на мероприятие.
package join

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
	"github.com/magabrotheeeer/social-hub/internal/models"
)

// Service описывает запись на мероприятие.
type Service interface {
	Register(ctx context.Context, userUID, eventID string) (*models.Registration, error)
}

// Handler обрабатывает POST /events/{id}/register.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Запись на мероприятие
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID мероприятия"
// @Success 201 {object} response.Response{data=models.Registration}
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Мест нет или пользователь уже записан"
// @Router /events/{id}/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.join"

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

	reg, err := h.service.Register(r.Context(), actor.UserUID, eventID)
	if err != nil {
		log.Info("registration refused", slog.String("event_id", eventID), sl.Err(err))
		code, body := response.FromServiceError(err)
		render.Status(r, code)
		render.JSON(w, r, body)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(reg))
}
