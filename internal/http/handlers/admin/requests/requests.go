// Package requests реализует список заявок на роль организатора.
package requests

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/social-hub/internal/http/response"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	"github.com/magabrotheeeer/social-hub/internal/models"
)

// Service описывает получение заявок.
type Service interface {
	ListOrganizerRequests(ctx context.Context) ([]*models.User, error)
}

// Handler обрабатывает GET /admin/organizer-requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заявки на роль организатора
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.User}
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/organizer-requests [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.requests"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.ListOrganizerRequests(r.Context())
	if err != nil {
		log.Error("failed to list organizer requests", sl.Err(err))
		code, body := response.FromServiceError(err)
		render.Status(r, code)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(users))
}
