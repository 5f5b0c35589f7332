// Package decide реализует одобрение и отклонение заявки на роль организатора.
package decide

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/social-hub/internal/http/response"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	"github.com/magabrotheeeer/social-hub/internal/metrics"
	"github.com/magabrotheeeer/social-hub/internal/models"
)

// Service описывает решения по заявкам.
type Service interface {
	ApproveOrganizer(ctx context.Context, userUID string) (*models.User, error)
	RejectOrganizer(ctx context.Context, userUID string) (*models.User, error)
}

// Handler обрабатывает PUT /admin/users/{id}/approve-organizer и
// PUT /admin/users/{id}/reject-organizer.
type Handler struct {
	log      *slog.Logger
	service  Service
	decision models.ApprovalStatus
}

// NewApprove создает Handler одобрения заявки.
func NewApprove(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, decision: models.ApprovalApproved}
}

// NewReject создает Handler отклонения заявки.
func NewReject(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, decision: models.ApprovalRejected}
}

// ServeHTTP godoc
// @Summary Одобрение заявки на роль организатора
// @Description Статус pending → approved, роль становится Organizer.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Заявка не в статусе pending"
// @Router /admin/users/{id}/approve-organizer [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.decide"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("decision", string(h.decision)),
	)

	userUID := chi.URLParam(r, "id")

	var (
		user *models.User
		err  error
	)
	if h.decision == models.ApprovalApproved {
		user, err = h.service.ApproveOrganizer(r.Context(), userUID)
	} else {
		user, err = h.service.RejectOrganizer(r.Context(), userUID)
	}
	if err != nil {
		log.Info("decision refused", slog.String("user_uid", userUID), sl.Err(err))
		code, body := response.FromServiceError(err)
		render.Status(r, code)
		render.JSON(w, r, body)
		return
	}

	metrics.OrganizerDecisions.WithLabelValues(string(h.decision)).Inc()
	log.Info("organizer request decided", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(user))
}
