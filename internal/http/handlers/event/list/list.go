// Package list реализует публичный список мероприятий с поиском и фильтром по категории.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/social-hub/internal/http/response"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	"github.com/magabrotheeeer/social-hub/internal/models"
)

// Service описывает получение списка мероприятий.
type Service interface {
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
}

// Handler обрабатывает GET /publicEvents.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список мероприятий
// @Tags Events
// @Produce json
// @Param search query string false "Подстрока в названии или описании"
// @Param category query string false "Категория"
// @Param limit query int false "Размер страницы, по умолчанию 20, максимум 100"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.Event}
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.RateLimitedResponse
// @Router /publicEvents [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	filter := models.EventFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("limit must be an integer"))
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("offset must be an integer"))
		return
	}

	events, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		code, body := response.FromServiceError(err)
		render.Status(r, code)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(events))
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
