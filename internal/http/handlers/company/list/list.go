// Package list реализует HTTP-обработчик получения каталога компаний.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subsync/internal/http/response"
	"github.com/magabrotheeeer/subsync/internal/lib/sl"
	"github.com/magabrotheeeer/subsync/internal/models"
)

// Handler обрабатывает запросы на получение всех компаний.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения каталога.
type Service interface {
	List(ctx context.Context) ([]models.Company, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список компаний
// @Tags Companies
// @Produce  json
// @Success 200 {object} response.Response "Список компаний"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /company [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	companies, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list companies", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("success to list companies", slog.Int("count", len(companies)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"companies": companies,
	}))
}
