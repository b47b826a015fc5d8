// Package read реализует HTTP-обработчик получения компании по имени.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subsync/internal/http/response"
	"github.com/magabrotheeeer/subsync/internal/lib/sl"
	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// Handler обрабатывает запросы на получение компании по имени.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения компании.
type Service interface {
	Get(ctx context.Context, name string) (*models.Company, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Компания по имени
// @Tags Companies
// @Produce  json
// @Param name path string true "Имя компании"
// @Success 200 {object} response.Response "Компания"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /company/{name} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.read"
	name := chi.URLParam(r, "name")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("name", name),
	)

	company, err := h.service.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrCompanyNotFound) {
			log.Info("company not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("company not found"))
			return
		}
		log.Error("failed to read company", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"company": company,
	}))
}
