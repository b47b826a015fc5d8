// Package create реализует HTTP-обработчик добавления компании в каталог.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subsync/internal/http/response"
	"github.com/magabrotheeeer/subsync/internal/lib/sl"
	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// Handler управляет HTTP-запросами на создание компаний.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания компании.
type Service interface {
	Create(ctx context.Context, req models.CreateCompanyRequest) (*models.Company, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить компанию
// @Description Добавляет компанию в каталог. Имя компании уникально.
// @Tags Companies
// @Accept  json
// @Produce  json
// @Param request body models.CreateCompanyRequest true "Данные компании"
// @Success 201 {object} response.Response "Созданная компания"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или имя уже занято"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /company [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	company, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, storage.ErrCompanyExists) {
			log.Info("company already exists", slog.String("name", req.Name))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("company with this name already exists"))
			return
		}
		log.Error("failed to create company", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("company created", slog.String("id", company.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"company": company,
	}))
}
