// Package enroll реализует HTTP-обработчик оформления подписки.
//
// Если у пользователя уже есть подписка с таким именем, она снова становится активной,
// и вместо пользователя возвращается сообщение о повторной активации.
package enroll

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subsync/internal/cache"
	"github.com/magabrotheeeer/subsync/internal/http/response"
	"github.com/magabrotheeeer/subsync/internal/lib/sl"
	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/services/subscription"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// ReactivatedMessage возвращается, когда подписка с таким именем уже была у пользователя.
const ReactivatedMessage = "subscription already exists and is now active"

// Handler обрабатывает запросы на оформление подписки.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис жизненного цикла подписок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	Enroll(ctx context.Context, walletAddress string, req models.EnrollRequest) (*subscription.EnrollResult, error)
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
// @Summary Оформить подписку
// @Description Добавляет подписку пользователю или повторно активирует существующую с тем же именем.
// @Description При повторной активации цена не меняется, перезаписываются адрес, интервал и время старта.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param walletAddress path string true "Адрес кошелька"
// @Param request body models.EnrollRequest true "Данные подписки"
// @Success 200 {object} response.Response "Пользователь или сообщение о повторной активации"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Адрес подписки занят другим пользователем"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Подписки пользователя сейчас изменяются"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /user/{walletAddress}/enroll [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.enroll"
	walletAddress := chi.URLParam(r, "walletAddress")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Wallet(walletAddress),
	)

	var req models.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	res, err := h.service.Enroll(r.Context(), walletAddress, req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			log.Info("user not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, storage.ErrSubscriptionAddressTaken):
			log.Info("subscription address taken", slog.String("subscription_address", req.SubscriptionAddress))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("subscription address is already in use"))
		case errors.Is(err, cache.ErrLockTimeout):
			log.Warn("user subscriptions are locked", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("subscriptions are being modified, retry later"))
		default:
			log.Error("failed to enroll subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
		}
		return
	}

	if res.Reactivated {
		log.Info("subscription reactivated", slog.String("name", req.Name))
		render.JSON(w, r, response.OKWithData(map[string]any{
			"message": ReactivatedMessage,
		}))
		return
	}

	log.Info("subscription enrolled", slog.String("name", req.Name))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": res.User,
	}))
}
