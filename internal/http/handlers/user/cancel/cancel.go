// Package cancel реализует HTTP-обработчик отмены подписки.
package cancel

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

// IgnoredMessage возвращается, если метод отмены не распознан.
const IgnoredMessage = "unsupported method, subscription left unchanged"

// Handler обрабатывает запросы на отмену подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Cancel(ctx context.Context, walletAddress string, req models.CancelRequest) (*subscription.CancelResult, error)
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
// @Summary Отменить подписку
// @Description Делает подписку неактивной. Подписка остаётся в списке. Распознаётся только метод "cancel".
// @Tags Users
// @Accept  json
// @Produce  json
// @Param walletAddress path string true "Адрес кошелька"
// @Param request body models.CancelRequest true "Имя подписки и метод"
// @Success 200 {object} response.Response "Отменённая подписка или сообщение о неизвестном методе"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь или подписка не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /user/{walletAddress}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.cancel"
	walletAddress := chi.URLParam(r, "walletAddress")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		sl.Wallet(walletAddress),
	)

	var req models.CancelRequest
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

	res, err := h.service.Cancel(r.Context(), walletAddress, req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			log.Info("user not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, subscription.ErrSubscriptionNotFound):
			log.Info("subscription not found", slog.String("name", req.Name))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
		case errors.Is(err, cache.ErrLockTimeout):
			log.Warn("user subscriptions are locked", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("subscriptions are being modified, retry later"))
		default:
			log.Error("failed to cancel subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
		}
		return
	}

	if !res.Changed {
		render.JSON(w, r, response.OKWithData(map[string]any{
			"message": IgnoredMessage,
		}))
		return
	}

	log.Info("subscription cancelled", slog.String("name", req.Name))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": res.Subscription,
	}))
}
