// Package subscription содержит бизнес-логику жизненного цикла подписок:
// просмотр списка, оформление (или повторную активацию) и отмену подписки
// пользователя. Подписки живут внутри документа пользователя, поэтому каждая
// операция читает документ, меняет список в памяти и записывает документ целиком.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/subsync/internal/lib/sl"
	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// ErrSubscriptionNotFound возвращается при отмене подписки, которой нет у пользователя.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// subscriptionsCacheTTL ограничивает жизнь записи, если обновить кеш после изменения не удалось.
const subscriptionsCacheTTL = time.Minute

var operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "subsync_subscription_operations_total",
	Help: "Subscription lifecycle operations by result.",
}, []string{"operation", "result"})

// UserRepository определяет методы хранилища, нужные сервису подписок.
type UserRepository interface {
	// GetUserByWallet возвращает пользователя по адресу кошелька.
	GetUserByWallet(ctx context.Context, walletAddress string) (*models.User, error)
	// SaveUser перезаписывает документ пользователя целиком.
	SaveUser(ctx context.Context, user *models.User) error
}

// Cache описывает методы для кеширования списков подписок. Записи версионируются:
// SetVersioned не перезаписывает более новую версию списка более старой.
type Cache interface {
	GetVersioned(ctx context.Context, key string, result any) (bool, error)
	SetVersioned(ctx context.Context, key string, version int64, value any, expiration time.Duration) (bool, error)
	Invalidate(ctx context.Context, keys ...string) error
}

// Locker сериализует изменения подписок одного пользователя.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Publisher отправляет события жизненного цикла подписки.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// NoLock не блокирует ничего: при одновременных изменениях побеждает последняя запись.
type NoLock struct{}

// Lock сразу возвращает пустую функцию освобождения.
func (NoLock) Lock(context.Context, string) (func(), error) { return func() {}, nil }

// EnrollResult описывает результат оформления подписки.
type EnrollResult struct {
	User        *models.User
	Reactivated bool // подписка с таким именем уже была и снова активирована
}

// CancelResult описывает результат запроса на отмену подписки.
type CancelResult struct {
	Subscription models.Subscription
	Changed      bool // false, если метод не распознан и ничего не изменено
}

// SubscriptionService реализует жизненный цикл подписок пользователя.
type SubscriptionService struct {
	repo      UserRepository
	cache     Cache
	locker    Locker
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo UserRepository, cache Cache, locker Locker, publisher Publisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		cache:     cache,
		locker:    locker,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// List возвращает все подписки пользователя в порядке добавления, включая неактивные.
func (s *SubscriptionService) List(ctx context.Context, walletAddress string) ([]models.Subscription, error) {
	const op = "services.subscription.List"
	log := s.log.With(slog.String("op", op), sl.Wallet(walletAddress))

	key := cacheKey(walletAddress)
	var cached []models.Subscription
	found, err := s.cache.GetVersioned(ctx, key, &cached)
	if err != nil {
		log.Warn("failed to read subscriptions from cache", sl.Err(err))
	}
	if found && cached != nil {
		operations.WithLabelValues("list", "cached").Inc()
		return cached, nil
	}

	user, err := s.repo.GetUserByWallet(ctx, walletAddress)
	if err != nil {
		s.observe("list", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subs := user.Subscriptions
	if subs == nil {
		subs = []models.Subscription{}
	}
	// Пока документ читался, его могли изменить; устаревший список не затрёт свежий.
	if _, err := s.cache.SetVersioned(ctx, key, cacheVersion(user), subs, subscriptionsCacheTTL); err != nil {
		log.Warn("failed to cache subscriptions", sl.Err(err))
	}

	operations.WithLabelValues("list", "ok").Inc()
	return subs, nil
}

// Enroll оформляет подписку. Если у пользователя уже есть подписка с таким именем,
// она перезаписывается (адрес, интервал, время старта) и снова становится активной;
// цена при этом не меняется и новая запись не добавляется.
func (s *SubscriptionService) Enroll(ctx context.Context, walletAddress string, req models.EnrollRequest) (*EnrollResult, error) {
	const op = "services.subscription.Enroll"
	log := s.log.With(slog.String("op", op), sl.Wallet(walletAddress))

	unlock, err := s.locker.Lock(ctx, lockKey(walletAddress))
	if err != nil {
		s.observe("enroll", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer unlock()

	user, err := s.repo.GetUserByWallet(ctx, walletAddress)
	if err != nil {
		s.observe("enroll", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	result := &EnrollResult{User: user}

	var sub models.Subscription
	if i := user.FindSubscription(req.Name); i >= 0 {
		existing := &user.Subscriptions[i]
		existing.SubscriptionAddress = req.SubscriptionAddress
		existing.Interval = req.Interval
		existing.IsActive = true
		existing.StartTime = now
		existing.UpdatedAt = now
		sub = *existing
		result.Reactivated = true
	} else {
		sub = models.Subscription{
			ID:                  uuid.NewString(),
			Name:                req.Name,
			SubscriptionAddress: req.SubscriptionAddress,
			Price:               req.Price,
			Interval:            req.Interval,
			IsActive:            true,
			StartTime:           now,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		user.Subscriptions = append(user.Subscriptions, sub)
	}
	user.UpdatedAt = now

	if err := s.repo.SaveUser(ctx, user); err != nil {
		s.observe("enroll", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	action := models.ActionEnrolled
	if result.Reactivated {
		action = models.ActionReactivated
	}
	log.Info("subscription enrolled", slog.String("name", sub.Name), slog.String("action", action))
	operations.WithLabelValues("enroll", action).Inc()

	s.afterWrite(ctx, log, user, action, sub)
	return result, nil
}

// Cancel отключает подписку с именем req.Name. Распознаётся только метод
// models.MethodCancel; для любого другого метода список не меняется.
// Подписка никогда не удаляется из списка.
func (s *SubscriptionService) Cancel(ctx context.Context, walletAddress string, req models.CancelRequest) (*CancelResult, error) {
	const op = "services.subscription.Cancel"
	log := s.log.With(slog.String("op", op), sl.Wallet(walletAddress))

	unlock, err := s.locker.Lock(ctx, lockKey(walletAddress))
	if err != nil {
		s.observe("cancel", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer unlock()

	user, err := s.repo.GetUserByWallet(ctx, walletAddress)
	if err != nil {
		s.observe("cancel", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	i := user.FindSubscription(req.Name)
	if i < 0 {
		s.observe("cancel", ErrSubscriptionNotFound)
		return nil, fmt.Errorf("%s: %s: %w", op, req.Name, ErrSubscriptionNotFound)
	}

	if req.Method != models.MethodCancel {
		log.Info("unknown cancel method ignored", slog.String("method", req.Method))
		operations.WithLabelValues("cancel", "ignored").Inc()
		return &CancelResult{Subscription: user.Subscriptions[i]}, nil
	}

	now := s.now().UTC()
	sub := &user.Subscriptions[i]
	sub.IsActive = false
	sub.UpdatedAt = now
	user.UpdatedAt = now

	if err := s.repo.SaveUser(ctx, user); err != nil {
		s.observe("cancel", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("subscription cancelled", slog.String("name", sub.Name))
	operations.WithLabelValues("cancel", models.ActionCancelled).Inc()

	s.afterWrite(ctx, log, user, models.ActionCancelled, *sub)
	return &CancelResult{Subscription: *sub, Changed: true}, nil
}

// afterWrite записывает сохранённый список в кеш и публикует событие. Вызывается
// под блокировкой пользователя. Ошибки только логируются: изменение уже сохранено.
func (s *SubscriptionService) afterWrite(ctx context.Context, log *slog.Logger, user *models.User, action string, sub models.Subscription) {
	walletAddress := user.WalletAddress
	key := cacheKey(walletAddress)
	if _, err := s.cache.SetVersioned(ctx, key, cacheVersion(user), user.Subscriptions, subscriptionsCacheTTL); err != nil {
		log.Warn("failed to refresh subscriptions cache", sl.Err(err))
		if err := s.cache.Invalidate(ctx, key); err != nil {
			log.Warn("failed to invalidate subscriptions cache", sl.Err(err))
		}
	}

	event := models.SubscriptionEvent{
		ID:                  uuid.NewString(),
		Action:              action,
		WalletAddress:       walletAddress,
		Name:                sub.Name,
		SubscriptionAddress: sub.SubscriptionAddress,
		Price:               sub.Price,
		Interval:            sub.Interval,
		IsActive:            sub.IsActive,
		OccurredAt:          sub.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, "subscription."+action, event); err != nil {
		log.Warn("failed to publish subscription event", slog.String("action", action), sl.Err(err))
	}
}

func (s *SubscriptionService) observe(operation string, err error) {
	result := "error"
	switch {
	case errors.Is(err, storage.ErrUserNotFound), errors.Is(err, ErrSubscriptionNotFound):
		result = "not_found"
	case errors.Is(err, storage.ErrSubscriptionAddressTaken):
		result = "conflict"
	}
	operations.WithLabelValues(operation, result).Inc()
}

func cacheKey(walletAddress string) string {
	return "subscriptions:" + walletAddress
}

// cacheVersion упорядочивает записи в кеше по времени изменения документа.
// Микросекунды точно представимы числом в Lua-скрипте Redis.
func cacheVersion(user *models.User) int64 {
	return user.UpdatedAt.UnixMicro()
}

func lockKey(walletAddress string) string {
	return "user:" + walletAddress
}
