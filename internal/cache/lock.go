package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/subsync/internal/lib/keymutex"
)

// ErrLockTimeout возвращается, если блокировку не удалось взять до истечения контекста.
// Совпадает с keymutex.ErrTimeout, поэтому обработчики различают таймаут одинаково
// для локальной и распределённой блокировки.
var ErrLockTimeout = keymutex.ErrTimeout

// unlockScript удаляет ключ, только если он всё ещё принадлежит владельцу токена.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker реализует распределённую блокировку по ключу на основе SET NX PX.
type Locker struct {
	db      *redis.Client
	ttl     time.Duration
	timeout time.Duration
	retry   time.Duration
}

// NewLocker создаёт блокировку: ttl ограничивает время владения, timeout ограничивает ожидание.
func NewLocker(db *redis.Client, ttl, timeout time.Duration) *Locker {
	return &Locker{
		db:      db,
		ttl:     ttl,
		timeout: timeout,
		retry:   25 * time.Millisecond,
	}
}

// Lock ждёт освобождения ключа и захватывает его. Возвращённая функция снимает блокировку.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	const op = "cache.Locker.Lock"

	lockKey := "lock:" + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.db.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ok {
			return func() {
				_ = unlockScript.Run(context.Background(), l.db, []string{lockKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %s: %w", op, key, ErrLockTimeout)
		case <-ticker.C:
		}
	}
}
