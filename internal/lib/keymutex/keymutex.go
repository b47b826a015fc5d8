// Package keymutex реализует мьютекс на ключ внутри одного процесса.
package keymutex

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrTimeout возвращается, если ключ не освободился за время ожидания.
var ErrTimeout = errors.New("lock wait timeout")

type entry struct {
	ch   chan struct{}
	refs int
}

// KeyMutex выдаёт взаимное исключение по строковому ключу. Записи удаляются,
// когда ключ никто не держит и не ждёт.
type KeyMutex struct {
	mu      sync.Mutex
	locks   map[string]*entry
	timeout time.Duration
}

// New создаёт пустой KeyMutex. timeout ограничивает ожидание ключа; ноль снимает ограничение.
func New(timeout time.Duration) *KeyMutex {
	return &KeyMutex{locks: make(map[string]*entry), timeout: timeout}
}

// Lock захватывает ключ. Если ключ не освободился за timeout, возвращает ErrTimeout,
// если раньше отменён ctx, возвращает ошибку контекста.
// Возвращённая функция освобождает ключ.
func (k *KeyMutex) Lock(ctx context.Context, key string) (func(), error) {
	wait := ctx
	if k.timeout > 0 {
		var cancel context.CancelFunc
		wait, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-wait.Done():
		k.release(key, e)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("keymutex: %s: %w", key, ErrTimeout)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			k.release(key, e)
		})
	}, nil
}

func (k *KeyMutex) release(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// Len возвращает число ключей, которые сейчас кто-то держит или ждёт.
func (k *KeyMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
