package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// CreateUser сохраняет нового пользователя.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.postgresql.CreateUser"

	if user.Subscriptions == nil {
		user.Subscriptions = []models.Subscription{}
	}
	subs, err := json.Marshal(user.Subscriptions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO users (id, name, wallet_address, email, subscriptions, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = s.DB.ExecContext(ctx, query,
		user.ID, user.Name, user.WalletAddress, user.Email, subs, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUserByWallet возвращает пользователя по адресу кошелька.
func (s *Storage) GetUserByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	const op = "storage.postgresql.GetUserByWallet"

	query := `SELECT id, name, wallet_address, email, subscriptions, created_at, updated_at
			  FROM users WHERE wallet_address = $1`

	var (
		user models.User
		subs []byte
	)
	err := s.DB.QueryRowContext(ctx, query, walletAddress).Scan(
		&user.ID, &user.Name, &user.WalletAddress, &user.Email, &subs, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user.Subscriptions = []models.Subscription{}
	if err := json.Unmarshal(subs, &user.Subscriptions); err != nil {
		return nil, fmt.Errorf("%s: decode subscriptions: %w", op, err)
	}
	return &user, nil
}

// SaveUser перезаписывает документ пользователя. Адреса подписок должны быть
// уникальны среди всех пользователей: транзакция берёт advisory-блокировку на каждый
// адрес, поэтому проверка и запись для одного адреса не пересекаются между пользователями.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgresql.SaveUser"

	subs, err := json.Marshal(user.Subscriptions)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	addresses := make([]string, 0, len(user.Subscriptions))
	for _, sub := range user.Subscriptions {
		addresses = append(addresses, sub.SubscriptionAddress)
	}
	// Единый порядок захвата исключает взаимную блокировку двух транзакций.
	slices.Sort(addresses)
	addresses = slices.Compact(addresses)
	for _, addr := range addresses {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, addr); err != nil {
			return fmt.Errorf("%s: lock address: %w", op, err)
		}
	}
	if len(addresses) > 0 {
		var taken bool
		err = tx.QueryRowContext(ctx, `SELECT EXISTS (
				SELECT 1 FROM users u, jsonb_array_elements(u.subscriptions) s
				WHERE u.id <> $1 AND s->>'subscriptionAddress' = ANY($2)
			)`, user.ID, addresses).Scan(&taken)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			return fmt.Errorf("%s: %w", op, storage.ErrSubscriptionAddressTaken)
		}
	}

	query := `UPDATE users
			  SET name = $2, email = $3, subscriptions = $4, updated_at = $5
			  WHERE id = $1`
	result, err := tx.ExecContext(ctx, query, user.ID, user.Name, user.Email, subs, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
