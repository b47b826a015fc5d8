// Package user содержит бизнес-логику регистрации пользователей.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subsync/internal/lib/sl"
	"github.com/magabrotheeeer/subsync/internal/models"
)

// UserRepository описывает контракт для сохранения пользователей.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя. Дубликат кошелька или email
	// возвращается как storage.ErrUserExists.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
}

// UserService отвечает за создание пользователей.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Create регистрирует пользователя с пустым списком подписок.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	const op = "services.user.Create"

	now := s.now().UTC()
	user := models.User{
		ID:            uuid.NewString(),
		Name:          req.Name,
		WalletAddress: req.WalletAddress,
		Email:         req.Email,
		Subscriptions: []models.Subscription{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user created", slog.String("op", op), slog.String("id", created.ID), sl.Wallet(created.WalletAddress))
	return created, nil
}
