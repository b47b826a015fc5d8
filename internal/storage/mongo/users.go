package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// CreateUser сохраняет нового пользователя.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.mongo.CreateUser"

	if user.Subscriptions == nil {
		user.Subscriptions = []models.Subscription{}
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUserByWallet возвращает пользователя по адресу кошелька.
func (s *Storage) GetUserByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	const op = "storage.mongo.GetUserByWallet"

	var user models.User
	err := s.users.FindOne(ctx, bson.M{"walletAddress": walletAddress}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.Subscriptions == nil {
		user.Subscriptions = []models.Subscription{}
	}
	return &user, nil
}

// SaveUser целиком перезаписывает документ пользователя.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.mongo.SaveUser"

	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if isDuplicateOn(err, subscriptionAddressIndex) {
			return fmt.Errorf("%s: %w", op, storage.ErrSubscriptionAddressTaken)
		}
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return nil
}
