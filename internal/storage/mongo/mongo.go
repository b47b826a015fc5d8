// Package mongo реализует документное хранилище SubSync на MongoDB.
// Пользователи хранятся в коллекции users вместе со встроенными подписками,
// компании — в коллекции companies.
package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection     = "users"
	companiesCollection = "companies"

	subscriptionAddressIndex = "subscriptions_subscriptionAddress_unique"
)

// Storage инкапсулирует клиент MongoDB и коллекции приложения.
type Storage struct {
	client    *mongo.Client
	users     *mongo.Collection
	companies *mongo.Collection
}

// New подключается к MongoDB по uri, проверяет соединение и создаёт индексы.
func New(ctx context.Context, uri, database string) (*Storage, error) {
	const op = "storage.mongo.New"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db := client.Database(database)
	s := &Storage{
		client:    client,
		users:     db.Collection(usersCollection),
		companies: db.Collection(companiesCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "walletAddress", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("walletAddress_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys: bson.D{{Key: "subscriptions.subscriptionAddress", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(subscriptionAddressIndex).
				SetPartialFilterExpression(bson.M{
					"subscriptions.subscriptionAddress": bson.M{"$exists": true},
				}),
		},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = s.companies.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	if err != nil {
		return fmt.Errorf("companies indexes: %w", err)
	}
	return nil
}

// Ping проверяет доступность MongoDB.
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close закрывает соединение с MongoDB.
func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func isDuplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}
