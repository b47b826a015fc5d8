package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// CreateCompany сохраняет новую компанию. Имя компании уникально.
func (s *Storage) CreateCompany(ctx context.Context, company models.Company) (*models.Company, error) {
	const op = "storage.mongo.CreateCompany"

	if _, err := s.companies.InsertOne(ctx, company); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrCompanyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &company, nil
}

// GetCompanyByName возвращает компанию по имени.
func (s *Storage) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	const op = "storage.mongo.GetCompanyByName"

	var company models.Company
	if err := s.companies.FindOne(ctx, bson.M{"name": name}).Decode(&company); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrCompanyNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &company, nil
}

// ListCompanies возвращает все компании, отсортированные по имени.
func (s *Storage) ListCompanies(ctx context.Context) ([]models.Company, error) {
	const op = "storage.mongo.ListCompanies"

	cur, err := s.companies.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	companies := []models.Company{}
	if err := cur.All(ctx, &companies); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return companies, nil
}
