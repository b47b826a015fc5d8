// Package company содержит бизнес-логику каталога компаний, предлагающих подписки.
package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/magabrotheeeer/subsync/internal/lib/sl"
	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

const (
	listCacheKey = "companies:all"
	cacheTTL     = 5 * time.Minute
)

// CompanyRepository описывает методы хранилища компаний.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company models.Company) (*models.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
}

// Cache описывает методы кеша.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// CompanyService управляет каталогом компаний.
type CompanyService struct {
	repo  CompanyRepository
	cache Cache
	log   *slog.Logger
	group singleflight.Group
}

// NewCompanyService создает новый экземпляр CompanyService.
func NewCompanyService(repo CompanyRepository, cache Cache, log *slog.Logger) *CompanyService {
	return &CompanyService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create добавляет компанию. Имя компании должно быть уникальным.
func (s *CompanyService) Create(ctx context.Context, req models.CreateCompanyRequest) (*models.Company, error) {
	const op = "services.company.Create"
	log := s.log.With(slog.String("op", op), slog.String("name", req.Name))

	_, err := s.repo.GetCompanyByName(ctx, req.Name)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%s: %w", op, storage.ErrCompanyExists)
	case !errors.Is(err, storage.ErrCompanyNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.CreateCompany(ctx, models.Company{
		ID:            uuid.NewString(),
		Name:          req.Name,
		WalletAddress: req.WalletAddress,
		ChainID:       req.ChainID,
		Price:         req.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Invalidate(ctx, listCacheKey, companyCacheKey(req.Name)); err != nil {
		log.Warn("failed to invalidate companies cache", sl.Err(err))
	}
	log.Info("company created", slog.String("id", created.ID))
	return created, nil
}

// List возвращает все компании.
func (s *CompanyService) List(ctx context.Context) ([]models.Company, error) {
	const op = "services.company.List"
	log := s.log.With(slog.String("op", op))

	var cached []models.Company
	found, err := s.cache.Get(ctx, listCacheKey, &cached)
	if err != nil {
		log.Warn("failed to read companies from cache", sl.Err(err))
	}
	if found && cached != nil {
		return cached, nil
	}

	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if companies == nil {
		companies = []models.Company{}
	}
	if err := s.cache.Set(ctx, listCacheKey, companies, cacheTTL); err != nil {
		log.Warn("failed to cache companies", sl.Err(err))
	}
	return companies, nil
}

// Get возвращает компанию по имени. Одновременные промахи кеша по одному имени
// обслуживаются одним запросом к хранилищу.
func (s *CompanyService) Get(ctx context.Context, name string) (*models.Company, error) {
	const op = "services.company.Get"
	log := s.log.With(slog.String("op", op), slog.String("name", name))

	key := companyCacheKey(name)
	var cached models.Company
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("failed to read company from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		company, err := s.repo.GetCompanyByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, company, cacheTTL); err != nil {
			log.Warn("failed to cache company", sl.Err(err))
		}
		return *company, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	company := v.(models.Company)
	return &company, nil
}

func companyCacheKey(name string) string {
	return "company:" + name
}
