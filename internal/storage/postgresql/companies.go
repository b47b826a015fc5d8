package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// CreateCompany сохраняет новую компанию.
func (s *Storage) CreateCompany(ctx context.Context, company models.Company) (*models.Company, error) {
	const op = "storage.postgresql.CreateCompany"

	query := `INSERT INTO companies (id, name, wallet_address, chain_id, price)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		company.ID, company.Name, company.WalletAddress, company.ChainID, company.Price)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrCompanyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &company, nil
}

// GetCompanyByName возвращает компанию по имени.
func (s *Storage) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	const op = "storage.postgresql.GetCompanyByName"

	query := `SELECT id, name, wallet_address, chain_id, price FROM companies WHERE name = $1`
	var c models.Company
	err := s.DB.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.WalletAddress, &c.ChainID, &c.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrCompanyNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// ListCompanies возвращает все компании, отсортированные по имени.
func (s *Storage) ListCompanies(ctx context.Context) ([]models.Company, error) {
	const op = "storage.postgresql.ListCompanies"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, wallet_address, chain_id, price FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []models.Company{}
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.WalletAddress, &c.ChainID, &c.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
