package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/shipping/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Method, error) {
	query := `
		SELECT id, name, price, is_active, created_at
		FROM shipping_methods
		WHERE id = $1 AND is_active = TRUE
	`

	var m model.Method
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Name,
		&m.Price,
		&m.IsActive,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrShippingMethodNotFound
		}
		return nil, fmt.Errorf("failed to get shipping method: %w", err)
	}

	return &m, nil
}

// ListActive implements RepositoryInterface.ListActive
func (r *postgresRepository) ListActive(ctx context.Context) ([]model.Method, error) {
	query := `
		SELECT id, name, price, is_active, created_at
		FROM shipping_methods
		WHERE is_active = TRUE
		ORDER BY price ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping methods: %w", err)
	}
	defer rows.Close()

	var methods []model.Method
	for rows.Next() {
		var m model.Method
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shipping method: %w", err)
		}
		methods = append(methods, m)
	}

	return methods, rows.Err()
}
