package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/payment/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// GetBySlug implements RepositoryInterface.GetBySlug
func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Gateway, error) {
	query := `
		SELECT
			id, slug, name, enabled, mode, credentials,
			transfer_instructions, require_proof, created_at, updated_at
		FROM payment_gateways
		WHERE slug = $1
	`

	var g model.Gateway
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&g.ID,
		&g.Slug,
		&g.Name,
		&g.Enabled,
		&g.Mode,
		&g.Credentials,
		&g.TransferInstructions,
		&g.RequireProof,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment gateway: %w", err)
	}

	return &g, nil
}

// ListEnabled implements RepositoryInterface.ListEnabled
func (r *postgresRepository) ListEnabled(ctx context.Context) ([]model.Gateway, error) {
	query := `
		SELECT
			id, slug, name, enabled, mode, credentials,
			transfer_instructions, require_proof, created_at, updated_at
		FROM payment_gateways
		WHERE enabled = TRUE
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment gateways: %w", err)
	}
	defer rows.Close()

	var gateways []model.Gateway
	for rows.Next() {
		var g model.Gateway
		if err := rows.Scan(
			&g.ID, &g.Slug, &g.Name, &g.Enabled, &g.Mode, &g.Credentials,
			&g.TransferInstructions, &g.RequireProof, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment gateway: %w", err)
		}
		gateways = append(gateways, g)
	}

	return gateways, rows.Err()
}
