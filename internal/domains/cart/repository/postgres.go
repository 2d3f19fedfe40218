package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/cart/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const cartLineColumns = `
	id, user_id, product_id, variant_id, quantity,
	unit_price, line_amount, order_id, title, created_at, updated_at
`

func scanCartLine(row pgx.Row, line *model.CartLine) error {
	return row.Scan(
		&line.ID,
		&line.UserID,
		&line.ProductID,
		&line.VariantID,
		&line.Quantity,
		&line.UnitPrice,
		&line.LineAmount,
		&line.OrderID,
		&line.Title,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
}

// GetUnconfirmedLine implements RepositoryInterface.GetUnconfirmedLine
func (r *postgresRepository) GetUnconfirmedLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*model.CartLine, error) {
	query := `
		SELECT ` + cartLineColumns + `
		FROM cart_lines
		WHERE user_id = $1
		  AND product_id = $2
		  AND variant_id IS NOT DISTINCT FROM $3
		  AND order_id IS NULL
	`

	var line model.CartLine
	err := scanCartLine(r.pool.QueryRow(ctx, query, userID, productID, variantID), &line)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}

	return &line, nil
}

// InsertLine implements RepositoryInterface.InsertLine
func (r *postgresRepository) InsertLine(ctx context.Context, line *model.CartLine) error {
	query := `
		INSERT INTO cart_lines (
			id, user_id, product_id, variant_id, quantity,
			unit_price, line_amount, title, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		line.ID,
		line.UserID,
		line.ProductID,
		line.VariantID,
		line.Quantity,
		line.UnitPrice,
		line.LineAmount,
		line.Title,
	).Scan(&line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cart line: %w", err)
	}

	return nil
}

// UpdateLineQuantity implements RepositoryInterface.UpdateLineQuantity
func (r *postgresRepository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int, lineAmount decimal.Decimal) error {
	query := `
		UPDATE cart_lines
		SET quantity = $2,
		    line_amount = $3,
		    updated_at = NOW()
		WHERE id = $1 AND order_id IS NULL
	`

	result, err := r.pool.Exec(ctx, query, lineID, quantity, lineAmount)
	if err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrLineConfirmed
	}

	return nil
}

// ListUnconfirmed implements RepositoryInterface.ListUnconfirmed
func (r *postgresRepository) ListUnconfirmed(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	query := `
		SELECT ` + cartLineColumns + `
		FROM cart_lines
		WHERE user_id = $1 AND order_id IS NULL
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var line model.CartLine
		if err := scanCartLine(rows, &line); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// SubtotalUnconfirmed implements RepositoryInterface.SubtotalUnconfirmed
func (r *postgresRepository) SubtotalUnconfirmed(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(line_amount), 0)
		FROM cart_lines
		WHERE user_id = $1 AND order_id IS NULL
	`

	var subtotal decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&subtotal); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute cart subtotal: %w", err)
	}

	return subtotal, nil
}

// DeleteUnconfirmed implements RepositoryInterface.DeleteUnconfirmed
func (r *postgresRepository) DeleteUnconfirmed(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM cart_lines WHERE user_id = $1 AND order_id IS NULL`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// LockUnconfirmedWithTx implements RepositoryInterface.LockUnconfirmedWithTx
func (r *postgresRepository) LockUnconfirmedWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartLine, error) {
	query := `
		SELECT ` + cartLineColumns + `
		FROM cart_lines
		WHERE user_id = $1 AND order_id IS NULL
		ORDER BY created_at ASC
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var line model.CartLine
		if err := scanCartLine(rows, &line); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// ReassignToOrderWithTx implements RepositoryInterface.ReassignToOrderWithTx
func (r *postgresRepository) ReassignToOrderWithTx(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID) (int, error) {
	query := `
		UPDATE cart_lines
		SET order_id = $2,
		    updated_at = NOW()
		WHERE user_id = $1 AND order_id IS NULL
	`

	result, err := tx.Exec(ctx, query, userID, orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign cart lines: %w", err)
	}

	return int(result.RowsAffected()), nil
}
