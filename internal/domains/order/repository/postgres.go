package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	cartModel "storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/order/model"
	"storefront-backend/pkg/database"
	"storefront-backend/pkg/logger"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresRepository{pool: pool}
}

// =====================================================
// TRANSACTION CONTROL
// =====================================================

func (r *postgresRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *postgresRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *postgresRepository) RollbackTx(ctx context.Context, tx pgx.Tx) {
	// No-op once committed
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.Error("failed to rollback transaction", err)
	}
}

// =====================================================
// WRITES
// =====================================================

// CreateOrderWithTx implements OrderRepository.CreateOrderWithTx
func (r *postgresRepository) CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, order_number, user_id,
			billing_name, billing_address, billing_phone,
			subtotal, shipping_fee, discount_amount, total,
			coupon_code, payment_method, payment_status,
			payment_proof_ref, transfer_instructions, status,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, NOW(), NOW()
		)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.ID,
		order.OrderNumber,
		order.UserID,
		order.BillingName,
		order.BillingAddress,
		order.BillingPhone,
		order.Subtotal,
		order.ShippingFee,
		order.DiscountAmount,
		order.Total,
		order.CouponCode,
		order.PaymentMethod,
		order.PaymentStatus,
		order.PaymentProofRef,
		order.TransferInstructions,
		order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrOrderNumberConflict
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// CreateStatusHistoryWithTx implements OrderRepository.CreateStatusHistoryWithTx
func (r *postgresRepository) CreateStatusHistoryWithTx(ctx context.Context, tx pgx.Tx, history *model.OrderStatusHistory) error {
	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}

	query := `
		INSERT INTO order_status_history (
			id, order_id, from_status, to_status, changed_by, notes, changed_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING changed_at
	`

	err := tx.QueryRow(ctx, query,
		history.ID,
		history.OrderID,
		history.FromStatus,
		history.ToStatus,
		history.ChangedBy,
		history.Notes,
	).Scan(&history.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to create order status history: %w", err)
	}

	return nil
}

// UpdateOrderStatusWithTx implements OrderRepository.UpdateOrderStatusWithTx.
// The status = fromStatus guard makes the transition conditional: when a
// concurrent request already moved the order, zero rows match and the
// caller gets ErrInvalidTransition instead of a silent double-apply.
func (r *postgresRepository) UpdateOrderStatusWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, fromStatus, toStatus string) error {
	query := `
		UPDATE orders
		SET status = $3,
		    delivered_at = CASE WHEN $3 = 'delivered' THEN NOW() ELSE delivered_at END,
		    cancelled_at = CASE WHEN $3 = 'cancelled' THEN NOW() ELSE cancelled_at END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := tx.Exec(ctx, query, orderID, fromStatus, toStatus)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrInvalidTransition
	}

	return nil
}

// MarkPaidByNumber implements OrderRepository.MarkPaidByNumber
func (r *postgresRepository) MarkPaidByNumber(ctx context.Context, orderNumber string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var orderID uuid.UUID
		var status string

		err := tx.QueryRow(ctx, `
			UPDATE orders
			SET payment_status = 'paid',
			    paid_at = NOW(),
			    updated_at = NOW()
			WHERE order_number = $1 AND payment_status = 'unpaid'
			RETURNING id, status
		`, orderNumber).Scan(&orderID, &status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Unknown number or already paid; webhook retries are
				// expected, so an already-paid order is not an error
				return model.ErrOrderNotFound
			}
			return fmt.Errorf("failed to mark order paid: %w", err)
		}

		note := "payment confirmed by gateway webhook"
		history := &model.OrderStatusHistory{
			ID:         uuid.New(),
			OrderID:    orderID,
			FromStatus: &status,
			ToStatus:   status,
			Notes:      &note,
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO order_status_history (
				id, order_id, from_status, to_status, changed_by, notes, changed_at
			) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		`, history.ID, history.OrderID, history.FromStatus, history.ToStatus, history.ChangedBy, history.Notes)
		if err != nil {
			return fmt.Errorf("failed to record payment confirmation: %w", err)
		}

		return nil
	})
}

// =====================================================
// READS
// =====================================================

const orderColumns = `
	id, order_number, user_id,
	billing_name, billing_address, billing_phone,
	subtotal, shipping_fee, discount_amount, total,
	coupon_code, payment_method, payment_status,
	payment_proof_ref, transfer_instructions, status,
	paid_at, delivered_at, cancelled_at, created_at, updated_at
`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.BillingName,
		&o.BillingAddress,
		&o.BillingPhone,
		&o.Subtotal,
		&o.ShippingFee,
		&o.DiscountAmount,
		&o.Total,
		&o.CouponCode,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.PaymentProofRef,
		&o.TransferInstructions,
		&o.Status,
		&o.PaidAt,
		&o.DeliveredAt,
		&o.CancelledAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// GetOrderByID implements OrderRepository.GetOrderByID
func (r *postgresRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order model.Order
	if err := scanOrder(r.pool.QueryRow(ctx, query, orderID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// GetOrderByNumber implements OrderRepository.GetOrderByNumber
func (r *postgresRepository) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	var order model.Order
	if err := scanOrder(r.pool.QueryRow(ctx, query, orderNumber), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}

	return &order, nil
}

// GetOrderLines implements OrderRepository.GetOrderLines
func (r *postgresRepository) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]cartModel.CartLine, error) {
	query := `
		SELECT
			id, user_id, product_id, variant_id, quantity,
			unit_price, line_amount, order_id, title, created_at, updated_at
		FROM cart_lines
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order lines: %w", err)
	}
	defer rows.Close()

	var lines []cartModel.CartLine
	for rows.Next() {
		var line cartModel.CartLine
		if err := rows.Scan(
			&line.ID, &line.UserID, &line.ProductID, &line.VariantID, &line.Quantity,
			&line.UnitPrice, &line.LineAmount, &line.OrderID, &line.Title,
			&line.CreatedAt, &line.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
