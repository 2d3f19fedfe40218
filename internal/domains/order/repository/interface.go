package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	cartModel "storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/order/model"
)

// OrderRepository defines data access for orders
type OrderRepository interface {
	// Transaction control: placement and lifecycle transitions span
	// several repositories and must commit atomically
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx)

	// CreateOrderWithTx inserts the order row.
	// Returns model.ErrOrderNumberConflict on a duplicate order number
	// so the caller can retry with a fresh one.
	CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateStatusHistoryWithTx appends a status-history row
	CreateStatusHistoryWithTx(ctx context.Context, tx pgx.Tx, history *model.OrderStatusHistory) error

	// GetOrderByID returns model.ErrOrderNotFound when absent
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// GetOrderByNumber returns model.ErrOrderNotFound when absent
	GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error)

	// GetOrderLines lists the cart lines stamped with this order
	GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]cartModel.CartLine, error)

	// UpdateOrderStatusWithTx moves status from → to, guarded by the
	// current status so a concurrent transition loses cleanly.
	// Returns model.ErrInvalidTransition when the guard rejects.
	UpdateOrderStatusWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, fromStatus, toStatus string) error

	// MarkPaidByNumber records an external payment confirmation
	// (gateway webhook) atomically with its history row.
	MarkPaidByNumber(ctx context.Context, orderNumber string) error
}
