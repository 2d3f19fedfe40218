package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/order/repository"
	"storefront-backend/internal/shared"
	"storefront-backend/internal/shared/utils"
	"storefront-backend/pkg/logger"
)

// OrderCreatedHandler processes the post-placement notification task.
// It runs outside the placement transaction; a failure here is retried
// by the queue and never affects the order itself.
type OrderCreatedHandler struct {
	orderRepo repository.OrderRepository
}

func NewOrderCreatedHandler(orderRepo repository.OrderRepository) *OrderCreatedHandler {
	return &OrderCreatedHandler{orderRepo: orderRepo}
}

// ProcessTask implements asynq.Handler
func (h *OrderCreatedHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.OrderCreatedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Malformed payload will never succeed; skip retries
		return fmt.Errorf("invalid order created payload: %v: %w", err, asynq.SkipRetry)
	}

	order, err := h.orderRepo.GetOrderByID(ctx, utils.ParseStringToUUID(payload.OrderID))
	if err != nil {
		return fmt.Errorf("failed to load order %s: %w", payload.OrderNumber, err)
	}

	// Notification channel integration (email, push) hangs off here.
	// For now the confirmation is recorded in the structured log.
	logger.Info("order confirmation dispatched", map[string]interface{}{
		"order_number": order.OrderNumber,
		"user_id":      order.UserID.String(),
		"total":        order.Total.String(),
		"status":       order.Status,
	})

	return nil
}
