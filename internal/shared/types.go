package shared

// Asynq task types
const (
	TypeOrderCreatedNotification = "order:created_notification"
)

// Asynq queues
const (
	QueueNotifications = "notifications"
)

// OrderCreatedPayload carries the fire-and-forget "order created" signal.
// Failures dispatching this must never roll back order creation.
type OrderCreatedPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      string `json:"user_id"`
}
