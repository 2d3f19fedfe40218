package main

import (
	"github.com/hibiken/asynq"

	orderJob "storefront-backend/internal/domains/order/job"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	orderCreated *orderJob.OrderCreatedHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		orderCreated: orderJob.NewOrderCreatedHandler(c.OrderRepo),
	}
}

// RegisterHandlers binds task types onto the mux
func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeOrderCreatedNotification, r.orderCreated)
}
