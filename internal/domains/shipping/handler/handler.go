package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domains/shipping/repository"
	"storefront-backend/internal/shared/response"
)

type ShippingHandler struct {
	shippingRepo repository.RepositoryInterface
}

func NewShippingHandler(shippingRepo repository.RepositoryInterface) *ShippingHandler {
	return &ShippingHandler{shippingRepo: shippingRepo}
}

// ListMethods handles GET /api/v1/shipping/methods
func (h *ShippingHandler) ListMethods(c *gin.Context) {
	methods, err := h.shippingRepo.ListActive(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to list shipping methods")
		return
	}

	response.Success(c, http.StatusOK, methods)
}
