package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/cart/service"
	catalogModel "storefront-backend/internal/domains/catalog/model"
	"storefront-backend/internal/shared/response"
)

type CartHandler struct {
	cartService service.ServiceInterface
}

func NewCartHandler(cartService service.ServiceInterface) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddLine handles POST /api/v1/cart/items
func (h *CartHandler) AddLine(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var req model.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	line, err := h.cartService.AddLine(c.Request.Context(), userID, req)
	if err != nil {
		var vErrs validation.Errors
		switch {
		case errors.As(err, &vErrs):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid cart line", vErrs)
		case errors.Is(err, catalogModel.ErrProductNotFound), errors.Is(err, catalogModel.ErrVariantNotFound):
			response.UnprocessableEntity(c, model.ErrCodeCartProductNotFound, err.Error())
		case errors.Is(err, model.ErrInvalidQuantity):
			response.UnprocessableEntity(c, model.ErrCodeCartInvalidQuantity, err.Error())
		default:
			response.InternalServerError(c, "failed to add cart line")
		}
		return
	}

	response.Success(c, http.StatusCreated, line)
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		response.InternalServerError(c, "failed to load cart")
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		response.InternalServerError(c, "failed to clear cart")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cleared": true})
}
