package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	couponModel "storefront-backend/internal/domains/coupon/model"
	"storefront-backend/internal/domains/order/model"
	"storefront-backend/internal/domains/order/service"
	"storefront-backend/internal/domains/payment/gateway"
	paymentModel "storefront-backend/internal/domains/payment/model"
	shippingModel "storefront-backend/internal/domains/shipping/model"
	"storefront-backend/internal/shared/response"
	"storefront-backend/internal/shared/utils"
	"storefront-backend/pkg/logger"
)

// maxProofSize caps uploaded proof-of-payment images at 5 MB
const maxProofSize = 5 << 20

type OrderHandler struct {
	orderService    service.ServiceInterface
	redirectGateway gateway.RedirectGateway
}

func NewOrderHandler(orderService service.ServiceInterface, redirectGateway gateway.RedirectGateway) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		redirectGateway: redirectGateway,
	}
}

// =====================================================
// CHECKOUT
// =====================================================

// PlaceOrder handles POST /api/v1/checkout/orders.
// Accepts JSON, or multipart/form-data when a proof image rides along.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	req, err := h.bindPlaceOrderRequest(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

func (h *OrderHandler) bindPlaceOrderRequest(c *gin.Context) (*model.PlaceOrderRequest, error) {
	var req model.PlaceOrderRequest

	contentType := c.GetHeader("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, errors.New("invalid request body")
		}
		return &req, nil
	}

	if err := c.ShouldBind(&req); err != nil {
		return nil, errors.New("invalid form data")
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		// No proof attached; the resolver decides whether that is ok
		return &req, nil
	}
	if fileHeader.Size > maxProofSize {
		return nil, errors.New("proof image exceeds the 5 MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("failed to read proof image")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxProofSize))
	if err != nil {
		return nil, errors.New("failed to read proof image")
	}

	req.Proof = &model.ProofFile{
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	return &req, nil
}

// PreviewTotal handles GET /api/v1/checkout/total
func (h *OrderHandler) PreviewTotal(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	preview, err := h.orderService.PreviewTotal(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, preview)
}

// ApplyCoupon handles POST /api/v1/checkout/coupon
func (h *OrderHandler) ApplyCoupon(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var body struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Code == "" {
		response.BadRequest(c, "coupon code is required")
		return
	}

	preview, err := h.orderService.ApplyCoupon(c.Request.Context(), userID, body.Code)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, preview)
}

// RemoveCoupon handles DELETE /api/v1/checkout/coupon
func (h *OrderHandler) RemoveCoupon(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	preview, err := h.orderService.RemoveCoupon(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, preview)
}

// SelectShipping handles PUT /api/v1/checkout/shipping
func (h *OrderHandler) SelectShipping(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var body struct {
		ShippingMethodID string `json:"shipping_method_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	methodID := utils.ParseStringToUUID(body.ShippingMethodID)
	if methodID == uuid.Nil {
		response.BadRequest(c, "shipping_method_id must be a valid UUID")
		return
	}

	preview, err := h.orderService.SelectShipping(c.Request.Context(), userID, methodID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, preview)
}

// =====================================================
// ORDERS
// =====================================================

// GetOrder handles GET /api/v1/orders/:number
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	role := c.GetString("role")

	detail, err := h.orderService.GetOrderByNumber(c.Request.Context(), userID, role == "admin", c.Param("number"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// AdvanceStatus handles PATCH /api/v1/admin/orders/:id/status
func (h *OrderHandler) AdvanceStatus(c *gin.Context) {
	adminID := c.MustGet("userID").(uuid.UUID)

	orderID := utils.ParseStringToUUID(c.Param("id"))
	if orderID == uuid.Nil {
		response.BadRequest(c, "order id must be a valid UUID")
		return
	}

	var req model.AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.orderService.AdvanceStatus(c.Request.Context(), orderID, adminID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// WEBHOOKS
// =====================================================

// PaymentWebhook handles POST /api/v1/webhooks/payment.
// Called by the instant gateway after the shopper completes the
// external flow. Authenticated by an HMAC signature over the raw body.
func (h *OrderHandler) PaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		response.BadRequest(c, "failed to read webhook body")
		return
	}

	if !h.redirectGateway.VerifyWebhookSignature(payload, c.GetHeader("X-Gateway-Signature")) {
		response.Unauthorized(c, "invalid webhook signature")
		return
	}

	var body struct {
		OrderNumber string `json:"order_number"`
		Status      string `json:"status"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.OrderNumber == "" {
		response.BadRequest(c, "order_number is required")
		return
	}
	if body.Status != "" && body.Status != "completed" {
		// Not a success signal; acknowledge and ignore
		response.Success(c, http.StatusOK, gin.H{"processed": false})
		return
	}

	if err := h.orderService.ConfirmPayment(c.Request.Context(), body.OrderNumber); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			// Unknown or already paid: idempotent-ack so the gateway
			// stops retrying
			response.Success(c, http.StatusOK, gin.H{"processed": false})
			return
		}
		logger.Error("failed to process payment webhook", err)
		response.InternalServerError(c, "failed to process webhook")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"processed": true})
}

// =====================================================
// ERROR MAPPING
// =====================================================

// writeError translates domain errors into the HTTP envelope
func (h *OrderHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", vErrs)
		return
	}

	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		switch orderErr.Code {
		case model.ErrCodeOrderNotFound:
			response.ErrorResponse(c, http.StatusNotFound, orderErr.Code, orderErr.Message)
		case model.ErrCodeEmptyCart:
			response.UnprocessableEntity(c, orderErr.Code, orderErr.Message)
		case model.ErrCodeInvalidTransition:
			response.ErrorResponse(c, http.StatusConflict, orderErr.Code, orderErr.Message)
		case model.ErrCodeUnauthorized:
			response.ErrorResponse(c, http.StatusForbidden, orderErr.Code, orderErr.Message)
		default:
			logger.Error("order operation failed", err)
			response.ErrorResponse(c, http.StatusInternalServerError, orderErr.Code, orderErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeOrderNotFound, "order not found")
	case errors.Is(err, couponModel.ErrInvalidCoupon):
		response.UnprocessableEntity(c, couponModel.ErrCodeCouponInvalid, err.Error())
	case errors.Is(err, couponModel.ErrCouponExpired):
		response.UnprocessableEntity(c, couponModel.ErrCodeCouponExpired, err.Error())
	case errors.Is(err, couponModel.ErrMinimumNotMet):
		response.UnprocessableEntity(c, couponModel.ErrCodeCouponMinimum, err.Error())
	case errors.Is(err, couponModel.ErrUsageLimitReached):
		response.UnprocessableEntity(c, couponModel.ErrCodeCouponLimitReached, err.Error())
	case errors.Is(err, paymentModel.ErrUnknownOrDisabledGateway):
		response.UnprocessableEntity(c, paymentModel.ErrCodeUnknownGateway, err.Error())
	case errors.Is(err, paymentModel.ErrProofRequired):
		response.UnprocessableEntity(c, paymentModel.ErrCodeProofRequired, err.Error())
	case errors.Is(err, paymentModel.ErrProofUploadFailed):
		response.ErrorResponse(c, http.StatusBadGateway, paymentModel.ErrCodeProofUploadFailed, err.Error())
	case errors.Is(err, shippingModel.ErrShippingMethodNotFound):
		response.UnprocessableEntity(c, "SHP001", err.Error())
	default:
		logger.Error("order operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
}
