package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	cartRepository "storefront-backend/internal/domains/cart/repository"
	couponRepository "storefront-backend/internal/domains/coupon/repository"
	couponService "storefront-backend/internal/domains/coupon/service"
	"storefront-backend/internal/domains/order/model"
	orderRepository "storefront-backend/internal/domains/order/repository"
	"storefront-backend/internal/domains/payment/gateway"
	paymentModel "storefront-backend/internal/domains/payment/model"
	paymentService "storefront-backend/internal/domains/payment/service"
	shippingRepository "storefront-backend/internal/domains/shipping/repository"
	stockModel "storefront-backend/internal/domains/stock/model"
	stockRepository "storefront-backend/internal/domains/stock/repository"
	"storefront-backend/internal/shared"
	"storefront-backend/internal/shared/checkout"
	"storefront-backend/internal/shared/utils"
	"storefront-backend/pkg/logger"
)

// maxPlacementAttempts bounds the whole-transaction retry on an order
// number collision. The suffix carries 8 hex-ish chars of UUID entropy,
// so a second collision in a row is already vanishingly unlikely.
const maxPlacementAttempts = 3

// ProofStorage stores proof-of-payment images and returns a stable
// reference. Satisfied by the MinIO storage layer.
type ProofStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Enqueuer dispatches background tasks. Satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// statusTransitions is the order lifecycle state machine.
// delivered and cancelled are terminal.
var statusTransitions = map[string][]string{
	model.OrderStatusNew:        {model.OrderStatusProcessing, model.OrderStatusCancelled},
	model.OrderStatusProcessing: {model.OrderStatusDelivered, model.OrderStatusCancelled},
	model.OrderStatusDelivered:  {},
	model.OrderStatusCancelled:  {},
}

func canTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// =====================================================
// ORDER SERVICE IMPLEMENTATION
// =====================================================
type orderService struct {
	orderRepo     orderRepository.OrderRepository
	cartRepo      cartRepository.RepositoryInterface
	couponRepo    couponRepository.RepositoryInterface
	couponSvc     couponService.ServiceInterface
	shippingRepo  shippingRepository.RepositoryInterface
	paymentSvc    paymentService.ServiceInterface
	stockRepo       stockRepository.RepositoryInterface
	checkoutStore   checkout.Store
	proofStorage    ProofStorage
	enqueuer        Enqueuer
	redirectGateway gateway.RedirectGateway
	gatewayTimeout  time.Duration
	now             func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo orderRepository.OrderRepository,
	cartRepo cartRepository.RepositoryInterface,
	couponRepo couponRepository.RepositoryInterface,
	couponSvc couponService.ServiceInterface,
	shippingRepo shippingRepository.RepositoryInterface,
	paymentSvc paymentService.ServiceInterface,
	stockRepo stockRepository.RepositoryInterface,
	checkoutStore checkout.Store,
	proofStorage ProofStorage,
	enqueuer Enqueuer,
	redirectGateway gateway.RedirectGateway,
	gatewayTimeout time.Duration,
) ServiceInterface {
	return &orderService{
		orderRepo:       orderRepo,
		cartRepo:        cartRepo,
		couponRepo:      couponRepo,
		couponSvc:       couponSvc,
		shippingRepo:    shippingRepo,
		paymentSvc:      paymentSvc,
		stockRepo:       stockRepo,
		checkoutStore:   checkoutStore,
		proofStorage:    proofStorage,
		enqueuer:        enqueuer,
		redirectGateway: redirectGateway,
		gatewayTimeout:  gatewayTimeout,
		now:             time.Now,
	}
}

// =====================================================
// PLACEMENT
// =====================================================

// PlaceOrder implements ServiceInterface.PlaceOrder
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *model.PlaceOrderRequest) (*model.PlaceOrderResponse, error) {
	// Step 1: Validate the submission
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Load the checkout context (coupon + shipping selection)
	chk, err := s.checkoutStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Step 3: Resolve the shipping fee
	shippingFee, err := s.shippingFee(ctx, chk)
	if err != nil {
		return nil, err
	}

	// Step 4: Classify the payment method and enforce its input rules
	resolution, err := s.paymentSvc.Resolve(ctx, req.PaymentMethod, req.HasProof())
	if err != nil {
		return nil, err
	}

	// Step 5: Store the proof image before opening the transaction.
	// If the upload fails nothing has changed yet.
	var proofRef *string
	if resolution.Class == paymentModel.ClassOffline && req.HasProof() {
		key := fmt.Sprintf("proofs/%s/%s", userID, uuid.NewString())
		ref, err := s.proofStorage.Upload(ctx, key, req.Proof.Data, req.Proof.ContentType)
		if err != nil {
			logger.Error("failed to upload payment proof", err)
			return nil, paymentModel.ErrProofUploadFailed
		}
		proofRef = &ref
	}

	// Step 6: Run the placement transaction. An order number collision
	// aborts the whole postgres transaction, so the retry re-runs it
	// end to end with a fresh number.
	var order *model.Order
	for attempt := 1; attempt <= maxPlacementAttempts; attempt++ {
		order, err = s.placeOnce(ctx, userID, req, chk, shippingFee, resolution, proofRef)
		if err == nil {
			break
		}
		if !errors.Is(err, model.ErrOrderNumberConflict) {
			return nil, err
		}
		logger.Warn("order number collision, retrying placement", map[string]interface{}{
			"user_id": userID.String(),
			"attempt": attempt,
		})
	}
	if err != nil {
		return nil, model.NewOrderError(model.ErrCodeOrderNumberConflict, "could not allocate an order number", err)
	}

	// Step 7: Post-commit side effects. None of these may fail the
	// placement; the order is already durable.
	s.notifyOrderCreated(order)

	resp := &model.PlaceOrderResponse{
		OrderID:              order.ID.String(),
		OrderNumber:          order.OrderNumber,
		Total:                order.Total,
		Status:               order.Status,
		PaymentStatus:        order.PaymentStatus,
		RedirectRequired:     resolution.RequiresRedirect,
		TransferInstructions: order.TransferInstructions,
	}

	if resolution.RequiresRedirect {
		// The gateway call is a bounded external call outside the
		// transaction. If it fails the order stays "new"/"unpaid",
		// awaiting payment; the shopper can retry from the order page.
		gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
		defer cancel()

		redirectURL, err := s.redirectGateway.CreatePaymentURL(gwCtx, gateway.PaymentRequest{
			OrderNumber: order.OrderNumber,
			Amount:      order.Total,
			Description: fmt.Sprintf("order %s", order.OrderNumber),
		})
		if err != nil {
			logger.Warn("payment gateway call failed, order awaits payment", map[string]interface{}{
				"order_number": order.OrderNumber,
				"error":        err.Error(),
			})
		} else {
			resp.RedirectURL = redirectURL
		}
	} else {
		if err := s.checkoutStore.Clear(ctx, userID); err != nil {
			logger.Warn("failed to clear checkout context", map[string]interface{}{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
	}

	return resp, nil
}

// placeOnce runs a single placement transaction attempt
func (s *orderService) placeOnce(
	ctx context.Context,
	userID uuid.UUID,
	req *model.PlaceOrderRequest,
	chk *checkout.Context,
	shippingFee decimal.Decimal,
	resolution *paymentModel.Resolution,
	proofRef *string,
) (*model.Order, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	// Lock the cart lines so two checkouts of the same cart serialize
	lines, err := s.cartRepo.LockUnconfirmedWithTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, model.NewOrderError(model.ErrCodeEmptyCart, "cannot place an order with an empty cart", model.ErrEmptyCart)
	}

	// Subtotal comes from the locked lines, not a cached value
	subtotal := decimal.Zero
	for i := range lines {
		subtotal = subtotal.Add(lines[i].LineAmount)
	}

	// Re-evaluate the coupon against the locked subtotal. A coupon
	// that passed at apply-time can fail here (expired meanwhile,
	// limit reached, cart edited below the minimum).
	discount := decimal.Zero
	var couponCode *string
	if chk.HasCoupon() {
		discount, err = s.couponSvc.Evaluate(ctx, chk.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		code := chk.CouponCode
		couponCode = &code
	}

	now := s.now()
	order := &model.Order{
		ID:                   uuid.New(),
		OrderNumber:          model.GenerateOrderNumber(now),
		UserID:               userID,
		BillingName:          req.BillingName,
		BillingAddress:       req.BillingAddress,
		BillingPhone:         req.BillingPhone,
		Subtotal:             subtotal,
		ShippingFee:          shippingFee,
		DiscountAmount:       discount,
		Total:                model.CalculateOrderTotal(subtotal, shippingFee, discount),
		CouponCode:           couponCode,
		PaymentMethod:        resolution.MethodSlug,
		PaymentStatus:        resolution.InitialPaymentStatus,
		PaymentProofRef:      proofRef,
		TransferInstructions: resolution.TransferInstructions,
		Status:               model.OrderStatusNew,
	}

	if err := s.orderRepo.CreateOrderWithTx(ctx, tx, order); err != nil {
		return nil, err
	}

	// Stamp the locked lines with the order: they leave the cart and
	// become the order's immutable purchase records
	reassigned, err := s.cartRepo.ReassignToOrderWithTx(ctx, tx, userID, order.ID)
	if err != nil {
		return nil, err
	}
	if reassigned != len(lines) {
		return nil, fmt.Errorf("expected to confirm %d cart lines, confirmed %d", len(lines), reassigned)
	}

	// Burn one coupon use. The guard is server-side, so a concurrent
	// placement racing for the last use fails here and rolls back.
	if couponCode != nil {
		if err := s.couponRepo.IncrementUsageWithTx(ctx, tx, *couponCode); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.CreateStatusHistoryWithTx(ctx, tx, &model.OrderStatusHistory{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ToStatus:  model.OrderStatusNew,
		ChangedBy: &userID,
	}); err != nil {
		return nil, err
	}

	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("order placed", map[string]interface{}{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"user_id":      userID.String(),
		"total":        order.Total.String(),
	})

	return order, nil
}

// notifyOrderCreated enqueues the fire-and-forget creation signal
func (s *orderService) notifyOrderCreated(order *model.Order) {
	task, err := utils.MarshalTask(shared.TypeOrderCreatedNotification, shared.OrderCreatedPayload{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
	})
	if err != nil {
		logger.Error("failed to build order notification task", err)
		return
	}
	if _, err := s.enqueuer.Enqueue(task, asynq.Queue(shared.QueueNotifications)); err != nil {
		logger.Error("failed to enqueue order notification", err)
	}
}

// =====================================================
// CHECKOUT CONTEXT
// =====================================================

// PreviewTotal implements ServiceInterface.PreviewTotal
func (s *orderService) PreviewTotal(ctx context.Context, userID uuid.UUID) (*model.TotalPreview, error) {
	chk, err := s.checkoutStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.preview(ctx, userID, chk)
}

// ApplyCoupon implements ServiceInterface.ApplyCoupon
func (s *orderService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.TotalPreview, error) {
	// Step 1: Evaluate against the current subtotal before attaching
	subtotal, err := s.cartRepo.SubtotalUnconfirmed(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.couponSvc.Evaluate(ctx, code, subtotal); err != nil {
		return nil, err
	}

	// Step 2: Attach it to the checkout context
	chk, err := s.checkoutStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	chk.CouponCode = code
	if err := s.checkoutStore.Save(ctx, userID, chk); err != nil {
		return nil, err
	}

	return s.preview(ctx, userID, chk)
}

// RemoveCoupon implements ServiceInterface.RemoveCoupon
func (s *orderService) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*model.TotalPreview, error) {
	chk, err := s.checkoutStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	chk.CouponCode = ""
	if err := s.checkoutStore.Save(ctx, userID, chk); err != nil {
		return nil, err
	}
	return s.preview(ctx, userID, chk)
}

// SelectShipping implements ServiceInterface.SelectShipping
func (s *orderService) SelectShipping(ctx context.Context, userID uuid.UUID, methodID uuid.UUID) (*model.TotalPreview, error) {
	// Only active methods are selectable; GetByID enforces that
	if _, err := s.shippingRepo.GetByID(ctx, methodID); err != nil {
		return nil, err
	}

	chk, err := s.checkoutStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	chk.ShippingMethodID = &methodID
	if err := s.checkoutStore.Save(ctx, userID, chk); err != nil {
		return nil, err
	}

	return s.preview(ctx, userID, chk)
}

// preview prices the open cart under the given checkout context
func (s *orderService) preview(ctx context.Context, userID uuid.UUID, chk *checkout.Context) (*model.TotalPreview, error) {
	subtotal, err := s.cartRepo.SubtotalUnconfirmed(ctx, userID)
	if err != nil {
		return nil, err
	}

	shippingFee, err := s.shippingFee(ctx, chk)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	if chk.HasCoupon() {
		discount, err = s.couponSvc.Evaluate(ctx, chk.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	return &model.TotalPreview{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Discount:    discount,
		Total:       model.CalculateOrderTotal(subtotal, shippingFee, discount),
		CouponCode:  chk.CouponCode,
	}, nil
}

// shippingFee resolves the fee for the selected method; no selection
// means no shipping charge
func (s *orderService) shippingFee(ctx context.Context, chk *checkout.Context) (decimal.Decimal, error) {
	if chk.ShippingMethodID == nil {
		return decimal.Zero, nil
	}
	method, err := s.shippingRepo.GetByID(ctx, *chk.ShippingMethodID)
	if err != nil {
		return decimal.Zero, err
	}
	return method.Price, nil
}

// =====================================================
// READS
// =====================================================

// GetOrderByNumber implements ServiceInterface.GetOrderByNumber
func (s *orderService) GetOrderByNumber(ctx context.Context, requesterID uuid.UUID, isAdmin bool, orderNumber string) (*model.OrderDetail, error) {
	order, err := s.orderRepo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != requesterID {
		// Hide the order's existence from other users
		return nil, model.NewOrderError(model.ErrCodeOrderNotFound, "order not found", model.ErrOrderNotFound)
	}

	lines, err := s.orderRepo.GetOrderLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &model.OrderDetail{Order: *order, Lines: lines}, nil
}

// =====================================================
// LIFECYCLE
// =====================================================

// AdvanceStatus implements ServiceInterface.AdvanceStatus
func (s *orderService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, changedBy uuid.UUID, req *model.AdvanceStatusRequest) (*model.AdvanceResult, error) {
	// Step 1: Validate the target status
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Load the current status
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Step 3: Re-requesting the current status is a no-op, so a
	// retried delivery confirmation cannot decrement stock twice
	if order.Status == req.Status {
		return &model.AdvanceResult{Order: order}, nil
	}

	if !canTransition(order.Status, req.Status) {
		return nil, model.NewOrderError(
			model.ErrCodeInvalidTransition,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, req.Status),
			model.ErrInvalidTransition,
		)
	}

	// Step 4: Apply the transition, stock decrement and history in
	// one transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	// The from-status guard loses cleanly against a concurrent
	// transition on the same order
	if err := s.orderRepo.UpdateOrderStatusWithTx(ctx, tx, orderID, order.Status, req.Status); err != nil {
		if errors.Is(err, model.ErrInvalidTransition) {
			return nil, model.NewOrderError(model.ErrCodeInvalidTransition, "order status changed concurrently", err)
		}
		return nil, err
	}

	var warnings []model.StockWarning
	if req.Status == model.OrderStatusDelivered {
		warnings, err = s.decrementOrderStock(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.CreateStatusHistoryWithTx(ctx, tx, &model.OrderStatusHistory{
		ID:         uuid.New(),
		OrderID:    orderID,
		FromStatus: &order.Status,
		ToStatus:   req.Status,
		ChangedBy:  &changedBy,
		Notes:      req.Note,
	}); err != nil {
		return nil, err
	}

	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("order status changed", map[string]interface{}{
		"order_id": orderID.String(),
		"from":     order.Status,
		"to":       req.Status,
	})

	updated, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &model.AdvanceResult{Order: updated, StockWarnings: warnings}, nil
}

// decrementOrderStock subtracts each delivered line from stock.
// A line the ledger cannot cover is recorded as a warning and skipped;
// the delivery already happened in the physical world, so refusing the
// transition would only make the books more wrong.
func (s *orderService) decrementOrderStock(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.StockWarning, error) {
	lines, err := s.orderRepo.GetOrderLines(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var warnings []model.StockWarning
	for i := range lines {
		line := &lines[i]
		_, err := s.stockRepo.DecrementWithTx(ctx, tx, line.ProductID, line.VariantID, line.Quantity)
		if err == nil {
			continue
		}
		if !errors.Is(err, stockModel.ErrInsufficientStock) && !errors.Is(err, stockModel.ErrStockNotFound) {
			return nil, err
		}

		available := 0
		if current, lookupErr := s.stockRepo.GetByProduct(ctx, line.ProductID, line.VariantID); lookupErr == nil {
			available = current.Quantity
		}

		warning := model.StockWarning{
			ProductID: line.ProductID.String(),
			Requested: line.Quantity,
			Available: available,
		}
		if line.VariantID != nil {
			warning.VariantID = line.VariantID.String()
		}
		warnings = append(warnings, warning)

		logger.Warn("stock decrement skipped on delivery", map[string]interface{}{
			"order_id":   orderID.String(),
			"product_id": warning.ProductID,
			"requested":  warning.Requested,
			"available":  warning.Available,
		})
	}

	return warnings, nil
}

// ConfirmPayment implements ServiceInterface.ConfirmPayment
func (s *orderService) ConfirmPayment(ctx context.Context, orderNumber string) error {
	return s.orderRepo.MarkPaidByNumber(ctx, orderNumber)
}
