package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartModel "storefront-backend/internal/domains/cart/model"
	couponModel "storefront-backend/internal/domains/coupon/model"
	"storefront-backend/internal/domains/order/model"
	"storefront-backend/internal/domains/payment/gateway"
	paymentModel "storefront-backend/internal/domains/payment/model"
	shippingModel "storefront-backend/internal/domains/shipping/model"
	stockModel "storefront-backend/internal/domains/stock/model"
	"storefront-backend/internal/shared/checkout"
)

// fakeTx satisfies pgx.Tx for repositories that only pass it through
type fakeTx struct {
	pgx.Tx
}

// =====================================================
// MOCKS
// =====================================================

type mockOrderRepo struct {
	orders        map[uuid.UUID]*model.Order
	lines         map[uuid.UUID][]cartModel.CartLine
	history       []model.OrderStatusHistory
	conflictsLeft int
	creates       int
	commits       int
	rollbacks     int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: map[uuid.UUID]*model.Order{},
		lines:  map[uuid.UUID][]cartModel.CartLine{},
	}
}

func (m *mockOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }
func (m *mockOrderRepo) CommitTx(ctx context.Context, tx pgx.Tx) error {
	m.commits++
	return nil
}
func (m *mockOrderRepo) RollbackTx(ctx context.Context, tx pgx.Tx) { m.rollbacks++ }

func (m *mockOrderRepo) CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	m.creates++
	if m.conflictsLeft > 0 {
		m.conflictsLeft--
		return model.ErrOrderNumberConflict
	}
	stored := *order
	m.orders[order.ID] = &stored
	return nil
}

func (m *mockOrderRepo) CreateStatusHistoryWithTx(ctx context.Context, tx pgx.Tx, h *model.OrderStatusHistory) error {
	m.history = append(m.history, *h)
	return nil
}

func (m *mockOrderRepo) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	for _, order := range m.orders {
		if order.OrderNumber == orderNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepo) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]cartModel.CartLine, error) {
	return m.lines[orderID], nil
}

func (m *mockOrderRepo) UpdateOrderStatusWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, fromStatus, toStatus string) error {
	order, ok := m.orders[orderID]
	if !ok || order.Status != fromStatus {
		return model.ErrInvalidTransition
	}
	order.Status = toStatus
	return nil
}

func (m *mockOrderRepo) MarkPaidByNumber(ctx context.Context, orderNumber string) error {
	for _, order := range m.orders {
		if order.OrderNumber == orderNumber && order.PaymentStatus == paymentModel.PaymentStatusUnpaid {
			order.PaymentStatus = paymentModel.PaymentStatusPaid
			return nil
		}
	}
	return model.ErrOrderNotFound
}

type mockCartRepo struct {
	lines      []cartModel.CartLine
	reassigned *uuid.UUID
}

func (m *mockCartRepo) GetUnconfirmedLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*cartModel.CartLine, error) {
	return nil, nil
}
func (m *mockCartRepo) InsertLine(ctx context.Context, line *cartModel.CartLine) error { return nil }
func (m *mockCartRepo) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int, lineAmount decimal.Decimal) error {
	return nil
}
func (m *mockCartRepo) ListUnconfirmed(ctx context.Context, userID uuid.UUID) ([]cartModel.CartLine, error) {
	return m.lines, nil
}
func (m *mockCartRepo) SubtotalUnconfirmed(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	subtotal := decimal.Zero
	for _, line := range m.lines {
		subtotal = subtotal.Add(line.LineAmount)
	}
	return subtotal, nil
}
func (m *mockCartRepo) DeleteUnconfirmed(ctx context.Context, userID uuid.UUID) error { return nil }
func (m *mockCartRepo) LockUnconfirmedWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]cartModel.CartLine, error) {
	return m.lines, nil
}
func (m *mockCartRepo) ReassignToOrderWithTx(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID) (int, error) {
	m.reassigned = &orderID
	return len(m.lines), nil
}

type mockCouponEvaluator struct {
	discount decimal.Decimal
	err      error
	calls    int
}

func (m *mockCouponEvaluator) Evaluate(ctx context.Context, code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	m.calls++
	if m.err != nil {
		return decimal.Zero, m.err
	}
	return m.discount, nil
}

type mockCouponUsageRepo struct {
	increments int
	err        error
}

func (m *mockCouponUsageRepo) FindByCode(ctx context.Context, code string) (*couponModel.Coupon, error) {
	return nil, nil
}
func (m *mockCouponUsageRepo) IncrementUsageWithTx(ctx context.Context, tx pgx.Tx, code string) error {
	if m.err != nil {
		return m.err
	}
	m.increments++
	return nil
}

type mockShippingRepo struct {
	methods map[uuid.UUID]*shippingModel.Method
}

func (m *mockShippingRepo) GetByID(ctx context.Context, id uuid.UUID) (*shippingModel.Method, error) {
	method, ok := m.methods[id]
	if !ok {
		return nil, shippingModel.ErrShippingMethodNotFound
	}
	return method, nil
}
func (m *mockShippingRepo) ListActive(ctx context.Context) ([]shippingModel.Method, error) {
	return nil, nil
}

type mockPaymentResolver struct {
	resolution *paymentModel.Resolution
	err        error
}

func (m *mockPaymentResolver) Resolve(ctx context.Context, methodSlug string, hasProof bool) (*paymentModel.Resolution, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resolution, nil
}

type mockStockRepo struct {
	quantities map[string]int
}

func stockKey(productID uuid.UUID, variantID *uuid.UUID) string {
	if variantID == nil {
		return productID.String()
	}
	return productID.String() + "/" + variantID.String()
}

func (m *mockStockRepo) GetByProduct(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*stockModel.Stock, error) {
	qty, ok := m.quantities[stockKey(productID, variantID)]
	if !ok {
		return nil, stockModel.ErrStockNotFound
	}
	return &stockModel.Stock{ProductID: productID, VariantID: variantID, Quantity: qty}, nil
}

func (m *mockStockRepo) Decrement(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) (int, error) {
	return m.DecrementWithTx(ctx, nil, productID, variantID, quantity)
}

func (m *mockStockRepo) DecrementWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, variantID *uuid.UUID, quantity int) (int, error) {
	key := stockKey(productID, variantID)
	current, ok := m.quantities[key]
	if !ok {
		return 0, stockModel.ErrStockNotFound
	}
	if current < quantity {
		return 0, stockModel.ErrInsufficientStock
	}
	m.quantities[key] = current - quantity
	return current - quantity, nil
}

type memCheckoutStore struct {
	contexts map[uuid.UUID]*checkout.Context
	cleared  int
}

func newMemCheckoutStore() *memCheckoutStore {
	return &memCheckoutStore{contexts: map[uuid.UUID]*checkout.Context{}}
}

func (s *memCheckoutStore) Get(ctx context.Context, userID uuid.UUID) (*checkout.Context, error) {
	if c, ok := s.contexts[userID]; ok {
		copied := *c
		return &copied, nil
	}
	return &checkout.Context{}, nil
}
func (s *memCheckoutStore) Save(ctx context.Context, userID uuid.UUID, c *checkout.Context) error {
	s.contexts[userID] = c
	return nil
}
func (s *memCheckoutStore) Clear(ctx context.Context, userID uuid.UUID) error {
	delete(s.contexts, userID)
	s.cleared++
	return nil
}

type mockProofStorage struct {
	uploads int
	err     error
}

func (m *mockProofStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.uploads++
	return "storefront/" + key, nil
}

type mockEnqueuer struct {
	tasks []*asynq.Task
}

func (m *mockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	m.tasks = append(m.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type mockRedirectGateway struct {
	calls int
	err   error
}

func (m *mockRedirectGateway) CreatePaymentURL(ctx context.Context, req gateway.PaymentRequest) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return "https://pay.example/checkout?invoice=" + req.OrderNumber, nil
}

func (m *mockRedirectGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	return true
}

// =====================================================
// FIXTURE
// =====================================================

type fixture struct {
	svc      *orderService
	orders   *mockOrderRepo
	cart     *mockCartRepo
	coupons  *mockCouponEvaluator
	usage    *mockCouponUsageRepo
	shipping *mockShippingRepo
	payments *mockPaymentResolver
	stock    *mockStockRepo
	store    *memCheckoutStore
	proofs   *mockProofStorage
	queue    *mockEnqueuer
	gateway  *mockRedirectGateway
	userID   uuid.UUID
}

func codResolution() *paymentModel.Resolution {
	return &paymentModel.Resolution{
		Class:                paymentModel.ClassCOD,
		MethodSlug:           paymentModel.SlugCOD,
		InitialPaymentStatus: paymentModel.PaymentStatusUnpaid,
	}
}

func newFixture() *fixture {
	f := &fixture{
		orders:   newMockOrderRepo(),
		cart:     &mockCartRepo{},
		coupons:  &mockCouponEvaluator{},
		usage:    &mockCouponUsageRepo{},
		shipping: &mockShippingRepo{methods: map[uuid.UUID]*shippingModel.Method{}},
		payments: &mockPaymentResolver{resolution: codResolution()},
		stock:    &mockStockRepo{quantities: map[string]int{}},
		store:    newMemCheckoutStore(),
		proofs:   &mockProofStorage{},
		queue:    &mockEnqueuer{},
		gateway:  &mockRedirectGateway{},
		userID:   uuid.New(),
	}
	f.svc = &orderService{
		orderRepo:       f.orders,
		cartRepo:        f.cart,
		couponRepo:      f.usage,
		couponSvc:       f.coupons,
		shippingRepo:    f.shipping,
		paymentSvc:      f.payments,
		stockRepo:       f.stock,
		checkoutStore:   f.store,
		proofStorage:    f.proofs,
		enqueuer:        f.queue,
		redirectGateway: f.gateway,
		gatewayTimeout:  time.Second,
		now:             func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

func (f *fixture) addCartLine(price int64, quantity int) cartModel.CartLine {
	line := cartModel.CartLine{
		ID:         uuid.New(),
		UserID:     f.userID,
		ProductID:  uuid.New(),
		Quantity:   quantity,
		UnitPrice:  decimal.NewFromInt(price),
		LineAmount: decimal.NewFromInt(price * int64(quantity)),
		Title:      fmt.Sprintf("product %d", len(f.cart.lines)+1),
	}
	f.cart.lines = append(f.cart.lines, line)
	return line
}

func placeRequest() *model.PlaceOrderRequest {
	return &model.PlaceOrderRequest{
		BillingName:    "Jamie Doe",
		BillingAddress: "1 Main Street, Springfield",
		BillingPhone:   "0123456789",
		PaymentMethod:  paymentModel.SlugCOD,
	}
}

// =====================================================
// PLACEMENT
// =====================================================

func TestPlaceOrder_PricesAndFreezesAmounts(t *testing.T) {
	f := newFixture()
	f.addCartLine(50, 2) // subtotal 100

	methodID := uuid.New()
	f.shipping.methods[methodID] = &shippingModel.Method{
		ID:    methodID,
		Price: decimal.NewFromInt(10),
	}
	f.coupons.discount = decimal.NewFromInt(10) // 10% of 100
	f.store.contexts[f.userID] = &checkout.Context{
		CouponCode:       "SAVE10",
		ShippingMethodID: &methodID,
	}

	resp, err := f.svc.PlaceOrder(context.Background(), f.userID, placeRequest())
	require.NoError(t, err)

	// 100 + 10 − 10
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(100)), "got %s", resp.Total)
	assert.Equal(t, model.OrderStatusNew, resp.Status)
	assert.Equal(t, paymentModel.PaymentStatusUnpaid, resp.PaymentStatus)
	assert.Regexp(t, `^ORD-20250615-[0-9A-F]{8}$`, resp.OrderNumber)

	order := f.orders.orders[uuid.MustParse(resp.OrderID)]
	require.NotNil(t, order)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, order.ShippingFee.Equal(decimal.NewFromInt(10)))
	assert.True(t, order.DiscountAmount.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, order.CouponCode)
	assert.Equal(t, "SAVE10", *order.CouponCode)

	// Lines left the cart, the coupon use was burned, history written
	require.NotNil(t, f.cart.reassigned)
	assert.Equal(t, order.ID, *f.cart.reassigned)
	assert.Equal(t, 1, f.usage.increments)
	require.Len(t, f.orders.history, 1)
	assert.Equal(t, model.OrderStatusNew, f.orders.history[0].ToStatus)
	assert.Nil(t, f.orders.history[0].FromStatus)

	// Post-commit: notification queued, checkout context cleared
	assert.Len(t, f.queue.tasks, 1)
	assert.Equal(t, 1, f.store.cleared)
	assert.Equal(t, 1, f.orders.commits)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, placeRequest())
	assert.ErrorIs(t, err, model.ErrEmptyCart)

	var orderErr *model.OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, model.ErrCodeEmptyCart, orderErr.Code)
	assert.Empty(t, f.orders.orders)
}

func TestPlaceOrder_CouponRejectedAtPlacement(t *testing.T) {
	// A coupon that passed at apply-time can fail inside the locked
	// transaction; the placement must fail without side effects
	f := newFixture()
	f.addCartLine(40, 1)
	f.coupons.err = couponModel.ErrMinimumNotMet
	f.store.contexts[f.userID] = &checkout.Context{CouponCode: "FLAT5"}

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, placeRequest())
	assert.ErrorIs(t, err, couponModel.ErrMinimumNotMet)
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, 0, f.usage.increments)
	assert.Equal(t, 0, f.orders.commits)
}

func TestPlaceOrder_RetriesOnNumberConflict(t *testing.T) {
	f := newFixture()
	f.addCartLine(25, 1)
	f.orders.conflictsLeft = 1

	resp, err := f.svc.PlaceOrder(context.Background(), f.userID, placeRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, f.orders.creates)
	assert.NotEmpty(t, resp.OrderNumber)
}

func TestPlaceOrder_ConflictRetriesExhausted(t *testing.T) {
	f := newFixture()
	f.addCartLine(25, 1)
	f.orders.conflictsLeft = maxPlacementAttempts

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, placeRequest())
	require.Error(t, err)

	var orderErr *model.OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, model.ErrCodeOrderNumberConflict, orderErr.Code)
	assert.Equal(t, maxPlacementAttempts, f.orders.creates)
}

func TestPlaceOrder_ProofUploadFailureIsClean(t *testing.T) {
	f := newFixture()
	f.addCartLine(25, 1)
	instructions := "wire the amount to account 123"
	f.payments.resolution = &paymentModel.Resolution{
		Class:                paymentModel.ClassOffline,
		MethodSlug:           "bank-transfer",
		InitialPaymentStatus: paymentModel.PaymentStatusUnpaid,
		TransferInstructions: &instructions,
	}
	f.proofs.err = errors.New("minio unreachable")

	req := placeRequest()
	req.PaymentMethod = "bank-transfer"
	req.Proof = &model.ProofFile{Data: []byte{0xFF, 0xD8}, ContentType: "image/jpeg"}

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, req)
	assert.ErrorIs(t, err, paymentModel.ErrProofUploadFailed)
	assert.Empty(t, f.orders.orders, "no order may exist after a failed upload")
}

func TestPlaceOrder_OfflineProofStoredOnOrder(t *testing.T) {
	f := newFixture()
	f.addCartLine(25, 1)
	instructions := "wire the amount to account 123"
	f.payments.resolution = &paymentModel.Resolution{
		Class:                paymentModel.ClassOffline,
		MethodSlug:           "bank-transfer",
		InitialPaymentStatus: paymentModel.PaymentStatusUnpaid,
		TransferInstructions: &instructions,
	}

	req := placeRequest()
	req.PaymentMethod = "bank-transfer"
	req.Proof = &model.ProofFile{Data: []byte{0xFF, 0xD8}, ContentType: "image/jpeg"}

	resp, err := f.svc.PlaceOrder(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.proofs.uploads)
	require.NotNil(t, resp.TransferInstructions)
	assert.Equal(t, instructions, *resp.TransferInstructions)

	order := f.orders.orders[uuid.MustParse(resp.OrderID)]
	require.NotNil(t, order.PaymentProofRef)
	assert.Contains(t, *order.PaymentProofRef, "proofs/")
}

func TestPlaceOrder_RedirectKeepsCheckoutContext(t *testing.T) {
	f := newFixture()
	f.addCartLine(25, 1)
	f.payments.resolution = &paymentModel.Resolution{
		Class:                paymentModel.ClassInstant,
		MethodSlug:           paymentModel.SlugPayPal,
		InitialPaymentStatus: paymentModel.PaymentStatusUnpaid,
		RequiresRedirect:     true,
	}

	req := placeRequest()
	req.PaymentMethod = paymentModel.SlugPayPal

	resp, err := f.svc.PlaceOrder(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.True(t, resp.RedirectRequired)
	assert.Contains(t, resp.RedirectURL, resp.OrderNumber)
	assert.Equal(t, 1, f.gateway.calls)
	assert.Equal(t, 0, f.store.cleared)
}

func TestPlaceOrder_GatewayFailureLeavesOrderAwaitingPayment(t *testing.T) {
	f := newFixture()
	f.addCartLine(25, 1)
	f.gateway.err = errors.New("gateway unreachable")
	f.payments.resolution = &paymentModel.Resolution{
		Class:                paymentModel.ClassInstant,
		MethodSlug:           paymentModel.SlugPayPal,
		InitialPaymentStatus: paymentModel.PaymentStatusUnpaid,
		RequiresRedirect:     true,
	}

	req := placeRequest()
	req.PaymentMethod = paymentModel.SlugPayPal

	resp, err := f.svc.PlaceOrder(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Empty(t, resp.RedirectURL)
	placed := f.orders.orders[uuid.MustParse(resp.OrderID)]
	require.NotNil(t, placed)
	assert.Equal(t, paymentModel.PaymentStatusUnpaid, placed.PaymentStatus)
	assert.Equal(t, 1, f.orders.commits)
}

// =====================================================
// LIFECYCLE
// =====================================================

func (f *fixture) seedOrder(status string, lines ...cartModel.CartLine) *model.Order {
	order := &model.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-20250615-AAAA1111",
		UserID:      f.userID,
		Status:      status,
		Total:       decimal.NewFromInt(50),
	}
	f.orders.orders[order.ID] = order
	f.orders.lines[order.ID] = lines
	return order
}

func TestAdvanceStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{model.OrderStatusNew, model.OrderStatusProcessing, true},
		{model.OrderStatusNew, model.OrderStatusCancelled, true},
		{model.OrderStatusNew, model.OrderStatusDelivered, false},
		{model.OrderStatusProcessing, model.OrderStatusDelivered, true},
		{model.OrderStatusProcessing, model.OrderStatusCancelled, true},
		{model.OrderStatusProcessing, model.OrderStatusNew, false},
		{model.OrderStatusDelivered, model.OrderStatusCancelled, false},
		{model.OrderStatusCancelled, model.OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			f := newFixture()
			order := f.seedOrder(tt.from)

			result, err := f.svc.AdvanceStatus(context.Background(), order.ID, uuid.New(), &model.AdvanceStatusRequest{Status: tt.to})
			if !tt.allowed {
				var orderErr *model.OrderError
				require.ErrorAs(t, err, &orderErr)
				assert.Equal(t, model.ErrCodeInvalidTransition, orderErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, result.Order.Status)
		})
	}
}

func TestAdvanceStatus_SameStatusIsNoop(t *testing.T) {
	f := newFixture()
	line := f.addCartLine(25, 2)
	order := f.seedOrder(model.OrderStatusDelivered, line)
	f.stock.quantities[stockKey(line.ProductID, nil)] = 10

	result, err := f.svc.AdvanceStatus(context.Background(), order.ID, uuid.New(), &model.AdvanceStatusRequest{Status: model.OrderStatusDelivered})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, result.Order.Status)

	// A repeated delivery confirmation must not decrement stock again
	assert.Equal(t, 10, f.stock.quantities[stockKey(line.ProductID, nil)])
	assert.Empty(t, f.orders.history)
}

func TestAdvanceStatus_DeliveryDecrementsStock(t *testing.T) {
	f := newFixture()
	lineA := f.addCartLine(25, 2)
	lineB := f.addCartLine(10, 3)
	order := f.seedOrder(model.OrderStatusProcessing, lineA, lineB)
	f.stock.quantities[stockKey(lineA.ProductID, nil)] = 10
	f.stock.quantities[stockKey(lineB.ProductID, nil)] = 3

	result, err := f.svc.AdvanceStatus(context.Background(), order.ID, uuid.New(), &model.AdvanceStatusRequest{Status: model.OrderStatusDelivered})
	require.NoError(t, err)

	assert.Empty(t, result.StockWarnings)
	assert.Equal(t, 8, f.stock.quantities[stockKey(lineA.ProductID, nil)])
	assert.Equal(t, 0, f.stock.quantities[stockKey(lineB.ProductID, nil)])
	assert.Equal(t, model.OrderStatusDelivered, result.Order.Status)
}

func TestAdvanceStatus_InsufficientStockWarnsButDelivers(t *testing.T) {
	f := newFixture()
	short := f.addCartLine(25, 5)
	covered := f.addCartLine(10, 1)
	order := f.seedOrder(model.OrderStatusProcessing, short, covered)
	f.stock.quantities[stockKey(short.ProductID, nil)] = 2
	f.stock.quantities[stockKey(covered.ProductID, nil)] = 4

	result, err := f.svc.AdvanceStatus(context.Background(), order.ID, uuid.New(), &model.AdvanceStatusRequest{Status: model.OrderStatusDelivered})
	require.NoError(t, err, "a stock shortfall must not block the delivery")

	assert.Equal(t, model.OrderStatusDelivered, result.Order.Status)
	require.Len(t, result.StockWarnings, 1)
	warning := result.StockWarnings[0]
	assert.Equal(t, short.ProductID.String(), warning.ProductID)
	assert.Equal(t, 5, warning.Requested)
	assert.Equal(t, 2, warning.Available)

	// The short line is untouched, the covered line was decremented
	assert.Equal(t, 2, f.stock.quantities[stockKey(short.ProductID, nil)])
	assert.Equal(t, 3, f.stock.quantities[stockKey(covered.ProductID, nil)])
}

func TestAdvanceStatus_RecordsHistory(t *testing.T) {
	f := newFixture()
	order := f.seedOrder(model.OrderStatusNew)
	adminID := uuid.New()
	note := "packed and handed to the courier"

	_, err := f.svc.AdvanceStatus(context.Background(), order.ID, adminID, &model.AdvanceStatusRequest{
		Status: model.OrderStatusProcessing,
		Note:   &note,
	})
	require.NoError(t, err)

	require.Len(t, f.orders.history, 1)
	h := f.orders.history[0]
	require.NotNil(t, h.FromStatus)
	assert.Equal(t, model.OrderStatusNew, *h.FromStatus)
	assert.Equal(t, model.OrderStatusProcessing, h.ToStatus)
	require.NotNil(t, h.ChangedBy)
	assert.Equal(t, adminID, *h.ChangedBy)
	require.NotNil(t, h.Notes)
	assert.Equal(t, note, *h.Notes)
}

// =====================================================
// READS AND CHECKOUT CONTEXT
// =====================================================

func TestGetOrderByNumber_Ownership(t *testing.T) {
	f := newFixture()
	order := f.seedOrder(model.OrderStatusNew)

	t.Run("owner sees the order", func(t *testing.T) {
		detail, err := f.svc.GetOrderByNumber(context.Background(), f.userID, false, order.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, order.OrderNumber, detail.Order.OrderNumber)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		_, err := f.svc.GetOrderByNumber(context.Background(), uuid.New(), false, order.OrderNumber)
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})

	t.Run("admin sees any order", func(t *testing.T) {
		detail, err := f.svc.GetOrderByNumber(context.Background(), uuid.New(), true, order.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, order.OrderNumber, detail.Order.OrderNumber)
	})
}

func TestApplyCoupon_AttachesAndPreviews(t *testing.T) {
	f := newFixture()
	f.addCartLine(50, 2)
	f.coupons.discount = decimal.NewFromInt(10)

	preview, err := f.svc.ApplyCoupon(context.Background(), f.userID, "SAVE10")
	require.NoError(t, err)

	assert.True(t, preview.Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, preview.Discount.Equal(decimal.NewFromInt(10)))
	assert.True(t, preview.Total.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, "SAVE10", preview.CouponCode)

	saved := f.store.contexts[f.userID]
	require.NotNil(t, saved)
	assert.Equal(t, "SAVE10", saved.CouponCode)
}

func TestApplyCoupon_InvalidCodeNotAttached(t *testing.T) {
	f := newFixture()
	f.addCartLine(50, 2)
	f.coupons.err = couponModel.ErrInvalidCoupon

	_, err := f.svc.ApplyCoupon(context.Background(), f.userID, "NOPE")
	assert.ErrorIs(t, err, couponModel.ErrInvalidCoupon)
	assert.Nil(t, f.store.contexts[f.userID])
}

func TestRemoveCoupon(t *testing.T) {
	f := newFixture()
	f.addCartLine(50, 2)
	f.store.contexts[f.userID] = &checkout.Context{CouponCode: "SAVE10"}

	preview, err := f.svc.RemoveCoupon(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, preview.CouponCode)
	assert.True(t, preview.Total.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, f.store.contexts[f.userID].CouponCode)
}

func TestSelectShipping(t *testing.T) {
	f := newFixture()
	f.addCartLine(50, 2)
	methodID := uuid.New()
	f.shipping.methods[methodID] = &shippingModel.Method{ID: methodID, Price: decimal.NewFromInt(7)}

	preview, err := f.svc.SelectShipping(context.Background(), f.userID, methodID)
	require.NoError(t, err)
	assert.True(t, preview.ShippingFee.Equal(decimal.NewFromInt(7)))
	assert.True(t, preview.Total.Equal(decimal.NewFromInt(107)))

	t.Run("unknown method rejected", func(t *testing.T) {
		_, err := f.svc.SelectShipping(context.Background(), f.userID, uuid.New())
		assert.ErrorIs(t, err, shippingModel.ErrShippingMethodNotFound)
	})
}

func TestConfirmPayment(t *testing.T) {
	f := newFixture()
	order := f.seedOrder(model.OrderStatusNew)
	order.PaymentStatus = paymentModel.PaymentStatusUnpaid

	require.NoError(t, f.svc.ConfirmPayment(context.Background(), order.OrderNumber))
	assert.Equal(t, paymentModel.PaymentStatusPaid, f.orders.orders[order.ID].PaymentStatus)

	// Unknown numbers surface as not found so the webhook can ack
	assert.ErrorIs(t, f.svc.ConfirmPayment(context.Background(), "ORD-00000000-XXXXXXXX"), model.ErrOrderNotFound)
}
