package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/cart/repository"
	catalogRepo "storefront-backend/internal/domains/catalog/repository"
	"storefront-backend/internal/shared/utils"
)

// =====================================================
// CART SERVICE IMPLEMENTATION
// =====================================================
type cartService struct {
	cartRepo    repository.RepositoryInterface
	catalogRepo catalogRepo.RepositoryInterface
}

// NewCartService creates a new cart service
func NewCartService(
	cartRepo repository.RepositoryInterface,
	catalogRepo catalogRepo.RepositoryInterface,
) ServiceInterface {
	return &cartService{
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
	}
}

// AddLine implements ServiceInterface.AddLine
func (s *cartService) AddLine(ctx context.Context, userID uuid.UUID, req model.AddLineRequest) (*model.CartLine, error) {
	// Step 1: Validate request shape
	if err := req.Validate(); err != nil {
		return nil, err
	}

	productID := utils.ParseStringToUUID(req.ProductID)
	var variantID *uuid.UUID
	if req.VariantID != nil {
		vid := utils.ParseStringToUUID(*req.VariantID)
		variantID = &vid
	}

	// Step 2: Resolve product/variant; fails with NotFound for bad ids
	item, err := s.catalogRepo.Resolve(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	// Step 3: Increment existing open line or insert a new one.
	// Unit price is snapshotted at add-time and kept on increments.
	existing, err := s.cartRepo.GetUnconfirmedLine(ctx, userID, productID, variantID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		quantity := existing.Quantity + req.Quantity
		if quantity > model.MaxQuantityPerLine {
			quantity = model.MaxQuantityPerLine
		}
		lineAmount := existing.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))

		if err := s.cartRepo.UpdateLineQuantity(ctx, existing.ID, quantity, lineAmount); err != nil {
			return nil, err
		}

		existing.Quantity = quantity
		existing.LineAmount = lineAmount
		return existing, nil
	}

	line := &model.CartLine{
		ID:         uuid.New(),
		UserID:     userID,
		ProductID:  productID,
		VariantID:  variantID,
		Quantity:   req.Quantity,
		UnitPrice:  item.UnitPrice,
		LineAmount: item.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Title:      item.Title,
	}

	if err := s.cartRepo.InsertLine(ctx, line); err != nil {
		return nil, err
	}

	return line, nil
}

// GetCart implements ServiceInterface.GetCart
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	lines, err := s.cartRepo.ListUnconfirmed(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Subtotal is derived from the lines, never read from storage
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineAmount)
	}

	return &model.CartResponse{
		Lines:    lines,
		Subtotal: subtotal,
	}, nil
}

// Subtotal implements ServiceInterface.Subtotal
func (s *cartService) Subtotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return s.cartRepo.SubtotalUnconfirmed(ctx, userID)
}

// Clear implements ServiceInterface.Clear
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.DeleteUnconfirmed(ctx, userID)
}
