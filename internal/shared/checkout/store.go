package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront-backend/pkg/cache"
)

// Context is the per-checkout request context that replaces server
// session state: the web layer persists it between requests, the order
// pipeline only reads it.
type Context struct {
	CouponCode       string     `json:"coupon_code,omitempty"`
	ShippingMethodID *uuid.UUID `json:"shipping_method_id,omitempty"`
}

// HasCoupon reports whether a coupon is attached to this checkout
func (c *Context) HasCoupon() bool {
	return c != nil && c.CouponCode != ""
}

// Store persists checkout contexts keyed by user
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*Context, error)
	Save(ctx context.Context, userID uuid.UUID, checkout *Context) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CacheKeyCheckout format: "checkout:user:{userID}"
const CacheKeyCheckout = "checkout:user:%s"

type cacheStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheStore returns a Store backed by the shared cache layer
func NewCacheStore(c cache.Cache, ttl time.Duration) Store {
	return &cacheStore{cache: c, ttl: ttl}
}

func (s *cacheStore) Get(ctx context.Context, userID uuid.UUID) (*Context, error) {
	var checkout Context
	found, err := s.cache.Get(ctx, s.key(userID), &checkout)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout context: %w", err)
	}
	if !found {
		// Empty context, not an error: nothing selected yet
		return &Context{}, nil
	}
	return &checkout, nil
}

func (s *cacheStore) Save(ctx context.Context, userID uuid.UUID, checkout *Context) error {
	if err := s.cache.Set(ctx, s.key(userID), checkout, s.ttl); err != nil {
		return fmt.Errorf("failed to save checkout context: %w", err)
	}
	return nil
}

func (s *cacheStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.cache.Delete(ctx, s.key(userID)); err != nil {
		return fmt.Errorf("failed to clear checkout context: %w", err)
	}
	return nil
}

func (s *cacheStore) key(userID uuid.UUID) string {
	return fmt.Sprintf(CacheKeyCheckout, userID)
}
