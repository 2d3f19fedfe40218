package paypal

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"storefront-backend/internal/domains/payment/gateway"
)

// =====================================================
// PAYPAL REDIRECT CLIENT
// =====================================================

type Config struct {
	BaseURL    string // checkout endpoint, e.g. https://www.sandbox.paypal.com/checkout
	ClientID   string
	HashSecret string // shared secret for URL and webhook signatures
	ReturnURL  string // frontend callback after the external flow
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("paypal base URL is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("paypal client id is required")
	}
	if c.HashSecret == "" {
		return fmt.Errorf("paypal hash secret is required")
	}
	return nil
}

type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient builds a PayPal redirect client. timeout bounds every
// outbound call to the provider.
func NewClient(config *Config, timeout time.Duration) (gateway.RedirectGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid paypal config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreatePaymentURL implements gateway.RedirectGateway.CreatePaymentURL
func (c *Client) CreatePaymentURL(ctx context.Context, req gateway.PaymentRequest) (string, error) {
	if req.OrderNumber == "" {
		return "", fmt.Errorf("order number is required")
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return "", fmt.Errorf("amount must be positive")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := time.Now()
	params := map[string]string{
		"client_id":   c.config.ClientID,
		"invoice":     req.OrderNumber,
		"amount":      req.Amount.StringFixed(2),
		"description": req.Description,
		"return_url":  c.config.ReturnURL,
		"created":     now.UTC().Format("20060102150405"),
		"expires":     now.Add(30 * time.Minute).UTC().Format("20060102150405"),
	}

	return buildSignedURL(c.config.BaseURL, params, c.config.HashSecret), nil
}

// VerifyWebhookSignature implements gateway.RedirectGateway.VerifyWebhookSignature
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.config.HashSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// buildSignedURL query-encodes the params in sorted key order and
// appends an HMAC-SHA256 signature over the encoded string
func buildSignedURL(baseURL string, params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		values.Set(k, params[k])
	}
	encoded := values.Encode()

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(encoded))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("%s?%s&signature=%s", baseURL, encoded, signature)
}
