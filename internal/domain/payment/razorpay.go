// internal/domain/payment/razorpay.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/your-org/pharmacy-backend/internal/config"
)

var (
	// ErrSignatureMismatch is returned when a payment callback fails verification
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	// ErrGatewayUnavailable is returned when the gateway rejects or times out
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// GatewayOrder is the gateway-side order created before collecting payment
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client talks to the Razorpay Orders API
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Razorpay client from configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		keyID:     cfg.External.Razorpay.KeyID,
		keySecret: cfg.External.Razorpay.KeySecret,
		baseURL:   cfg.External.Razorpay.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// KeyID exposes the public key id for checkout clients
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder registers an order with the gateway. Amount is in the smallest
// currency unit (paise for INR, cents for USD).
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(msg))
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway order: %w", err)
	}
	return &order, nil
}

// VerifySignature checks the callback signature against the shared secret
func (c *Client) VerifySignature(gatewayOrderID, paymentID, signature string) error {
	if !VerifySignature(c.keySecret, gatewayOrderID, paymentID, signature) {
		return ErrSignatureMismatch
	}
	return nil
}

// VerifySignature reports whether signature is the hex HMAC-SHA256 of
// "<orderID>|<paymentID>" under secret. Comparison is constant time.
func VerifySignature(secret, gatewayOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
