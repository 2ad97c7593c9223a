// internal/domain/payment/razorpay_test.go
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/pharmacy-backend/internal/config"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func testClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.External.Razorpay.KeyID = "rzp_test_key"
	cfg.External.Razorpay.KeySecret = "rzp_test_secret"
	cfg.External.Razorpay.BaseURL = baseURL
	return NewClient(cfg)
}

func TestVerifySignature(t *testing.T) {
	secret := "rzp_test_secret"
	valid := sign(secret, "order_abc", "pay_xyz")

	assert.True(t, VerifySignature(secret, "order_abc", "pay_xyz", valid))
	assert.False(t, VerifySignature(secret, "order_abc", "pay_xyz", "deadbeef"))
	assert.False(t, VerifySignature(secret, "order_other", "pay_xyz", valid))
	assert.False(t, VerifySignature("wrong_secret", "order_abc", "pay_xyz", valid))
}

func TestClientVerifySignature(t *testing.T) {
	client := testClient("https://api.razorpay.com/v1")

	valid := sign("rzp_test_secret", "order_abc", "pay_xyz")
	assert.NoError(t, client.VerifySignature("order_abc", "pay_xyz", valid))
	assert.ErrorIs(t, client.VerifySignature("order_abc", "pay_xyz", "bogus"), ErrSignatureMismatch)
}

func TestCreateOrder(t *testing.T) {
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_abc123",
			Amount:   7654,
			Currency: "USD",
			Receipt:  "ORD-20260831-TEST0001",
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	order, err := client.CreateOrder(context.Background(), 7654, "USD", "ORD-20260831-TEST0001")
	require.NoError(t, err)

	assert.Equal(t, "order_abc123", order.ID)
	assert.Equal(t, int64(7654), order.Amount)
	assert.Equal(t, float64(7654), gotPayload["amount"])
	assert.Equal(t, "USD", gotPayload["currency"])
	assert.Equal(t, "ORD-20260831-TEST0001", gotPayload["receipt"])
}

func TestCreateOrder_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"authentication failed"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	_, err := client.CreateOrder(context.Background(), 100, "INR", "ORD-1")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}
