// internal/domain/order/entity_test.go
package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" Completed ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCompleted, status)

	_, err = ParseStatus("shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNewOrderNumber(t *testing.T) {
	a := NewOrderNumber()
	b := NewOrderNumber()

	assert.True(t, strings.HasPrefix(a, "ORD-"))
	assert.NotEqual(t, a, b)
}

func TestMarkCompleted(t *testing.T) {
	o := &Order{Status: OrderStatusPending}

	require.NoError(t, o.MarkCompleted("pay_1", "sig_1"))
	assert.Equal(t, OrderStatusCompleted, o.Status)
	assert.Equal(t, "pay_1", o.Payment.PaymentID)
	assert.Equal(t, "sig_1", o.Payment.Signature)
	require.NotNil(t, o.CompletedAt)
	firstCompletion := *o.CompletedAt

	// Redelivered callback with the same payment id is a no-op
	require.NoError(t, o.MarkCompleted("pay_1", "sig_1"))
	assert.Equal(t, firstCompletion, *o.CompletedAt)

	// A different payment against a completed order is refused
	assert.ErrorIs(t, o.MarkCompleted("pay_2", "sig_2"), ErrOrderClosed)
	assert.Equal(t, "pay_1", o.Payment.PaymentID)
}

func TestMarkCompleted_FailedOrder(t *testing.T) {
	o := &Order{Status: OrderStatusFailed}
	assert.ErrorIs(t, o.MarkCompleted("pay_1", "sig_1"), ErrOrderClosed)
}

func TestMarkFailed(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	require.NoError(t, o.MarkFailed())
	assert.Equal(t, OrderStatusFailed, o.Status)
	assert.True(t, o.IsTerminal())

	completed := &Order{Status: OrderStatusCompleted}
	assert.ErrorIs(t, completed.MarkFailed(), ErrOrderClosed)
}
