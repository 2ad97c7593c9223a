// internal/interfaces/http/handlers/respond_test.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/your-org/pharmacy-backend/internal/domain/cart"
	"github.com/your-org/pharmacy-backend/internal/domain/order"
	"github.com/your-org/pharmacy-backend/internal/domain/payment"
	"github.com/your-org/pharmacy-backend/internal/domain/pricing"
)

func recordError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, err)
	return w
}

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{cart.ErrCartNotFound, http.StatusNotFound},
		{cart.ErrLineNotFound, http.StatusNotFound},
		{order.ErrOrderNotFound, http.StatusNotFound},
		{order.ErrOrderNotOwned, http.StatusForbidden},
		{pricing.ErrUnsupportedCurrency, http.StatusBadRequest},
		{cart.ErrQuantityOutOfRange, http.StatusBadRequest},
		{payment.ErrSignatureMismatch, http.StatusBadRequest},
		{payment.ErrGatewayUnavailable, http.StatusBadGateway},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := recordError(tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRespondError_WrappedErrors(t *testing.T) {
	// Services wrap sentinels with context; the mapping must see through
	err := fmt.Errorf("loading cart for user 7: %w", cart.ErrCartNotFound)

	w := recordError(err)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondError_UnknownErrorHidesDetail(t *testing.T) {
	w := recordError(errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}
