// internal/domain/checkout/service_test.go
package checkout

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/pharmacy-backend/internal/domain/cart"
	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
	"github.com/your-org/pharmacy-backend/internal/domain/order"
	"github.com/your-org/pharmacy-backend/internal/domain/payment"
	"github.com/your-org/pharmacy-backend/internal/domain/pricing"
	"github.com/your-org/pharmacy-backend/internal/domain/upload"
)

type stubCarts struct {
	cart       *cart.Cart
	err        error
	checkedOut bool
}

func (s *stubCarts) GetActiveCart(userID uint) (*cart.Cart, error) {
	return s.cart, s.err
}

func (s *stubCarts) MarkCheckedOut(c *cart.Cart) error {
	s.checkedOut = true
	return nil
}

type stubPricer struct {
	priced *cart.PricedCart
	err    error
}

func (s *stubPricer) PriceCart(_ context.Context, _ *cart.Cart, _ pricing.Context) (*cart.PricedCart, error) {
	return s.priced, s.err
}

type stubGateway struct {
	order       *payment.GatewayOrder
	createErr   error
	verifyErr   error
	gotAmount   int64
	gotCurrency string
}

func (s *stubGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*payment.GatewayOrder, error) {
	s.gotAmount = amountMinor
	s.gotCurrency = currency
	return s.order, s.createErr
}

func (s *stubGateway) VerifySignature(gatewayOrderID, paymentID, signature string) error {
	return s.verifyErr
}

func (s *stubGateway) KeyID() string { return "rzp_test_key" }

type stubUploads struct {
	saved []upload.FileKind
}

func (s *stubUploads) SaveImage(_ context.Context, userID uint, kind upload.FileKind, header *multipart.FileHeader) (*upload.UploadedFile, error) {
	s.saved = append(s.saved, kind)
	return &upload.UploadedFile{Kind: kind, URL: "http://localhost/uploads/" + string(kind) + "/file.jpg"}, nil
}

type stubOrders struct {
	created  *order.Order
	existing *order.Order
	findErr  error
	saved    bool
}

func (s *stubOrders) Create(_ context.Context, o *order.Order) error {
	s.created = o
	return nil
}

func (s *stubOrders) FindByGatewayOrderID(_ context.Context, id string) (*order.Order, error) {
	return s.existing, s.findErr
}

func (s *stubOrders) Save(_ context.Context, o *order.Order) error {
	s.saved = true
	return nil
}

func fileHeader(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte("image bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func activeTestCart(t *testing.T, prescription bool) *cart.Cart {
	t.Helper()

	p := &catalog.Product{ID: 1, Name: "Amoxicillin 250mg", Slug: "amoxicillin-250mg", IsVisible: true, IsPrescriptionRequired: prescription}
	v := &catalog.Variant{
		ID:               10,
		ProductID:        1,
		SKU:              "MED-000002-V1",
		Price:            decimal.RequireFromString("1000.00"),
		Margin:           10,
		IsStockAvailable: true,
		MinOrderQuantity: 1,
		MaxOrderQuantity: 5,
	}

	c := &cart.Cart{ID: 1, UserID: 1, Status: cart.CartStatusActive}
	require.NoError(t, c.UpsertLine(p, v, 2))
	return c
}

func pricedUSD() *cart.PricedCart {
	return &cart.PricedCart{
		CartID:         1,
		Country:        "USA",
		Currency:       "USD",
		Symbol:         "$",
		TotalPrice:     "26.40",
		DeliveryCharge: "50.14",
		TotalCartPrice: "76.54",
		GrandTotal:     decimal.RequireFromString("76.54"),
	}
}

func validRequest(t *testing.T) *CreateOrderRequest {
	return &CreateOrderRequest{
		Country:  "USA",
		Currency: "USD",
		Name:     "Jordan Smith",
		Email:    "jordan@example.com",
		Phone:    "+15550001111",
		Address1: "1 Main St",
		City:     "Austin",
		PostCode: "73301",
		Passport: fileHeader(t, "passport.jpg"),
	}
}

func newTestService(carts *stubCarts, pricer *stubPricer, gw *stubGateway, ups *stubUploads, orders *stubOrders) *Service {
	return NewService(carts, pricer, gw, ups, orders)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	svc := newTestService(
		&stubCarts{err: cart.ErrCartNotFound},
		&stubPricer{}, &stubGateway{}, &stubUploads{}, &stubOrders{},
	)

	_, err := svc.CreateOrder(context.Background(), 1, validRequest(t))
	assert.ErrorIs(t, err, ErrEmptyCart)

	svc = newTestService(
		&stubCarts{cart: &cart.Cart{ID: 1, Status: cart.CartStatusActive}},
		&stubPricer{}, &stubGateway{}, &stubUploads{}, &stubOrders{},
	)
	_, err = svc.CreateOrder(context.Background(), 1, validRequest(t))
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateOrder_PrescriptionGate(t *testing.T) {
	svc := newTestService(
		&stubCarts{cart: activeTestCart(t, true)},
		&stubPricer{priced: pricedUSD()},
		&stubGateway{}, &stubUploads{}, &stubOrders{},
	)

	req := validRequest(t)
	_, err := svc.CreateOrder(context.Background(), 1, req)
	assert.ErrorIs(t, err, ErrPrescriptionRequired)
}

func TestCreateOrder_PassportMandatory(t *testing.T) {
	svc := newTestService(
		&stubCarts{cart: activeTestCart(t, false)},
		&stubPricer{priced: pricedUSD()},
		&stubGateway{}, &stubUploads{}, &stubOrders{},
	)

	req := validRequest(t)
	req.Passport = nil
	_, err := svc.CreateOrder(context.Background(), 1, req)
	assert.ErrorIs(t, err, ErrPassportRequired)
}

func TestCreateOrder_Success(t *testing.T) {
	carts := &stubCarts{cart: activeTestCart(t, true)}
	gw := &stubGateway{order: &payment.GatewayOrder{ID: "order_gw1", Amount: 7654, Currency: "USD"}}
	ups := &stubUploads{}
	orders := &stubOrders{}

	svc := newTestService(carts, &stubPricer{priced: pricedUSD()}, gw, ups, orders)

	req := validRequest(t)
	req.Prescription = fileHeader(t, "prescription.jpg")

	result, err := svc.CreateOrder(context.Background(), 1, req)
	require.NoError(t, err)

	// Gateway charged the grand total in minor units
	assert.Equal(t, int64(7654), gw.gotAmount)
	assert.Equal(t, "USD", gw.gotCurrency)
	assert.Equal(t, "order_gw1", result.GatewayOrderID)
	assert.Equal(t, "rzp_test_key", result.GatewayKeyID)

	require.NotNil(t, orders.created)
	o := orders.created
	assert.Equal(t, order.OrderStatusPending, o.Status)
	assert.Equal(t, "order_gw1", o.Payment.GatewayOrderID)
	assert.Equal(t, "USD", o.Currency)
	assert.Equal(t, "26.40", o.TotalPrice.StringFixed(2))
	assert.Equal(t, "50.14", o.DeliveryCharge.StringFixed(2))
	assert.Equal(t, "76.54", o.TotalCartPrice.StringFixed(2))
	assert.NotEmpty(t, o.PrescriptionURL)
	assert.NotEmpty(t, o.PassportURL)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Amoxicillin 250mg", o.Items[0].Name)
	assert.Equal(t, 2, o.Items[0].Quantity)

	assert.ElementsMatch(t, []upload.FileKind{upload.FileKindPrescription, upload.FileKindPassport}, ups.saved)
	assert.True(t, carts.checkedOut)
}

func TestConfirmPayment_SignatureMismatch(t *testing.T) {
	svc := newTestService(
		&stubCarts{}, &stubPricer{},
		&stubGateway{verifyErr: payment.ErrSignatureMismatch},
		&stubUploads{}, &stubOrders{},
	)

	_, err := svc.ConfirmPayment(context.Background(), &ConfirmPaymentRequest{
		GatewayOrderID: "order_gw1", PaymentID: "pay_1", Signature: "bogus",
	})
	assert.ErrorIs(t, err, payment.ErrSignatureMismatch)
}

func TestConfirmPayment_UnknownOrder(t *testing.T) {
	svc := newTestService(
		&stubCarts{}, &stubPricer{}, &stubGateway{},
		&stubUploads{}, &stubOrders{findErr: order.ErrOrderNotFound},
	)

	_, err := svc.ConfirmPayment(context.Background(), &ConfirmPaymentRequest{
		GatewayOrderID: "order_missing", PaymentID: "pay_1", Signature: "sig",
	})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestConfirmPayment_CompletesOrder(t *testing.T) {
	pending := &order.Order{
		OrderNumber: "ORD-20260831-ABCD1234",
		Status:      order.OrderStatusPending,
		Payment:     order.Payment{GatewayOrderID: "order_gw1"},
	}
	orders := &stubOrders{existing: pending}

	svc := newTestService(&stubCarts{}, &stubPricer{}, &stubGateway{}, &stubUploads{}, orders)

	confirmed, err := svc.ConfirmPayment(context.Background(), &ConfirmPaymentRequest{
		GatewayOrderID: "order_gw1", PaymentID: "pay_1", Signature: "sig_1",
	})
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusCompleted, confirmed.Status)
	assert.Equal(t, "pay_1", confirmed.Payment.PaymentID)
	assert.True(t, orders.saved)

	// Redelivery of the same callback succeeds without changing anything
	again, err := svc.ConfirmPayment(context.Background(), &ConfirmPaymentRequest{
		GatewayOrderID: "order_gw1", PaymentID: "pay_1", Signature: "sig_1",
	})
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusCompleted, again.Status)
}
