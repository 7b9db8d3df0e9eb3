package http

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/adapters/in/http/gate"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

const (
	testJWTSecret     = "operator-session-secret"
	testJWTIssuer     = "fulfillment-dashboard"
	testWebhookSecret = "whsec_test"
	testOperator      = "user_2abc"
)

type MockHandler[In, Out any] struct {
	mock.Mock
}

func (m *MockHandler[In, Out]) Handle(ctx context.Context, in In) (Out, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(Out)
	return out, args.Error(1)
}

type testHandlers struct {
	createOrder     *MockHandler[commands.CreateOrderCommand, *order.Order]
	confirmOrder    *MockHandler[commands.ConfirmOrderCommand, *order.Order]
	cancelOrder     *MockHandler[commands.CancelOrderCommand, *order.Order]
	completePickup  *MockHandler[commands.CompletePickupOrderCommand, *order.Order]
	advanceStatus   *MockHandler[commands.AdvanceOrderStatusCommand, bool]
	getOrder        *MockHandler[queries.GetOrderQuery, queries.OrderView]
	listOrders      *MockHandler[queries.ListRestaurantOrdersQuery, []queries.OrderSummary]
	deliveryStatus  *MockHandler[queries.GetDeliveryStatusQuery, queries.DeliveryStatus]
	validateAddress *MockHandler[queries.ValidateAddressQuery, queries.AddressValidation]
}

func (h testHandlers) assertExpectations(t *testing.T) {
	t.Helper()
	h.createOrder.AssertExpectations(t)
	h.confirmOrder.AssertExpectations(t)
	h.cancelOrder.AssertExpectations(t)
	h.completePickup.AssertExpectations(t)
	h.advanceStatus.AssertExpectations(t)
	h.getOrder.AssertExpectations(t)
	h.listOrders.AssertExpectations(t)
	h.deliveryStatus.AssertExpectations(t)
	h.validateAddress.AssertExpectations(t)
}

type allowBots struct{ ok bool }

func (a allowBots) Verify(context.Context, string, string) bool { return a.ok }

type testServer struct {
	e        *echo.Echo
	handlers testHandlers
}

type serverOption func(*Config, *gate.BotVerifier)

func withBotCheck(ok bool) serverOption {
	return func(_ *Config, bot *gate.BotVerifier) { *bot = allowBots{ok: ok} }
}

func withOrderRule(rule gate.Rule) serverOption {
	return func(cfg *Config, _ *gate.BotVerifier) { cfg.OrderRule = rule }
}

func newTestServer(t *testing.T, opts ...serverOption) testServer {
	t.Helper()

	h := testHandlers{
		createOrder:     &MockHandler[commands.CreateOrderCommand, *order.Order]{},
		confirmOrder:    &MockHandler[commands.ConfirmOrderCommand, *order.Order]{},
		cancelOrder:     &MockHandler[commands.CancelOrderCommand, *order.Order]{},
		completePickup:  &MockHandler[commands.CompletePickupOrderCommand, *order.Order]{},
		advanceStatus:   &MockHandler[commands.AdvanceOrderStatusCommand, bool]{},
		getOrder:        &MockHandler[queries.GetOrderQuery, queries.OrderView]{},
		listOrders:      &MockHandler[queries.ListRestaurantOrdersQuery, []queries.OrderSummary]{},
		deliveryStatus:  &MockHandler[queries.GetDeliveryStatusQuery, queries.DeliveryStatus]{},
		validateAddress: &MockHandler[queries.ValidateAddressQuery, queries.AddressValidation]{},
	}

	cfg := Config{
		WebhookSecret: testWebhookSecret,
		OrderRule:     gate.Rule{Limit: 100, Window: time.Minute},
		AddressRule:   gate.Rule{Limit: 100, Window: time.Minute},
	}
	var bot gate.BotVerifier = allowBots{ok: true}
	for _, opt := range opts {
		opt(&cfg, &bot)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(cfg, Handlers{
		CreateOrder:     h.createOrder,
		ConfirmOrder:    h.confirmOrder,
		CancelOrder:     h.cancelOrder,
		CompletePickup:  h.completePickup,
		AdvanceStatus:   h.advanceStatus,
		GetOrder:        h.getOrder,
		ListOrders:      h.listOrders,
		DeliveryStatus:  h.deliveryStatus,
		ValidateAddress: h.validateAddress,
	}, NewOperatorAuth(testJWTSecret, testJWTIssuer), gate.NewFixedWindow(), bot, logger)

	e := NewEcho(logger)
	srv.Register(e)
	return testServer{e: e, handlers: h}
}

func (s testServer) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.RemoteAddr = "203.0.113.7:40000"
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func signOperatorToken(t *testing.T, subject string, expiresIn time.Duration) string {
	t.Helper()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    testJWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func operatorHeaders(t *testing.T) map[string]string {
	t.Helper()
	return map[string]string{echo.HeaderAuthorization: "Bearer " + signOperatorToken(t, testOperator, time.Hour)}
}

func newTestOrder(t *testing.T, fulfillment order.Fulfillment) *order.Order {
	t.Helper()

	address := "9 Elm St"
	charges := order.Charges{DeliveryFee: 499, MarketplaceFee: 900, CourierCost: 975, Savings: -75}
	if fulfillment == order.Pickup {
		address = ""
		charges = order.Charges{MarketplaceFee: 900, Savings: 900}
	}

	customer, err := order.NewCustomer("Alan", "5550105555", address)
	require.NoError(t, err)
	curry, err := order.NewItem("Curry", 1500, 2)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), customer, fulfillment,
		[]order.Item{curry}, 0, charges, "")
	require.NoError(t, err)
	return o
}
