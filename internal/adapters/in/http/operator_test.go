package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

func TestOperatorRoutes_RequireSession(t *testing.T) {
	expired := signOperatorToken(t, testOperator, -time.Hour)
	noSubject := signOperatorToken(t, "", time.Hour)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
		{"expired", "Bearer " + expired},
		{"no subject", "Bearer " + noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			headers := map[string]string{}
			if tt.header != "" {
				headers[echo.HeaderAuthorization] = tt.header
			}

			rec := s.do(t, http.MethodGet, "/api/v1/operator/orders", "", headers)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			s.handlers.listOrders.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}

func TestOperatorAuth_FailsClosedWithoutSecret(t *testing.T) {
	_, err := NewOperatorAuth("", "").authenticate("Bearer " + signOperatorToken(t, testOperator, time.Hour))

	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestOperatorAuth_RejectsForeignIssuer(t *testing.T) {
	auth := NewOperatorAuth(testJWTSecret, "someone-else")

	_, err := auth.authenticate("Bearer " + signOperatorToken(t, testOperator, time.Hour))

	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestListOrders(t *testing.T) {
	s := newTestServer(t)
	status := order.Confirmed
	query, err := queries.NewListRestaurantOrdersQuery(testOperator, &status, 0)
	require.NoError(t, err)

	s.handlers.listOrders.On("Handle", mock.Anything, query).Return([]queries.OrderSummary{
		{ID: kernel.NewUUID(), CustomerName: "Alan", Fulfillment: order.Delivery, Status: order.Confirmed, Savings: -75},
	}, nil).Once()

	rec := s.do(t, http.MethodGet, "/api/v1/operator/orders?status=confirmed", "", operatorHeaders(t))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got []OrderSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "CONFIRMED", got[0].Status)
	assert.EqualValues(t, -75, got[0].Savings)
	s.handlers.assertExpectations(t)
}

func TestListOrders_BadFilter(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodGet, "/api/v1/operator/orders?status=LOST", "", operatorHeaders(t)).Code)
	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodGet, "/api/v1/operator/orders?limit=many", "", operatorHeaders(t)).Code)
	s.handlers.listOrders.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestConfirmOrder(t *testing.T) {
	o := newTestOrder(t, order.Delivery)
	require.NoError(t, o.Confirm(o.ID().String(), "https://track.example/1"))
	cmd, err := commands.NewConfirmOrderCommand(o.ID(), testOperator)
	require.NoError(t, err)

	s := newTestServer(t)
	s.handlers.confirmOrder.On("Handle", mock.Anything, cmd).Return(o, nil).Once()

	rec := s.do(t, http.MethodPost, "/api/v1/operator/orders/"+o.ID().String()+"/confirm", "", operatorHeaders(t))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "CONFIRMED", got.Status)
	require.NotNil(t, got.TrackingURL)
	assert.Equal(t, "https://track.example/1", *got.TrackingURL)
	s.handlers.assertExpectations(t)
}

func TestConfirmOrder_MapsFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not owner", errs.NewForbiddenError("order", "o-1"), http.StatusForbidden},
		{"unknown order", errs.NewObjectNotFoundError("order", "o-1"), http.StatusNotFound},
		{"not pending", errs.NewConflictError("order status"), http.StatusConflict},
		{"missing address", errs.NewValueIsRequiredError("customer address"), http.StatusBadRequest},
		{"rejected", &ports.ProviderError{Kind: ports.ErrProviderRejected, Operation: "request quote"}, http.StatusUnprocessableEntity},
		{"expired", &ports.ProviderError{Kind: ports.ErrQuoteExpired, Operation: "accept quote"}, http.StatusConflict},
		{"unavailable", &ports.ProviderError{Kind: ports.ErrProviderUnavailable, Operation: "accept quote"}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.handlers.confirmOrder.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := s.do(t, http.MethodPost, "/api/v1/operator/orders/"+kernel.NewUUID().String()+"/confirm", "",
				operatorHeaders(t))

			assert.Equal(t, tt.want, rec.Code)
			var body Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Code)
		})
	}
}

func TestCancelOrder(t *testing.T) {
	o := newTestOrder(t, order.Pickup)
	require.NoError(t, o.Cancel())
	cmd, err := commands.NewCancelOrderCommand(o.ID(), testOperator)
	require.NoError(t, err)

	s := newTestServer(t)
	s.handlers.cancelOrder.On("Handle", mock.Anything, cmd).Return(o, nil).Once()

	rec := s.do(t, http.MethodPost, "/api/v1/operator/orders/"+o.ID().String()+"/cancel", "", operatorHeaders(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"CANCELLED"`)
	s.handlers.assertExpectations(t)
}

func TestCompletePickupOrder(t *testing.T) {
	o := newTestOrder(t, order.Pickup)
	require.NoError(t, o.Confirm("", ""))
	require.NoError(t, o.Complete())
	cmd, err := commands.NewCompletePickupOrderCommand(o.ID(), testOperator)
	require.NoError(t, err)

	s := newTestServer(t)
	s.handlers.completePickup.On("Handle", mock.Anything, cmd).Return(o, nil).Once()

	rec := s.do(t, http.MethodPost, "/api/v1/operator/orders/"+o.ID().String()+"/complete", "", operatorHeaders(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"DELIVERED"`)
	s.handlers.assertExpectations(t)
}

func TestGetDeliveryStatus(t *testing.T) {
	id := kernel.NewUUID()
	query, err := queries.NewGetDeliveryStatusQuery(id, testOperator)
	require.NoError(t, err)

	s := newTestServer(t)
	s.handlers.deliveryStatus.On("Handle", mock.Anything, query).Return(queries.DeliveryStatus{
		OrderID:           id,
		OrderStatus:       order.DriverAssigned,
		CourierDeliveryID: id.String(),
		CourierStatus:     order.EnrouteToPickup,
		Fee:               975,
	}, nil).Once()

	rec := s.do(t, http.MethodGet, "/api/v1/operator/orders/"+id.String()+"/delivery-status", "", operatorHeaders(t))

	require.Equal(t, http.StatusOK, rec.Code)
	var got DeliveryStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "DRIVER_ASSIGNED", got.OrderStatus)
	assert.Equal(t, "ENROUTE_TO_PICKUP", got.CourierStatus)
	assert.EqualValues(t, 975, got.Fee)
	s.handlers.assertExpectations(t)
}
