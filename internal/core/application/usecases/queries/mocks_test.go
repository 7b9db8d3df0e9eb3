package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByCourierDeliveryID(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CompareAndSwap(ctx context.Context, o *order.Order, expected ...order.Status) error {
	return m.Called(ctx, o, expected).Error(0)
}

func (m *MockOrderRepository) ListQuotedPendingBefore(ctx context.Context, before time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockRestaurantRepository struct{ mock.Mock }

func (m *MockRestaurantRepository) Add(ctx context.Context, r *restaurant.Restaurant) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByOwner(ctx context.Context, ownerID string) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

type stubUoW struct {
	orders      ports.OrderRepository
	restaurants ports.RestaurantRepository
}

func (u stubUoW) OrderRepository() ports.OrderRepository           { return u.orders }
func (u stubUoW) RestaurantRepository() ports.RestaurantRepository { return u.restaurants }

type stubUoWFactory struct{ uow stubUoW }

func (f stubUoWFactory) Create() queries.UoW { return f.uow }

type MockCourierClient struct{ mock.Mock }

func (m *MockCourierClient) RequestQuote(ctx context.Context, req ports.QuoteRequest) (ports.Quote, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.Quote), args.Error(1)
}

func (m *MockCourierClient) AcceptQuote(ctx context.Context, externalID string) (ports.Delivery, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(ports.Delivery), args.Error(1)
}

func (m *MockCourierClient) CancelDelivery(ctx context.Context, externalID string) (ports.CancelAck, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(ports.CancelAck), args.Error(1)
}

func (m *MockCourierClient) GetStatus(ctx context.Context, externalID string) (ports.StatusSnapshot, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(ports.StatusSnapshot), args.Error(1)
}

func newTestRestaurant(t *testing.T, ownerID string) *restaurant.Restaurant {
	t.Helper()
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), ownerID, "Curry House", "4 Bay St", "5550106666",
		restaurant.DefaultDeliveryPolicy())
	require.NoError(t, err)
	return r
}

func newTestOrder(t *testing.T, restaurantID kernel.UUID, fulfillment order.Fulfillment) *order.Order {
	t.Helper()
	item, err := order.NewItem("Curry", 1500, 2)
	require.NoError(t, err)

	address := "5 Hill Rd"
	charges := order.Charges{DeliveryFee: 299, MarketplaceFee: 900, CourierCost: 975, Savings: -75}
	if fulfillment == order.Pickup {
		address = ""
		charges = order.Charges{MarketplaceFee: 900, Savings: 900}
	}
	customer, err := order.NewCustomer("Alan", "5550105555", address)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), restaurantID, customer, fulfillment, []order.Item{item}, 0, charges, "")
	require.NoError(t, err)
	return o
}
