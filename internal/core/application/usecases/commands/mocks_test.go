package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const operatorID = "operator-1"

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
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
	args := m.Called(ctx, o, expected)
	return args.Error(0)
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
	args := m.Called(ctx, r)
	return args.Error(0)
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

// MockUoW satisfies both commands.UoW and commands.OrderUoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RestaurantRepository() ports.RestaurantRepository {
	args := m.Called()
	return args.Get(0).(ports.RestaurantRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

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

type MockStatusNotifier struct{ mock.Mock }

func (m *MockStatusNotifier) NotifyStatusChanged(ctx context.Context, change order.StatusChanged) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func statusChangedTo(status order.Status) any {
	return mock.MatchedBy(func(c order.StatusChanged) bool { return c.Status == status })
}

func newTestRestaurant(t *testing.T) *restaurant.Restaurant {
	t.Helper()
	policy := restaurant.DefaultDeliveryPolicy()
	policy.PassTip = true
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), operatorID, "Pho 99", "9 Market St", "5550109999", policy)
	require.NoError(t, err)
	return r
}

func newTestItems(t *testing.T) []order.Item {
	t.Helper()
	item, err := order.NewItem("Pho", 2000, 2)
	require.NoError(t, err)
	return []order.Item{item}
}

func newTestOrder(t *testing.T, r *restaurant.Restaurant, fulfillment order.Fulfillment) *order.Order {
	t.Helper()
	address := "1 Elm St"
	charges := order.Charges{DeliveryFee: 299, MarketplaceFee: 1200, CourierCost: 700, Savings: 500}
	if fulfillment == order.Pickup {
		address = ""
		charges = order.Charges{MarketplaceFee: 1200, Savings: 1200}
	}
	customer, err := order.NewCustomer("Ada", "5550101234", address)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), r.ID(), customer, fulfillment, newTestItems(t), 500, charges, "")
	require.NoError(t, err)
	return o
}

// dispatchedOrder returns a Confirmed delivery order advanced to status.
func dispatchedOrder(t *testing.T, r *restaurant.Restaurant, status order.Status) *order.Order {
	t.Helper()
	o := newTestOrder(t, r, order.Delivery)
	require.NoError(t, o.Confirm("ext-"+o.ID().String(), "https://track/"+o.ID().String()))
	if status != order.Confirmed {
		applied, err := o.Advance(status, "")
		require.NoError(t, err)
		require.True(t, applied)
	}
	o.PullStatusChanges()
	return o
}

// addresslessDeliveryOrder rebuilds a Pending delivery order persisted without an address.
func addresslessDeliveryOrder(t *testing.T, r *restaurant.Restaurant) *order.Order {
	t.Helper()
	customer, err := order.NewCustomer("Ada", "5550101234", "")
	require.NoError(t, err)
	items := newTestItems(t)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:           kernel.NewUUID(),
		RestaurantID: r.ID(),
		Customer:     customer,
		Fulfillment:  order.Delivery,
		Items:        items,
		Subtotal:     order.Subtotal(items),
		Charges:      order.Charges{DeliveryFee: 299, MarketplaceFee: 1200, CourierCost: 975, Savings: 225},
		Status:       order.Pending,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return o
}

// storedCopy rebuilds o the way a second reader of the same row would see it.
func storedCopy(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	c, err := order.RestoreOrder(order.Snapshot{
		ID:                o.ID(),
		RestaurantID:      o.RestaurantID(),
		Customer:          o.Customer(),
		Fulfillment:       o.Fulfillment(),
		Items:             o.Items(),
		Subtotal:          o.Subtotal(),
		Charges:           o.Charges(),
		Tip:               o.Tip(),
		PaymentRef:        o.PaymentRef(),
		CourierQuoteID:    o.CourierQuoteID(),
		QuotedAt:          o.QuotedAt(),
		CourierDeliveryID: o.CourierDeliveryID(),
		TrackingURL:       o.TrackingURL(),
		Status:            o.Status(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	})
	require.NoError(t, err)
	return c
}
