package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery fetches the public view of one order, as the customer's order page
// shows it after checkout.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderView is the customer-facing projection of an order. It carries no contact data
// and no margin figures.
type OrderView struct {
	ID             kernel.UUID
	RestaurantID   kernel.UUID
	RestaurantName string
	CustomerName   string
	Fulfillment    order.Fulfillment
	Status         order.Status
	Items          []OrderItemView
	Subtotal       kernel.Cents
	DeliveryFee    kernel.Cents
	Tip            kernel.Cents
	Total          kernel.Cents
	TrackingURL    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
