package queries

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

var ErrListRestaurantOrdersQueryIsNotConstructed = errors.New(
	"ListRestaurantOrdersQuery must be created via NewListRestaurantOrdersQuery constructor",
)

// ListRestaurantOrdersQuery lists the orders of the restaurant owned by the operator,
// newest first, optionally restricted to one status.
//
// Example:
//
//	status := order.Pending
//	query, err := NewListRestaurantOrdersQuery(operatorID, &status, 0)
//	orders, err := handler.Handle(ctx, query)
type ListRestaurantOrdersQuery struct {
	operatorID string
	status     *order.Status
	limit      int

	guard guard.ConstructorGuard
}

// NewListRestaurantOrdersQuery builds the query. A nil status lists every order; a
// limit of zero selects DefaultListLimit.
func NewListRestaurantOrdersQuery(operatorID string, status *order.Status, limit int) (ListRestaurantOrdersQuery, error) {
	var operatorErr, statusErr, limitErr error
	if strings.TrimSpace(operatorID) == "" {
		operatorErr = errs.NewUnauthorizedError("operator is not authenticated")
	}
	if status != nil {
		statusErr = status.Validate()
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}
	if err := errors.Join(operatorErr, statusErr, limitErr); err != nil {
		return ListRestaurantOrdersQuery{}, err
	}

	return ListRestaurantOrdersQuery{
		operatorID: operatorID,
		status:     status,
		limit:      limit,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListRestaurantOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListRestaurantOrdersQueryIsNotConstructed)
}

func (q ListRestaurantOrdersQuery) OperatorID() string {
	return q.operatorID
}

// Status returns the status filter, nil when absent.
func (q ListRestaurantOrdersQuery) Status() *order.Status {
	return q.status
}

func (q ListRestaurantOrdersQuery) Limit() int {
	return q.limit
}

// OrderSummary is an order as the operator dashboard shows it.
type OrderSummary struct {
	ID                kernel.UUID
	CustomerName      string
	CustomerPhone     string
	CustomerAddress   *string
	Fulfillment       order.Fulfillment
	Status            order.Status
	Items             []OrderItemView
	Subtotal          kernel.Cents
	DeliveryFee       kernel.Cents
	Tip               kernel.Cents
	Total             kernel.Cents
	Savings           kernel.Cents
	CourierDeliveryID *string
	TrackingURL       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
