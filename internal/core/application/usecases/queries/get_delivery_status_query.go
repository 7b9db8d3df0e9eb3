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

var ErrGetDeliveryStatusQueryIsNotConstructed = errors.New(
	"GetDeliveryStatusQuery must be created via NewGetDeliveryStatusQuery constructor",
)

// GetDeliveryStatusQuery asks the courier provider for the live state of an order's
// delivery. The answer is informational: only webhooks move the stored status.
type GetDeliveryStatusQuery struct {
	orderID    kernel.UUID
	operatorID string

	guard guard.ConstructorGuard
}

func NewGetDeliveryStatusQuery(orderID kernel.UUID, operatorID string) (GetDeliveryStatusQuery, error) {
	var operatorErr error
	if strings.TrimSpace(operatorID) == "" {
		operatorErr = errs.NewUnauthorizedError("operator is not authenticated")
	}
	if err := errors.Join(orderID.Validate(), operatorErr); err != nil {
		return GetDeliveryStatusQuery{}, err
	}

	return GetDeliveryStatusQuery{
		orderID:    orderID,
		operatorID: operatorID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetDeliveryStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryStatusQueryIsNotConstructed)
}

func (q GetDeliveryStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetDeliveryStatusQuery) OperatorID() string {
	return q.operatorID
}

// DeliveryStatus pairs the stored order status with the provider's current view.
type DeliveryStatus struct {
	OrderID           kernel.UUID
	OrderStatus       order.Status
	CourierDeliveryID string
	CourierStatus     order.Status
	TrackingURL       string
	Fee               kernel.Cents
	PickupETA         *time.Time
	DropoffETA        *time.Time
}
