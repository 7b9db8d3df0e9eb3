package queries

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type GetDeliveryStatusQueryHandler struct {
	uowFactory     UoWFactory
	courier        ports.CourierClient
	courierTimeout time.Duration
}

func NewGetDeliveryStatusQueryHandler(
	uowFactory UoWFactory,
	courier ports.CourierClient,
	courierTimeout time.Duration,
) GetDeliveryStatusQueryHandler {
	return GetDeliveryStatusQueryHandler{
		uowFactory:     uowFactory,
		courier:        courier,
		courierTimeout: courierTimeout,
	}
}

// Handle checks that the operator owns the order, then polls the provider.
// Orders that were never dispatched fail with a ValueIsRequiredError.
func (h GetDeliveryStatusQueryHandler) Handle(ctx context.Context, query GetDeliveryStatusQuery) (DeliveryStatus, error) {
	if err := query.Validate(); err != nil {
		return DeliveryStatus{}, err
	}

	uow := h.uowFactory.Create()
	o, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return DeliveryStatus{}, err
	}

	r, err := uow.RestaurantRepository().Get(ctx, o.RestaurantID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return DeliveryStatus{}, err
	}
	if r == nil || !r.IsOwnedBy(query.OperatorID()) {
		return DeliveryStatus{}, errs.NewForbiddenError("order", query.OrderID().String())
	}

	deliveryID := o.CourierDeliveryID()
	if deliveryID == nil {
		return DeliveryStatus{}, errs.NewValueIsRequiredError("courier delivery id")
	}

	statusCtx, cancel := context.WithTimeout(ctx, h.courierTimeout)
	defer cancel()
	snapshot, err := h.courier.GetStatus(statusCtx, *deliveryID)
	if err != nil {
		return DeliveryStatus{}, err
	}

	return DeliveryStatus{
		OrderID:           o.ID(),
		OrderStatus:       o.Status(),
		CourierDeliveryID: *deliveryID,
		CourierStatus:     snapshot.Status,
		TrackingURL:       snapshot.TrackingURL,
		Fee:               snapshot.Fee,
		PickupETA:         snapshot.PickupETA,
		DropoffETA:        snapshot.DropoffETA,
	}, nil
}
