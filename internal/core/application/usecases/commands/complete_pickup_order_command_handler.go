package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CompletePickupOrderCommandHandler marks a confirmed pickup order as handed over.
type CompletePickupOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  statusPublisher
}

func NewCompletePickupOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.StatusNotifier,
	logger *slog.Logger,
) CompletePickupOrderCommandHandler {
	return CompletePickupOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  newStatusPublisher(notifier, logger),
	}
}

// Handle fails with a validation error for Delivery orders, which only couriers complete,
// and with errs.ConflictError unless the order is Confirmed.
func (h CompletePickupOrderCommandHandler) Handle(
	ctx context.Context,
	cmd CompletePickupOrderCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, _, err := loadOwnedOrder(ctx, uow, cmd.OrderID(), cmd.OperatorID())
	if err != nil {
		return nil, err
	}

	if err = o.Complete(); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().CompareAndSwap(ctx, o, order.Confirmed); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.publish(ctx, o)
	return o, nil
}
