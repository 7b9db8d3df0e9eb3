package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// validateOperatorID checks the authenticated operator subject carried by operator commands.
func validateOperatorID(operatorID string) error {
	if strings.TrimSpace(operatorID) == "" {
		return errs.NewUnauthorizedError("operator is not authenticated")
	}
	return nil
}

// loadOwnedOrder fetches an order and its restaurant and fails closed unless the
// operator owns that restaurant.
func loadOwnedOrder(
	ctx context.Context,
	uow UoW,
	orderID kernel.UUID,
	operatorID string,
) (*order.Order, *restaurant.Restaurant, error) {
	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	r, err := uow.RestaurantRepository().Get(ctx, o.RestaurantID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, errs.NewForbiddenError("order", orderID.String())
	}
	if err != nil {
		return nil, nil, err
	}

	if !r.IsOwnedBy(operatorID) {
		return nil, nil, errs.NewForbiddenError("order", orderID.String())
	}
	return o, r, nil
}

// statusPublisher drains the status changes of a persisted order into the notifier.
// Notification failures are logged and never fail the command.
type statusPublisher struct {
	notifier ports.StatusNotifier
	logger   *slog.Logger
}

func newStatusPublisher(notifier ports.StatusNotifier, logger *slog.Logger) statusPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return statusPublisher{notifier: notifier, logger: logger}
}

func (p statusPublisher) publish(ctx context.Context, o *order.Order) {
	for _, change := range o.PullStatusChanges() {
		if p.notifier == nil {
			continue
		}
		if err := p.notifier.NotifyStatusChanged(ctx, change); err != nil {
			p.logger.WarnContext(ctx, "status change notification failed",
				slog.String("order_id", change.OrderID.String()),
				slog.String("status", change.Status.String()),
				slog.Any("error", err))
		}
	}
}
