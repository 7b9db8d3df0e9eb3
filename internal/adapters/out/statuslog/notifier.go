// Package statuslog is the status notifier used when no message broker is configured.
package statuslog

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

var _ ports.StatusNotifier = (*Notifier)(nil)

type Notifier struct {
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{logger: logger.With("component", "status_notifier")}
}

func (n *Notifier) NotifyStatusChanged(ctx context.Context, change order.StatusChanged) error {
	n.logger.InfoContext(ctx, "order status changed",
		"order_id", change.OrderID.String(),
		"restaurant_id", change.RestaurantID.String(),
		"status", change.Status.String(),
		"previous_status", change.PreviousStatus.String(),
		"changed_at", change.ChangedAt)
	return nil
}
