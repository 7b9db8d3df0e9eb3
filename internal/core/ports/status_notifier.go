package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// StatusNotifier is told about every persisted status change. Delivery is best effort:
// a failed notification never undoes or fails the transition.
type StatusNotifier interface {
	NotifyStatusChanged(ctx context.Context, change order.StatusChanged) error
}
