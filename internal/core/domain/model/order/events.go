package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// StatusChanged is raised by every successful status transition. The aggregate
// buffers these until the change is persisted; see Order.PullStatusChanges.
type StatusChanged struct {
	OrderID        kernel.UUID
	RestaurantID   kernel.UUID
	Status         Status
	PreviousStatus Status
	TrackingURL    string
	ChangedAt      time.Time
}
