package rabbitmq

import (
	"time"

	"fulfillment/internal/core/domain/model/order"
)

type statusChangedMessage struct {
	OrderID        string    `json:"orderId"`
	RestaurantID   string    `json:"restaurantId"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus"`
	TrackingURL    string    `json:"trackingUrl,omitempty"`
	ChangedAt      time.Time `json:"changedAt"`
}

func newStatusChangedMessage(change order.StatusChanged) statusChangedMessage {
	return statusChangedMessage{
		OrderID:        change.OrderID.String(),
		RestaurantID:   change.RestaurantID.String(),
		Status:         change.Status.String(),
		PreviousStatus: change.PreviousStatus.String(),
		TrackingURL:    change.TrackingURL,
		ChangedAt:      change.ChangedAt.UTC(),
	}
}
