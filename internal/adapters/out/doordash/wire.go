package doordash

import (
	"time"

	"fulfillment/internal/core/domain/model/order"
)

type quoteRequestDTO struct {
	ExternalDeliveryID      string `json:"external_delivery_id"`
	PickupAddress           string `json:"pickup_address"`
	PickupBusinessName      string `json:"pickup_business_name"`
	PickupPhoneNumber       string `json:"pickup_phone_number"`
	PickupInstructions      string `json:"pickup_instructions,omitempty"`
	DropoffAddress          string `json:"dropoff_address"`
	DropoffPhoneNumber      string `json:"dropoff_phone_number"`
	DropoffContactGivenName string `json:"dropoff_contact_given_name"`
	DropoffInstructions     string `json:"dropoff_instructions,omitempty"`
	DropoffTime             string `json:"dropoff_time"`
	OrderValue              int64  `json:"order_value"`
	Tip                     int64  `json:"tip,omitempty"`
}

// deliveryDTO is the shape Drive returns for quotes, accepted quotes and deliveries.
type deliveryDTO struct {
	ExternalDeliveryID   string     `json:"external_delivery_id"`
	DeliveryStatus       string     `json:"delivery_status"`
	Fee                  int64      `json:"fee"`
	Currency             string     `json:"currency"`
	TrackingURL          string     `json:"tracking_url"`
	PickupTimeEstimated  *time.Time `json:"pickup_time_estimated"`
	DropoffTimeEstimated *time.Time `json:"dropoff_time_estimated"`
	CancellationReason   string     `json:"cancellation_reason"`
}

type errorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// deliveryStatuses maps Drive's delivery_status values onto the order lifecycle.
// Return legs have no lifecycle equivalent and fall through to order.Unknown.
var deliveryStatuses = map[string]order.Status{
	"quote":              order.Pending,
	"created":            order.Confirmed,
	"confirmed":          order.DriverAssigned,
	"enroute_to_pickup":  order.EnrouteToPickup,
	"arrived_at_pickup":  order.ArrivedAtPickup,
	"picked_up":          order.PickedUp,
	"enroute_to_dropoff": order.EnrouteToDropoff,
	"arrived_at_dropoff": order.ArrivedAtDropoff,
	"delivered":          order.Delivered,
	"cancelled":          order.Cancelled,
}

func deliveryStatus(raw string) order.Status {
	if s, ok := deliveryStatuses[raw]; ok {
		return s
	}
	return order.Unknown
}
