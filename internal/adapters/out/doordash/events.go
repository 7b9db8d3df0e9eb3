package doordash

import "fulfillment/internal/core/domain/model/order"

var eventStatuses = map[string]order.Status{
	"dasher_confirmed":                 order.DriverAssigned,
	"dasher_enroute_to_pickup":         order.EnrouteToPickup,
	"dasher_confirmed_pickup_arrival":  order.ArrivedAtPickup,
	"dasher_picked_up":                 order.PickedUp,
	"dasher_enroute_to_dropoff":        order.EnrouteToDropoff,
	"dasher_confirmed_dropoff_arrival": order.ArrivedAtDropoff,
	"dasher_dropped_off":               order.Delivered,
	"delivered":                        order.Delivered,
	"delivery_cancelled":               order.Cancelled,
}

// EventStatus translates a webhook event name into the lifecycle status it announces.
// The second result is false for events that carry no status change.
func EventStatus(eventName string) (order.Status, bool) {
	s, ok := eventStatuses[eventName]
	return s, ok
}
