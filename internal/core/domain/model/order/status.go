package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// Courier deliveries move strictly forward along:
//
//	Pending ─> Confirmed ─> DriverAssigned ─> EnrouteToPickup ─> ArrivedAtPickup ─> PickedUp
//	        ─> EnrouteToDropoff ─> ArrivedAtDropoff ─> Delivered
//
// Pickup orders use the short path Pending ─> Confirmed ─> Delivered.
// Cancelled is reachable from any non-terminal status. Delivered and Cancelled are terminal.
//
// The numeric order of the constants is the forward order of the delivery path;
// Cancelled sits outside it and is handled explicitly.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status. No courier has been engaged.
	Pending

	// Confirmed means the operator accepted the order; for deliveries a courier
	// dispatch exists.
	Confirmed

	// DriverAssigned means the provider matched a courier to the delivery.
	DriverAssigned

	// EnrouteToPickup means the courier is heading to the restaurant.
	EnrouteToPickup

	// ArrivedAtPickup means the courier is waiting at the restaurant. It is the last
	// status an operator can cancel from.
	ArrivedAtPickup

	// PickedUp means the courier has the food.
	PickedUp

	// EnrouteToDropoff means the courier is heading to the customer.
	EnrouteToDropoff

	// ArrivedAtDropoff means the courier is at the customer's address.
	ArrivedAtDropoff

	// Delivered is terminal.
	Delivered

	// Cancelled is terminal.
	Cancelled
)

var statusNames = map[Status]string{
	Pending:          "PENDING",
	Confirmed:        "CONFIRMED",
	DriverAssigned:   "DRIVER_ASSIGNED",
	EnrouteToPickup:  "ENROUTE_TO_PICKUP",
	ArrivedAtPickup:  "ARRIVED_AT_PICKUP",
	PickedUp:         "PICKED_UP",
	EnrouteToDropoff: "ENROUTE_TO_DROPOFF",
	ArrivedAtDropoff: "ARRIVED_AT_DROPOFF",
	Delivered:        "DELIVERED",
	Cancelled:        "CANCELLED",
}

// cancellable lists the statuses from which an operator may still cancel. Once the
// courier holds the food the order can no longer be called back.
var cancellable = []Status{Pending, Confirmed, DriverAssigned, EnrouteToPickup, ArrivedAtPickup}

// ParseStatus converts a persisted or wire status name such as "PICKED_UP" into a Status.
func ParseStatus(name string) (Status, error) {
	for status, statusName := range statusNames {
		if statusName == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsCancellable reports whether an order in this status may be cancelled.
func (s Status) IsCancellable() bool {
	for _, c := range cancellable {
		if c == s {
			return true
		}
	}
	return false
}

// CancellableStatuses returns the statuses from which cancellation is allowed.
// The result is a fresh slice.
func CancellableStatuses() []Status {
	out := make([]Status, len(cancellable))
	copy(out, cancellable)
	return out
}

// CanAdvanceTo reports whether moving from s to next is a legal forward step for
// an order with the given fulfillment.
//
// Rules:
//   - nothing leaves a terminal status
//   - Cancelled is reachable from every non-terminal status
//   - Pickup orders only move Pending -> Confirmed -> Delivered
//   - Delivery orders move to any status further along the delivery path, so
//     skipped webhook events do not block progress
//
// A false result is not an error; callers treat it as a no-op.
func (s Status) CanAdvanceTo(next Status, fulfillment Fulfillment) bool {
	if s.Validate() != nil || next.Validate() != nil || s.IsTerminal() {
		return false
	}

	if next == Cancelled {
		return true
	}

	if fulfillment == Pickup {
		return (s == Pending && next == Confirmed) || (s == Confirmed && next == Delivered)
	}

	return next > s
}
