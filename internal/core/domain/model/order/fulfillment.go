package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Fulfillment is how the customer receives the order. It never changes after creation.
type Fulfillment int

const (
	UnknownFulfillment Fulfillment = iota
	Delivery
	Pickup
)

func (f Fulfillment) String() string {
	switch f {
	case Delivery:
		return "DELIVERY"
	case Pickup:
		return "PICKUP"
	default:
		return "UNKNOWN"
	}
}

func (f Fulfillment) Validate() error {
	if f != Delivery && f != Pickup {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment", fmt.Errorf("%d is not a valid fulfillment", f))
	}
	return nil
}

// ParseFulfillment accepts "DELIVERY" or "PICKUP", case-insensitively.
func ParseFulfillment(s string) (Fulfillment, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DELIVERY":
		return Delivery, nil
	case "PICKUP":
		return Pickup, nil
	default:
		return UnknownFulfillment, errs.NewValueIsInvalidErrorWithCause(
			"fulfillment", fmt.Errorf("%q must be DELIVERY or PICKUP", s),
		)
	}
}
