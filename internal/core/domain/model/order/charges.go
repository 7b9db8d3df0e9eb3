package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Charges are the money figures fixed when an order is created: the delivery fee the
// customer pays, the fee a marketplace would have taken, the courier dispatch cost and
// the resulting savings. They are computed by the fee engine and never recomputed.
type Charges struct {
	DeliveryFee    kernel.Cents
	MarketplaceFee kernel.Cents
	CourierCost    kernel.Cents
	Savings        kernel.Cents
}

// Validate checks the figures are non-negative and that Savings equals
// MarketplaceFee minus CourierCost. Savings itself may be negative on small orders.
func (c Charges) Validate() error {
	var savingsErr error
	if c.Savings != c.MarketplaceFee-c.CourierCost {
		savingsErr = errs.NewValueIsInvalidErrorWithCause("savings", fmt.Errorf(
			"%d is not marketplace fee %d minus courier cost %d", c.Savings, c.MarketplaceFee, c.CourierCost,
		))
	}

	return errors.Join(
		c.DeliveryFee.Validate("delivery fee"),
		c.MarketplaceFee.Validate("marketplace fee"),
		c.CourierCost.Validate("courier cost"),
		savingsErr,
	)
}
