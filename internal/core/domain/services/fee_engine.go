package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/pkg/errs"
)

// Default platform schedule.
const (
	DefaultStandardCourierCost kernel.Cents = 975
	DefaultReducedCourierCost  kernel.Cents = 700
	DefaultMarketplaceRateBps  int64        = 3000
)

const maxRateBps = 10_000

// FeeSchedule holds the platform-wide cost inputs.
type FeeSchedule struct {
	// StandardCourierCost is the dispatch cost of a delivery.
	StandardCourierCost kernel.Cents
	// ReducedCourierCost applies when the restaurant passes a positive tip to the courier.
	ReducedCourierCost kernel.Cents
	// MarketplaceRateBps is the commission rate of the comparison marketplace in basis points.
	MarketplaceRateBps int64
}

// DefaultFeeSchedule returns 9.75 / 7.00 courier cost and a 30% marketplace rate.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		StandardCourierCost: DefaultStandardCourierCost,
		ReducedCourierCost:  DefaultReducedCourierCost,
		MarketplaceRateBps:  DefaultMarketplaceRateBps,
	}
}

func (s FeeSchedule) Validate() error {
	var rateErr error
	if s.MarketplaceRateBps < 0 || s.MarketplaceRateBps > maxRateBps {
		rateErr = errs.NewValueIsOutOfRangeError("marketplace rate bps", s.MarketplaceRateBps, 0, maxRateBps)
	}
	return errors.Join(
		s.StandardCourierCost.Validate("standard courier cost"),
		s.ReducedCourierCost.Validate("reduced courier cost"),
		rateErr,
	)
}

// Savings is the comparison of an order against the marketplace baseline.
// Savings may be negative when the courier cost exceeds the marketplace fee.
type Savings struct {
	MarketplaceFee kernel.Cents
	CourierCost    kernel.Cents
	Savings        kernel.Cents
}

// FeeEngine computes customer delivery fees and savings. It is stateless and safe
// for concurrent use.
//
// Example:
//
//	engine, _ := services.NewFeeEngine(services.DefaultFeeSchedule())
//	fee := engine.CustomerDeliveryFee(3500, order.Delivery, restaurant.DefaultDeliveryPolicy())
//	// fee == 299
type FeeEngine struct {
	schedule FeeSchedule
}

func NewFeeEngine(schedule FeeSchedule) (FeeEngine, error) {
	if err := schedule.Validate(); err != nil {
		return FeeEngine{}, err
	}
	return FeeEngine{schedule: schedule}, nil
}

func (e FeeEngine) Schedule() FeeSchedule {
	return e.schedule
}

// CustomerDeliveryFee returns what the customer pays for delivery.
//
// Tiers, first match wins:
//   - Pickup orders pay nothing
//   - subtotal >= FreeDeliveryMin pays nothing
//   - subtotal >= ReducedFeeMin pays ReducedFee
//   - otherwise DeliveryFee
//
// A zero threshold disables its tier. Reaching a threshold exactly qualifies.
func (e FeeEngine) CustomerDeliveryFee(
	subtotal kernel.Cents,
	fulfillment order.Fulfillment,
	policy restaurant.DeliveryPolicy,
) kernel.Cents {
	switch {
	case fulfillment == order.Pickup:
		return 0
	case policy.FreeDeliveryMin > 0 && subtotal >= policy.FreeDeliveryMin:
		return 0
	case policy.ReducedFeeMin > 0 && subtotal >= policy.ReducedFeeMin:
		return policy.ReducedFee
	default:
		return policy.DeliveryFee
	}
}

// CourierCost returns the dispatch cost: zero for Pickup, the reduced cost when a
// positive tip is passed to the courier, the standard cost otherwise.
func (e FeeEngine) CourierCost(fulfillment order.Fulfillment, passTip bool, tip kernel.Cents) kernel.Cents {
	switch {
	case fulfillment == order.Pickup:
		return 0
	case passTip && tip > 0:
		return e.schedule.ReducedCourierCost
	default:
		return e.schedule.StandardCourierCost
	}
}

// Savings compares the order against the marketplace baseline. The marketplace fee is
// subtotal × rate rounded half-up; Savings + CourierCost always equals MarketplaceFee.
func (e FeeEngine) Savings(
	subtotal kernel.Cents,
	fulfillment order.Fulfillment,
	passTip bool,
	tip kernel.Cents,
) Savings {
	marketplaceFee := subtotal.MulBasisPoints(e.schedule.MarketplaceRateBps)
	courierCost := e.CourierCost(fulfillment, passTip, tip)

	return Savings{
		MarketplaceFee: marketplaceFee,
		CourierCost:    courierCost,
		Savings:        marketplaceFee - courierCost,
	}
}

// Charges computes every money figure an order captures at creation.
func (e FeeEngine) Charges(
	subtotal kernel.Cents,
	fulfillment order.Fulfillment,
	policy restaurant.DeliveryPolicy,
	tip kernel.Cents,
) (order.Charges, error) {
	if err := errors.Join(
		subtotal.Validate("subtotal"),
		tip.Validate("tip"),
		fulfillment.Validate(),
	); err != nil {
		return order.Charges{}, fmt.Errorf("pricing order: %w", err)
	}

	savings := e.Savings(subtotal, fulfillment, policy.PassTip, tip)
	return order.Charges{
		DeliveryFee:    e.CustomerDeliveryFee(subtotal, fulfillment, policy),
		MarketplaceFee: savings.MarketplaceFee,
		CourierCost:    savings.CourierCost,
		Savings:        savings.Savings,
	}, nil
}
