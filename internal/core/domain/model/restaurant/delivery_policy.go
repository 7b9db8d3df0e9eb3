package restaurant

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
)

// Default policy values used when a restaurant has not customized delivery pricing.
const (
	DefaultDeliveryFee     kernel.Cents = 499
	DefaultReducedFee      kernel.Cents = 299
	DefaultReducedFeeMin   kernel.Cents = 3500
	DefaultFreeDeliveryMin kernel.Cents = 10000
)

// DeliveryPolicy is the restaurant-owned configuration of customer-facing delivery fees.
// A threshold of zero disables its tier.
type DeliveryPolicy struct {
	DeliveryFee     kernel.Cents
	ReducedFee      kernel.Cents
	ReducedFeeMin   kernel.Cents
	FreeDeliveryMin kernel.Cents
	// PassTip forwards customer tips to the courier, which earns a reduced dispatch cost.
	PassTip bool
}

// DefaultDeliveryPolicy returns the policy a new restaurant starts with.
func DefaultDeliveryPolicy() DeliveryPolicy {
	return DeliveryPolicy{
		DeliveryFee:     DefaultDeliveryFee,
		ReducedFee:      DefaultReducedFee,
		ReducedFeeMin:   DefaultReducedFeeMin,
		FreeDeliveryMin: DefaultFreeDeliveryMin,
	}
}

// Validate rejects negative amounts.
func (p DeliveryPolicy) Validate() error {
	return errors.Join(
		p.DeliveryFee.Validate("delivery fee"),
		p.ReducedFee.Validate("reduced fee"),
		p.ReducedFeeMin.Validate("reduced fee minimum"),
		p.FreeDeliveryMin.Validate("free delivery minimum"),
	)
}
