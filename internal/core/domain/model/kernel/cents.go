package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// basisPointsPerUnit is the number of basis points in 100%.
const basisPointsPerUnit = 10_000

// Cents is an amount of money in minor currency units.
type Cents int64

// Validate rejects negative amounts; every monetary input of an order is non-negative.
func (c Cents) Validate(paramName string) error {
	if c < 0 {
		return errs.NewValueIsInvalidErrorWithCause(paramName, fmt.Errorf("%d is negative", c))
	}
	return nil
}

// MulBasisPoints returns c * bps / 10000 rounded half-up to a whole cent.
// Negative results are rounded half away from zero, mirroring the positive case.
func (c Cents) MulBasisPoints(bps int64) Cents {
	product := int64(c) * bps
	if product < 0 {
		return -Cents((-product + basisPointsPerUnit/2) / basisPointsPerUnit)
	}
	return Cents((product + basisPointsPerUnit/2) / basisPointsPerUnit)
}

// String formats the amount as dollars, e.g. 1234 -> "$12.34".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
