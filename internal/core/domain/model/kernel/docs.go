// Package kernel provides the value objects shared by every aggregate of the
// fulfillment domain.
//
// The package includes:
//   - UUID: identifier for orders and restaurants, invalid as a zero value
//   - Cents: an amount of money in integer minor currency units
//   - Phone: a phone number normalized to E.164
//
// Money never touches floating point. Percentages are expressed in basis points
// and rounded half-up to a whole cent, so repeated computations cannot drift.
package kernel
