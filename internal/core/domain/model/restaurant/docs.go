// Package restaurant models the restaurant as seen by order fulfillment: its
// identity, the operator who owns it, the pickup stop handed to the courier and
// the DeliveryPolicy that prices delivery for customers.
//
// Restaurant profiles are managed elsewhere; this package only reads them. A
// policy is captured when an order is created and is never applied retroactively.
package restaurant
