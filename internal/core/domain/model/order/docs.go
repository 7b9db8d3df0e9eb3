// Package order provides the Order aggregate root and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root holding customer data, items, money figures, courier
//     dispatch references and the lifecycle status
//   - Status: the forward-only lifecycle with terminal Delivered and Cancelled states
//   - Fulfillment: Delivery (dispatched through a courier provider) or Pickup
//   - Item, Customer, Charges: immutable values captured at creation
//   - StatusChanged: the event raised by every transition
//
// Key business rules:
//   - a Delivery order needs an address, a Pickup order never has one
//   - Pickup orders never carry a delivery fee or courier cost
//   - status never moves backwards; duplicate or stale updates are no-ops
//   - cancellation is only possible before the courier picks the order up
//   - Delivered and Cancelled orders never change again
//
// Persisting a transition safely under concurrent updates is the repository's job:
// it writes the new state only if the stored status still matches what the aggregate
// was loaded with.
package order
