// Package ports defines the contracts between the fulfillment core and its adapters:
// persistence, the courier dispatch provider and status notification.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Status transitions are never written blindly. CompareAndSwap persists the aggregate
// only if the stored status is still one of the expected statuses, which makes every
// per-order transition linearizable without in-process locks.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	// Returns errs.ObjectNotFoundError when no order matches.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByCourierDeliveryID retrieves the order dispatched under the given external id.
	// Returns errs.ObjectNotFoundError when no order matches.
	GetByCourierDeliveryID(ctx context.Context, courierDeliveryID string) (*order.Order, error)

	// CompareAndSwap writes the mutable state of aggregate (status, courier references,
	// quote marker, tracking url) if and only if the stored status is one of expected.
	//
	// Returns errs.ConflictError when the stored status matched none of expected and
	// errs.ObjectNotFoundError when the order does not exist.
	//
	// Example:
	//   previous := o.Status()
	//   if err := o.Cancel(); err != nil {
	//       return err
	//   }
	//   if err := repo.CompareAndSwap(ctx, o, previous); errors.Is(err, errs.ErrConflict) {
	//       // someone else moved the order first
	//   }
	CompareAndSwap(ctx context.Context, aggregate *order.Order, expected ...order.Status) error

	// ListQuotedPendingBefore returns Pending orders whose quote marker was recorded
	// before the given instant.
	ListQuotedPendingBefore(ctx context.Context, before time.Time) ([]*order.Order, error)
}
