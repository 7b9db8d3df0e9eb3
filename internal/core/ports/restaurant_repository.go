package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/restaurant"
)

// RestaurantRepository looks up restaurants and their delivery policies.
// Restaurant profile management lives outside this module; Add exists for seeding.
type RestaurantRepository interface {
	Add(ctx context.Context, aggregate *restaurant.Restaurant) error

	// Get returns errs.ObjectNotFoundError when no restaurant matches.
	Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error)

	// GetByOwner returns the restaurant owned by the operator with the given subject.
	// Returns errs.ObjectNotFoundError when the operator owns none.
	GetByOwner(ctx context.Context, ownerID string) (*restaurant.Restaurant, error)
}
