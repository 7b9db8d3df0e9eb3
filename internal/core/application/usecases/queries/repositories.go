// Package queries contains read operations over orders. Listing and public views read
// the database directly with SQL; the delivery status and address checks go through
// the repositories and the courier provider.
package queries

import (
	"fulfillment/internal/core/ports"
)

type (
	// UoW exposes the repositories a query may read through.
	UoW interface {
		OrderRepository() ports.OrderRepository
		RestaurantRepository() ports.RestaurantRepository
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
