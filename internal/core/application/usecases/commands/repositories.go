// Package commands contains business operations that modify order state.
// Implements the Command pattern for write operations in the CQRS architecture.
//
// Every command is built through a validating constructor and handled by a dedicated
// handler. Handlers never hold a database transaction open across a courier provider
// call: reads happen first, the provider is called under a bounded timeout, and every
// status change is written with a single conditional update.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a unit of work.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// RestaurantRepoFactory provides access to the restaurant repository within a unit of work.
	RestaurantRepoFactory interface {
		RestaurantRepository() ports.RestaurantRepository
	}

	// OrderUoW serves commands that only touch orders, such as courier status updates.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW serves commands that also need the owning restaurant: operator actions
	// check ownership and order creation reads the delivery policy.
	//
	// Example:
	//   uow := factory.Create()
	//   o, err := uow.OrderRepository().Get(ctx, orderID)
	//   r, err := uow.RestaurantRepository().Get(ctx, o.RestaurantID())
	UoW interface {
		TxManager
		OrderRepoFactory
		RestaurantRepoFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
