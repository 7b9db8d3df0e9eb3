package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer checkout.
//
// Example:
//
//	customer, _ := order.NewCustomer("Ada", "5550101234", "1 Elm St")
//	burger, _ := order.NewItem("Burger", 1250, 2)
//	cmd, err := NewCreateOrderCommand(restaurantID, customer, order.Delivery,
//	    []order.Item{burger}, 300, "pi_123")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	restaurantID kernel.UUID
	customer     order.Customer
	fulfillment  order.Fulfillment
	items        []order.Item
	tip          kernel.Cents
	paymentRef   string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates checkout input. A Delivery order without an
// address fails here with a validation error.
func NewCreateOrderCommand(
	restaurantID kernel.UUID,
	customer order.Customer,
	fulfillment order.Fulfillment,
	items []order.Item,
	tip kernel.Cents,
	paymentRef string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		tip:        tip,
		paymentRef: paymentRef,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRestaurantID(restaurantID),
		cmd.setCustomer(customer, fulfillment),
		cmd.setItems(items),
		tip.Validate("tip"),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

func (c CreateOrderCommand) Customer() order.Customer {
	return c.customer
}

func (c CreateOrderCommand) Fulfillment() order.Fulfillment {
	return c.fulfillment
}

func (c CreateOrderCommand) Items() []order.Item {
	out := make([]order.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c CreateOrderCommand) Tip() kernel.Cents {
	return c.tip
}

func (c CreateOrderCommand) PaymentRef() string {
	return c.paymentRef
}

func (c *CreateOrderCommand) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.restaurantID = id
	return nil
}

func (c *CreateOrderCommand) setCustomer(customer order.Customer, fulfillment order.Fulfillment) error {
	if err := fulfillment.Validate(); err != nil {
		return err
	}
	if customer.Name() == "" || customer.Phone() == "" {
		return errs.NewValueIsRequiredError("customer")
	}
	if fulfillment == order.Delivery && customer.Address() == nil {
		return errs.NewValueIsRequiredError("customer address")
	}

	c.customer = customer
	c.fulfillment = fulfillment
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return order.ErrNoItems
	}
	c.items = make([]order.Item, len(items))
	copy(c.items, items)
	return nil
}
