package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCompletePickupOrderCommandIsNotConstructed = errors.New(
	"CompletePickupOrderCommand must be created via NewCompletePickupOrderCommand constructor",
)

// CompletePickupOrderCommand is an operator handing a confirmed pickup order to the customer.
type CompletePickupOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	operatorID string

	guard guard.ConstructorGuard
}

func NewCompletePickupOrderCommand(orderID kernel.UUID, operatorID string) (CompletePickupOrderCommand, error) {
	cmd := CompletePickupOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOperatorID(operatorID),
	); err != nil {
		return CompletePickupOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompletePickupOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompletePickupOrderCommandIsNotConstructed)
}

func (c CompletePickupOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CompletePickupOrderCommand) OperatorID() string {
	return c.operatorID
}

func (c *CompletePickupOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CompletePickupOrderCommand) setOperatorID(operatorID string) error {
	if err := validateOperatorID(operatorID); err != nil {
		return err
	}
	c.operatorID = operatorID
	return nil
}
