package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand is an operator accepting a Pending order. Delivery orders are
// dispatched to the courier provider; pickup orders are simply confirmed.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	operatorID string

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand requires a valid order id and the authenticated operator subject.
func NewConfirmOrderCommand(orderID kernel.UUID, operatorID string) (ConfirmOrderCommand, error) {
	cmd := ConfirmOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOperatorID(operatorID),
	); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmOrderCommand) OperatorID() string {
	return c.operatorID
}

func (c *ConfirmOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ConfirmOrderCommand) setOperatorID(operatorID string) error {
	if err := validateOperatorID(operatorID); err != nil {
		return err
	}
	c.operatorID = operatorID
	return nil
}
