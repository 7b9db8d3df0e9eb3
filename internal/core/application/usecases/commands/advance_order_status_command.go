package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAdvanceOrderStatusCommandIsNotConstructed = errors.New(
	"AdvanceOrderStatusCommand must be created via NewAdvanceOrderStatusCommand constructor",
)

// AdvanceOrderStatusCommand applies a status reported by the courier provider for one
// of its deliveries. Reports may be duplicated or arrive out of order.
type AdvanceOrderStatusCommand struct { //nolint:recvcheck //using for validation
	courierDeliveryID string
	status            order.Status
	trackingURL       string

	guard guard.ConstructorGuard
}

func NewAdvanceOrderStatusCommand(
	courierDeliveryID string,
	status order.Status,
	trackingURL string,
) (AdvanceOrderStatusCommand, error) {
	cmd := AdvanceOrderStatusCommand{
		trackingURL: strings.TrimSpace(trackingURL),
		guard:       guard.NewConstructorGuard(),
	}

	var idErr error
	if strings.TrimSpace(courierDeliveryID) == "" {
		idErr = errs.NewValueIsRequiredError("courier delivery id")
	}
	if err := errors.Join(idErr, status.Validate()); err != nil {
		return AdvanceOrderStatusCommand{}, err
	}

	cmd.courierDeliveryID = courierDeliveryID
	cmd.status = status
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderStatusCommandIsNotConstructed)
}

func (c AdvanceOrderStatusCommand) CourierDeliveryID() string {
	return c.courierDeliveryID
}

func (c AdvanceOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c AdvanceOrderStatusCommand) TrackingURL() string {
	return c.trackingURL
}
