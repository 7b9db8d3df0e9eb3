package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// maxCancelAttempts bounds the re-read loop when a concurrent writer moves the order.
const maxCancelAttempts = 3

// CancelOrderCommandHandler cancels orders that have not been picked up yet.
//
// When the order was dispatched (or an accept outcome is still unknown) the courier
// delivery is cancelled first on a best-effort basis: provider failures are logged and
// never block the local cancellation. The final write is conditional on the status the
// handler read. When a concurrent confirm or webhook moved the order in between, the
// handler re-reads and decides again, cancelling any courier delivery that appeared
// meanwhile; a pickup that wins the race turns the cancel into a conflict.
type CancelOrderCommandHandler struct {
	uowFactory     UoWFactory
	courier        ports.CourierClient
	publisher      statusPublisher
	courierTimeout time.Duration
	logger         *slog.Logger
}

func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	courier ports.CourierClient,
	notifier ports.StatusNotifier,
	courierTimeout time.Duration,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CancelOrderCommandHandler{
		uowFactory:     uowFactory,
		courier:        courier,
		publisher:      newStatusPublisher(notifier, logger),
		courierTimeout: courierTimeout,
		logger:         logger,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	o, _, err := loadOwnedOrder(ctx, uow, cmd.OrderID(), cmd.OperatorID())
	if err != nil {
		return nil, err
	}
	repo := uow.OrderRepository()

	var cancelledExternalID string
	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			if o, err = repo.Get(ctx, cmd.OrderID()); err != nil {
				return nil, err
			}
		}

		previous := o.Status()
		if !previous.IsCancellable() {
			return nil, errs.NewConflictErrorWithCause("order",
				fmt.Errorf("cannot cancel an order in status %s", previous))
		}

		if externalID := courierReference(o); externalID != "" && externalID != cancelledExternalID {
			h.cancelCourier(ctx, o, externalID)
			cancelledExternalID = externalID
		}

		if err = o.Cancel(); err != nil {
			return nil, err
		}
		err = repo.CompareAndSwap(ctx, o, previous)
		if errors.Is(err, errs.ErrConflict) && attempt < maxCancelAttempts {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	h.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", o.ID().String()),
		slog.String("operator_id", cmd.OperatorID()))
	h.publisher.publish(ctx, o)
	return o, nil
}

// courierReference returns the id the provider knows the order by: the delivery id
// once dispatched, else an outstanding quote id.
func courierReference(o *order.Order) string {
	if id := o.CourierDeliveryID(); id != nil {
		return *id
	}
	if id := o.CourierQuoteID(); id != nil {
		return *id
	}
	return ""
}

func (h CancelOrderCommandHandler) cancelCourier(ctx context.Context, o *order.Order, externalID string) {
	logger := h.logger.With(
		slog.String("order_id", o.ID().String()),
		slog.String("courier_delivery_id", externalID))

	cancelCtx, cancel := context.WithTimeout(ctx, h.courierTimeout)
	defer cancel()

	ack, err := h.courier.CancelDelivery(cancelCtx, externalID)
	switch {
	case err != nil:
		logger.WarnContext(ctx, "courier cancel failed, cancelling locally", slog.Any("error", err))
	case ack.AlreadyFinal:
		logger.InfoContext(ctx, "courier delivery was already final")
	}
}
