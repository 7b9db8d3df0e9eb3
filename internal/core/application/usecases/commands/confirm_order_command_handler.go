package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ConfirmOrderCommandHandler confirms Pending orders.
//
// For a Delivery order it asks the courier provider for a quote and accepts it. The
// quote id is written to the order before the accept call, so if the process dies or
// the accept outcome is lost, the reconciliation sweep can find the order and settle it.
// Provider failures leave the order Pending and are returned to the operator; the
// operation is never retried automatically because a second accept could dispatch a
// second courier.
//
// Example:
//
//	cmd, _ := NewConfirmOrderCommand(orderID, operatorID)
//	confirmed, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ports.ErrProviderUnavailable):
//	    // ask the operator to retry later
//	case errors.Is(err, errs.ErrConflict):
//	    // the order is no longer Pending
//	}
type ConfirmOrderCommandHandler struct {
	uowFactory     UoWFactory
	courier        ports.CourierClient
	publisher      statusPublisher
	courierTimeout time.Duration
	logger         *slog.Logger
}

func NewConfirmOrderCommandHandler(
	uowFactory UoWFactory,
	courier ports.CourierClient,
	notifier ports.StatusNotifier,
	courierTimeout time.Duration,
	logger *slog.Logger,
) ConfirmOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ConfirmOrderCommandHandler{
		uowFactory:     uowFactory,
		courier:        courier,
		publisher:      newStatusPublisher(notifier, logger),
		courierTimeout: courierTimeout,
		logger:         logger,
	}
}

func (h ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	o, r, err := loadOwnedOrder(ctx, uow, cmd.OrderID(), cmd.OperatorID())
	if err != nil {
		return nil, err
	}

	if o.Status() != order.Pending {
		return nil, errs.NewConflictErrorWithCause("order",
			fmt.Errorf("cannot confirm an order in status %s", o.Status()))
	}

	if o.Fulfillment() == order.Pickup {
		return h.confirmPickup(ctx, uow.OrderRepository(), o)
	}
	return h.dispatch(ctx, uow.OrderRepository(), o, r)
}

func (h ConfirmOrderCommandHandler) confirmPickup(
	ctx context.Context,
	repo ports.OrderRepository,
	o *order.Order,
) (*order.Order, error) {
	if err := o.Confirm("", ""); err != nil {
		return nil, err
	}
	if err := repo.CompareAndSwap(ctx, o, order.Pending); err != nil {
		return nil, err
	}

	h.publisher.publish(ctx, o)
	return o, nil
}

func (h ConfirmOrderCommandHandler) dispatch(
	ctx context.Context,
	repo ports.OrderRepository,
	o *order.Order,
	r *restaurant.Restaurant,
) (*order.Order, error) {
	dropoff, err := o.DeliveryAddress()
	if err != nil {
		return nil, err
	}

	logger := h.logger.With(slog.String("order_id", o.ID().String()))

	quote, err := h.requestQuote(ctx, o, r, dropoff)
	if err != nil {
		logger.WarnContext(ctx, "courier quote failed", slog.Any("error", err))
		return nil, err
	}

	if err = o.RecordQuote(quote.ExternalID, time.Now()); err != nil {
		return nil, err
	}
	if err = repo.CompareAndSwap(ctx, o, order.Pending); err != nil {
		return nil, err
	}

	acceptCtx, cancel := context.WithTimeout(ctx, h.courierTimeout)
	delivery, err := h.courier.AcceptQuote(acceptCtx, quote.ExternalID)
	cancel()
	if err != nil {
		logger.WarnContext(ctx, "courier quote accept failed", slog.Any("error", err))
		if !errors.Is(err, ports.ErrProviderUnavailable) {
			h.clearQuote(ctx, repo, o)
		}
		return nil, err
	}

	if err = o.Confirm(delivery.ExternalID, delivery.TrackingURL); err != nil {
		return nil, err
	}
	if err = repo.CompareAndSwap(ctx, o, order.Pending); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			// The order moved on while the courier was being booked; call the courier back.
			h.recallCourier(ctx, delivery.ExternalID)
		}
		return nil, err
	}

	logger.InfoContext(ctx, "courier dispatched",
		slog.String("courier_delivery_id", delivery.ExternalID),
		slog.Int64("quoted_fee", int64(quote.Fee)))
	h.publisher.publish(ctx, o)
	return o, nil
}

func (h ConfirmOrderCommandHandler) requestQuote(
	ctx context.Context,
	o *order.Order,
	r *restaurant.Restaurant,
	dropoff string,
) (ports.Quote, error) {
	quoteCtx, cancel := context.WithTimeout(ctx, h.courierTimeout)
	defer cancel()

	return h.courier.RequestQuote(quoteCtx, ports.QuoteRequest{
		ExternalID: o.ID().String(),
		Pickup: ports.Stop{
			Name:         r.Name(),
			Address:      r.Address(),
			Phone:        r.Phone(),
			Instructions: "Order #" + o.ID().String(),
		},
		Dropoff: ports.Stop{
			Name:    o.Customer().Name(),
			Address: dropoff,
			Phone:   o.Customer().Phone(),
		},
		OrderValue: o.Subtotal(),
		Tip:        o.Tip(),
	})
}

// clearQuote drops a quote marker whose accept definitively failed. A failure here
// only leaves work for the reconciliation sweep.
func (h ConfirmOrderCommandHandler) clearQuote(ctx context.Context, repo ports.OrderRepository, o *order.Order) {
	o.ClearQuote()
	if err := repo.CompareAndSwap(ctx, o, order.Pending); err != nil {
		h.logger.WarnContext(ctx, "failed to clear courier quote marker",
			slog.String("order_id", o.ID().String()), slog.Any("error", err))
	}
}

func (h ConfirmOrderCommandHandler) recallCourier(ctx context.Context, externalID string) {
	cancelCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.courierTimeout)
	defer cancel()

	if _, err := h.courier.CancelDelivery(cancelCtx, externalID); err != nil {
		h.logger.ErrorContext(ctx, "failed to recall courier for an order that changed during dispatch",
			slog.String("courier_delivery_id", externalID), slog.Any("error", err))
	}
}
