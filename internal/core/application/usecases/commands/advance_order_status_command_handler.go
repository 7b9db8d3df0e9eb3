package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// maxAdvanceAttempts bounds the re-read loop when a concurrent writer wins the race.
const maxAdvanceAttempts = 3

// AdvanceOrderStatusCommandHandler applies courier status reports idempotently.
//
// Each attempt reads the order, lets the aggregate decide whether the report is a
// forward step, and writes conditionally on the status it read. Duplicate, stale and
// post-terminal reports are no-ops. When another writer changed the order in between,
// the handler re-reads and decides again, so the final state is the same regardless
// of interleaving.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  statusPublisher
	logger     *slog.Logger
}

func NewAdvanceOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.StatusNotifier,
	logger *slog.Logger,
) AdvanceOrderStatusCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return AdvanceOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  newStatusPublisher(notifier, logger),
		logger:     logger,
	}
}

// Handle reports whether the order changed. It returns errs.ObjectNotFoundError when no order carries the courier delivery id.
func (h AdvanceOrderStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderStatusCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	repo := h.uowFactory.Create().OrderRepository()

	var lastErr error
	for range maxAdvanceAttempts {
		o, err := repo.GetByCourierDeliveryID(ctx, cmd.CourierDeliveryID())
		if err != nil {
			return false, err
		}

		previous := o.Status()
		applied, err := o.Advance(cmd.Status(), cmd.TrackingURL())
		if err != nil {
			return false, err
		}
		if !applied {
			h.logger.DebugContext(ctx, "courier status report ignored",
				slog.String("order_id", o.ID().String()),
				slog.String("current", previous.String()),
				slog.String("reported", cmd.Status().String()))
			return false, nil
		}

		err = repo.CompareAndSwap(ctx, o, previous)
		if errors.Is(err, errs.ErrConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return false, err
		}

		h.publisher.publish(ctx, o)
		return true, nil
	}

	return false, lastErr
}
