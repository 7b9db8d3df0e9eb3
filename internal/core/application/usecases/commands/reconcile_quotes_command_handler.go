package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ReconcileQuotesResult summarizes one sweep.
type ReconcileQuotesResult struct {
	Adopted int
	Cleared int
	Skipped int
}

// ReconcileQuotesCommandHandler closes the gap between accepting a courier quote and
// recording the resulting delivery. For every stale quote marker it asks the provider
// what happened:
//   - a live delivery is adopted: the order is confirmed with it and brought up to
//     the provider's reported status
//   - a quote that was never accepted, or a rejected, unknown or cancelled delivery,
//     clears the marker so the operator can confirm again
//   - an unreachable provider leaves the order for the next sweep
type ReconcileQuotesCommandHandler struct {
	uowFactory     OrderUoWFactory
	courier        ports.CourierClient
	publisher      statusPublisher
	courierTimeout time.Duration
	logger         *slog.Logger
}

func NewReconcileQuotesCommandHandler(
	uowFactory OrderUoWFactory,
	courier ports.CourierClient,
	notifier ports.StatusNotifier,
	courierTimeout time.Duration,
	logger *slog.Logger,
) ReconcileQuotesCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ReconcileQuotesCommandHandler{
		uowFactory:     uowFactory,
		courier:        courier,
		publisher:      newStatusPublisher(notifier, logger),
		courierTimeout: courierTimeout,
		logger:         logger,
	}
}

func (h ReconcileQuotesCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileQuotesCommand,
) (ReconcileQuotesResult, error) {
	var result ReconcileQuotesResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	repo := h.uowFactory.Create().OrderRepository()
	stale, err := repo.ListQuotedPendingBefore(ctx, time.Now().Add(-cmd.OlderThan()))
	if err != nil {
		return result, err
	}

	for _, o := range stale {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		switch h.reconcile(ctx, repo, o) {
		case outcomeAdopted:
			result.Adopted++
		case outcomeCleared:
			result.Cleared++
		default:
			result.Skipped++
		}
	}

	return result, nil
}

type reconcileOutcome int

const (
	outcomeSkipped reconcileOutcome = iota
	outcomeAdopted
	outcomeCleared
)

func (h ReconcileQuotesCommandHandler) reconcile(
	ctx context.Context,
	repo ports.OrderRepository,
	o *order.Order,
) reconcileOutcome {
	quoteID := o.CourierQuoteID()
	if quoteID == nil {
		return outcomeSkipped
	}

	logger := h.logger.With(
		slog.String("order_id", o.ID().String()),
		slog.String("courier_quote_id", *quoteID))

	statusCtx, cancel := context.WithTimeout(ctx, h.courierTimeout)
	snapshot, err := h.courier.GetStatus(statusCtx, *quoteID)
	cancel()

	switch {
	case errors.Is(err, ports.ErrProviderRejected),
		err == nil && (snapshot.Status == order.Pending || snapshot.Status == order.Cancelled):
		o.ClearQuote()
		if err = repo.CompareAndSwap(ctx, o, order.Pending); err != nil {
			logger.WarnContext(ctx, "failed to clear stale courier quote", slog.Any("error", err))
			return outcomeSkipped
		}
		logger.InfoContext(ctx, "stale courier quote cleared")
		return outcomeCleared

	case err != nil:
		logger.WarnContext(ctx, "courier status unavailable, retrying next sweep", slog.Any("error", err))
		return outcomeSkipped

	case snapshot.Status == order.Unknown:
		logger.InfoContext(ctx, "courier delivery in unrecognized state, retrying next sweep")
		return outcomeSkipped
	}

	if snapshot.ExternalID == "" {
		snapshot.ExternalID = *quoteID
	}
	return h.adopt(ctx, repo, o, snapshot, logger)
}

func (h ReconcileQuotesCommandHandler) adopt(
	ctx context.Context,
	repo ports.OrderRepository,
	o *order.Order,
	snapshot ports.StatusSnapshot,
	logger *slog.Logger,
) reconcileOutcome {
	if err := o.Confirm(snapshot.ExternalID, snapshot.TrackingURL); err != nil {
		logger.WarnContext(ctx, "cannot adopt courier delivery", slog.Any("error", err))
		return outcomeSkipped
	}
	if err := repo.CompareAndSwap(ctx, o, order.Pending); err != nil {
		logger.WarnContext(ctx, "failed to adopt courier delivery", slog.Any("error", err))
		return outcomeSkipped
	}

	h.publisher.publish(ctx, o)

	if applied, err := o.Advance(snapshot.Status, snapshot.TrackingURL); err == nil && applied {
		if err = repo.CompareAndSwap(ctx, o, order.Confirmed); err != nil {
			// The delivery is adopted; later webhooks carry the order forward.
			logger.WarnContext(ctx, "failed to catch up adopted delivery status", slog.Any("error", err))
			o.PullStatusChanges()
		} else {
			h.publisher.publish(ctx, o)
		}
	}

	logger.InfoContext(ctx, "courier delivery adopted",
		slog.String("courier_delivery_id", snapshot.ExternalID),
		slog.String("reported_status", snapshot.Status.String()))
	return outcomeAdopted
}
