package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// CreateOrderCommandHandler prices and persists a new Pending order.
//
// The restaurant's delivery policy is read inside the same transaction that inserts
// the order, so the captured charges always match the policy in force at checkout.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	feeEngine  services.FeeEngine
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	feeEngine services.FeeEngine,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		feeEngine:  feeEngine,
		logger:     logger,
	}
}

// Handle returns the created order. Fails with errs.ObjectNotFoundError when the
// restaurant does not exist.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	r, err := uow.RestaurantRepository().Get(ctx, cmd.RestaurantID())
	if err != nil {
		return nil, err
	}

	items := cmd.Items()
	charges, err := h.feeEngine.Charges(order.Subtotal(items), cmd.Fulfillment(), r.DeliveryPolicy(), cmd.Tip())
	if err != nil {
		return nil, err
	}

	created, err := order.NewOrder(kernel.NewUUID(), r.ID(), cmd.Customer(), cmd.Fulfillment(),
		items, cmd.Tip(), charges, cmd.PaymentRef())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order created",
		slog.String("order_id", created.ID().String()),
		slog.String("restaurant_id", r.ID().String()),
		slog.String("fulfillment", created.Fulfillment().String()),
		slog.Int64("subtotal", int64(created.Subtotal())))
	return created, nil
}
