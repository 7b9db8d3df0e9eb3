package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdvanceHandler(repo *MockOrderRepository, notifier *MockStatusNotifier) commands.AdvanceOrderStatusCommandHandler {
	uow := new(MockUoW)
	uow.On("OrderRepository").Return(repo)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)
	return commands.NewAdvanceOrderStatusCommandHandler(factory, notifier, nil)
}

func advanceCommand(t *testing.T, o *order.Order, status order.Status) commands.AdvanceOrderStatusCommand {
	t.Helper()
	cmd, err := commands.NewAdvanceOrderStatusCommand(*o.CourierDeliveryID(), status, "https://track/new")
	require.NoError(t, err)
	return cmd
}

func TestAdvanceOrderStatusCommandHandler_Handle_Forward(t *testing.T) {
	ctx := t.Context()
	o := dispatchedOrder(t, newTestRestaurant(t), order.Confirmed)
	repo := new(MockOrderRepository)
	notifier := new(MockStatusNotifier)

	mock.InOrder(
		repo.On("GetByCourierDeliveryID", ctx, *o.CourierDeliveryID()).Return(o, nil).Once(),
		repo.On("CompareAndSwap", ctx, o, []order.Status{order.Confirmed}).Return(nil).Once(),
		notifier.On("NotifyStatusChanged", ctx, statusChangedTo(order.DriverAssigned)).Return(nil).Once(),
	)

	applied, err := newAdvanceHandler(repo, notifier).Handle(ctx, advanceCommand(t, o, order.DriverAssigned))

	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, order.DriverAssigned, o.Status())
	assert.Equal(t, "https://track/new", *o.TrackingURL())
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAdvanceOrderStatusCommandHandler_Handle_Duplicate(t *testing.T) {
	ctx := t.Context()
	o := dispatchedOrder(t, newTestRestaurant(t), order.PickedUp)
	repo := new(MockOrderRepository)
	notifier := new(MockStatusNotifier)
	repo.On("GetByCourierDeliveryID", ctx, *o.CourierDeliveryID()).Return(o, nil).Once()

	applied, err := newAdvanceHandler(repo, notifier).Handle(ctx, advanceCommand(t, o, order.PickedUp))

	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, order.PickedUp, o.Status())
	repo.AssertNotCalled(t, "CompareAndSwap", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "NotifyStatusChanged", mock.Anything, mock.Anything)
}

func TestAdvanceOrderStatusCommandHandler_Handle_OutOfOrder(t *testing.T) {
	ctx := t.Context()
	o := dispatchedOrder(t, newTestRestaurant(t), order.EnrouteToDropoff)
	repo := new(MockOrderRepository)
	repo.On("GetByCourierDeliveryID", ctx, *o.CourierDeliveryID()).Return(o, nil).Once()

	applied, err := newAdvanceHandler(repo, new(MockStatusNotifier)).Handle(ctx, advanceCommand(t, o, order.DriverAssigned))

	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, order.EnrouteToDropoff, o.Status())
	repo.AssertNotCalled(t, "CompareAndSwap", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvanceOrderStatusCommandHandler_Handle_TerminalIsImmutable(t *testing.T) {
	for _, terminal := range []order.Status{order.Delivered, order.Cancelled} {
		t.Run(terminal.String(), func(t *testing.T) {
			ctx := t.Context()
			o := dispatchedOrder(t, newTestRestaurant(t), terminal)
			repo := new(MockOrderRepository)
			repo.On("GetByCourierDeliveryID", ctx, *o.CourierDeliveryID()).Return(o, nil)
			handler := newAdvanceHandler(repo, new(MockStatusNotifier))

			for _, reported := range []order.Status{order.DriverAssigned, order.PickedUp, order.Delivered, order.Cancelled} {
				applied, err := handler.Handle(ctx, advanceCommand(t, o, reported))
				require.NoError(t, err)
				assert.False(t, applied)
				assert.Equal(t, terminal, o.Status())
			}
			repo.AssertNotCalled(t, "CompareAndSwap", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAdvanceOrderStatusCommandHandler_Handle_RetriesAfterLostRace(t *testing.T) {
	ctx := t.Context()
	r := newTestRestaurant(t)
	stale := dispatchedOrder(t, r, order.DriverAssigned)
	deliveryID := *stale.CourierDeliveryID()

	// A concurrent writer moved the order on; the re-read sees the fresh state.
	fresh := dispatchedOrder(t, r, order.EnrouteToPickup)

	repo := new(MockOrderRepository)
	notifier := new(MockStatusNotifier)
	mock.InOrder(
		repo.On("GetByCourierDeliveryID", ctx, deliveryID).Return(stale, nil).Once(),
		repo.On("CompareAndSwap", ctx, stale, []order.Status{order.DriverAssigned}).
			Return(errs.NewConflictError("order")).Once(),
		repo.On("GetByCourierDeliveryID", ctx, deliveryID).Return(fresh, nil).Once(),
		repo.On("CompareAndSwap", ctx, fresh, []order.Status{order.EnrouteToPickup}).Return(nil).Once(),
		notifier.On("NotifyStatusChanged", ctx, statusChangedTo(order.PickedUp)).Return(nil).Once(),
	)

	cmd, err := commands.NewAdvanceOrderStatusCommand(deliveryID, order.PickedUp, "")
	require.NoError(t, err)

	applied, err := newAdvanceHandler(repo, notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, order.PickedUp, fresh.Status())
	repo.AssertExpectations(t)
}

func TestAdvanceOrderStatusCommandHandler_Handle_LostRaceToCancel(t *testing.T) {
	ctx := t.Context()
	r := newTestRestaurant(t)
	stale := dispatchedOrder(t, r, order.EnrouteToPickup)
	deliveryID := *stale.CourierDeliveryID()
	cancelled := dispatchedOrder(t, r, order.Cancelled)

	repo := new(MockOrderRepository)
	mock.InOrder(
		repo.On("GetByCourierDeliveryID", ctx, deliveryID).Return(stale, nil).Once(),
		repo.On("CompareAndSwap", ctx, stale, []order.Status{order.EnrouteToPickup}).
			Return(errs.NewConflictError("order")).Once(),
		repo.On("GetByCourierDeliveryID", ctx, deliveryID).Return(cancelled, nil).Once(),
	)

	cmd, err := commands.NewAdvanceOrderStatusCommand(deliveryID, order.PickedUp, "")
	require.NoError(t, err)

	applied, err := newAdvanceHandler(repo, new(MockStatusNotifier)).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, order.Cancelled, cancelled.Status())
}

func TestAdvanceOrderStatusCommandHandler_Handle_GivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := t.Context()
	r := newTestRestaurant(t)
	deliveryID := "ext-contended"

	repo := new(MockOrderRepository)
	for range 3 {
		o := dispatchedOrder(t, r, order.Confirmed)
		repo.On("GetByCourierDeliveryID", ctx, deliveryID).Return(o, nil).Once()
		repo.On("CompareAndSwap", ctx, o, []order.Status{order.Confirmed}).Return(errs.NewConflictError("order")).Once()
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(deliveryID, order.DriverAssigned, "")
	require.NoError(t, err)

	applied, err := newAdvanceHandler(repo, new(MockStatusNotifier)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.False(t, applied)
	repo.AssertNumberOfCalls(t, "GetByCourierDeliveryID", 3)
}

func TestAdvanceOrderStatusCommandHandler_Handle_UnknownDelivery(t *testing.T) {
	ctx := t.Context()
	repo := new(MockOrderRepository)
	repo.On("GetByCourierDeliveryID", ctx, "ext-unknown").
		Return(nil, errs.NewObjectNotFoundError("order", "ext-unknown")).Once()

	cmd, err := commands.NewAdvanceOrderStatusCommand("ext-unknown", order.Delivered, "")
	require.NoError(t, err)

	applied, err := newAdvanceHandler(repo, new(MockStatusNotifier)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.False(t, applied)
	repo.AssertNotCalled(t, "CompareAndSwap", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewAdvanceOrderStatusCommand(t *testing.T) {
	_, err := commands.NewAdvanceOrderStatusCommand("", order.Unknown, "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, commands.AdvanceOrderStatusCommand{}.Validate(),
		commands.ErrAdvanceOrderStatusCommandIsNotConstructed)
}
