package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateOrderHandler(t *testing.T, factory commands.UoWFactory) commands.CreateOrderCommandHandler {
	t.Helper()
	engine, err := services.NewFeeEngine(services.DefaultFeeSchedule())
	require.NoError(t, err)
	return commands.NewCreateOrderCommandHandler(factory, engine, nil)
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	r := newTestRestaurant(t)
	customer, err := order.NewCustomer("Ada", "5550101234", "1 Elm St")
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(r.ID(), customer, order.Delivery, newTestItems(t), 500, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	restaurantRepo := new(MockRestaurantRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RestaurantRepository").Return(restaurantRepo).Once(),
		restaurantRepo.On("Get", ctx, r.ID()).Return(r, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	created, err := newCreateOrderHandler(t, factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, created.Status())
	assert.True(t, created.RestaurantID().IsEqual(r.ID()))
	assert.Equal(t, kernel.Cents(4000), created.Subtotal())
	assert.Equal(t, order.Charges{DeliveryFee: 299, MarketplaceFee: 1200, CourierCost: 700, Savings: 500},
		created.Charges())
	orderRepo.AssertExpectations(t)
	restaurantRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_PickupHasNoCourierCost(t *testing.T) {
	ctx := t.Context()
	r := newTestRestaurant(t)
	customer, err := order.NewCustomer("Ada", "5550101234", "1 Elm St")
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(r.ID(), customer, order.Pickup, newTestItems(t), 500, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	restaurantRepo := new(MockRestaurantRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RestaurantRepository").Return(restaurantRepo).Once()
	restaurantRepo.On("Get", ctx, r.ID()).Return(r, nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	created, err := newCreateOrderHandler(t, factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Nil(t, created.Customer().Address())
	assert.Equal(t, kernel.Cents(0), created.Charges().DeliveryFee)
	assert.Equal(t, kernel.Cents(0), created.Charges().CourierCost)
	assert.Equal(t, created.Charges().MarketplaceFee, created.Charges().Savings)
}

func TestCreateOrderCommandHandler_Handle_RestaurantNotFound(t *testing.T) {
	ctx := t.Context()
	restaurantID := kernel.NewUUID()
	customer, err := order.NewCustomer("Ada", "5550101234", "")
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(restaurantID, customer, order.Pickup, newTestItems(t), 0, "")
	require.NoError(t, err)

	restaurantRepo := new(MockRestaurantRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RestaurantRepository").Return(restaurantRepo).Once(),
		restaurantRepo.On("Get", ctx, restaurantID).
			Return(nil, errs.NewObjectNotFoundError("restaurant", restaurantID.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err = newCreateOrderHandler(t, factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "OrderRepository")
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	customer, err := order.NewCustomer("Ada", "5550101234", "")
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), customer, order.Pickup, newTestItems(t), 0, "")
	require.NoError(t, err)

	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	_, err = newCreateOrderHandler(t, factory).Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}

func TestCreateOrderCommandHandler_Handle_NotConstructed(t *testing.T) {
	factory := new(MockUoWFactory)

	_, err := newCreateOrderHandler(t, factory).Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
