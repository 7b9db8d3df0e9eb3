package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/adapters/in/http/gate"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := gate.CheckBot(c, s.bot, req.BotToken); err != nil {
		return err
	}

	cmd, err := newCreateOrderCommand(req)
	if err != nil {
		return err
	}

	created, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newOrderResponse(created))
}

func newCreateOrderCommand(req CreateOrderRequest) (commands.CreateOrderCommand, error) {
	restaurantID, idErr := kernel.UUIDFromString(req.RestaurantID)
	if idErr != nil {
		idErr = errs.NewValueIsInvalidErrorWithCause("restaurantId", idErr)
	}
	fulfillment, fulfillmentErr := order.ParseFulfillment(req.Fulfillment)
	customer, customerErr := order.NewCustomer(req.CustomerName, req.CustomerPhone, req.CustomerAddress)

	var itemsErr error
	items := make([]order.Item, 0, len(req.Items))
	for _, it := range req.Items {
		item, err := order.NewItem(it.Name, kernel.Cents(it.Price), it.Quantity)
		if err != nil {
			itemsErr = errors.Join(itemsErr, err)
			continue
		}
		items = append(items, item)
	}

	if err := errors.Join(idErr, fulfillmentErr, customerErr, itemsErr); err != nil {
		return commands.CreateOrderCommand{}, err
	}
	return commands.NewCreateOrderCommand(restaurantID, customer, fulfillment, items, kernel.Cents(req.Tip), req.PaymentRef)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}

	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPublicOrderResponse(view))
}

// ValidateAddress handles POST /api/v1/addresses/validate. An address the courier cannot
// serve is a 200 with valid=false, not an error.
func (s *Server) ValidateAddress(c echo.Context) error {
	var req ValidateAddressRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("restaurantId", err)
	}
	query, err := queries.NewValidateAddressQuery(restaurantID, req.CustomerName, req.CustomerPhone, req.CustomerAddress)
	if err != nil {
		return err
	}

	result, err := s.handlers.ValidateAddress.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ValidateAddressResponse{Valid: result.Valid, Error: result.Error})
}
