package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ListOrders handles GET /api/v1/operator/orders?status=.
func (s *Server) ListOrders(c echo.Context) error {
	operator, err := operatorID(c)
	if err != nil {
		return err
	}

	var status *order.Status
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		parsed, err := order.ParseStatus(strings.ToUpper(raw))
		if err != nil {
			return err
		}
		status = &parsed
	}

	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("limit", err)
	}

	query, err := queries.NewListRestaurantOrdersQuery(operator, status, limit)
	if err != nil {
		return err
	}
	summaries, err := s.handlers.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderSummaryResponses(summaries))
}

// ConfirmOrder handles POST /api/v1/operator/orders/:id/confirm.
func (s *Server) ConfirmOrder(c echo.Context) error {
	operator, err := operatorID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewConfirmOrderCommand(id, operator)
	if err != nil {
		return err
	}

	confirmed, err := s.handlers.ConfirmOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(confirmed))
}

// CancelOrder handles POST /api/v1/operator/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	operator, err := operatorID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewCancelOrderCommand(id, operator)
	if err != nil {
		return err
	}

	cancelled, err := s.handlers.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(cancelled))
}

// CompletePickupOrder handles POST /api/v1/operator/orders/:id/complete.
func (s *Server) CompletePickupOrder(c echo.Context) error {
	operator, err := operatorID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewCompletePickupOrderCommand(id, operator)
	if err != nil {
		return err
	}

	completed, err := s.handlers.CompletePickup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(completed))
}

// GetDeliveryStatus handles GET /api/v1/operator/orders/:id/delivery-status.
func (s *Server) GetDeliveryStatus(c echo.Context) error {
	operator, err := operatorID(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	query, err := queries.NewGetDeliveryStatusQuery(id, operator)
	if err != nil {
		return err
	}

	status, err := s.handlers.DeliveryStatus.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDeliveryStatusResponse(status))
}
