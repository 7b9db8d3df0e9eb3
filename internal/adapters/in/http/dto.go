package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

var errInvalidBody = errors.New("request body is not valid JSON")

func bindJSON(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", fmt.Errorf("%w: %v", errInvalidBody, err))
	}
	return nil
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

type ItemRequest struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type CreateOrderRequest struct {
	RestaurantID    string        `json:"restaurantId"`
	CustomerName    string        `json:"customerName"`
	CustomerPhone   string        `json:"customerPhone"`
	CustomerAddress string        `json:"customerAddress"`
	Fulfillment     string        `json:"fulfillment"`
	Items           []ItemRequest `json:"items"`
	Tip             int64         `json:"tip"`
	PaymentRef      string        `json:"paymentRef"`
	BotToken        string        `json:"botToken"`
}

type ValidateAddressRequest struct {
	RestaurantID    string `json:"restaurantId"`
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
}

type ValidateAddressResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// CourierWebhookRequest is the payload the courier provider posts on every delivery event.
type CourierWebhookRequest struct {
	EventName          string `json:"event_name"`
	ExternalDeliveryID string `json:"external_delivery_id"`
	TrackingURL        string `json:"tracking_url"`
}

type ItemResponse struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// OrderResponse is the full order as returned to its creator and to operators.
type OrderResponse struct {
	ID                string         `json:"id"`
	RestaurantID      string         `json:"restaurantId"`
	CustomerName      string         `json:"customerName"`
	CustomerPhone     string         `json:"customerPhone"`
	CustomerAddress   *string        `json:"customerAddress"`
	Fulfillment       string         `json:"fulfillment"`
	Status            string         `json:"status"`
	Items             []ItemResponse `json:"items"`
	Subtotal          int64          `json:"subtotal"`
	DeliveryFee       int64          `json:"deliveryFee"`
	Tip               int64          `json:"tip"`
	Total             int64          `json:"total"`
	MarketplaceFee    int64          `json:"marketplaceFee"`
	CourierCost       int64          `json:"courierCost"`
	Savings           int64          `json:"savings"`
	PaymentRef        *string        `json:"paymentRef,omitempty"`
	CourierDeliveryID *string        `json:"courierDeliveryId"`
	TrackingURL       *string        `json:"trackingUrl"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func newOrderResponse(o *order.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, ItemResponse{Name: it.Name(), Price: int64(it.UnitPrice()), Quantity: it.Quantity()})
	}
	charges := o.Charges()
	return OrderResponse{
		ID:                o.ID().String(),
		RestaurantID:      o.RestaurantID().String(),
		CustomerName:      o.Customer().Name(),
		CustomerPhone:     o.Customer().Phone(),
		CustomerAddress:   o.Customer().Address(),
		Fulfillment:       o.Fulfillment().String(),
		Status:            o.Status().String(),
		Items:             items,
		Subtotal:          int64(o.Subtotal()),
		DeliveryFee:       int64(charges.DeliveryFee),
		Tip:               int64(o.Tip()),
		Total:             int64(o.Total()),
		MarketplaceFee:    int64(charges.MarketplaceFee),
		CourierCost:       int64(charges.CourierCost),
		Savings:           int64(charges.Savings),
		PaymentRef:        o.PaymentRef(),
		CourierDeliveryID: o.CourierDeliveryID(),
		TrackingURL:       o.TrackingURL(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

func newItemResponses(views []queries.OrderItemView) []ItemResponse {
	items := make([]ItemResponse, 0, len(views))
	for _, v := range views {
		items = append(items, ItemResponse{Name: v.Name, Price: int64(v.UnitPrice), Quantity: v.Quantity})
	}
	return items
}

// PublicOrderResponse is what the ordering page may show to anyone holding the order id.
type PublicOrderResponse struct {
	ID             string         `json:"id"`
	RestaurantID   string         `json:"restaurantId"`
	RestaurantName string         `json:"restaurantName"`
	CustomerName   string         `json:"customerName"`
	Fulfillment    string         `json:"fulfillment"`
	Status         string         `json:"status"`
	Items          []ItemResponse `json:"items"`
	Subtotal       int64          `json:"subtotal"`
	DeliveryFee    int64          `json:"deliveryFee"`
	Tip            int64          `json:"tip"`
	Total          int64          `json:"total"`
	TrackingURL    *string        `json:"trackingUrl"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func newPublicOrderResponse(v queries.OrderView) PublicOrderResponse {
	return PublicOrderResponse{
		ID:             v.ID.String(),
		RestaurantID:   v.RestaurantID.String(),
		RestaurantName: v.RestaurantName,
		CustomerName:   v.CustomerName,
		Fulfillment:    v.Fulfillment.String(),
		Status:         v.Status.String(),
		Items:          newItemResponses(v.Items),
		Subtotal:       int64(v.Subtotal),
		DeliveryFee:    int64(v.DeliveryFee),
		Tip:            int64(v.Tip),
		Total:          int64(v.Total),
		TrackingURL:    v.TrackingURL,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

type OrderSummaryResponse struct {
	ID                string         `json:"id"`
	CustomerName      string         `json:"customerName"`
	CustomerPhone     string         `json:"customerPhone"`
	CustomerAddress   *string        `json:"customerAddress"`
	Fulfillment       string         `json:"fulfillment"`
	Status            string         `json:"status"`
	Items             []ItemResponse `json:"items"`
	Subtotal          int64          `json:"subtotal"`
	DeliveryFee       int64          `json:"deliveryFee"`
	Tip               int64          `json:"tip"`
	Total             int64          `json:"total"`
	Savings           int64          `json:"savings"`
	CourierDeliveryID *string        `json:"courierDeliveryId"`
	TrackingURL       *string        `json:"trackingUrl"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func newOrderSummaryResponses(summaries []queries.OrderSummary) []OrderSummaryResponse {
	out := make([]OrderSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, OrderSummaryResponse{
			ID:                s.ID.String(),
			CustomerName:      s.CustomerName,
			CustomerPhone:     s.CustomerPhone,
			CustomerAddress:   s.CustomerAddress,
			Fulfillment:       s.Fulfillment.String(),
			Status:            s.Status.String(),
			Items:             newItemResponses(s.Items),
			Subtotal:          int64(s.Subtotal),
			DeliveryFee:       int64(s.DeliveryFee),
			Tip:               int64(s.Tip),
			Total:             int64(s.Total),
			Savings:           int64(s.Savings),
			CourierDeliveryID: s.CourierDeliveryID,
			TrackingURL:       s.TrackingURL,
			CreatedAt:         s.CreatedAt,
			UpdatedAt:         s.UpdatedAt,
		})
	}
	return out
}

type DeliveryStatusResponse struct {
	OrderID           string     `json:"orderId"`
	OrderStatus       string     `json:"orderStatus"`
	CourierDeliveryID string     `json:"courierDeliveryId"`
	CourierStatus     string     `json:"courierStatus"`
	TrackingURL       string     `json:"trackingUrl,omitempty"`
	Fee               int64      `json:"fee"`
	PickupETA         *time.Time `json:"pickupEta,omitempty"`
	DropoffETA        *time.Time `json:"dropoffEta,omitempty"`
}

func newDeliveryStatusResponse(s queries.DeliveryStatus) DeliveryStatusResponse {
	return DeliveryStatusResponse{
		OrderID:           s.OrderID.String(),
		OrderStatus:       s.OrderStatus.String(),
		CourierDeliveryID: s.CourierDeliveryID,
		CourierStatus:     s.CourierStatus.String(),
		TrackingURL:       s.TrackingURL,
		Fee:               int64(s.Fee),
		PickupETA:         s.PickupETA,
		DropoffETA:        s.DropoffETA,
	}
}
