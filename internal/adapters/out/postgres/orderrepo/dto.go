// Package orderrepo persists order aggregates with GORM. An order is stored as one
// row in "orders" plus its lines in "order_items".
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderDTO is the row of the orders table. Status and fulfillment are stored by name
// so the table stays readable for operators and reporting queries.
type OrderDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID      `gorm:"type:uuid;not null;index:idx_orders_restaurant_created,priority:1"`
	Customer     CustomerDTO    `gorm:"embedded;embeddedPrefix:customer_"`
	Fulfillment  string         `gorm:"type:varchar(16);not null"`
	Items        []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	Subtotal       int64   `gorm:"not null"`
	DeliveryFee    int64   `gorm:"not null"`
	MarketplaceFee int64   `gorm:"not null"`
	CourierCost    int64   `gorm:"not null"`
	Savings        int64   `gorm:"not null"`
	Tip            int64   `gorm:"not null"`
	PaymentRef     *string `gorm:"type:varchar(255)"`

	CourierQuoteID    *string    `gorm:"type:varchar(255)"`
	QuotedAt          *time.Time `gorm:"index"`
	CourierDeliveryID *string    `gorm:"type:varchar(255);uniqueIndex"`
	TrackingURL       *string    `gorm:"type:text"`

	Status    string    `gorm:"type:varchar(32);not null;index"`
	CreatedAt time.Time `gorm:"not null;index:idx_orders_restaurant_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// CustomerDTO is embedded into the orders row.
type CustomerDTO struct {
	Name    string  `gorm:"type:varchar(255);not null"`
	Phone   string  `gorm:"type:varchar(32);not null"`
	Address *string `gorm:"type:text"`
}

// OrderItemDTO is one order line. Position keeps the lines in checkout order.
type OrderItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	UnitPrice int64     `gorm:"not null"`
	Quantity  int       `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   orderID,
			Position:  i,
			Name:      item.Name(),
			UnitPrice: int64(item.UnitPrice()),
			Quantity:  item.Quantity(),
		})
	}

	customer := o.Customer()
	charges := o.Charges()
	return OrderDTO{
		ID:           orderID,
		RestaurantID: o.RestaurantID().Bytes(),
		Customer: CustomerDTO{
			Name:    customer.Name(),
			Phone:   customer.Phone(),
			Address: customer.Address(),
		},
		Fulfillment:       o.Fulfillment().String(),
		Items:             items,
		Subtotal:          int64(o.Subtotal()),
		DeliveryFee:       int64(charges.DeliveryFee),
		MarketplaceFee:    int64(charges.MarketplaceFee),
		CourierCost:       int64(charges.CourierCost),
		Savings:           int64(charges.Savings),
		Tip:               int64(o.Tip()),
		PaymentRef:        o.PaymentRef(),
		CourierQuoteID:    o.CourierQuoteID(),
		QuotedAt:          o.QuotedAt(),
		CourierDeliveryID: o.CourierDeliveryID(),
		TrackingURL:       o.TrackingURL(),
		Status:            o.Status().String(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

// mutableColumns lists the columns a status transition may touch. A nil quote marker
// is written as NULL. The courier delivery id and tracking url are never cleared, and
// a stored delivery id is never replaced, even by a writer holding a stale copy.
func mutableColumns(o *order.Order) map[string]any {
	columns := map[string]any{
		"status":           o.Status().String(),
		"courier_quote_id": o.CourierQuoteID(),
		"quoted_at":        o.QuotedAt(),
		"updated_at":       o.UpdatedAt(),
	}
	if id := o.CourierDeliveryID(); id != nil {
		columns["courier_delivery_id"] = gorm.Expr("COALESCE(courier_delivery_id, ?)", *id)
	}
	if url := o.TrackingURL(); url != nil {
		columns["tracking_url"] = *url
	}
	return columns
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var address string
	if dto.Customer.Address != nil {
		address = *dto.Customer.Address
	}
	customer, err := order.NewCustomer(dto.Customer.Name, dto.Customer.Phone, address)
	if err != nil {
		return nil, err
	}

	fulfillment, err := order.ParseFulfillment(dto.Fulfillment)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewItem(itemDTO.Name, kernel.Cents(itemDTO.UnitPrice), itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:           id,
		RestaurantID: restaurantID,
		Customer:     customer,
		Fulfillment:  fulfillment,
		Items:        items,
		Subtotal:     kernel.Cents(dto.Subtotal),
		Charges: order.Charges{
			DeliveryFee:    kernel.Cents(dto.DeliveryFee),
			MarketplaceFee: kernel.Cents(dto.MarketplaceFee),
			CourierCost:    kernel.Cents(dto.CourierCost),
			Savings:        kernel.Cents(dto.Savings),
		},
		Tip:               kernel.Cents(dto.Tip),
		PaymentRef:        dto.PaymentRef,
		CourierQuoteID:    dto.CourierQuoteID,
		QuotedAt:          dto.QuotedAt,
		CourierDeliveryID: dto.CourierDeliveryID,
		TrackingURL:       dto.TrackingURL,
		Status:            status,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
	})
}
