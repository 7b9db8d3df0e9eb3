package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItemView is one order line.
type OrderItemView struct {
	Name      string
	UnitPrice kernel.Cents
	Quantity  int
}

// orderRow is the column set shared by order listings and views.
type orderRow struct {
	ID                uuid.UUID
	RestaurantID      uuid.UUID
	CustomerName      string
	CustomerPhone     string
	CustomerAddress   *string
	Fulfillment       string
	Subtotal          int64
	DeliveryFee       int64
	Savings           int64
	Tip               int64
	Status            string
	CourierDeliveryID *string
	TrackingURL       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// RestaurantName is only filled by queries that join restaurants.
	RestaurantName string
}

const orderColumns = `
	o.id,
	o.restaurant_id,
	o.customer_name,
	o.customer_phone,
	o.customer_address,
	o.fulfillment,
	o.subtotal,
	o.delivery_fee,
	o.savings,
	o.tip,
	o.status,
	o.courier_delivery_id,
	o.tracking_url,
	o.created_at,
	o.updated_at`

func (r orderRow) parse() (kernel.UUID, order.Fulfillment, order.Status, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return kernel.UUID{}, order.UnknownFulfillment, order.Unknown, err
	}
	fulfillment, err := order.ParseFulfillment(r.Fulfillment)
	if err != nil {
		return kernel.UUID{}, order.UnknownFulfillment, order.Unknown, err
	}
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return kernel.UUID{}, order.UnknownFulfillment, order.Unknown, err
	}
	return id, fulfillment, status, nil
}

// total is what the customer pays: subtotal, delivery fee and tip.
func (r orderRow) total() kernel.Cents {
	return kernel.Cents(r.Subtotal + r.DeliveryFee + r.Tip)
}

// loadItems fetches the lines of the given orders keyed by order id, each in checkout order.
func loadItems(ctx context.Context, db *gorm.DB, orderIDs []uuid.UUID) (map[uuid.UUID][]OrderItemView, error) {
	items := make(map[uuid.UUID][]OrderItemView, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	var rows []struct {
		OrderID   uuid.UUID
		Name      string
		UnitPrice int64
		Quantity  int
	}
	err := db.WithContext(ctx).Raw(`
		SELECT order_id, name, unit_price, quantity
		FROM order_items
		WHERE order_id IN ?
		ORDER BY order_id, position
	`, orderIDs).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		items[row.OrderID] = append(items[row.OrderID], OrderItemView{
			Name:      row.Name,
			UnitPrice: kernel.Cents(row.UnitPrice),
			Quantity:  row.Quantity,
		})
	}
	return items, nil
}
