package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order view or an ObjectNotFoundError.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`,
			r.name AS restaurant_name
		FROM orders o
		LEFT JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Scan(&rows).Error
	if err != nil {
		return OrderView{}, err
	}
	if len(rows) == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	row := rows[0]

	id, fulfillment, status, err := row.parse()
	if err != nil {
		return OrderView{}, err
	}
	restaurantID, err := kernel.UUIDFromBytes(row.RestaurantID[:])
	if err != nil {
		return OrderView{}, err
	}

	items, err := loadItems(ctx, h.db, []uuid.UUID{row.ID})
	if err != nil {
		return OrderView{}, err
	}

	return OrderView{
		ID:             id,
		RestaurantID:   restaurantID,
		RestaurantName: row.RestaurantName,
		CustomerName:   row.CustomerName,
		Fulfillment:    fulfillment,
		Status:         status,
		Items:          items[row.ID],
		Subtotal:       kernel.Cents(row.Subtotal),
		DeliveryFee:    kernel.Cents(row.DeliveryFee),
		Tip:            kernel.Cents(row.Tip),
		Total:          row.total(),
		TrackingURL:    row.TrackingURL,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}
