package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListRestaurantOrdersQueryHandler reads the operator's orders with plain SQL.
type ListRestaurantOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListRestaurantOrdersQueryHandler(db *gorm.DB) ListRestaurantOrdersQueryHandler {
	return ListRestaurantOrdersQueryHandler{db: db}
}

// Handle returns the orders of the operator's restaurant ordered by creation time,
// newest first. An operator without a restaurant gets an ObjectNotFoundError.
func (h ListRestaurantOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListRestaurantOrdersQuery,
) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var restaurantID uuid.UUID
	err := h.db.WithContext(ctx).
		Raw(`SELECT id FROM restaurants WHERE owner_id = ?`, query.OperatorID()).
		Row().
		Scan(&restaurantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("restaurant", query.OperatorID())
		}
		return nil, err
	}

	sqlQuery := `SELECT ` + orderColumns + `
		FROM orders o
		WHERE o.restaurant_id = ?`
	args := []any{restaurantID}
	if status := query.Status(); status != nil {
		sqlQuery += ` AND o.status = ?`
		args = append(args, status.String())
	}
	sqlQuery += ` ORDER BY o.created_at DESC, o.id LIMIT ?`
	args = append(args, query.Limit())

	var rows []orderRow
	if err = h.db.WithContext(ctx).Raw(sqlQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	items, err := loadItems(ctx, h.db, ids)
	if err != nil {
		return nil, err
	}

	orders := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		id, fulfillment, status, parseErr := row.parse()
		if parseErr != nil {
			return nil, parseErr
		}

		orders = append(orders, OrderSummary{
			ID:                id,
			CustomerName:      row.CustomerName,
			CustomerPhone:     row.CustomerPhone,
			CustomerAddress:   row.CustomerAddress,
			Fulfillment:       fulfillment,
			Status:            status,
			Items:             items[row.ID],
			Subtotal:          kernel.Cents(row.Subtotal),
			DeliveryFee:       kernel.Cents(row.DeliveryFee),
			Tip:               kernel.Cents(row.Tip),
			Total:             row.total(),
			Savings:           kernel.Cents(row.Savings),
			CourierDeliveryID: row.CourierDeliveryID,
			TrackingURL:       row.TrackingURL,
			CreatedAt:         row.CreatedAt,
			UpdatedAt:         row.UpdatedAt,
		})
	}

	return orders, nil
}
