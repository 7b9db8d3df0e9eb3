package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order and its items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByCourierDeliveryID retrieves the order dispatched under the given external id.
func (r *GormOrderRepository) GetByCourierDeliveryID(ctx context.Context, courierDeliveryID string) (*order.Order, error) {
	if strings.TrimSpace(courierDeliveryID) == "" {
		return nil, errs.NewValueIsRequiredError("courier delivery id")
	}

	var dto OrderDTO
	err := r.withItems(ctx).First(&dto, "courier_delivery_id = ?", courierDeliveryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", courierDeliveryID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// CompareAndSwap writes the mutable columns of aggregate in a single conditional
// UPDATE guarded by the stored status.
func (r *GormOrderRepository) CompareAndSwap(
	ctx context.Context,
	aggregate *order.Order,
	expected ...order.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if len(expected) == 0 {
		return errs.NewValueIsRequiredError("expected status")
	}

	names := make([]string, 0, len(expected))
	for _, s := range expected {
		names = append(names, s.String())
	}

	id := aggregate.ID().Bytes()
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status IN ?", id, names).
		Updates(mutableColumns(aggregate))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var stored struct{ Status string }
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).Select("status").Where("id = ?", id).Take(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	if err != nil {
		return err
	}

	return errs.NewConflictErrorWithCause("order",
		fmt.Errorf("stored status is %s, expected one of %v", stored.Status, names))
}

// ListQuotedPendingBefore returns Pending orders quoted before the given instant,
// oldest quote first.
func (r *GormOrderRepository) ListQuotedPendingBefore(ctx context.Context, before time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("status = ? AND courier_quote_id IS NOT NULL AND quoted_at < ?", order.Pending.String(), before.UTC()).
		Order("quoted_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}
