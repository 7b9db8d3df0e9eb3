// Package restaurantrepo maps restaurant aggregates to the restaurants table.
package restaurantrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
)

// RestaurantDTO is the row of the restaurants table. Each operator owns at most one
// restaurant.
type RestaurantDTO struct {
	ID      uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OwnerID string            `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name    string            `gorm:"type:varchar(255);not null"`
	Address string            `gorm:"type:text;not null"`
	Phone   string            `gorm:"type:varchar(32);not null"`
	Policy  DeliveryPolicyDTO `gorm:"embedded;embeddedPrefix:policy_"`
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// DeliveryPolicyDTO is the fee configuration embedded into the restaurant row.
type DeliveryPolicyDTO struct {
	DeliveryFee     int64 `gorm:"not null"`
	ReducedFee      int64 `gorm:"not null"`
	ReducedFeeMin   int64 `gorm:"not null"`
	FreeDeliveryMin int64 `gorm:"not null"`
	PassTip         bool  `gorm:"not null;default:false"`
}

func fromDomain(r *restaurant.Restaurant) RestaurantDTO {
	policy := r.DeliveryPolicy()
	return RestaurantDTO{
		ID:      r.ID().Bytes(),
		OwnerID: r.OwnerID(),
		Name:    r.Name(),
		Address: r.Address(),
		Phone:   r.Phone(),
		Policy: DeliveryPolicyDTO{
			DeliveryFee:     int64(policy.DeliveryFee),
			ReducedFee:      int64(policy.ReducedFee),
			ReducedFeeMin:   int64(policy.ReducedFeeMin),
			FreeDeliveryMin: int64(policy.FreeDeliveryMin),
			PassTip:         policy.PassTip,
		},
	}
}

func toDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return restaurant.NewRestaurant(id, dto.OwnerID, dto.Name, dto.Address, dto.Phone, restaurant.DeliveryPolicy{
		DeliveryFee:     kernel.Cents(dto.Policy.DeliveryFee),
		ReducedFee:      kernel.Cents(dto.Policy.ReducedFee),
		ReducedFeeMin:   kernel.Cents(dto.Policy.ReducedFeeMin),
		FreeDeliveryMin: kernel.Cents(dto.Policy.FreeDeliveryMin),
		PassTip:         dto.Policy.PassTip,
	})
}
