package restaurant

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant constructor")

// Restaurant is the owner of orders and the pickup point of every courier delivery.
type Restaurant struct {
	id      kernel.UUID
	ownerID string
	name    string
	address string
	phone   string
	policy  DeliveryPolicy

	guard guard.ConstructorGuard
}

// NewRestaurant validates and builds a Restaurant. ownerID is the subject of the
// operator's session token; only that operator may act on the restaurant's orders.
func NewRestaurant(
	id kernel.UUID,
	ownerID, name, address, phone string,
	policy DeliveryPolicy,
) (*Restaurant, error) {
	r := &Restaurant{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		id.Validate(),
		r.setOwnerID(ownerID),
		r.setName(name),
		r.setAddress(address),
		r.setPhone(phone),
		policy.Validate(),
	); err != nil {
		return nil, err
	}

	r.id = id
	r.policy = policy
	return r, nil
}

func (r *Restaurant) Validate() error {
	if r == nil {
		return ErrRestaurantIsNotConstructed
	}
	return r.guard.Validate(ErrRestaurantIsNotConstructed)
}

func (r *Restaurant) ID() kernel.UUID {
	return r.id
}

func (r *Restaurant) OwnerID() string {
	return r.ownerID
}

func (r *Restaurant) Name() string {
	return r.name
}

func (r *Restaurant) Address() string {
	return r.address
}

func (r *Restaurant) Phone() string {
	return r.phone
}

func (r *Restaurant) DeliveryPolicy() DeliveryPolicy {
	return r.policy
}

// IsOwnedBy reports whether the operator identified by ownerID owns the restaurant.
// An empty ownerID never matches.
func (r *Restaurant) IsOwnedBy(ownerID string) bool {
	return ownerID != "" && r.ownerID == ownerID
}

func (r *Restaurant) setOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return errs.NewValueIsRequiredError("owner id")
	}
	r.ownerID = ownerID
	return nil
}

func (r *Restaurant) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("restaurant name")
	}
	r.name = strings.TrimSpace(name)
	return nil
}

func (r *Restaurant) setAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("restaurant address")
	}
	r.address = strings.TrimSpace(address)
	return nil
}

func (r *Restaurant) setPhone(phone string) error {
	normalized, err := kernel.NormalizePhone(phone)
	if err != nil {
		return err
	}
	r.phone = normalized
	return nil
}
