package queries

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrValidateAddressQueryIsNotConstructed = errors.New(
	"ValidateAddressQuery must be created via NewValidateAddressQuery constructor",
)

// ValidateAddressQuery checks at checkout that the courier provider can deliver from
// the restaurant to the customer's address.
type ValidateAddressQuery struct {
	restaurantID    kernel.UUID
	customerName    string
	customerPhone   string
	customerAddress string

	guard guard.ConstructorGuard
}

// NewValidateAddressQuery requires every field and normalizes the phone number.
func NewValidateAddressQuery(
	restaurantID kernel.UUID,
	customerName, customerPhone, customerAddress string,
) (ValidateAddressQuery, error) {
	q := ValidateAddressQuery{
		restaurantID:    restaurantID,
		customerName:    strings.TrimSpace(customerName),
		customerAddress: strings.TrimSpace(customerAddress),
		guard:           guard.NewConstructorGuard(),
	}

	var nameErr, addressErr error
	if q.customerName == "" {
		nameErr = errs.NewValueIsRequiredError("customer name")
	}
	if q.customerAddress == "" {
		addressErr = errs.NewValueIsRequiredError("customer address")
	}
	phone, phoneErr := kernel.NormalizePhone(customerPhone)

	if err := errors.Join(restaurantID.Validate(), nameErr, phoneErr, addressErr); err != nil {
		return ValidateAddressQuery{}, err
	}

	q.customerPhone = phone
	return q, nil
}

func (q ValidateAddressQuery) Validate() error {
	return q.guard.Validate(ErrValidateAddressQueryIsNotConstructed)
}

func (q ValidateAddressQuery) RestaurantID() kernel.UUID {
	return q.restaurantID
}

func (q ValidateAddressQuery) CustomerName() string {
	return q.customerName
}

func (q ValidateAddressQuery) CustomerPhone() string {
	return q.customerPhone
}

func (q ValidateAddressQuery) CustomerAddress() string {
	return q.customerAddress
}

// AddressValidation is the verdict. Error carries the provider's reason when Valid is false.
type AddressValidation struct {
	Valid bool
	Error string
}
