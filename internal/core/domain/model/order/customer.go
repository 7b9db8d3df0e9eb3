package order

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Customer holds the contact data captured at checkout. The phone number is stored in
// E.164 form; address is nil when none was given.
type Customer struct {
	name    string
	phone   string
	address *string
}

// NewCustomer validates the customer's name and phone and normalizes the phone number.
// A blank address is recorded as absent.
func NewCustomer(name, phone, address string) (Customer, error) {
	c := Customer{name: strings.TrimSpace(name)}

	var nameErr error
	if c.name == "" {
		nameErr = errs.NewValueIsRequiredError("customer name")
	}

	normalized, phoneErr := kernel.NormalizePhone(phone)
	if err := errors.Join(nameErr, phoneErr); err != nil {
		return Customer{}, err
	}
	c.phone = normalized

	if a := strings.TrimSpace(address); a != "" {
		c.address = &a
	}
	return c, nil
}

func (c Customer) Name() string {
	return c.name
}

func (c Customer) Phone() string {
	return c.phone
}

// Address returns the delivery address, or nil.
func (c Customer) Address() *string {
	if c.address == nil {
		return nil
	}
	a := *c.address
	return &a
}

func (c Customer) withoutAddress() Customer {
	c.address = nil
	return c
}
