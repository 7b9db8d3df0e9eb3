package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Item is one order line. Items are immutable once the order exists.
type Item struct {
	name      string
	unitPrice kernel.Cents
	quantity  int
}

// NewItem validates an order line: a name, a non-negative unit price and a positive quantity.
func NewItem(name string, unitPrice kernel.Cents, quantity int) (Item, error) {
	name = strings.TrimSpace(name)

	var nameErr, qtyErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("item name")
	}
	if quantity <= 0 {
		qtyErr = errs.NewValueIsInvalidErrorWithCause("item quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	if err := errors.Join(nameErr, unitPrice.Validate("item price"), qtyErr); err != nil {
		return Item{}, err
	}

	return Item{name: name, unitPrice: unitPrice, quantity: quantity}, nil
}

func (i Item) Name() string {
	return i.name
}

func (i Item) UnitPrice() kernel.Cents {
	return i.unitPrice
}

func (i Item) Quantity() int {
	return i.quantity
}

// LineTotal is unit price times quantity.
func (i Item) LineTotal() kernel.Cents {
	return i.unitPrice * kernel.Cents(i.quantity)
}

// Subtotal sums the line totals of items.
func Subtotal(items []Item) kernel.Cents {
	var total kernel.Cents
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
