package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrNoItems is returned when an order has no lines.
	ErrNoItems = errs.NewValueIsRequiredError("items")
)

// Order is the aggregate root of fulfillment. It owns the customer data, the items,
// the money figures captured at creation, the courier dispatch references and the
// lifecycle status.
//
// Order follows these invariants:
//   - a delivery address is present if and only if fulfillment is Delivery
//   - Pickup orders carry no delivery fee and no courier cost
//   - savings == marketplace fee - courier cost, computed once at creation
//   - the courier delivery id, once set, is never cleared or replaced
//   - status only moves forward; Delivered and Cancelled are immutable
//
// Every successful transition buffers a StatusChanged event that callers drain with
// PullStatusChanges after the change has been persisted.
type Order struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	customer     Customer
	fulfillment  Fulfillment
	items        []Item

	subtotal   kernel.Cents
	charges    Charges
	tip        kernel.Cents
	paymentRef *string

	courierQuoteID    *string
	quotedAt          *time.Time
	courierDeliveryID *string
	trackingURL       *string

	status    Status
	createdAt time.Time
	updatedAt time.Time

	statusChanges []StatusChanged

	guard guard.ConstructorGuard
}

// NewOrder creates a Pending order. The charges must have been computed by the fee
// engine for the subtotal of items. For Pickup orders a customer address is discarded.
//
// Example:
//
//	items := []order.Item{burger}
//	charges := feeEngine.Charges(order.Subtotal(items), order.Delivery, policy, tip)
//	o, err := order.NewOrder(kernel.NewUUID(), restaurantID, customer, order.Delivery,
//	    items, tip, charges, "")
func NewOrder(
	id, restaurantID kernel.UUID,
	customer Customer,
	fulfillment Fulfillment,
	items []Item,
	tip kernel.Cents,
	charges Charges,
	paymentRef string,
) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if fulfillment == Pickup {
		customer = customer.withoutAddress()
	}

	if err := errors.Join(
		o.setIDs(id, restaurantID),
		o.setFulfillment(fulfillment, customer, true),
		o.setItems(items),
		tip.Validate("tip"),
		o.setCharges(fulfillment, charges),
	); err != nil {
		return nil, err
	}

	o.tip = tip
	if ref := strings.TrimSpace(paymentRef); ref != "" {
		o.paymentRef = &ref
	}
	return o, nil
}

// Snapshot is the full persisted state of an order, used by repositories to rebuild the
// aggregate with RestoreOrder.
type Snapshot struct {
	ID                kernel.UUID
	RestaurantID      kernel.UUID
	Customer          Customer
	Fulfillment       Fulfillment
	Items             []Item
	Subtotal          kernel.Cents
	Charges           Charges
	Tip               kernel.Cents
	PaymentRef        *string
	CourierQuoteID    *string
	QuotedAt          *time.Time
	CourierDeliveryID *string
	TrackingURL       *string
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RestoreOrder rebuilds an order from persisted state, re-checking the invariants
// that can be verified without history. Delivery orders stored without an address are
// accepted; DeliveryAddress reports them and dispatch refuses them.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		paymentRef:        s.PaymentRef,
		courierQuoteID:    s.CourierQuoteID,
		quotedAt:          s.QuotedAt,
		courierDeliveryID: s.CourierDeliveryID,
		trackingURL:       s.TrackingURL,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		guard:             guard.NewConstructorGuard(),
	}

	var subtotalErr error
	if s.Subtotal != Subtotal(s.Items) {
		subtotalErr = errs.NewValueIsInvalidErrorWithCause("subtotal",
			fmt.Errorf("%d does not match items total %d", s.Subtotal, Subtotal(s.Items)))
	}

	if err := errors.Join(
		o.setIDs(s.ID, s.RestaurantID),
		o.setFulfillment(s.Fulfillment, s.Customer, false),
		o.setItems(s.Items),
		subtotalErr,
		s.Tip.Validate("tip"),
		o.setCharges(s.Fulfillment, s.Charges),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	o.tip = s.Tip
	o.status = s.Status
	return o, nil
}

// Validate ensures the Order instance was created via NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

func (o *Order) Customer() Customer {
	return o.customer
}

func (o *Order) Fulfillment() Fulfillment {
	return o.fulfillment
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Subtotal() kernel.Cents {
	return o.subtotal
}

func (o *Order) Charges() Charges {
	return o.charges
}

func (o *Order) Tip() kernel.Cents {
	return o.tip
}

// Total is what the customer pays: subtotal, delivery fee and tip.
func (o *Order) Total() kernel.Cents {
	return o.subtotal + o.charges.DeliveryFee + o.tip
}

func (o *Order) PaymentRef() *string {
	return copyString(o.paymentRef)
}

// CourierQuoteID is the external id of an outstanding courier quote whose accept
// outcome has not been recorded yet, or nil.
func (o *Order) CourierQuoteID() *string {
	return copyString(o.courierQuoteID)
}

func (o *Order) QuotedAt() *time.Time {
	if o.quotedAt == nil {
		return nil
	}
	t := *o.quotedAt
	return &t
}

func (o *Order) CourierDeliveryID() *string {
	return copyString(o.courierDeliveryID)
}

func (o *Order) TrackingURL() *string {
	return copyString(o.trackingURL)
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// DeliveryAddress returns the address a courier must be dispatched to. It fails with a
// validation error when the order has none, which makes dispatch impossible.
func (o *Order) DeliveryAddress() (string, error) {
	addr := o.customer.Address()
	if o.fulfillment != Delivery || addr == nil {
		return "", errs.NewValueIsRequiredError("customer address")
	}
	return *addr, nil
}

// RecordQuote stores the external id of a courier quote about to be accepted. The
// marker lets a reconciliation sweep settle orders whose accept outcome was lost.
func (o *Order) RecordQuote(quoteID string, at time.Time) error {
	if o.fulfillment != Delivery {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment", errors.New("only delivery orders are quoted"))
	}
	if strings.TrimSpace(quoteID) == "" {
		return errs.NewValueIsRequiredError("courier quote id")
	}
	if o.status != Pending {
		return errs.NewConflictErrorWithCause("order", fmt.Errorf("cannot quote an order in status %s", o.status))
	}

	at = at.UTC()
	o.courierQuoteID = &quoteID
	o.quotedAt = &at
	o.updatedAt = time.Now().UTC()
	return nil
}

// ClearQuote drops the outstanding quote marker. It is a no-op when none is set.
func (o *Order) ClearQuote() {
	if o.courierQuoteID == nil && o.quotedAt == nil {
		return
	}
	o.courierQuoteID = nil
	o.quotedAt = nil
	o.updatedAt = time.Now().UTC()
}

// Confirm moves a Pending order to Confirmed. Delivery orders must pass the courier
// delivery id returned by the provider; Pickup orders pass empty strings.
//
// Returns a ConflictError when the order is no longer Pending.
func (o *Order) Confirm(courierDeliveryID, trackingURL string) error {
	if o.status != Pending {
		return errs.NewConflictErrorWithCause("order", fmt.Errorf("cannot confirm an order in status %s", o.status))
	}

	switch o.fulfillment {
	case Delivery:
		if strings.TrimSpace(courierDeliveryID) == "" {
			return errs.NewValueIsRequiredError("courier delivery id")
		}
		o.courierDeliveryID = &courierDeliveryID
		o.setTrackingURL(trackingURL)
	case Pickup:
		if courierDeliveryID != "" {
			return errs.NewValueIsInvalidErrorWithCause("courier delivery id",
				errors.New("pickup orders are not dispatched"))
		}
	}

	o.courierQuoteID = nil
	o.quotedAt = nil
	o.changeStatus(Confirmed)
	return nil
}

// Advance applies a courier-reported status. It returns false without error when the
// step is not forward (a duplicate, out-of-order or post-terminal report), which callers
// treat as an idempotent no-op. A non-empty trackingURL replaces the stored one.
func (o *Order) Advance(next Status, trackingURL string) (bool, error) {
	if err := next.Validate(); err != nil {
		return false, err
	}
	if !o.status.CanAdvanceTo(next, o.fulfillment) {
		return false, nil
	}

	o.setTrackingURL(trackingURL)
	o.changeStatus(next)
	return true, nil
}

// Cancel moves the order to Cancelled. Only orders that the courier has not yet
// picked up can be cancelled; otherwise a ConflictError is returned.
func (o *Order) Cancel() error {
	if !o.status.IsCancellable() {
		return errs.NewConflictErrorWithCause("order", fmt.Errorf("cannot cancel an order in status %s", o.status))
	}

	o.courierQuoteID = nil
	o.quotedAt = nil
	o.changeStatus(Cancelled)
	return nil
}

// Complete hands a Confirmed pickup order to the customer, moving it to Delivered.
func (o *Order) Complete() error {
	if o.fulfillment != Pickup {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment",
			errors.New("only pickup orders are completed by the operator"))
	}
	if o.status != Confirmed {
		return errs.NewConflictErrorWithCause("order", fmt.Errorf("cannot complete an order in status %s", o.status))
	}

	o.changeStatus(Delivered)
	return nil
}

// PullStatusChanges returns the buffered StatusChanged events and clears the buffer.
func (o *Order) PullStatusChanges() []StatusChanged {
	changes := o.statusChanges
	o.statusChanges = nil
	return changes
}

func (o *Order) changeStatus(next Status) {
	now := time.Now().UTC()
	change := StatusChanged{
		OrderID:        o.id,
		RestaurantID:   o.restaurantID,
		Status:         next,
		PreviousStatus: o.status,
		ChangedAt:      now,
	}
	if o.trackingURL != nil {
		change.TrackingURL = *o.trackingURL
	}

	o.status = next
	o.updatedAt = now
	o.statusChanges = append(o.statusChanges, change)
}

func (o *Order) setTrackingURL(trackingURL string) {
	if u := strings.TrimSpace(trackingURL); u != "" {
		o.trackingURL = &u
	}
}

func (o *Order) setIDs(id, restaurantID kernel.UUID) error {
	if err := errors.Join(id.Validate(), restaurantID.Validate()); err != nil {
		return err
	}
	o.id = id
	o.restaurantID = restaurantID
	return nil
}

func (o *Order) setFulfillment(fulfillment Fulfillment, customer Customer, requireAddress bool) error {
	if err := fulfillment.Validate(); err != nil {
		return err
	}
	if customer.name == "" || customer.phone == "" {
		return errs.NewValueIsRequiredError("customer")
	}
	if requireAddress && fulfillment == Delivery && customer.address == nil {
		return errs.NewValueIsRequiredError("customer address")
	}
	if fulfillment == Pickup && customer.address != nil {
		return errs.NewValueIsInvalidErrorWithCause("customer address", errors.New("pickup orders have no address"))
	}

	o.fulfillment = fulfillment
	o.customer = customer
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if item.quantity <= 0 || item.name == "" {
			return errs.NewValueIsInvalidErrorWithCause("items", errors.New("item must be created via NewItem"))
		}
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.subtotal = Subtotal(items)
	return nil
}

func (o *Order) setCharges(fulfillment Fulfillment, charges Charges) error {
	if err := charges.Validate(); err != nil {
		return err
	}
	if fulfillment == Pickup && (charges.DeliveryFee != 0 || charges.CourierCost != 0) {
		return errs.NewValueIsInvalidErrorWithCause("charges",
			errors.New("pickup orders carry no delivery fee or courier cost"))
	}
	o.charges = charges
	return nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
