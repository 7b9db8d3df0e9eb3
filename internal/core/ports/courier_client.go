package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// Courier provider failure classes. Every CourierClient error matches exactly one of
// them with errors.Is.
var (
	// ErrProviderRejected means the provider refused the request, e.g. an undeliverable
	// address. Retrying the same request will not help.
	ErrProviderRejected = errors.New("courier provider rejected the request")

	// ErrQuoteExpired means the quote can no longer be accepted.
	ErrQuoteExpired = errors.New("courier quote expired")

	// ErrProviderUnavailable covers timeouts, network failures, throttling and provider
	// side errors. The outcome of the call is unknown.
	ErrProviderUnavailable = errors.New("courier provider unavailable")
)

// ProviderError carries the provider's own diagnostics alongside the failure class.
type ProviderError struct {
	Kind       error
	Operation  string
	StatusCode int
	Code       string
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Operation, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Code != "" || e.Message != "" {
		msg = fmt.Sprintf("%s: %s %s", msg, e.Code, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Stop is one end of a courier trip.
type Stop struct {
	Name    string
	Address string
	Phone   string
	// Instructions is free text for the courier, e.g. "Order #1234".
	Instructions string
}

// QuoteRequest asks the provider to price a trip.
type QuoteRequest struct {
	ExternalID string
	Pickup     Stop
	Dropoff    Stop
	OrderValue kernel.Cents
	Tip        kernel.Cents
}

// Quote is a priced, not yet accepted trip.
type Quote struct {
	ExternalID       string
	Fee              kernel.Cents
	Currency         string
	EstimatedDropoff *time.Time
}

// Delivery is an accepted courier dispatch.
type Delivery struct {
	ExternalID  string
	TrackingURL string
}

// CancelAck reports the outcome of a cancellation. AlreadyFinal is true when the
// provider had already cancelled or completed the delivery.
type CancelAck struct {
	AlreadyFinal bool
}

// StatusSnapshot is the provider's current view of a delivery. Status is Pending for a
// quote that was never accepted and Unknown when the provider reports a state with no
// lifecycle equivalent.
type StatusSnapshot struct {
	ExternalID  string
	Status      order.Status
	TrackingURL string
	Fee         kernel.Cents
	PickupETA   *time.Time
	DropoffETA  *time.Time
}

// CourierClient talks to the third-party courier dispatch provider. Implementations
// must bound every call with a timeout and must not retry.
type CourierClient interface {
	RequestQuote(ctx context.Context, req QuoteRequest) (Quote, error)
	AcceptQuote(ctx context.Context, externalID string) (Delivery, error)
	CancelDelivery(ctx context.Context, externalID string) (CancelAck, error)
	GetStatus(ctx context.Context, externalID string) (StatusSnapshot, error)
}
