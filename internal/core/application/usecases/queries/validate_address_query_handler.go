package queries

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

const (
	// AddressProbeOrderValue is the nominal order value quoted when probing an address.
	AddressProbeOrderValue = 1000

	addressProbePrefix = "addr-validate-"
)

// ValidateAddressQueryHandler probes the courier provider with a throwaway quote. The
// quote is never accepted.
type ValidateAddressQueryHandler struct {
	uowFactory     UoWFactory
	courier        ports.CourierClient
	courierTimeout time.Duration
	logger         *slog.Logger
}

func NewValidateAddressQueryHandler(
	uowFactory UoWFactory,
	courier ports.CourierClient,
	courierTimeout time.Duration,
	logger *slog.Logger,
) ValidateAddressQueryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ValidateAddressQueryHandler{
		uowFactory:     uowFactory,
		courier:        courier,
		courierTimeout: courierTimeout,
		logger:         logger,
	}
}

// Handle returns an error only for an unknown restaurant or an invalid query. Every
// provider failure, including an unreachable provider, is reported as Valid false.
func (h ValidateAddressQueryHandler) Handle(ctx context.Context, query ValidateAddressQuery) (AddressValidation, error) {
	if err := query.Validate(); err != nil {
		return AddressValidation{}, err
	}

	r, err := h.uowFactory.Create().RestaurantRepository().Get(ctx, query.RestaurantID())
	if err != nil {
		return AddressValidation{}, err
	}

	quoteCtx, cancel := context.WithTimeout(ctx, h.courierTimeout)
	defer cancel()

	_, err = h.courier.RequestQuote(quoteCtx, ports.QuoteRequest{
		ExternalID: addressProbePrefix + uuid.NewString(),
		Pickup: ports.Stop{
			Name:    r.Name(),
			Address: r.Address(),
			Phone:   r.Phone(),
		},
		Dropoff: ports.Stop{
			Name:    query.CustomerName(),
			Address: query.CustomerAddress(),
			Phone:   query.CustomerPhone(),
		},
		OrderValue: AddressProbeOrderValue,
	})
	if err != nil {
		h.logger.InfoContext(ctx, "address rejected by courier provider",
			slog.String("restaurant_id", r.ID().String()),
			slog.Any("error", err))
		return AddressValidation{Valid: false, Error: providerReason(err)}, nil
	}

	return AddressValidation{Valid: true}, nil
}

// providerReason prefers the provider's own message over the wrapped error chain.
func providerReason(err error) string {
	var providerErr *ports.ProviderError
	if errors.As(err, &providerErr) && providerErr.Message != "" {
		return providerErr.Message
	}
	return err.Error()
}
