package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/adapters/out/doordash"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/errs"
)

type webhookAck struct {
	Received bool `json:"received"`
}

// CourierWebhook handles POST /api/v1/webhooks/courier.
//
// Once the caller is authenticated and the payload parses, the response is always 200:
// the provider retries anything else, and a retry cannot fix an unknown delivery or a
// transition the order has already moved past.
func (s *Server) CourierWebhook(c echo.Context) error {
	if !s.webhookAuthorized(c.Request().Header.Get(echo.HeaderAuthorization)) {
		return errs.NewUnauthorizedError("invalid webhook secret")
	}

	var payload CourierWebhookRequest
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.EventName) == "" {
		return errs.NewValueIsRequiredError("event_name")
	}
	if strings.TrimSpace(payload.ExternalDeliveryID) == "" {
		return errs.NewValueIsRequiredError("external_delivery_id")
	}

	ctx := c.Request().Context()
	log := s.logger.With("event_name", payload.EventName, "external_delivery_id", payload.ExternalDeliveryID)

	status, ok := doordash.EventStatus(payload.EventName)
	if !ok {
		log.DebugContext(ctx, "ignoring courier event")
		return c.JSON(http.StatusOK, webhookAck{Received: true})
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(payload.ExternalDeliveryID, status, payload.TrackingURL)
	if err != nil {
		log.WarnContext(ctx, "courier event rejected", "error", err)
		return c.JSON(http.StatusOK, webhookAck{Received: true})
	}

	applied, err := s.handlers.AdvanceStatus.Handle(ctx, cmd)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		log.ErrorContext(ctx, "courier event for unknown delivery", "error", err)
	case err != nil:
		log.ErrorContext(ctx, "courier event not applied", "error", err)
	case applied:
		log.InfoContext(ctx, "courier event applied", "status", status.String())
	default:
		log.DebugContext(ctx, "courier event was a no-op", "status", status.String())
	}
	return c.JSON(http.StatusOK, webhookAck{Received: true})
}

// webhookAuthorized accepts "Bearer <secret>" or the bare secret. Without a configured
// secret every caller is accepted.
func (s *Server) webhookAuthorized(header string) bool {
	if s.cfg.WebhookSecret == "" {
		return true
	}
	presented := strings.TrimSpace(header)
	if parts := strings.SplitN(presented, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], bearerPrefix) {
		presented = strings.TrimSpace(parts[1])
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(s.cfg.WebhookSecret)) == 1
}
