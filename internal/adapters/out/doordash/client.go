package doordash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

const (
	opQuote  = "request quote"
	opAccept = "accept quote"
	opCancel = "cancel delivery"
	opStatus = "get delivery status"
)

var _ ports.CourierClient = (*Client)(nil)

type Client struct {
	baseURL string
	http    *http.Client
	signer  signer
	debug   bool
	now     func() time.Time
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	secret, err := cfg.decodedSecret()
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: baseURL + apiPathPrefix,
		http:    &http.Client{Timeout: timeout},
		signer:  signer{developerID: cfg.DeveloperID, keyID: cfg.KeyID, secret: secret},
		debug:   cfg.Debug,
		now:     time.Now,
		logger:  logger.With("component", "doordash"),
	}, nil
}

func (c *Client) RequestQuote(ctx context.Context, req ports.QuoteRequest) (ports.Quote, error) {
	body := quoteRequestDTO{
		ExternalDeliveryID:      req.ExternalID,
		PickupAddress:           req.Pickup.Address,
		PickupBusinessName:      req.Pickup.Name,
		PickupPhoneNumber:       req.Pickup.Phone,
		PickupInstructions:      req.Pickup.Instructions,
		DropoffAddress:          req.Dropoff.Address,
		DropoffPhoneNumber:      req.Dropoff.Phone,
		DropoffContactGivenName: req.Dropoff.Name,
		DropoffInstructions:     req.Dropoff.Instructions,
		DropoffTime:             c.now().Add(dropoffLeadIn).UTC().Format(time.RFC3339),
		OrderValue:              int64(req.OrderValue),
		Tip:                     int64(req.Tip),
	}

	var resp deliveryDTO
	status, apiErr, err := c.do(ctx, http.MethodPost, "/quotes", body, &resp)
	if err != nil {
		return ports.Quote{}, unavailable(opQuote, err)
	}
	if apiErr != nil {
		return ports.Quote{}, classify(opQuote, status, apiErr, ports.ErrProviderRejected)
	}

	return ports.Quote{
		ExternalID:       resp.ExternalDeliveryID,
		Fee:              kernel.Cents(resp.Fee),
		Currency:         resp.Currency,
		EstimatedDropoff: resp.DropoffTimeEstimated,
	}, nil
}

func (c *Client) AcceptQuote(ctx context.Context, externalID string) (ports.Delivery, error) {
	var resp deliveryDTO
	status, apiErr, err := c.do(ctx, http.MethodPost, "/quotes/"+url.PathEscape(externalID)+"/accept", struct{}{}, &resp)
	if err != nil {
		return ports.Delivery{}, unavailable(opAccept, err)
	}
	if apiErr != nil {
		return ports.Delivery{}, classify(opAccept, status, apiErr, ports.ErrQuoteExpired)
	}

	id := resp.ExternalDeliveryID
	if id == "" {
		id = externalID
	}
	return ports.Delivery{ExternalID: id, TrackingURL: resp.TrackingURL}, nil
}

func (c *Client) CancelDelivery(ctx context.Context, externalID string) (ports.CancelAck, error) {
	status, apiErr, err := c.do(ctx, http.MethodPut, "/deliveries/"+url.PathEscape(externalID)+"/cancel", struct{}{}, nil)
	if err != nil {
		return ports.CancelAck{}, unavailable(opCancel, err)
	}
	if apiErr == nil {
		return ports.CancelAck{}, nil
	}

	if alreadyFinal(status, apiErr) {
		c.logger.InfoContext(ctx, "delivery was already final at the provider",
			"external_delivery_id", externalID, "status", status, "code", apiErr.Code)
		return ports.CancelAck{AlreadyFinal: true}, nil
	}
	return ports.CancelAck{}, classify(opCancel, status, apiErr, ports.ErrProviderRejected)
}

func (c *Client) GetStatus(ctx context.Context, externalID string) (ports.StatusSnapshot, error) {
	var resp deliveryDTO
	status, apiErr, err := c.do(ctx, http.MethodGet, "/deliveries/"+url.PathEscape(externalID), nil, &resp)
	if err != nil {
		return ports.StatusSnapshot{}, unavailable(opStatus, err)
	}
	if apiErr != nil {
		return ports.StatusSnapshot{}, classify(opStatus, status, apiErr, ports.ErrProviderRejected)
	}

	return ports.StatusSnapshot{
		ExternalID:  resp.ExternalDeliveryID,
		Status:      deliveryStatus(resp.DeliveryStatus),
		TrackingURL: resp.TrackingURL,
		Fee:         kernel.Cents(resp.Fee),
		PickupETA:   resp.PickupTimeEstimated,
		DropoffETA:  resp.DropoffTimeEstimated,
	}, nil
}

// do performs one signed call. A non-nil err means no usable response arrived.
// Any non-2xx response is returned as apiErr together with its status code.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, *errorDTO, error) {
	token, err := c.signer.sign(c.now())
	if err != nil {
		return 0, nil, fmt.Errorf("sign request: %w", err)
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		if c.debug {
			c.logger.DebugContext(ctx, "courier request", "method", method, "path", path, "payload", string(payload))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, readError(resp.Body), nil
	}
	if out == nil {
		return resp.StatusCode, nil, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil, nil
}

// readError parses a Drive error body, falling back to the raw text.
func readError(r io.Reader) *errorDTO {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyKB<<10))

	var dto errorDTO
	if err := json.Unmarshal(raw, &dto); err != nil || (dto.Code == "" && dto.Message == "") {
		return &errorDTO{Message: strings.TrimSpace(string(raw))}
	}
	return &dto
}

// classify maps a non-2xx response. Throttling, auth and server side failures are
// always unavailable; any other client error becomes clientKind.
func classify(op string, status int, apiErr *errorDTO, clientKind error) error {
	kind := clientKind
	switch {
	case status >= 500,
		status == http.StatusTooManyRequests,
		status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == http.StatusRequestTimeout:
		kind = ports.ErrProviderUnavailable
	}
	return &ports.ProviderError{
		Kind:       kind,
		Operation:  op,
		StatusCode: status,
		Code:       apiErr.Code,
		Message:    apiErr.Message,
	}
}

func unavailable(op string, cause error) error {
	return &ports.ProviderError{Kind: ports.ErrProviderUnavailable, Operation: op, Cause: cause}
}

func alreadyFinal(status int, apiErr *errorDTO) bool {
	switch status {
	case http.StatusNotFound, http.StatusConflict, http.StatusGone:
		return true
	}
	if status >= 500 || status == http.StatusTooManyRequests {
		return false
	}
	text := strings.ToLower(apiErr.Code + " " + apiErr.Message)
	return strings.Contains(text, "already") &&
		(strings.Contains(text, "cancel") || strings.Contains(text, "deliver"))
}
