// Package turnstile verifies Cloudflare Turnstile challenge tokens.
package turnstile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	DefaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	DefaultTimeout   = 5 * time.Second
)

type verifyRequest struct {
	Secret   string `json:"secret"`
	Response string `json:"response"`
	RemoteIP string `json:"remoteip,omitempty"`
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

type Verifier struct {
	secret    string
	verifyURL string
	http      *http.Client
	logger    *slog.Logger
}

// NewVerifier returns a verifier that accepts every token when secret is empty,
// which is how sandbox and local environments run.
func NewVerifier(secret string, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		secret:    secret,
		verifyURL: DefaultVerifyURL,
		http:      &http.Client{Timeout: DefaultTimeout},
		logger:    logger.With("component", "turnstile"),
	}
}

// Verify fails closed: any transport or decoding problem counts as a failed challenge.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) bool {
	if v.secret == "" {
		return true
	}
	if token == "" {
		return false
	}

	ok, err := v.verify(ctx, token, remoteIP)
	if err != nil {
		v.logger.WarnContext(ctx, "challenge verification failed", "error", err)
		return false
	}
	return ok
}

func (v *Verifier) verify(ctx context.Context, token, remoteIP string) (bool, error) {
	payload, err := json.Marshal(verifyRequest{Secret: v.secret, Response: token, RemoteIP: remoteIP})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !out.Success {
		v.logger.InfoContext(ctx, "challenge rejected", "error_codes", out.ErrorCodes)
	}
	return out.Success, nil
}
