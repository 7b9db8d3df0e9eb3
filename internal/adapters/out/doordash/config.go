// Package doordash implements the courier client against the DoorDash Drive v2 API.
//
// Every request carries a freshly signed short-lived HS256 token. The client never
// retries; callers decide what to do with each failure class.
package doordash

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"
)

const (
	DefaultBaseURL = "https://openapi.doordash.com"
	DefaultTimeout = 5 * time.Second

	tokenTTL       = 5 * time.Minute
	dropoffLeadIn  = 75 * time.Minute
	apiPathPrefix  = "/drive/v2"
	tokenAudience  = "doordash"
	tokenVersion   = "DD-JWT-V1"
	maxErrorBodyKB = 64
)

// Config holds the Drive credentials issued in the DoorDash developer portal.
type Config struct {
	BaseURL     string
	DeveloperID string
	KeyID       string
	// SigningSecret is base64 encoded, as the portal shows it.
	SigningSecret string
	Timeout       time.Duration
	// Debug logs request payloads. Never enable it in production: payloads carry
	// customer contact data.
	Debug bool
}

// decodedSecret validates the credentials and returns the raw signing key.
func (c Config) decodedSecret() ([]byte, error) {
	var devErr, keyErr, secretErr error
	if strings.TrimSpace(c.DeveloperID) == "" {
		devErr = errs.NewValueIsRequiredError("doordash developer id")
	}
	if strings.TrimSpace(c.KeyID) == "" {
		keyErr = errs.NewValueIsRequiredError("doordash key id")
	}

	secret, err := base64.StdEncoding.DecodeString(strings.TrimSpace(c.SigningSecret))
	switch {
	case strings.TrimSpace(c.SigningSecret) == "":
		secretErr = errs.NewValueIsRequiredError("doordash signing secret")
	case err != nil:
		secretErr = errs.NewValueIsInvalidErrorWithCause("doordash signing secret", err)
	}

	if err := errors.Join(devErr, keyErr, secretErr); err != nil {
		return nil, err
	}
	return secret, nil
}
