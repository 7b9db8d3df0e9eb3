package gate

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/pkg/errs"
)

// BotVerifier checks a challenge token issued to the client by the ordering page.
type BotVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) bool
}

// RateLimit rejects a client that exceeded rule within the current window of scope.
// Clients are keyed by echo's RealIP, so the server must be configured with the
// IPExtractor matching its proxy setup.
func RateLimit(scope string, limiter Limiter, rule Rule, now func() time.Time) echo.MiddlewareFunc {
	if now == nil {
		now = time.Now
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := scope + ":" + c.RealIP()
			t := now()
			d := limiter.Allow(key, rule, t)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

			if !d.Allowed {
				return errs.NewRateLimitedError(key, d.RetryAfter(t))
			}
			return next(c)
		}
	}
}

// CheckBot verifies token for the current request. A failed challenge is reported as
// forbidden.
func CheckBot(c echo.Context, verifier BotVerifier, token string) error {
	if verifier == nil {
		return nil
	}
	if !verifier.Verify(c.Request().Context(), token, c.RealIP()) {
		return errs.NewForbiddenError("bot challenge", c.RealIP())
	}
	return nil
}
