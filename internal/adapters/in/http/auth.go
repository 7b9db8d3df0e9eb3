package http

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"fulfillment/internal/pkg/errs"
)

const (
	operatorContextKey = "operator_id"
	bearerPrefix       = "bearer"
	defaultLeeway      = 30 * time.Second
)

// OperatorAuth authenticates restaurant operators by an HS256 session token whose subject
// is the operator id. It fails closed: without a configured secret every request is rejected.
type OperatorAuth struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewOperatorAuth(secret, issuer string) *OperatorAuth {
	return &OperatorAuth{secret: []byte(secret), issuer: issuer, now: time.Now}
}

func (a *OperatorAuth) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, err := a.authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			c.Set(operatorContextKey, subject)
			return next(c)
		}
	}
}

func (a *OperatorAuth) authenticate(header string) (string, error) {
	if len(a.secret) == 0 {
		return "", errs.NewUnauthorizedError("operator authentication is not configured")
	}

	raw, err := extractBearerToken(header)
	if err != nil {
		return "", err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(defaultLeeway),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", errs.NewUnauthorizedErrorWithCause("invalid session token", err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errs.NewUnauthorizedError("session token has no subject")
	}
	return claims.Subject, nil
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errs.NewUnauthorizedError("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) || strings.TrimSpace(parts[1]) == "" {
		return "", errs.NewUnauthorizedError("authorization header is not a bearer token")
	}
	return strings.TrimSpace(parts[1]), nil
}

// operatorID returns the subject set by OperatorAuth.
func operatorID(c echo.Context) (string, error) {
	id, ok := c.Get(operatorContextKey).(string)
	if !ok || id == "" {
		return "", errs.NewUnauthorizedError("operator is not authenticated")
	}
	return id, nil
}
