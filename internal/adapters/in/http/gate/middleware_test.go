package gate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/pkg/errs"
)

func serve(e *echo.Echo, mw echo.MiddlewareFunc, ip string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	req.RemoteAddr = ip + ":51234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})(c)
	return rec, err
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	now := t0
	mw := RateLimit("orders", NewFixedWindow(), Rule{Limit: 2, Window: time.Minute}, func() time.Time { return now })

	for range 2 {
		rec, err := serve(e, mw, "203.0.113.7")
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
	}

	now = t0.Add(15 * time.Second)
	rec, err := serve(e, mw, "203.0.113.7")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRateLimited)
	var rl *errs.RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "orders:203.0.113.7", rl.Key)
	assert.Equal(t, 45*time.Second, rl.RetryAfter)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec, err = serve(e, mw, "198.51.100.1")
	require.NoError(t, err)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
}

type stubVerifier struct {
	ok       bool
	gotToken string
	gotIP    string
}

func (s *stubVerifier) Verify(_ context.Context, token, remoteIP string) bool {
	s.gotToken, s.gotIP = token, remoteIP
	return s.ok
}

func TestCheckBot(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	c := e.NewContext(req, httptest.NewRecorder())

	t.Run("passes", func(t *testing.T) {
		v := &stubVerifier{ok: true}
		require.NoError(t, CheckBot(c, v, "tok"))
		assert.Equal(t, "tok", v.gotToken)
		assert.Equal(t, "203.0.113.7", v.gotIP)
	})

	t.Run("fails", func(t *testing.T) {
		err := CheckBot(c, &stubVerifier{ok: false}, "tok")
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("no verifier", func(t *testing.T) {
		assert.NoError(t, CheckBot(c, nil, ""))
	})
}
