// Package http exposes the order use cases over echo: customer checkout and tracking,
// the operator dashboard API and the courier webhook.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fulfillment/internal/adapters/in/http/gate"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
)

// Handler is the shape shared by every command and query handler.
type Handler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	// Command handlers
	CreateOrder    Handler[commands.CreateOrderCommand, *order.Order]
	ConfirmOrder   Handler[commands.ConfirmOrderCommand, *order.Order]
	CancelOrder    Handler[commands.CancelOrderCommand, *order.Order]
	CompletePickup Handler[commands.CompletePickupOrderCommand, *order.Order]
	AdvanceStatus  Handler[commands.AdvanceOrderStatusCommand, bool]

	// Query handlers
	GetOrder        Handler[queries.GetOrderQuery, queries.OrderView]
	ListOrders      Handler[queries.ListRestaurantOrdersQuery, []queries.OrderSummary]
	DeliveryStatus  Handler[queries.GetDeliveryStatusQuery, queries.DeliveryStatus]
	ValidateAddress Handler[queries.ValidateAddressQuery, queries.AddressValidation]
}

// Config carries the transport level settings.
type Config struct {
	WebhookSecret  string
	OrderRule      gate.Rule
	AddressRule    gate.Rule
	RequestTimeout time.Duration
}

type Server struct {
	handlers Handlers
	auth     *OperatorAuth
	limiter  gate.Limiter
	bot      gate.BotVerifier
	cfg      Config
	logger   *slog.Logger
}

func NewServer(
	cfg Config,
	handlers Handlers,
	auth *OperatorAuth,
	limiter gate.Limiter,
	bot gate.BotVerifier,
	logger *slog.Logger,
) *Server {
	return &Server{
		handlers: handlers,
		auth:     auth,
		limiter:  limiter,
		bot:      bot,
		cfg:      cfg,
		logger:   logger.With("component", "http"),
	}
}

// NewEcho builds an echo instance with the shared middleware chain and error rendering.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))

	return e
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	if s.cfg.RequestTimeout > 0 {
		api.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{Timeout: s.cfg.RequestTimeout}))
	}

	api.POST("/orders", s.CreateOrder, gate.RateLimit("orders", s.limiter, s.cfg.OrderRule, nil))
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/addresses/validate", s.ValidateAddress, gate.RateLimit("addresses", s.limiter, s.cfg.AddressRule, nil))

	api.POST("/webhooks/courier", s.CourierWebhook)

	operator := api.Group("/operator", s.auth.Middleware())
	operator.GET("/orders", s.ListOrders)
	operator.POST("/orders/:id/confirm", s.ConfirmOrder)
	operator.POST("/orders/:id/cancel", s.CancelOrder)
	operator.POST("/orders/:id/complete", s.CompletePickupOrder)
	operator.GET("/orders/:id/delivery-status", s.GetDeliveryStatus)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
