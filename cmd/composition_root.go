package cmd

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/in/http/gate"
	"fulfillment/internal/adapters/out/doordash"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/rabbitmq"
	"fulfillment/internal/adapters/out/statuslog"
	"fulfillment/internal/adapters/out/turnstile"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	feeEngine  services.FeeEngine
	courier    ports.CourierClient
	notifier   ports.StatusNotifier
	publisher  *rabbitmq.Publisher
	limiter    *gate.FixedWindow
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	feeEngine, err := services.NewFeeEngine(services.FeeSchedule{
		StandardCourierCost: kernel.Cents(cfg.CourierCostStandard),
		ReducedCourierCost:  kernel.Cents(cfg.CourierCostReduced),
		MarketplaceRateBps:  cfg.MarketplaceRateBps,
	})
	if err != nil {
		return nil, fmt.Errorf("fee schedule: %w", err)
	}

	courier, err := doordash.NewClient(doordash.Config{
		BaseURL:       cfg.DoorDashBaseURL,
		DeveloperID:   cfg.DoorDashDeveloperID,
		KeyID:         cfg.DoorDashKeyID,
		SigningSecret: cfg.DoorDashSigningSecret,
		Timeout:       cfg.CourierTimeout,
		Debug:         !cfg.IsProduction(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("courier client: %w", err)
	}

	root := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		feeEngine:  feeEngine,
		courier:    courier,
		notifier:   statuslog.NewNotifier(logger),
		limiter:    gate.NewFixedWindow(),
		logger:     logger,
	}

	if cfg.AMQPURL != "" {
		publisher, err := rabbitmq.Dial(cfg.AMQPURL, logger)
		if err != nil {
			return nil, fmt.Errorf("status notifier: %w", err)
		}
		root.publisher = publisher
		root.notifier = publisher
	}
	return root, nil
}

// Close releases the broker connection, if any.
func (c *CompositionRoot) Close() error {
	if c.publisher == nil {
		return nil
	}
	return c.publisher.Close()
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) queryUoW() queries.UoWFactory {
	return FuncQueryUoWFactory(func() queries.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.feeEngine, c.logger)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	return commands.NewConfirmOrderCommandHandler(c.uow(), c.courier, c.notifier, c.cfg.CourierTimeout, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow(), c.courier, c.notifier, c.cfg.CourierTimeout, c.logger)
}

func (c *CompositionRoot) CreateCompletePickupOrderCommandHandler() commands.CompletePickupOrderCommandHandler {
	return commands.NewCompletePickupOrderCommandHandler(c.uow(), c.notifier, c.logger)
}

func (c *CompositionRoot) CreateAdvanceOrderStatusCommandHandler() commands.AdvanceOrderStatusCommandHandler {
	return commands.NewAdvanceOrderStatusCommandHandler(c.orderUoW(), c.notifier, c.logger)
}

func (c *CompositionRoot) CreateReconcileQuotesCommandHandler() commands.ReconcileQuotesCommandHandler {
	return commands.NewReconcileQuotesCommandHandler(c.orderUoW(), c.courier, c.notifier, c.cfg.CourierTimeout, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListRestaurantOrdersQueryHandler() queries.ListRestaurantOrdersQueryHandler {
	return queries.NewListRestaurantOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryStatusQueryHandler() queries.GetDeliveryStatusQueryHandler {
	return queries.NewGetDeliveryStatusQueryHandler(c.queryUoW(), c.courier, c.cfg.CourierTimeout)
}

func (c *CompositionRoot) CreateValidateAddressQueryHandler() queries.ValidateAddressQueryHandler {
	return queries.NewValidateAddressQueryHandler(c.queryUoW(), c.courier, c.cfg.CourierTimeout, c.logger)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		httpin.Config{
			WebhookSecret:  c.cfg.CourierWebhookSecret,
			OrderRule:      gate.Rule{Limit: c.cfg.RateLimitOrders, Window: c.cfg.RateLimitWindow},
			AddressRule:    gate.Rule{Limit: c.cfg.RateLimitAddress, Window: c.cfg.RateLimitWindow},
			RequestTimeout: 3 * c.cfg.CourierTimeout,
		},
		httpin.Handlers{
			CreateOrder:     c.CreateCreateOrderCommandHandler(),
			ConfirmOrder:    c.CreateConfirmOrderCommandHandler(),
			CancelOrder:     c.CreateCancelOrderCommandHandler(),
			CompletePickup:  c.CreateCompletePickupOrderCommandHandler(),
			AdvanceStatus:   c.CreateAdvanceOrderStatusCommandHandler(),
			GetOrder:        c.CreateGetOrderQueryHandler(),
			ListOrders:      c.CreateListRestaurantOrdersQueryHandler(),
			DeliveryStatus:  c.CreateGetDeliveryStatusQueryHandler(),
			ValidateAddress: c.CreateValidateAddressQueryHandler(),
		},
		httpin.NewOperatorAuth(c.cfg.OperatorJWTSecret, c.cfg.OperatorJWTIssuer),
		c.limiter,
		turnstile.NewVerifier(c.cfg.TurnstileSecretKey, c.logger),
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateReconcileQuotesCommandHandler(), c.cfg.ReconcileAfter, c.limiter, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncQueryUoWFactory func() queries.UoW

func (f FuncQueryUoWFactory) Create() queries.UoW {
	return f()
}
