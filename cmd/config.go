package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"fulfillment/internal/adapters/out/doordash"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

const (
	defaultHTTPPort         = "8080"
	defaultRateLimitOrders  = 10
	defaultRateLimitAddress = 30
	defaultRateLimitWindow  = time.Minute
	defaultReconcileAfter   = 2 * time.Minute
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	AppEnv     string

	OperatorJWTSecret string
	OperatorJWTIssuer string

	DoorDashBaseURL       string
	DoorDashDeveloperID   string
	DoorDashKeyID         string
	DoorDashSigningSecret string
	CourierTimeout        time.Duration
	CourierWebhookSecret  string

	TurnstileSecretKey string
	RateLimitOrders    int
	RateLimitAddress   int
	RateLimitWindow    time.Duration

	MarketplaceRateBps  int64
	CourierCostStandard int64
	CourierCostReduced  int64

	ReconcileAfter time.Duration
	AMQPURL        string
}

// IsProduction reports whether APP_ENV is "production". Outside production courier
// payloads are logged at debug level.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads the configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set in the environment win.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	p := envParser{getenv: getenv}
	schedule := services.DefaultFeeSchedule()

	cfg := Config{
		HTTPPort:   p.str("HTTP_PORT", defaultHTTPPort),
		DBHost:     p.str("DB_HOST", "localhost"),
		DBPort:     p.str("DB_PORT", "5432"),
		DBUser:     p.str("DB_USER", ""),
		DBPassword: p.str("DB_PASSWORD", ""),
		DBName:     p.str("DB_NAME", ""),
		DBSslMode:  p.str("DB_SSLMODE", "disable"),
		AppEnv:     p.str("APP_ENV", "development"),

		OperatorJWTSecret: p.str("OPERATOR_JWT_SECRET", ""),
		OperatorJWTIssuer: p.str("OPERATOR_JWT_ISSUER", ""),

		DoorDashBaseURL:       p.str("DOORDASH_BASE_URL", doordash.DefaultBaseURL),
		DoorDashDeveloperID:   p.str("DOORDASH_DEVELOPER_ID", ""),
		DoorDashKeyID:         p.str("DOORDASH_KEY_ID", ""),
		DoorDashSigningSecret: p.str("DOORDASH_SIGNING_SECRET", ""),
		CourierTimeout:        p.duration("COURIER_TIMEOUT", doordash.DefaultTimeout),
		CourierWebhookSecret:  p.str("COURIER_WEBHOOK_SECRET", ""),

		TurnstileSecretKey: p.str("TURNSTILE_SECRET_KEY", ""),
		RateLimitOrders:    int(p.integer("RATE_LIMIT_ORDERS", defaultRateLimitOrders)),
		RateLimitAddress:   int(p.integer("RATE_LIMIT_ADDRESS", defaultRateLimitAddress)),
		RateLimitWindow:    p.duration("RATE_LIMIT_WINDOW", defaultRateLimitWindow),

		MarketplaceRateBps:  p.integer("MARKETPLACE_RATE_BPS", schedule.MarketplaceRateBps),
		CourierCostStandard: p.integer("COURIER_COST_STANDARD", int64(schedule.StandardCourierCost)),
		CourierCostReduced:  p.integer("COURIER_COST_REDUCED", int64(schedule.ReducedCourierCost)),

		ReconcileAfter: p.duration("RECONCILE_AFTER", defaultReconcileAfter),
		AMQPURL:        p.str("AMQP_URL", ""),
	}

	if err := errors.Join(p.err, cfg.validate()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var dbErr error
	if c.DBName == "" {
		dbErr = errs.NewValueIsRequiredError("DB_NAME")
	}
	return errors.Join(
		dbErr,
		positive("COURIER_TIMEOUT", c.CourierTimeout > 0),
		positive("RATE_LIMIT_ORDERS", c.RateLimitOrders > 0),
		positive("RATE_LIMIT_ADDRESS", c.RateLimitAddress > 0),
		positive("RATE_LIMIT_WINDOW", c.RateLimitWindow > 0),
		positive("RECONCILE_AFTER", c.ReconcileAfter > 0),
	)
}

func positive(key string, ok bool) error {
	if ok {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause(key, errors.New("must be positive"))
}

// envParser collects parse failures so that every bad variable is reported at once.
type envParser struct {
	getenv func(string) string
	err    error
}

func (p *envParser) str(key, fallback string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (p *envParser) integer(key string, fallback int64) int64 {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.err = errors.Join(p.err, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return v
}

func (p *envParser) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.err = errors.Join(p.err, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return v
}
