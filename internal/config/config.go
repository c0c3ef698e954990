package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port           string        `envconfig:"PORT" default:"5000"`
	MongoURL       string        `envconfig:"MONGO_URL" default:"mongodb://localhost:27017"`
	MongoDatabase  string        `envconfig:"MONGO_DATABASE" default:"pizzeria"`
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	CartStore      string        `envconfig:"CART_STORE" default:"redis"`
	CartTTL        time.Duration `envconfig:"CART_TTL" default:"720h"`
	KafkaBrokers   string        `envconfig:"KAFKA_BROKERS" default:""`
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	CORSOrigins    string        `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	DeliveryFee    string        `envconfig:"DELIVERY_FEE" default:"200"`
	DeliveryWindow time.Duration `envconfig:"DELIVERY_WINDOW" default:"30m"`
	AdminEmail     string        `envconfig:"ADMIN_EMAIL" default:""`
	AdminPassword  string        `envconfig:"ADMIN_PASSWORD" default:""`
	AdminName      string        `envconfig:"ADMIN_NAME" default:"Admin"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	ServiceName    string        `envconfig:"SERVICE_NAME" default:"pizzeria-api"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.CartStore {
	case "redis", "mongo", "memory":
	default:
		return fmt.Errorf("CART_STORE must be redis, mongo or memory, got %q", c.CartStore)
	}
	fee, err := decimal.NewFromString(c.DeliveryFee)
	if err != nil || fee.IsNegative() {
		return fmt.Errorf("DELIVERY_FEE must be a non-negative number, got %q", c.DeliveryFee)
	}
	if c.DeliveryWindow <= 0 {
		return fmt.Errorf("DELIVERY_WINDOW must be positive")
	}
	return nil
}

func (c *Config) Fee() decimal.Decimal {
	return decimal.RequireFromString(c.DeliveryFee)
}

func (c *Config) Brokers() []string {
	return splitCSV(c.KafkaBrokers)
}

func (c *Config) Origins() []string {
	return splitCSV(c.CORSOrigins)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NewLogger builds the production zap logger at the configured level.
func NewLogger(level, service string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", service)), nil
}
