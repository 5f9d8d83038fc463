package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/harshardhan/order-service/internal/resilience"
)

// Config описывает настройки запуска сервиса заказов.
// Пустой DatabaseDSN означает in-memory хранилище, пустой KafkaBrokers —
// noop publisher: сервис остаётся запускаемым без внешней инфраструктуры.
type Config struct {
	HTTPAddr    string `env:"ORDERS_HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"ORDERS_METRICS_ADDR" envDefault:":9090"`

	DatabaseDSN  string   `env:"ORDERS_DATABASE_DSN"`
	KafkaBrokers []string `env:"ORDERS_KAFKA_BROKERS" envSeparator:","`

	CatalogURL       string        `env:"ORDERS_CATALOG_URL" envDefault:"http://localhost:8081"`
	NotificationURL  string        `env:"ORDERS_NOTIFICATION_URL" envDefault:"http://localhost:8082"`
	ConsolidationURL string        `env:"ORDERS_CONSOLIDATION_URL" envDefault:"http://localhost:8083"`
	GatewayTimeout   time.Duration `env:"ORDERS_GATEWAY_TIMEOUT" envDefault:"10s"`

	RetryMaxAttempts  int           `env:"ORDERS_RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryInitialDelay time.Duration `env:"ORDERS_RETRY_INITIAL_DELAY" envDefault:"100ms"`
	RetryMaxDelay     time.Duration `env:"ORDERS_RETRY_MAX_DELAY" envDefault:"5s"`
	CallTimeout       time.Duration `env:"ORDERS_CALL_TIMEOUT" envDefault:"5s"`

	BreakerFailureThreshold int           `env:"ORDERS_BREAKER_FAILURE_THRESHOLD" envDefault:"5"`
	BreakerCoolDown         time.Duration `env:"ORDERS_BREAKER_COOLDOWN" envDefault:"30s"`

	RateLimit       int           `env:"ORDERS_RATE_LIMIT" envDefault:"0"`
	RateLimitWindow time.Duration `env:"ORDERS_RATE_LIMIT_WINDOW" envDefault:"1s"`

	ShutdownTimeout time.Duration `env:"ORDERS_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig читает конфигурацию из переменных окружения.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment config: %w", err)
	}
	return cfg, nil
}

// ResilienceConfig собирает настройки политик отказоустойчивости.
func (c Config) ResilienceConfig() resilience.Config {
	rc := resilience.DefaultConfig()
	if c.RetryMaxAttempts > 0 {
		rc.MaxAttempts = c.RetryMaxAttempts
	}
	if c.RetryInitialDelay > 0 {
		rc.InitialDelay = c.RetryInitialDelay
	}
	if c.RetryMaxDelay > 0 {
		rc.MaxDelay = c.RetryMaxDelay
	}
	if c.CallTimeout > 0 {
		rc.CallTimeout = c.CallTimeout
	}
	if c.BreakerFailureThreshold > 0 {
		rc.FailureThreshold = c.BreakerFailureThreshold
	}
	if c.BreakerCoolDown > 0 {
		rc.CoolDown = c.BreakerCoolDown
	}
	rc.RateLimit = c.RateLimit
	if c.RateLimitWindow > 0 {
		rc.RateLimitWindow = c.RateLimitWindow
	}
	return rc
}
