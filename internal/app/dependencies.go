package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/harshardhan/order-service/internal/domain"
	"github.com/harshardhan/order-service/internal/gateway/catalog"
	"github.com/harshardhan/order-service/internal/gateway/consolidation"
	"github.com/harshardhan/order-service/internal/gateway/notification"
	healthcheck "github.com/harshardhan/order-service/internal/health"
	"github.com/harshardhan/order-service/internal/messaging/kafka"
	"github.com/harshardhan/order-service/internal/messaging/noop"
	"github.com/harshardhan/order-service/internal/metrics"
	"github.com/harshardhan/order-service/internal/resilience"
	"github.com/harshardhan/order-service/internal/service/order"
	"github.com/harshardhan/order-service/internal/storage/memory"
	"github.com/harshardhan/order-service/internal/storage/postgres"
	"github.com/harshardhan/order-service/internal/version"
)

// Dependencies — собранный граф зависимостей приложения.
type Dependencies struct {
	Service *order.Service
	Metrics *metrics.OrderMetrics
	Health  *healthcheck.Handler

	store    *postgres.Store
	producer *kafka.Producer
	logger   *log.Entry
}

// BuildDependencies создаёт хранилище, шлюзы, publisher и оркестратор по
// конфигурации.
func BuildDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{logger: logger}

	var repo domain.OrderRepository
	if cfg.DatabaseDSN != "" {
		store, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		deps.store = store
		repo = postgres.NewOrderRepository(store)
		logger.Info("using postgres order repository")
	} else {
		repo = memory.NewOrderRepository()
		logger.Info("using in-memory order repository")
	}

	var publisher domain.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
			publisher = noop.NewPublisher()
		} else {
			deps.producer = producer
			publisher = producer
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		}
	} else {
		publisher = noop.NewPublisher()
	}

	deps.Metrics = metrics.NewOrderMetrics()

	hooks := order.Hooks{
		OnFallback: deps.Metrics.RecordGatewayFallback,
		OnBreakerTransition: func(name string, _, to resilience.CircuitState) {
			deps.Metrics.RecordBreakerTransition(name, to.String())
		},
		OnEventPublished: deps.Metrics.RecordEventPublished,
	}

	deps.Service = order.NewService(
		repo,
		catalog.NewClient(cfg.CatalogURL, cfg.GatewayTimeout, logger.WithField("gateway", "catalog")),
		notification.NewClient(cfg.NotificationURL, cfg.GatewayTimeout, logger.WithField("gateway", "notification")),
		consolidation.NewClient(cfg.ConsolidationURL, cfg.GatewayTimeout, logger.WithField("gateway", "consolidation")),
		publisher,
		cfg.ResilienceConfig(),
		hooks,
		logger.WithField("component", "order-service"),
	)

	deps.Health = healthcheck.NewHandler(version.GetVersion())
	for name, breaker := range deps.Service.Breakers() {
		deps.Health.RegisterChecker(name, healthcheck.NewBreakerChecker(name, breaker))
	}
	if deps.store != nil {
		deps.Health.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			return deps.store.Ping(context.Background())
		}))
	}

	return deps, nil
}

// Close останавливает фоновые задачи и закрывает внешние подключения.
func (d *Dependencies) Close(ctx context.Context) {
	if d.Service != nil {
		if err := d.Service.Shutdown(ctx); err != nil {
			d.logger.WithError(err).Warn("side effects did not drain before timeout")
		}
	}
	if d.producer != nil {
		if err := d.producer.Close(); err != nil {
			d.logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			d.logger.Info("kafka producer closed")
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
