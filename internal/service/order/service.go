// Package order содержит оркестратор размещения заказов: валидация,
// персист, затем best-effort побочные эффекты за resilience-обёртками.
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/harshardhan/order-service/internal/domain"
	catalogw "github.com/harshardhan/order-service/internal/gateway/catalog"
	consolidationgw "github.com/harshardhan/order-service/internal/gateway/consolidation"
	notificationgw "github.com/harshardhan/order-service/internal/gateway/notification"
	"github.com/harshardhan/order-service/internal/messaging/kafka"
	"github.com/harshardhan/order-service/internal/resilience"
)

const (
	defaultProductQuantity = int32(1)
	defaultOrderType       = "online"
	defaultPaymentMethod   = "cash_on_delivery"

	sideEffectTimeout = 15 * time.Second
)

// Hooks — наблюдатели за политиками отказоустойчивости и публикацией
// событий (метрики).
type Hooks struct {
	OnFallback          func(name, reason string)
	OnBreakerTransition func(name string, from, to resilience.CircuitState)
	OnEventPublished    func(topic string)
}

// Service — оркестратор заказов. Синхронная часть размещения — валидация и
// персист; уведомление, консолидация и события выполняются асинхронно и
// никогда не влияют на результат размещения.
type Service struct {
	repo      domain.OrderRepository
	publisher domain.EventPublisher
	hooks     Hooks
	logger    *log.Entry

	catalog        *resilience.Wrapper[int64, domain.Product]
	notifier       *resilience.Wrapper[domain.Notification, domain.NotificationAck]
	consolidator   *resilience.Wrapper[string, domain.Consolidation]
	customerOrders *resilience.Wrapper[int64, []domain.Order]

	sideMu     sync.Mutex
	sideClosed bool
	sideWG     sync.WaitGroup
}

// NewService конструирует оркестратор и собирает resilience-обёртки вокруг
// каждого удалённого вызова.
func NewService(
	repo domain.OrderRepository,
	catalog domain.CatalogGateway,
	notifier domain.NotificationGateway,
	consolidator domain.ConsolidationGateway,
	publisher domain.EventPublisher,
	cfg resilience.Config,
	hooks Hooks,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}

	s := &Service{
		repo:      repo,
		publisher: publisher,
		hooks:     hooks,
		logger:    logger,
	}

	s.catalog = newWrapper(
		"catalog.resolve_product", cfg, hooks, logger,
		catalog.ResolveProduct,
		catalogw.FallbackProduct,
	)
	s.notifier = newWrapper(
		"notification.send", cfg, hooks, logger,
		notifier.SendNotification,
		notificationgw.FallbackAck,
	)
	s.consolidator = newWrapper(
		"consolidation.optimize", cfg, hooks, logger,
		consolidator.RequestConsolidation,
		consolidationgw.FallbackConsolidation,
	)
	s.customerOrders = newWrapper(
		"store.list_by_customer", cfg, hooks, logger,
		func(_ context.Context, customerID int64) ([]domain.Order, error) {
			return repo.ListByCustomer(customerID)
		},
		func(int64) []domain.Order { return []domain.Order{} },
	)

	return s
}

func newWrapper[Req, Resp any](
	name string,
	cfg resilience.Config,
	hooks Hooks,
	logger *log.Entry,
	primary resilience.Call[Req, Resp],
	fallback resilience.Fallback[Req, Resp],
) *resilience.Wrapper[Req, Resp] {
	w := resilience.NewWrapper(name, cfg, primary, fallback, logger)
	if hooks.OnFallback != nil {
		w.OnFallback(hooks.OnFallback)
	}
	if hooks.OnBreakerTransition != nil {
		w.OnBreakerTransition(hooks.OnBreakerTransition)
	}
	return w
}

// PlaceOrder размещает заказ из полного payload. Id, reference, статус и
// временные метки назначает система; предложенный клиентом reference участвует
// только в проверке дубликата и в сохранённый заказ не попадает.
func (s *Service) PlaceOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errors.Join(errs...)
	}

	if order.OrderReference != "" {
		if _, err := s.repo.GetByReference(order.OrderReference); err == nil {
			return domain.Order{}, domain.ErrOrderAlreadyExists
		} else if !errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.WithError(err).Error("duplicate reference check failed")
			return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrOrderProcessing, err)
		}
	}

	return s.persistAndDispatch(ctx, order, domain.OrderStatusPlaced)
}

// PlaceOrderFromProduct размещает заказ по product id: поля берутся из
// каталога, при недоступности каталога — из fallback-заглушки с нулевой ценой.
// Второй результат — degraded.
func (s *Service) PlaceOrderFromProduct(ctx context.Context, customerID, productID int64) (domain.Order, bool, error) {
	if customerID == 0 {
		return domain.Order{}, false, domain.ErrCustomerRequired
	}

	product, degraded := s.catalog.Do(ctx, productID)

	order := domain.Order{
		CustomerID:    customerID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		Description:   product.Description,
		Quantity:      defaultProductQuantity,
		Price:         product.Price,
		OrderType:     defaultOrderType,
		PaymentMethod: defaultPaymentMethod,
	}

	placed, err := s.persistAndDispatch(ctx, order, domain.OrderStatusConfirmed)
	if err != nil {
		return domain.Order{}, degraded, err
	}
	return placed, degraded, nil
}

func (s *Service) persistAndDispatch(ctx context.Context, order domain.Order, status domain.OrderStatus) (domain.Order, error) {
	now := time.Now().UTC()

	order.ID = uuid.NewString()
	order.OrderReference = uuid.NewString()
	order.Status = status
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := s.repo.Create(order); err != nil {
		if errors.Is(err, domain.ErrOrderAlreadyExists) {
			return domain.Order{}, domain.ErrOrderAlreadyExists
		}
		s.logger.WithError(err).WithField("order_reference", order.OrderReference).
			Error("failed to persist order")
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrOrderProcessing, err)
	}

	s.logger.WithFields(log.Fields{
		"order_id":        order.ID,
		"order_reference": order.OrderReference,
		"customer_id":     order.CustomerID,
	}).Info("order placed")

	s.dispatchSideEffects(order)
	return order, nil
}

// dispatchSideEffects запускает пост-персист шаги в фоне: уведомление,
// консолидацию и публикацию событий. Каждый шаг best-effort.
func (s *Service) dispatchSideEffects(order domain.Order) {
	s.sideMu.Lock()
	if s.sideClosed {
		s.sideMu.Unlock()
		s.logger.WithField("order_id", order.ID).Warn("side effects skipped during shutdown")
		return
	}
	s.sideWG.Add(1)
	s.sideMu.Unlock()

	go func() {
		defer s.sideWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		notification := domain.NewOrderNotification(order)

		ack, degraded := s.notifier.Do(ctx, notification)
		s.logger.WithFields(log.Fields{
			"order_reference": order.OrderReference,
			"degraded":        degraded,
			"ack":             ack.Message,
		}).Debug("notification step finished")

		result, degraded := s.consolidator.Do(ctx, order.OrderReference)
		if !result.Accepted {
			s.logger.WithFields(log.Fields{
				"order_reference": order.OrderReference,
				"degraded":        degraded,
			}).Warn("consolidation not accepted, order remains placed")
		}

		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).
				Error("failed to publish order placed event")
		} else {
			s.reportEventPublished(kafka.TopicOrderPlaced)
		}
		if err := s.publisher.PublishNotificationRequested(ctx, notification); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).
				Error("failed to publish notification requested event")
		} else {
			s.reportEventPublished(kafka.TopicNotificationRequested)
		}
	}()
}

func (s *Service) reportEventPublished(topic string) {
	if s.hooks.OnEventPublished != nil {
		s.hooks.OnEventPublished(topic)
	}
}

// GetOrdersByCustomer возвращает заказы клиента. При недоступном хранилище
// отдаёт пустой список и degraded=true, а не ошибку.
func (s *Service) GetOrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, bool) {
	return s.customerOrders.Do(ctx, customerID)
}

// GetAllOrders возвращает все заказы.
func (s *Service) GetAllOrders() ([]domain.Order, error) {
	return s.repo.ListAll()
}

// GetOrder возвращает заказ по id.
func (s *Service) GetOrder(id string) (domain.Order, error) {
	return s.repo.Get(id)
}

// GetOrderByReference ищет заказ по reference без учёта регистра.
func (s *Service) GetOrderByReference(reference string) (domain.Order, error) {
	return s.repo.GetByReference(reference)
}

// UpdateOrder применяет частичное обновление: переписываются только
// заполненные поля патча, reference и created_at неизменны.
func (s *Service) UpdateOrder(_ context.Context, id string, update domain.OrderUpdate) (domain.Order, error) {
	order, err := s.repo.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	update.ApplyTo(&order, time.Now())
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errors.Join(errs...)
	}

	if err := s.repo.Update(order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// DeleteOrder удаляет заказ по id.
func (s *Service) DeleteOrder(id string) error {
	return s.repo.Delete(id)
}

// ProcessOrder зарезервирован: переход placed -> processing ещё не реализован.
func (s *Service) ProcessOrder(string) error {
	return domain.ErrProcessingNotImplemented
}

// OrdersForCustomerScoped — выборка заказов в авторизованном разрезе клиента.
// Авторизация ещё не подключена, доступ всегда запрещён.
func (s *Service) OrdersForCustomerScoped(int64) ([]domain.Order, error) {
	return nil, domain.ErrUnauthorizedAccess
}

// Breakers отдаёт circuit breaker каждого удалённого вызова по имени
// (для health-чекеров).
func (s *Service) Breakers() map[string]*resilience.CircuitBreaker {
	return map[string]*resilience.CircuitBreaker{
		"catalog.resolve_product": s.catalog.Breaker(),
		"notification.send":       s.notifier.Breaker(),
		"consolidation.optimize":  s.consolidator.Breaker(),
		"store.list_by_customer":  s.customerOrders.Breaker(),
	}
}

// Shutdown ожидает завершения фоновых побочных эффектов.
func (s *Service) Shutdown(ctx context.Context) error {
	s.sideMu.Lock()
	s.sideClosed = true
	s.sideMu.Unlock()

	waitDone := make(chan struct{})
	go func() {
		s.sideWG.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
