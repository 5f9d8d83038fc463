package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики размещения заказов и политик отказоустойчивости.
type OrderMetrics struct {
	// Счётчики операций
	ordersPlaced   prometheus.Counter
	ordersRejected *prometheus.CounterVec

	// Гистограмма времени размещения
	placementDuration prometheus.Histogram

	// Срабатывания fallback и смены состояния breaker
	gatewayFallbacks   *prometheus.CounterVec
	breakerTransitions *prometheus.CounterVec

	// Счётчик опубликованных событий
	eventsPublished *prometheus.CounterVec
}

// NewOrderMetrics создаёт новый экземпляр метрик заказов.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Total number of orders placed successfully",
		}),
		ordersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_rejected_total",
			Help: "Total number of order placements rejected",
		}, []string{"reason"}),
		placementDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orders_placement_duration_seconds",
			Help:    "Duration of the synchronous placement path in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		gatewayFallbacks: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_gateway_fallbacks_total",
			Help: "Total number of fallback responses served per gateway",
		}, []string{"gateway", "reason"}),
		breakerTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		}, []string{"gateway", "to"}),
		eventsPublished: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_events_published_total",
			Help: "Total number of domain events published to the broker",
		}, []string{"topic"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderPlaced увеличивает счётчик размещённых заказов.
func (m *OrderMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordOrderRejected увеличивает счётчик отклонённых размещений.
func (m *OrderMetrics) RecordOrderRejected(reason string) {
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// RecordPlacementDuration записывает длительность синхронной части размещения.
func (m *OrderMetrics) RecordPlacementDuration(duration time.Duration) {
	m.placementDuration.Observe(duration.Seconds())
}

// RecordGatewayFallback увеличивает счётчик fallback-ответов шлюза.
func (m *OrderMetrics) RecordGatewayFallback(gateway, reason string) {
	m.gatewayFallbacks.WithLabelValues(gateway, reason).Inc()
}

// RecordBreakerTransition фиксирует смену состояния circuit breaker.
func (m *OrderMetrics) RecordBreakerTransition(gateway, to string) {
	m.breakerTransitions.WithLabelValues(gateway, to).Inc()
}

// RecordEventPublished увеличивает счётчик опубликованных событий.
func (m *OrderMetrics) RecordEventPublished(topic string) {
	m.eventsPublished.WithLabelValues(topic).Inc()
}
