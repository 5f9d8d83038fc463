package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewOrderMetrics(t *testing.T) {
	metrics := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics.ordersPlaced == nil {
		t.Error("ordersPlaced counter should not be nil")
	}
	if metrics.ordersRejected == nil {
		t.Error("ordersRejected counter vec should not be nil")
	}
	if metrics.placementDuration == nil {
		t.Error("placementDuration histogram should not be nil")
	}
	if metrics.gatewayFallbacks == nil {
		t.Error("gatewayFallbacks counter vec should not be nil")
	}
	if metrics.breakerTransitions == nil {
		t.Error("breakerTransitions counter vec should not be nil")
	}
	if metrics.eventsPublished == nil {
		t.Error("eventsPublished counter vec should not be nil")
	}
}

func TestRecordOrderPlaced(t *testing.T) {
	metrics := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOrderPlaced()
	metrics.RecordOrderPlaced()

	if got := testutil.ToFloat64(metrics.ordersPlaced); got != 2 {
		t.Errorf("expected 2 placed orders, got %v", got)
	}
}

func TestRecordOrderRejected(t *testing.T) {
	metrics := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOrderRejected("validation")
	metrics.RecordOrderRejected("conflict")
	metrics.RecordOrderRejected("validation")

	if got := testutil.ToFloat64(metrics.ordersRejected.WithLabelValues("validation")); got != 2 {
		t.Errorf("expected 2 validation rejections, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.ordersRejected.WithLabelValues("conflict")); got != 1 {
		t.Errorf("expected 1 conflict rejection, got %v", got)
	}
}

func TestRecordGatewayFallback(t *testing.T) {
	metrics := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordGatewayFallback("catalog.resolve_product", "retries_exhausted")

	got := testutil.ToFloat64(metrics.gatewayFallbacks.WithLabelValues("catalog.resolve_product", "retries_exhausted"))
	if got != 1 {
		t.Errorf("expected 1 fallback, got %v", got)
	}
}

func TestRecordBreakerTransition(t *testing.T) {
	metrics := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordBreakerTransition("notification.send", "open")

	got := testutil.ToFloat64(metrics.breakerTransitions.WithLabelValues("notification.send", "open"))
	if got != 1 {
		t.Errorf("expected 1 transition, got %v", got)
	}
}

func TestRecordPlacementDuration(t *testing.T) {
	metrics := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	// у гистограммы нет простого геттера, проверяем только отсутствие паники
	metrics.RecordPlacementDuration(25 * time.Millisecond)
}

func TestDuplicateRegistrationReusesCollector(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	second := newOrderMetricsWithRegisterer(registry)

	first.RecordOrderPlaced()
	second.RecordOrderPlaced()

	if got := testutil.ToFloat64(first.ordersPlaced); got != 2 {
		t.Errorf("expected shared counter with value 2, got %v", got)
	}
}
