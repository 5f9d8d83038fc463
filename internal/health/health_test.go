package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harshardhan/order-service/internal/resilience"
)

func TestHandler_AllHealthy(t *testing.T) {
	handler := NewHandler("test")
	handler.RegisterChecker("store", NewSimpleChecker("store", func() error { return nil }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %s", resp.Status)
	}
	if resp.Version != "test" {
		t.Fatalf("expected version test, got %s", resp.Version)
	}
}

func TestHandler_UnhealthyComponent(t *testing.T) {
	handler := NewHandler("test")
	handler.RegisterChecker("store", NewSimpleChecker("store", func() error {
		return errors.New("connection refused")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %s", resp.Status)
	}
	if resp.Checks["store"].Message != "connection refused" {
		t.Fatalf("unexpected check message %q", resp.Checks["store"].Message)
	}
}

func TestHandler_DegradedBreakerKeepsReady(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(1, time.Minute, nil)
	breaker.RecordFailure()
	if breaker.State() != resilience.CircuitOpen {
		t.Fatal("breaker should be open after threshold failure")
	}

	handler := NewHandler("test")
	handler.RegisterChecker("catalog", NewBreakerChecker("catalog", breaker))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("degraded must answer 200, got %d", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusDegraded {
		t.Fatalf("expected degraded, got %s", resp.Status)
	}

	readyRec := httptest.NewRecorder()
	handler.ReadinessHandler(readyRec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if readyRec.Code != http.StatusOK {
		t.Fatalf("degraded breaker must stay ready, got %d", readyRec.Code)
	}
}

func TestReadinessHandler_UnhealthyIsNotReady(t *testing.T) {
	handler := NewHandler("test")
	handler.RegisterChecker("store", NewSimpleChecker("store", func() error {
		return errors.New("down")
	}))

	rec := httptest.NewRecorder()
	handler.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
