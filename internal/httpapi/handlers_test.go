package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/harshardhan/order-service/internal/domain"
	"github.com/harshardhan/order-service/internal/httpapi"
	"github.com/harshardhan/order-service/internal/resilience"
	"github.com/harshardhan/order-service/internal/service/order"
	"github.com/harshardhan/order-service/internal/storage/memory"
)

type fakeCatalog struct{ err error }

func (f *fakeCatalog) ResolveProduct(_ context.Context, productID int64) (domain.Product, error) {
	if f.err != nil {
		return domain.Product{}, f.err
	}
	price := decimal.RequireFromString("12.50")
	return domain.Product{ID: productID, Name: "Teapot", Price: &price}, nil
}

type fakeNotifier struct{}

func (*fakeNotifier) SendNotification(_ context.Context, n domain.Notification) (domain.NotificationAck, error) {
	return domain.NotificationAck{CustomerID: n.CustomerID, Message: "sent"}, nil
}

type fakeConsolidator struct{}

func (*fakeConsolidator) RequestConsolidation(_ context.Context, reference string) (domain.Consolidation, error) {
	return domain.Consolidation{OrderReference: reference, Accepted: true}, nil
}

type fakePublisher struct{}

func (*fakePublisher) PublishOrderPlaced(context.Context, domain.Order) error          { return nil }
func (*fakePublisher) PublishNotificationRequested(context.Context, domain.Notification) error {
	return nil
}

type fixture struct {
	svc     *order.Service
	catalog *fakeCatalog
	router  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := resilience.DefaultConfig()
	cfg.MaxAttempts = 1
	cfg.InitialDelay = time.Millisecond
	cfg.CallTimeout = 100 * time.Millisecond

	catalog := &fakeCatalog{}
	svc := order.NewService(
		memory.NewOrderRepository(),
		catalog,
		&fakeNotifier{},
		&fakeConsolidator{},
		&fakePublisher{},
		cfg,
		order.Hooks{},
		log.New().WithField("component", "httpapi-test"),
	)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	server := httpapi.NewServer(svc, nil, log.New().WithField("component", "httpapi-test"))
	return &fixture{svc: svc, catalog: catalog, router: server.Router()}
}

func (f *fixture) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func orderPayload() map[string]interface{} {
	return map[string]interface{}{
		"customer_id":    7,
		"product_name":   "Grinder",
		"quantity":       2,
		"price":          "19.99",
		"order_type":     "online",
		"payment_method": "card",
		"email":          "customer@example.com",
	}
}

func TestPlaceOrderEndpoint(t *testing.T) {
	f := newFixture(t)

	payload := orderPayload()
	payload["order_reference"] = "CLIENT-REF"
	payload["status"] = "completed"

	rec := f.do(t, http.MethodPost, "/api/orders", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.NotEmpty(t, placed.ID)
	require.NotEmpty(t, placed.OrderReference)
	require.NotEqual(t, "CLIENT-REF", placed.OrderReference)
	require.Equal(t, domain.OrderStatusPlaced, placed.Status)
}

func TestPlaceOrderEndpoint_ValidationError(t *testing.T) {
	f := newFixture(t)

	payload := orderPayload()
	payload["customer_id"] = 0
	delete(payload, "price")

	rec := f.do(t, http.MethodPost, "/api/orders", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["error"], "customer_id")
}

func TestPlaceOrderEndpoint_Conflict(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	payload := orderPayload()
	payload["order_reference"] = strings.ToUpper(placed.OrderReference)
	rec = f.do(t, http.MethodPost, "/api/orders", payload)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlaceOrderFromProductEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/orders/product/11", map[string]interface{}{"customer_id": 7})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Empty(t, rec.Header().Get("X-Degraded"))

	var placed domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.Equal(t, "Teapot", placed.ProductName)
	require.Equal(t, int32(1), placed.Quantity)
	require.Equal(t, domain.OrderStatusConfirmed, placed.Status)
}

func TestPlaceOrderFromProductEndpoint_DegradedHeader(t *testing.T) {
	f := newFixture(t)
	f.catalog.err = errors.New("catalog is down")

	rec := f.do(t, http.MethodPost, "/api/orders/product/11", map[string]interface{}{"customer_id": 7})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "true", rec.Header().Get("X-Degraded"))

	var placed domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.Equal(t, "Fallback Product", placed.ProductName)
	require.Nil(t, placed.Price)
}

func TestOrdersByCustomerEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/orders/customer/7", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)

	rec = f.do(t, http.MethodGet, "/api/orders/customer/404", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Empty(t, orders)
}

func TestOrderByReferenceEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	rec = f.do(t, http.MethodGet, "/api/orders/reference/"+strings.ToUpper(placed.OrderReference), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/orders/reference/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrderEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	rec = f.do(t, http.MethodPut, "/api/orders/"+placed.ID, map[string]interface{}{
		"description": "leave at the door",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "leave at the door", updated.Description)
	require.Equal(t, placed.Quantity, updated.Quantity)
	require.Equal(t, placed.OrderReference, updated.OrderReference)
}

func TestDeleteOrderEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/orders", orderPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	rec = f.do(t, http.MethodDelete, "/api/orders/"+placed.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/orders/"+placed.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessOrderEndpoint_NotImplemented(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/orders/any/process", nil)
	require.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestOrdersForCustomerScopedEndpoint_Forbidden(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/customers/7/orders", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
