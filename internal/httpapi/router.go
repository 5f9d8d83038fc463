// Package httpapi — REST-поверхность сервиса заказов поверх chi.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/harshardhan/order-service/internal/metrics"
	"github.com/harshardhan/order-service/internal/service/order"
)

// Server держит зависимости HTTP-обработчиков.
type Server struct {
	svc     *order.Service
	metrics *metrics.OrderMetrics
	logger  *log.Entry
}

// NewServer создаёт HTTP-поверхность над оркестратором заказов.
func NewServer(svc *order.Service, m *metrics.OrderMetrics, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return &Server{svc: svc, metrics: m, logger: logger}
}

// Router собирает маршруты API.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", s.handlePlaceOrder)
		r.Get("/", s.handleListOrders)

		r.Post("/product/{productID}", s.handlePlaceOrderFromProduct)

		r.Get("/customer/{customerID}", s.handleOrdersByCustomer)
		r.Get("/reference/{reference}", s.handleOrderByReference)

		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", s.handleGetOrder)
			r.Put("/", s.handleUpdateOrder)
			r.Delete("/", s.handleDeleteOrder)
			r.Post("/process", s.handleProcessOrder)
		})
	})

	// выборка в авторизованном разрезе клиента, пока всегда 403
	r.Get("/api/customers/{customerID}/orders", s.handleOrdersForCustomerScoped)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("http request")
	})
}
