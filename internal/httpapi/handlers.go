package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harshardhan/order-service/internal/domain"
)

// Заголовок, сигнализирующий, что ответ собран на fallback-данных.
const headerDegraded = "X-Degraded"

type errorResponse struct {
	Error string `json:"error"`
}

type placeFromProductRequest struct {
	CustomerID int64 `json:"customer_id"`
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid order payload")
		return
	}

	start := time.Now()
	placed, err := s.svc.PlaceOrder(r.Context(), order)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.recordPlaced(time.Since(start))
	s.writeJSON(w, http.StatusCreated, placed)
}

func (s *Server) handlePlaceOrderFromProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req placeFromProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	start := time.Now()
	placed, degraded, err := s.svc.PlaceOrderFromProduct(r.Context(), req.CustomerID, productID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.recordPlaced(time.Since(start))
	if degraded {
		w.Header().Set(headerDegraded, "true")
	}
	s.writeJSON(w, http.StatusCreated, placed)
}

func (s *Server) handleListOrders(w http.ResponseWriter, _ *http.Request) {
	orders, err := s.svc.GetAllOrders()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleOrdersByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	orders, degraded := s.svc.GetOrdersByCustomer(r.Context(), customerID)
	if degraded {
		w.Header().Set(headerDegraded, "true")
	}
	s.writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleOrderByReference(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	found, err := s.svc.GetOrderByReference(reference)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, found)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	found, err := s.svc.GetOrder(chi.URLParam(r, "orderID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, found)
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	var update domain.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid update payload")
		return
	}

	updated, err := s.svc.UpdateOrder(r.Context(), chi.URLParam(r, "orderID"), update)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteOrder(chi.URLParam(r, "orderID")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProcessOrder(w http.ResponseWriter, r *http.Request) {
	s.writeServiceError(w, s.svc.ProcessOrder(chi.URLParam(r, "orderID")))
}

func (s *Server) handleOrdersForCustomerScoped(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	orders, err := s.svc.OrdersForCustomerScoped(customerID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, orders)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidationError(err):
		s.recordRejected("validation")
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOrderAlreadyExists):
		s.recordRejected("conflict")
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorizedAccess):
		s.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrProcessingNotImplemented):
		s.writeError(w, http.StatusNotImplemented, err.Error())
	default:
		s.recordRejected("internal")
		s.logger.WithError(err).Error("request failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) recordPlaced(duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOrderPlaced()
	s.metrics.RecordPlacementDuration(duration)
}

func (s *Server) recordRejected(reason string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOrderRejected(reason)
}
