package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harshardhan/order-service/internal/domain"
	"github.com/harshardhan/order-service/internal/storage/memory"
)

func newOrder(id, reference string, customerID int64) domain.Order {
	now := time.Now().UTC()
	price := decimal.NewFromFloat(19.99)
	return domain.Order{
		ID:             id,
		CustomerID:     customerID,
		ProductName:    "Widget",
		Quantity:       2,
		Price:          &price,
		OrderReference: reference,
		Status:         domain.OrderStatusPlaced,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", "REF-1", 7)

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.OrderReference != order.OrderReference {
		t.Fatalf("expected reference %s, got %s", order.OrderReference, stored.OrderReference)
	}
}

func TestOrderRepository_CreateDuplicateReference(t *testing.T) {
	repo := memory.NewOrderRepository()
	if err := repo.Create(newOrder("order-1", "REF-1", 7)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Reference конфликтует независимо от регистра.
	err := repo.Create(newOrder("order-2", "ref-1", 8))
	if !errors.Is(err, domain.ErrOrderAlreadyExists) {
		t.Fatalf("expected ErrOrderAlreadyExists, got %v", err)
	}
}

func TestOrderRepository_GetByReferenceCaseInsensitive(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", "Ref-MiXeD", 7)
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.GetByReference("REF-MIXED")
	if err != nil {
		t.Fatalf("get by reference failed: %v", err)
	}
	if stored.ID != order.ID {
		t.Fatalf("expected id %s, got %s", order.ID, stored.ID)
	}

	if _, err := repo.GetByReference("missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListByCustomer(t *testing.T) {
	repo := memory.NewOrderRepository()
	if err := repo.Create(newOrder("order-1", "ref-1", 7)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(newOrder("order-2", "ref-2", 8)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	orders, err := repo.ListByCustomer(7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	empty, err := repo.ListByCustomer(999)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty list, got %d", len(empty))
	}
}

func TestOrderRepository_Update(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", "ref-1", 7)
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	stored.Description = "updated"
	if err := repo.Update(stored); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	updated, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if updated.Description != "updated" {
		t.Fatalf("expected updated description, got %q", updated.Description)
	}
}

func TestOrderRepository_UpdateMissing(t *testing.T) {
	repo := memory.NewOrderRepository()
	err := repo.Update(newOrder("ghost", "ref-x", 7))
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_Delete(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newOrder("order-1", "ref-1", 7)
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete(order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound after delete, got %v", err)
	}

	// Reference освобождается вместе с заказом.
	if err := repo.Create(newOrder("order-2", "ref-1", 7)); err != nil {
		t.Fatalf("reference should be reusable after delete: %v", err)
	}
}

func TestOrderRepository_DeleteMissing(t *testing.T) {
	repo := memory.NewOrderRepository()
	if err := repo.Delete("999"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
