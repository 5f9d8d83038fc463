package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/harshardhan/order-service/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository для локальной
// разработки и тестов. Уникальность reference поддерживается индексом в нижнем
// регистре под тем же локом, что закрывает гонку check-then-insert.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
	byRef map[string]string // lower(reference) -> order id
}

// NewOrderRepository возвращает пустой in-memory репозиторий.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
		byRef: make(map[string]string),
	}
}

// Create сохраняет новый заказ, если id и reference ещё не заняты.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrOrderAlreadyExists
	}
	refKey := strings.ToLower(order.OrderReference)
	if refKey != "" {
		if _, exists := r.byRef[refKey]; exists {
			return domain.ErrOrderAlreadyExists
		}
	}

	// Сохраняем копию, чтобы избежать мутаций извне.
	r.items[order.ID] = cloneOrder(order)
	if refKey != "" {
		r.byRef[refKey] = order.ID
	}
	return nil
}

// Get возвращает заказ или ErrOrderNotFound.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// GetByReference ищет заказ по reference без учёта регистра.
func (r *orderRepositoryInMemory) GetByReference(reference string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byRef[strings.ToLower(reference)]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(r.items[id]), nil
}

// ListByCustomer возвращает заказы клиента, свежие первыми.
func (r *orderRepositoryInMemory) ListByCustomer(customerID int64) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range r.items {
		if order.CustomerID != customerID {
			continue
		}
		result = append(result, cloneOrder(order))
	}
	sortOrders(result)
	return result, nil
}

// ListAll возвращает все заказы, свежие первыми.
func (r *orderRepositoryInMemory) ListAll() ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		result = append(result, cloneOrder(order))
	}
	sortOrders(result)
	return result, nil
}

// Update перезаписывает существующий заказ.
func (r *orderRepositoryInMemory) Update(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}

	// Reference неизменяем после создания; переиндексация на случай,
	// если старый ключ отличается регистром.
	oldKey := strings.ToLower(current.OrderReference)
	newKey := strings.ToLower(order.OrderReference)
	if oldKey != newKey {
		if _, taken := r.byRef[newKey]; taken && newKey != "" {
			return domain.ErrOrderAlreadyExists
		}
		delete(r.byRef, oldKey)
		if newKey != "" {
			r.byRef[newKey] = order.ID
		}
	}

	r.items[order.ID] = cloneOrder(order)
	return nil
}

// Delete удаляет заказ и его индекс по reference.
func (r *orderRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	delete(r.byRef, strings.ToLower(order.OrderReference))
	return nil
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

func cloneOrder(src domain.Order) domain.Order {
	dst := src
	if src.Price != nil {
		price := *src.Price
		dst.Price = &price
	}
	return dst
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
