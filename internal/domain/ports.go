package domain

import "context"

// OrderRepository — долговечное хранилище заказов с ключевым доступом.
// Natural key — order reference, сравнивается без учёта регистра.
type OrderRepository interface {
	// Create сохраняет новый заказ; дубликат id или reference — ErrOrderAlreadyExists.
	Create(order Order) error
	// Get возвращает заказ по id или ErrOrderNotFound.
	Get(id string) (Order, error)
	// GetByReference ищет заказ по reference без учёта регистра.
	GetByReference(reference string) (Order, error)
	// ListByCustomer возвращает заказы клиента; пустой список — не ошибка.
	ListByCustomer(customerID int64) ([]Order, error)
	// ListAll возвращает все заказы.
	ListAll() ([]Order, error)
	// Update перезаписывает существующий заказ или возвращает ErrOrderNotFound.
	Update(order Order) error
	// Delete удаляет заказ по id или возвращает ErrOrderNotFound.
	Delete(id string) error
}

// CatalogGateway описывает обращение к сервису каталога.
type CatalogGateway interface {
	ResolveProduct(ctx context.Context, productID int64) (Product, error)
}

// NotificationGateway описывает отправку уведомления о заказе.
type NotificationGateway interface {
	SendNotification(ctx context.Context, notification Notification) (NotificationAck, error)
}

// ConsolidationGateway описывает синхронный вызов сервиса консолидации.
type ConsolidationGateway interface {
	RequestConsolidation(ctx context.Context, orderReference string) (Consolidation, error)
}

// EventPublisher публикует доменные события best-effort: ошибка публикации
// логируется вызывающей стороной и никогда не влияет на принятый заказ.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order Order) error
	PublishNotificationRequested(ctx context.Context, notification Notification) error
}
