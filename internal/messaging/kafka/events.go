package kafka

import (
	"time"

	"github.com/harshardhan/order-service/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	EventTypeOrderPlaced           EventType = "order.placed"
	EventTypeNotificationRequested EventType = "notification.requested"
)

// Topics для Kafka
const (
	TopicOrderPlaced           = "orders.order.placed"
	TopicNotificationRequested = "orders.notification.requested"
)

// OrderPlacedEvent представляет событие размещённого заказа
type OrderPlacedEvent struct {
	EventType EventType    `json:"event_type"`
	Order     domain.Order `json:"order"`
	Timestamp time.Time    `json:"timestamp"`
}

// NotificationRequestedEvent представляет запрос на уведомление клиента
type NotificationRequestedEvent struct {
	EventType    EventType           `json:"event_type"`
	Notification domain.Notification `json:"notification"`
	Timestamp    time.Time           `json:"timestamp"`
}

// NewOrderPlacedEvent создает событие размещённого заказа
func NewOrderPlacedEvent(order domain.Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		EventType: EventTypeOrderPlaced,
		Order:     order,
		Timestamp: time.Now(),
	}
}

// NewNotificationRequestedEvent создает событие запроса уведомления
func NewNotificationRequestedEvent(n domain.Notification) NotificationRequestedEvent {
	return NotificationRequestedEvent{
		EventType:    EventTypeNotificationRequested,
		Notification: n,
		Timestamp:    time.Now(),
	}
}
