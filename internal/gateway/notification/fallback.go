package notification

import "github.com/harshardhan/order-service/internal/domain"

// FallbackAck — локальная подстановка при недоступном сервисе уведомлений.
func FallbackAck(n domain.Notification) domain.NotificationAck {
	return domain.NotificationAck{
		CustomerID: n.CustomerID,
		Message:    "Fallback: Notification service is unavailable.",
	}
}
