// Package noop содержит пустой publisher для локального запуска без Kafka.
package noop

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/harshardhan/order-service/internal/domain"
)

// Publisher логирует события вместо публикации в брокер.
type Publisher struct {
	logger *log.Entry
}

// NewPublisher создает noop publisher.
func NewPublisher() *Publisher {
	return &Publisher{logger: log.WithField("component", "noop-publisher")}
}

func (p *Publisher) PublishOrderPlaced(_ context.Context, order domain.Order) error {
	p.logger.WithFields(log.Fields{
		"order_id":        order.ID,
		"order_reference": order.OrderReference,
	}).Debug("order.placed event dropped (no broker configured)")
	return nil
}

func (p *Publisher) PublishNotificationRequested(_ context.Context, n domain.Notification) error {
	p.logger.WithField("customer_id", n.CustomerID).
		Debug("notification.requested event dropped (no broker configured)")
	return nil
}

func (p *Publisher) Close() error { return nil }

var _ domain.EventPublisher = (*Publisher)(nil)
