package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/harshardhan/order-service/internal/domain"
)

// Client — примарный HTTP-клиент сервиса уведомлений.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Entry
}

// NewClient создаёт клиент уведомлений с ограниченным временем запроса.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.New().WithField("component", "notification-client")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SendNotification отправляет проекцию заказа сервису уведомлений.
func (c *Client) SendNotification(ctx context.Context, n domain.Notification) (domain.NotificationAck, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return domain.NotificationAck{}, fmt.Errorf("encode notification: %w", err)
	}

	url := c.baseURL + "/api/notifications/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.NotificationAck{}, fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NotificationAck{}, fmt.Errorf("call notification service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.NotificationAck{}, fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	var ack domain.NotificationAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return domain.NotificationAck{}, fmt.Errorf("decode notification response: %w", err)
	}

	c.logger.WithFields(log.Fields{
		"order_reference": n.OrderReference,
		"customer_id":     n.CustomerID,
	}).Debug("notification sent")

	return ack, nil
}

var _ domain.NotificationGateway = (*Client)(nil)
