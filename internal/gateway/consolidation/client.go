package consolidation

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

// Client — примарный HTTP-клиент сервиса консолидации отгрузок.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Entry
}

// NewClient создаёт клиент консолидации с ограниченным временем запроса.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.New().WithField("component", "consolidation-client")
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

// RequestConsolidation синхронно инициирует консолидацию по reference заказа.
func (c *Client) RequestConsolidation(ctx context.Context, orderReference string) (domain.Consolidation, error) {
	body, err := json.Marshal(domain.Consolidation{OrderReference: orderReference})
	if err != nil {
		return domain.Consolidation{}, fmt.Errorf("encode consolidation request: %w", err)
	}

	url := c.baseURL + "/api/consolidations/optimize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.Consolidation{}, fmt.Errorf("build consolidation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Consolidation{}, fmt.Errorf("call consolidation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Consolidation{}, fmt.Errorf("consolidation service returned status %d", resp.StatusCode)
	}

	var result domain.Consolidation
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.Consolidation{}, fmt.Errorf("decode consolidation response: %w", err)
	}

	c.logger.WithField("order_reference", result.OrderReference).Debug("consolidation triggered")
	return result, nil
}

// FallbackConsolidation — локальная подстановка: консолидация не принята,
// заказ остаётся принятым.
func FallbackConsolidation(orderReference string) domain.Consolidation {
	return domain.Consolidation{
		OrderReference: orderReference,
		Accepted:       false,
	}
}

var _ domain.ConsolidationGateway = (*Client)(nil)
