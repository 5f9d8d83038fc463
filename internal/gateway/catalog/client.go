package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/harshardhan/order-service/internal/domain"
)

// Client — примарный HTTP-клиент сервиса каталога.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Entry
}

// NewClient создаёт клиент каталога с ограниченным временем запроса.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.New().WithField("component", "catalog-client")
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

// ResolveProduct запрашивает продукт по id. Транспортные ошибки и
// неожиданные статусы возвращаются вызывающему — их гасит resilience-обёртка.
func (c *Client) ResolveProduct(ctx context.Context, productID int64) (domain.Product, error) {
	url := fmt.Sprintf("%s/api/products/%d", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Product{}, fmt.Errorf("call catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Product{}, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return domain.Product{}, fmt.Errorf("decode catalog response: %w", err)
	}

	c.logger.WithFields(log.Fields{
		"product_id":   productID,
		"product_name": product.Name,
	}).Debug("product resolved")

	return product, nil
}

var _ domain.CatalogGateway = (*Client)(nil)
