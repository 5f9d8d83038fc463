package catalog

import "github.com/harshardhan/order-service/internal/domain"

// FallbackProduct — чистая локальная подстановка при недоступном каталоге.
// Цена остаётся nil: вызывающий обязан переносить degraded-запись.
func FallbackProduct(productID int64) domain.Product {
	return domain.Product{
		ID:          productID,
		Name:        "Fallback Product",
		Description: "Product service is unavailable",
		Price:       nil,
	}
}
