package domain

import "github.com/shopspring/decimal"

// Product — read-only запись каталога, принадлежит внешнему сервису.
// Ядро только читает её и обязано переносить degraded-заглушку (nil Price).
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"product_name"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category,omitempty"`
}

// Consolidation — запрос/ответ сервиса консолидации отгрузок.
type Consolidation struct {
	OrderReference string `json:"order_reference"`
	Accepted       bool   `json:"accepted"`
}
