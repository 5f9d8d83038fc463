package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPlaced — заказ принят через полный payload.
	OrderStatusPlaced OrderStatus = "placed"
	// OrderStatusConfirmed — заказ принят через каталожный путь (по product id).
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusProcessing — заказ передан в обработку (зарезервировано).
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusCompleted — заказ исполнен (зарезервировано).
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCancelled — заказ отменён (зарезервировано).
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order — центральная сущность сервиса размещения заказов.
// OrderReference назначается системой при размещении и после этого не меняется.
type Order struct {
	ID             string           `json:"id"`
	CustomerID     int64            `json:"customer_id"`
	ProductID      int64            `json:"product_id,omitempty"`
	ProductName    string           `json:"product_name,omitempty"`
	Description    string           `json:"description,omitempty"`
	Quantity       int32            `json:"quantity"`
	Price          *decimal.Decimal `json:"price"`
	OrderType      string           `json:"order_type,omitempty"`
	OrderReference string           `json:"order_reference"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	Email          string           `json:"email,omitempty"`
	Address        string           `json:"address,omitempty"`
	Status         OrderStatus      `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ValidateInvariants проверяет структурные инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == 0 {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.Price == nil {
		errs = append(errs, ErrPriceRequired)
	} else if o.Price.IsNegative() {
		errs = append(errs, ErrPriceNegative)
	}
	if o.Quantity <= 0 {
		errs = append(errs, ErrQuantityInvalid)
	}

	return errs
}

// OrderUpdate описывает частичное обновление заказа: перезаписываются только
// заполненные поля (field-level merge, не полная замена).
type OrderUpdate struct {
	Description   *string          `json:"description,omitempty"`
	Quantity      int32            `json:"quantity,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	OrderType     *string          `json:"order_type,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	Address       *string          `json:"address,omitempty"`
	Status        OrderStatus      `json:"status,omitempty"`
}

// ApplyTo переносит заполненные поля патча в заказ и сдвигает UpdatedAt.
func (u OrderUpdate) ApplyTo(order *Order, now time.Time) {
	if u.Description != nil {
		order.Description = *u.Description
	}
	if u.Quantity > 0 {
		order.Quantity = u.Quantity
	}
	if u.Price != nil {
		price := *u.Price
		order.Price = &price
	}
	if u.OrderType != nil {
		order.OrderType = *u.OrderType
	}
	if u.PaymentMethod != nil {
		order.PaymentMethod = *u.PaymentMethod
	}
	if u.Address != nil {
		order.Address = *u.Address
	}
	if u.Status != "" {
		order.Status = u.Status
	}
	order.UpdatedAt = now.UTC()
}
