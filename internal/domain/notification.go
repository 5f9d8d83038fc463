package domain

import "github.com/shopspring/decimal"

// NotificationKind — канал доставки уведомления.
type NotificationKind string

const (
	NotificationKindEmail NotificationKind = "EMAIL"
)

// Notification — эфемерная проекция заказа для сервиса уведомлений.
// Не персистится и не имеет собственной идентичности.
type Notification struct {
	OrderReference string           `json:"order_reference"`
	CustomerID     int64            `json:"customer_id"`
	Email          string           `json:"email,omitempty"`
	Message        string           `json:"message"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	Quantity       int32            `json:"quantity,omitempty"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	Address        string           `json:"address,omitempty"`
	ProductID      int64            `json:"product_id,omitempty"`
	ProductName    string           `json:"product_name,omitempty"`
	OrderType      string           `json:"order_type,omitempty"`
	Kind           NotificationKind `json:"kind"`
}

// NotificationAck — подтверждение от сервиса уведомлений.
type NotificationAck struct {
	CustomerID int64  `json:"customer_id"`
	Message    string `json:"message"`
}

// NewOrderNotification строит проекцию уведомления из размещённого заказа.
func NewOrderNotification(order Order) Notification {
	return Notification{
		OrderReference: order.OrderReference,
		CustomerID:     order.CustomerID,
		Email:          order.Email,
		Message:        "Order placed successfully.",
		Price:          order.Price,
		Quantity:       order.Quantity,
		PaymentMethod:  order.PaymentMethod,
		Address:        order.Address,
		ProductID:      order.ProductID,
		ProductName:    order.ProductName,
		OrderType:      order.OrderType,
		Kind:           NotificationKindEmail,
	}
}
