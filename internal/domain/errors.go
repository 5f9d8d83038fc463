package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующей цены заказа.
	ErrPriceRequired = errors.New("price is required")
	// Ошибка отрицательной цены заказа.
	ErrPriceNegative = errors.New("price must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists сигнализирует о дубликате order reference.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrOrderProcessing — ошибка уровня хранилища при размещении заказа.
	ErrOrderProcessing = errors.New("order processing failed")
	// ErrUnauthorizedAccess — доступ к заказам в разрезе клиента ещё не авторизуется.
	ErrUnauthorizedAccess = errors.New("unauthorized order access")
	// ErrProcessingNotImplemented — обработка заказа зарезервирована, но не реализована.
	ErrProcessingNotImplemented = errors.New("process order is not implemented")
)

// IsValidationError проверяет, относится ли ошибка к структурной валидации заказа.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrCustomerRequired) ||
		errors.Is(err, ErrPriceRequired) ||
		errors.Is(err, ErrPriceNegative) ||
		errors.Is(err, ErrQuantityInvalid)
}
