package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/harshardhan/order-service/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

const orderColumns = `
	id, customer_id, product_id, product_name, description, quantity, price,
	order_type, order_reference, payment_method, email, address, status,
	created_at, updated_at
`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		order.ID, order.CustomerID, order.ProductID, order.ProductName,
		order.Description, order.Quantity, priceToNull(order.Price),
		order.OrderType, order.OrderReference, order.PaymentMethod,
		order.Email, order.Address, string(order.Status),
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)
	return scanOrder(row)
}

func (r *orderRepository) GetByReference(reference string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE LOWER(order_reference) = LOWER($1)
	`, reference)
	return scanOrder(row)
}

func (r *orderRepository) ListByCustomer(customerID int64) ([]domain.Order, error) {
	return r.list(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
	`, customerID)
}

func (r *orderRepository) ListAll() ([]domain.Order, error) {
	return r.list(`
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
}

func (r *orderRepository) Update(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET customer_id = $1,
		    product_id = $2,
		    product_name = $3,
		    description = $4,
		    quantity = $5,
		    price = $6,
		    order_type = $7,
		    order_reference = $8,
		    payment_method = $9,
		    email = $10,
		    address = $11,
		    status = $12,
		    updated_at = $13
		WHERE id = $14
	`,
		order.CustomerID, order.ProductID, order.ProductName, order.Description,
		order.Quantity, priceToNull(order.Price), order.OrderType,
		order.OrderReference, order.PaymentMethod, order.Email, order.Address,
		string(order.Status), order.UpdatedAt, order.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) list(query string, args ...interface{}) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order  domain.Order
		status string
		price  decimal.NullDecimal
	)

	err := row.Scan(
		&order.ID, &order.CustomerID, &order.ProductID, &order.ProductName,
		&order.Description, &order.Quantity, &price,
		&order.OrderType, &order.OrderReference, &order.PaymentMethod,
		&order.Email, &order.Address, &status,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}

	order.Status = domain.OrderStatus(status)
	if price.Valid {
		order.Price = &price.Decimal
	}

	return order, nil
}

func priceToNull(price *decimal.Decimal) decimal.NullDecimal {
	if price == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *price, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
