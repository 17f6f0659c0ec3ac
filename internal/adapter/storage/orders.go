package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/shopspring/decimal"
)

const orderColumns = `
	id, customer_name, phone, address, items, total,
	payment_screenshot, status, notes, idempotency_key,
	created_at, updated_at`

type orderItemRow struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	NameAr    string          `json:"nameAr,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	Image     string          `json:"image,omitempty"`
}

type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

func (r OrdersRepository) StoreOrder(ctx context.Context, o domain.Order) error {
	const op = "OrdersRepository.StoreOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	items, err := marshalItems(o.Items)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err = r.sqldb.ExecContext(ctx, query,
		o.ID, o.CustomerName, o.Phone, o.Address, string(items), o.Total,
		o.PaymentScreenshot, string(o.Status), o.Notes,
		sql.NullString{String: o.IdempotencyKey, Valid: o.IdempotencyKey != ""},
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
		return storageErr(op, err)
	}
	return nil
}

func (r OrdersRepository) ReadOrders(
	ctx context.Context, f domain.OrderFilter,
) ([]domain.Order, error) {
	const op = "OrdersRepository.ReadOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if f.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return orders, nil
}

func (r OrdersRepository) ReadOrder(ctx context.Context, id string) (domain.Order, error) {
	const op = "OrdersRepository.ReadOrder"
	return r.readOrderBy(ctx, op, "id", id)
}

func (r OrdersRepository) ReadOrderByIdempotencyKey(
	ctx context.Context, key string,
) (domain.Order, error) {
	const op = "OrdersRepository.ReadOrderByIdempotencyKey"
	return r.readOrderBy(ctx, op, "idempotency_key", key)
}

func (r OrdersRepository) readOrderBy(
	ctx context.Context, op, column, value string,
) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + column + ` = $1;`

	o, err := scanOrder(r.sqldb.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("%s: order %w", op, domain.ErrNotFound)
		}
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (r OrdersRepository) UpdateOrder(
	ctx context.Context,
	id string,
	expected domain.OrderStatus,
	change domain.OrderChange,
	at time.Time,
) (domain.Order, error) {
	const op = "OrdersRepository.UpdateOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	var status, notes sql.NullString
	if change.Status != nil {
		status = sql.NullString{String: string(*change.Status), Valid: true}
	}
	if change.Notes != nil {
		notes = sql.NullString{String: *change.Notes, Valid: true}
	}

	query := `
		UPDATE orders SET
			status = COALESCE($2, status),
			notes = COALESCE($3, notes),
			updated_at = $4
		WHERE id = $1 AND ($5 = '' OR status = $5)
		RETURNING ` + orderColumns + `;`

	o, err := scanOrder(r.sqldb.QueryRowContext(
		ctx, query, id, status, notes, at, string(expected),
	))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("%s: %w", op, err)
		}
		// the order is gone or no longer in the expected status
		if expected != "" {
			return domain.Order{}, fmt.Errorf("%s: order status %w", op, domain.ErrConflict)
		}
		return domain.Order{}, fmt.Errorf("%s: order %w", op, domain.ErrNotFound)
	}
	return o, nil
}

func (r OrdersRepository) DeleteOrder(ctx context.Context, id string) error {
	const op = "OrdersRepository.DeleteOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx, `DELETE FROM orders WHERE id = $1;`, id)
	if err != nil {
		return storageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: order %w", op, domain.ErrNotFound)
	}
	return nil
}

func (r OrdersRepository) ReadOrderStats(ctx context.Context) (domain.OrderStats, error) {
	const op = "OrdersRepository.ReadOrderStats"

	if err := ctx.Err(); err != nil {
		return domain.OrderStats{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COALESCE(SUM(total) FILTER (WHERE status <> $3), 0)
		FROM orders;`

	var stats domain.OrderStats
	err := r.sqldb.QueryRowContext(ctx, query,
		string(domain.OrderStatusPending),
		string(domain.OrderStatusDelivered),
		string(domain.OrderStatusCancelled),
	).Scan(&stats.Total, &stats.Pending, &stats.Delivered, &stats.Revenue)
	if err != nil {
		return domain.OrderStats{}, storageErr(op, err)
	}
	return stats, nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o       domain.Order
		items   []byte
		status  string
		notes   sql.NullString
		idemKey sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.Phone, &o.Address, &items, &o.Total,
		&o.PaymentScreenshot, &status, &notes, &idemKey,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	o.Items, err = unmarshalItems(items)
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	o.Notes = notes.String
	o.IdempotencyKey = idemKey.String
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return o, nil
}

func marshalItems(items []domain.OrderItem) ([]byte, error) {
	rows := make([]orderItemRow, len(items))
	for i, it := range items {
		rows[i] = orderItemRow(it)
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	return b, nil
}

func unmarshalItems(data []byte) ([]domain.OrderItem, error) {
	var rows []orderItemRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: failed to decode items: %w", domain.ErrStorage, err)
	}
	items := make([]domain.OrderItem, len(rows))
	for i, r := range rows {
		items[i] = domain.OrderItem(r)
	}
	return items, nil
}
