package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{
	"id", "customer_name", "phone", "address", "items", "total",
	"payment_screenshot", "status", "notes", "idempotency_key",
	"created_at", "updated_at",
}

const royalSuitItems = `[{"productId":"p1","name":"Royal Suit","price":"1500","quantity":2,"size":"M"}]`

func newMockDB(t *testing.T) (sqlmock.Sqlmock, OrdersRepository, ProductsRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, NewOrdersRepository(db), NewProductsRepository(db)
}

func testOrder(now time.Time) domain.Order {
	return domain.Order{
		ID:           "o1",
		CustomerName: "Sara",
		Phone:        "+966500000000",
		Address:      "Riyadh",
		Items: []domain.OrderItem{{
			ProductID: "p1", Name: "Royal Suit",
			Price: decimal.NewFromInt(1500), Quantity: 2, Size: "M",
		}},
		Total:             decimal.NewFromInt(3000),
		PaymentScreenshot: "/uploads/shot.png",
		Status:            domain.OrderStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestOrdersRepositoryStore(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("Insert", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
			WithArgs("o1", "Sara", "+966500000000", "Riyadh",
				sqlmock.AnyArg(), "3000", "/uploads/shot.png", "pending", "",
				nil, now, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.StoreOrder(t.Context(), testOrder(now)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("IdempotencyConflict", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
			WillReturnError(&pgconn.PgError{Code: uniqueViolation})

		o := testOrder(now)
		o.IdempotencyKey = "key-1"
		err := repo.StoreOrder(t.Context(), o)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Unavailable", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
			WillReturnError(assert.AnError)

		err := repo.StoreOrder(t.Context(), testOrder(now))
		assert.ErrorIs(t, err, domain.ErrStorage)
	})
}

func TestOrdersRepositoryRead(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("ListByStatus", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		rows := sqlmock.NewRows(orderRowColumns).
			AddRow("o2", "Lina", "1", "Jeddah", royalSuitItems, "3000",
				"/uploads/b.png", "shipped", "fragile", nil, now.Add(time.Hour), now).
			AddRow("o1", "Sara", "2", "Riyadh", royalSuitItems, "3000",
				"/uploads/a.png", "shipped", nil, "key-1", now, now)
		mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE status = $1 ORDER BY created_at DESC")).
			WithArgs("shipped").
			WillReturnRows(rows)

		got, err := repo.ReadOrders(t.Context(), domain.OrderFilter{Status: domain.OrderStatusShipped})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "o2", got[0].ID)
		assert.Equal(t, "fragile", got[0].Notes)
		assert.Equal(t, "key-1", got[1].IdempotencyKey)
		require.Len(t, got[1].Items, 1)
		assert.Equal(t, "Royal Suit", got[1].Items[0].Name)
		assert.True(t, got[1].Items[0].Price.Equal(decimal.NewFromInt(1500)))
		assert.True(t, got[1].Total.Equal(decimal.NewFromInt(3000)))
	})

	t.Run("ListEmpty", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM orders ORDER BY")).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		got, err := repo.ReadOrders(t.Context(), domain.OrderFilter{})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = $1")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err := repo.ReadOrder(t.Context(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ByIdempotencyKey", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE idempotency_key = $1")).
			WithArgs("key-1").
			WillReturnRows(sqlmock.NewRows(orderRowColumns).
				AddRow("o1", "Sara", "2", "Riyadh", royalSuitItems, "3000",
					"/uploads/a.png", "pending", nil, "key-1", now, now))

		o, err := repo.ReadOrderByIdempotencyKey(t.Context(), "key-1")
		require.NoError(t, err)
		assert.Equal(t, "o1", o.ID)
	})
}

func TestOrdersRepositoryUpdate(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	later := now.Add(time.Minute)

	t.Run("StatusOnly", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		status := domain.OrderStatusConfirmed
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE orders SET")).
			WithArgs("o1", "confirmed", nil, later, "pending").
			WillReturnRows(sqlmock.NewRows(orderRowColumns).
				AddRow("o1", "Sara", "2", "Riyadh", royalSuitItems, "3000",
					"/uploads/a.png", "confirmed", nil, nil, now, later))

		o, err := repo.UpdateOrder(
			t.Context(), "o1", domain.OrderStatusPending, domain.OrderChange{Status: &status}, later,
		)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, o.Status)
		assert.True(t, o.UpdatedAt.Equal(later))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		notes := "n"
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE orders SET")).
			WithArgs("x", nil, "n", later, "").
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err := repo.UpdateOrder(t.Context(), "x", "", domain.OrderChange{Notes: &notes}, later)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("StatusMovedMeanwhile", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		status := domain.OrderStatusShipped
		mock.ExpectQuery(regexp.QuoteMeta("AND ($5 = '' OR status = $5)")).
			WithArgs("o1", "shipped", nil, later, "confirmed").
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err := repo.UpdateOrder(
			t.Context(), "o1", domain.OrderStatusConfirmed, domain.OrderChange{Status: &status}, later,
		)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrdersRepositoryDelete(t *testing.T) {
	t.Run("Deleted", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = $1")).
			WithArgs("o1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteOrder(t.Context(), "o1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock, repo, _ := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = $1")).
			WithArgs("o1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteOrder(t.Context(), "o1"), domain.ErrNotFound)
	})
}

func TestOrdersRepositoryStats(t *testing.T) {
	mock, repo, _ := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER")).
		WithArgs("pending", "delivered", "cancelled").
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "delivered", "revenue"}).
			AddRow(5, 2, 1, "7500.50"))

	stats, err := repo.ReadOrderStats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Delivered)
	assert.True(t, stats.Revenue.Equal(decimal.RequireFromString("7500.5")))
}
