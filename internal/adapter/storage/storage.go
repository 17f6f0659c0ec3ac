package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
	"github.com/niksmo/vip-store/pkg/retry"
)

const uniqueViolation = "23505"

var _ port.Storage = (*PostgresStorage)(nil)

type sqldb interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

type SQLDB struct {
	*sql.DB
}

// NewSQLDB opens a pgx backed pool and waits until the server answers.
func NewSQLDB(ctx context.Context, dsn string) (SQLDB, error) {
	const op = "SQLDB"
	log := slog.With("op", op)

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return SQLDB{}, fmt.Errorf("%s: invalid dsn: %w", op, err)
	}
	connStr := stdlib.RegisterConnConfig(connConfig)
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return SQLDB{}, fmt.Errorf("%s: %w", op, err)
	}
	s := SQLDB{db}

	err = retry.Do(ctx, retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
	}, func() error {
		return s.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close()
		return SQLDB{}, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}
	log.Info("database is available")
	return s, nil
}

func (s SQLDB) Ping(ctx context.Context) error {
	const op = "SQLDB.Ping"
	if err := s.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
	}
	return nil
}

func (s SQLDB) Close() {
	const op = "SQLDB.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")

	if err := s.DB.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}

// PostgresStorage is the PostgreSQL persistence backend.
type PostgresStorage struct {
	SQLDB
	OrdersRepository
	ProductsRepository
}

func NewPostgresStorage(ctx context.Context, dsn string) (PostgresStorage, error) {
	db, err := NewSQLDB(ctx, dsn)
	if err != nil {
		return PostgresStorage{}, err
	}
	return PostgresStorage{
		SQLDB:              db,
		OrdersRepository:   NewOrdersRepository(db),
		ProductsRepository: NewProductsRepository(db),
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func storageErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}
