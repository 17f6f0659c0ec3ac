package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
	"github.com/niksmo/vip-store/pkg/retry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ordersCollection   = "orders"
	productsCollection = "products"
)

var _ port.Storage = (*Storage)(nil)

// Storage is the MongoDB persistence backend.
type Storage struct {
	client *mongo.Client
	OrdersRepository
	ProductsRepository
}

// New connects to uri, waits for the primary and ensures the indexes.
func New(ctx context.Context, uri, database string) (Storage, error) {
	const op = "mongodb.New"
	log := slog.With("op", op)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return Storage{}, fmt.Errorf("%s: %w", op, err)
	}

	err = retry.Do(ctx, retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
	}, func() error {
		return client.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return Storage{}, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}
	log.Info("database is available")

	db := client.Database(database)
	s := Storage{
		client:             client,
		OrdersRepository:   NewOrdersRepository(db.Collection(ordersCollection)),
		ProductsRepository: NewProductsRepository(db.Collection(productsCollection)),
	}

	if err := s.ensureIndexes(ctx, db); err != nil {
		s.Close()
		return Storage{}, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (s Storage) ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ordersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "idempotencyKey", Value: 1}},
			Options: options.Index().
				SetName("idempotency_key_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"idempotencyKey": bson.M{"$exists": true},
				}),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("status_created_at"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_at"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create orders indexes: %w", err)
	}

	_, err = db.Collection(productsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("category_created_at"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create products indexes: %w", err)
	}
	return nil
}

func (s Storage) Ping(ctx context.Context) error {
	const op = "mongodb.Storage.Ping"
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
	}
	return nil
}

func (s Storage) Close() {
	const op = "mongodb.Storage.Close"
	log := slog.With("op", op)

	log.Info("closing mongo client...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("mongo client is closed")
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func storageErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}
