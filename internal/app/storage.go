package app

import (
	"context"
	"fmt"

	"github.com/niksmo/vip-store/config"
	"github.com/niksmo/vip-store/internal/adapter/mongodb"
	"github.com/niksmo/vip-store/internal/adapter/storage"
	"github.com/niksmo/vip-store/internal/core/port"
)

// Storage is a persistence backend able to reseed the catalog.
type Storage interface {
	port.Storage
	port.CatalogSeeder
}

var (
	_ Storage = (*storage.PostgresStorage)(nil)
	_ Storage = (*mongodb.Storage)(nil)
)

// OpenStorage connects to the backend chosen by storage.driver.
func OpenStorage(ctx context.Context, cfg config.Config) (Storage, error) {
	const op = "OpenStorage"

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		s, err := storage.NewPostgresStorage(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	case config.DriverMongo:
		s, err := mongodb.New(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}
}
