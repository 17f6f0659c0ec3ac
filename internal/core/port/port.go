package port

import (
	"context"
	"io"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
)

type (
	pinger interface {
		Ping(context.Context) error
	}

	closer interface {
		Close()
	}
)

// Inbound ports, driven by the HTTP façade and the commands.

type OrderCreator interface {
	// CreateOrder stores a pending order. The bool is true when an
	// earlier order with the same idempotency key was returned instead.
	CreateOrder(context.Context, domain.OrderDraft) (domain.Order, bool, error)
}

type OrderManager interface {
	ListOrders(context.Context, domain.OrderFilter) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ChangeOrder(ctx context.Context, id string, change domain.OrderChange) (domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	OrderStats(context.Context) (domain.OrderStats, error)
}

type ProductCatalog interface {
	ListProducts(context.Context) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

type ProductManager interface {
	CreateProduct(context.Context, domain.ProductDraft) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, d domain.ProductDraft) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.Credential, error)
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

type HealthChecker interface {
	pinger
}

// Outbound ports, implemented by the adapters.

type OrdersStorage interface {
	// StoreOrder fails with [domain.ErrConflict] when the order's
	// idempotency key is already taken.
	StoreOrder(context.Context, domain.Order) error
	ReadOrders(context.Context, domain.OrderFilter) ([]domain.Order, error)
	ReadOrder(ctx context.Context, id string) (domain.Order, error)
	ReadOrderByIdempotencyKey(ctx context.Context, key string) (domain.Order, error)
	// UpdateOrder applies change only while the order is still in the
	// expected status and fails with [domain.ErrConflict] otherwise. An
	// empty expected status updates unconditionally.
	UpdateOrder(
		ctx context.Context,
		id string,
		expected domain.OrderStatus,
		change domain.OrderChange,
		at time.Time,
	) (domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	ReadOrderStats(context.Context) (domain.OrderStats, error)
}

type ProductsStorage interface {
	StoreProduct(context.Context, domain.Product) error
	ReadProducts(context.Context, *domain.Category) ([]domain.Product, error)
	ReadProduct(ctx context.Context, id string) (domain.Product, error)
	ReplaceProduct(context.Context, domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Storage is a whole persistence backend.
type Storage interface {
	OrdersStorage
	ProductsStorage
	pinger
	closer
}

type OrderEventsProducer interface {
	ProduceStatusChanged(context.Context, domain.OrderStatusChanged) error
}

type TokenIssuer interface {
	Issue(id domain.Identity, issuedAt time.Time) (domain.Credential, error)
	Parse(token string) (domain.Identity, error)
}

type ScreenshotSaver interface {
	// SaveScreenshot returns the public reference of the stored file.
	SaveScreenshot(ctx context.Context, filename string, r io.Reader) (string, error)
	RemoveScreenshot(ctx context.Context, ref string) error
}

type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// CatalogSeeder swaps the whole product catalog at once.
type CatalogSeeder interface {
	ReplaceCatalog(context.Context, []domain.Product) error
}
