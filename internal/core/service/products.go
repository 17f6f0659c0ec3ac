package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
)

var _ port.ProductCatalog = (*ProductService)(nil)
var _ port.ProductManager = (*ProductService)(nil)

type ProductService struct {
	storage port.ProductsStorage
	now     func() time.Time
	newID   func() string
}

func NewProductService(storage port.ProductsStorage) ProductService {
	if storage == nil {
		panic("products storage is nil") // develop mistake
	}
	return ProductService{
		storage: storage,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductService.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.storage.ReadProducts(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s ProductService) ListProductsByCategory(
	ctx context.Context, category string,
) ([]domain.Product, error) {
	const op = "ProductService.ListProductsByCategory"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.storage.ReadProducts(ctx, &c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s ProductService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const op = "ProductService.GetProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.storage.ReadProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s ProductService) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.Product, error) {
	const op = "ProductService.CreateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := d.Build()
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	p.ID = s.newID()
	p.CreatedAt, p.UpdatedAt = now, now

	if err := s.storage.StoreProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s ProductService) UpdateProduct(
	ctx context.Context, id string, d domain.ProductDraft,
) (domain.Product, error) {
	const op = "ProductService.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	current, err := s.storage.ReadProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	// keep counters the admin form did not send
	if d.Stock == nil {
		d.Stock = &current.Stock
	}
	if d.Sold == nil {
		d.Sold = &current.Sold
	}
	if d.Rating == nil {
		d.Rating = &current.Rating
	}

	p, err := d.Build()
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	stored, err := s.storage.ReplaceProduct(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return stored, nil
}

func (s ProductService) DeleteProduct(ctx context.Context, id string) error {
	const op = "ProductService.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
