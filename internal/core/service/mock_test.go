package service_test

import (
	"context"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockOrdersStorage struct {
	mock.Mock
}

func (s *MockOrdersStorage) StoreOrder(ctx context.Context, o domain.Order) error {
	args := s.Called(ctx, o)
	return args.Error(0)
}

func (s *MockOrdersStorage) ReadOrders(
	ctx context.Context, f domain.OrderFilter,
) ([]domain.Order, error) {
	args := s.Called(ctx, f)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (s *MockOrdersStorage) ReadOrder(ctx context.Context, id string) (domain.Order, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (s *MockOrdersStorage) ReadOrderByIdempotencyKey(
	ctx context.Context, key string,
) (domain.Order, error) {
	args := s.Called(ctx, key)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (s *MockOrdersStorage) UpdateOrder(
	ctx context.Context,
	id string,
	expected domain.OrderStatus,
	change domain.OrderChange,
	at time.Time,
) (domain.Order, error) {
	args := s.Called(ctx, id, expected, change, at)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (s *MockOrdersStorage) DeleteOrder(ctx context.Context, id string) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

func (s *MockOrdersStorage) ReadOrderStats(ctx context.Context) (domain.OrderStats, error) {
	args := s.Called(ctx)
	return args.Get(0).(domain.OrderStats), args.Error(1)
}

type MockOrderEventsProducer struct {
	mock.Mock
}

func (p *MockOrderEventsProducer) ProduceStatusChanged(
	ctx context.Context, evt domain.OrderStatusChanged,
) error {
	args := p.Called(ctx, evt)
	return args.Error(0)
}

type MockProductsStorage struct {
	mock.Mock
}

func (s *MockProductsStorage) StoreProduct(ctx context.Context, p domain.Product) error {
	args := s.Called(ctx, p)
	return args.Error(0)
}

func (s *MockProductsStorage) ReadProducts(
	ctx context.Context, c *domain.Category,
) ([]domain.Product, error) {
	args := s.Called(ctx, c)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (s *MockProductsStorage) ReadProduct(ctx context.Context, id string) (domain.Product, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (s *MockProductsStorage) ReplaceProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	args := s.Called(ctx, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (s *MockProductsStorage) DeleteProduct(ctx context.Context, id string) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (i *MockTokenIssuer) Issue(
	id domain.Identity, issuedAt time.Time,
) (domain.Credential, error) {
	args := i.Called(id, issuedAt)
	return args.Get(0).(domain.Credential), args.Error(1)
}

func (i *MockTokenIssuer) Parse(token string) (domain.Identity, error) {
	args := i.Called(token)
	return args.Get(0).(domain.Identity), args.Error(1)
}
