package httphandler_test

import (
	"context"
	"io"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (s *MockOrderService) CreateOrder(
	ctx context.Context, d domain.OrderDraft,
) (domain.Order, bool, error) {
	args := s.Called(ctx, d)
	return args.Get(0).(domain.Order), args.Bool(1), args.Error(2)
}

func (s *MockOrderService) ListOrders(
	ctx context.Context, f domain.OrderFilter,
) ([]domain.Order, error) {
	args := s.Called(ctx, f)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (s *MockOrderService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (s *MockOrderService) ChangeOrder(
	ctx context.Context, id string, change domain.OrderChange,
) (domain.Order, error) {
	args := s.Called(ctx, id, change)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (s *MockOrderService) DeleteOrder(ctx context.Context, id string) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

func (s *MockOrderService) OrderStats(ctx context.Context) (domain.OrderStats, error) {
	args := s.Called(ctx)
	return args.Get(0).(domain.OrderStats), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (s *MockProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := s.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (s *MockProductService) ListProductsByCategory(
	ctx context.Context, category string,
) ([]domain.Product, error) {
	args := s.Called(ctx, category)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (s *MockProductService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (s *MockProductService) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.Product, error) {
	args := s.Called(ctx, d)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (s *MockProductService) UpdateProduct(
	ctx context.Context, id string, d domain.ProductDraft,
) (domain.Product, error) {
	args := s.Called(ctx, id, d)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (s *MockProductService) DeleteProduct(ctx context.Context, id string) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

type MockAuthenticator struct {
	mock.Mock
}

func (a *MockAuthenticator) Login(
	ctx context.Context, username, password string,
) (domain.Credential, error) {
	args := a.Called(ctx, username, password)
	return args.Get(0).(domain.Credential), args.Error(1)
}

func (a *MockAuthenticator) Verify(ctx context.Context, token string) (domain.Identity, error) {
	args := a.Called(ctx, token)
	return args.Get(0).(domain.Identity), args.Error(1)
}

type MockScreenshotSaver struct {
	mock.Mock
}

func (s *MockScreenshotSaver) SaveScreenshot(
	ctx context.Context, filename string, r io.Reader,
) (string, error) {
	args := s.Called(ctx, filename, r)
	return args.String(0), args.Error(1)
}

func (s *MockScreenshotSaver) RemoveScreenshot(ctx context.Context, ref string) error {
	args := s.Called(ctx, ref)
	return args.Error(0)
}

type MockHealthChecker struct {
	mock.Mock
}

func (c *MockHealthChecker) Ping(ctx context.Context) error {
	args := c.Called(ctx)
	return args.Error(0)
}

type MockLoginLimiter struct {
	mock.Mock
}

func (l *MockLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := l.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
