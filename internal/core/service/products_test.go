package service_test

import (
	"testing"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func suitDraft() domain.ProductDraft {
	return domain.ProductDraft{
		NameEn:   "Royal Suit",
		NameAr:   "بدلة ملكية",
		Category: "men",
		Price:    decimal.NewFromInt(1500),
		Image:    "/images/suit.jpg",
	}
}

func TestProductServiceCreate(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		storage := new(MockProductsStorage)
		s := service.NewProductService(storage)

		storage.On("StoreProduct", t.Context(), mock.MatchedBy(func(p domain.Product) bool {
			return p.ID != "" && p.Stock == domain.DefaultProductStock && p.Sold == 0
		})).Return(nil)

		p, err := s.CreateProduct(t.Context(), suitDraft())
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, domain.CategoryMen, p.Category)
		assert.True(t, p.Rating.Equal(domain.DefaultProductRating))
		assert.False(t, p.CreatedAt.IsZero())
		storage.AssertExpectations(t)
	})

	t.Run("BadCategory", func(t *testing.T) {
		storage := new(MockProductsStorage)
		s := service.NewProductService(storage)

		d := suitDraft()
		d.Category = "kids"
		_, err := s.CreateProduct(t.Context(), d)
		assert.ErrorIs(t, err, domain.ErrValidation)
		storage.AssertNotCalled(t, "StoreProduct", mock.Anything, mock.Anything)
	})
}

func TestProductServiceUpdate(t *testing.T) {
	current := domain.Product{
		ID:       "p1",
		NameEn:   "Old",
		NameAr:   "قديم",
		Category: domain.CategoryMen,
		Price:    decimal.NewFromInt(1000),
		Image:    "/images/old.jpg",
		Stock:    3,
		Sold:     7,
		Rating:   decimal.RequireFromString("4.9"),
	}

	t.Run("KeepsCounters", func(t *testing.T) {
		storage := new(MockProductsStorage)
		s := service.NewProductService(storage)

		storage.On("ReadProduct", t.Context(), "p1").Return(current, nil)
		storage.On("ReplaceProduct", t.Context(), mock.MatchedBy(func(p domain.Product) bool {
			return p.ID == "p1" && p.Stock == 3 && p.Sold == 7 &&
				p.NameEn == "Royal Suit"
		})).Return(domain.Product{ID: "p1", NameEn: "Royal Suit"}, nil)

		p, err := s.UpdateProduct(t.Context(), "p1", suitDraft())
		require.NoError(t, err)
		assert.Equal(t, "Royal Suit", p.NameEn)
		storage.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		storage := new(MockProductsStorage)
		s := service.NewProductService(storage)
		storage.On("ReadProduct", t.Context(), "nope").
			Return(domain.Product{}, domain.ErrNotFound)

		_, err := s.UpdateProduct(t.Context(), "nope", suitDraft())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProductServiceQueries(t *testing.T) {
	t.Run("ByCategory", func(t *testing.T) {
		storage := new(MockProductsStorage)
		s := service.NewProductService(storage)

		women := domain.CategoryWomen
		want := []domain.Product{{ID: "w1", Category: women}}
		storage.On("ReadProducts", t.Context(), &women).Return(want, nil)

		got, err := s.ListProductsByCategory(t.Context(), "Women")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		storage := new(MockProductsStorage)
		s := service.NewProductService(storage)

		_, err := s.ListProductsByCategory(t.Context(), "kids")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("All", func(t *testing.T) {
		storage := new(MockProductsStorage)
		s := service.NewProductService(storage)
		storage.On("ReadProducts", t.Context(), (*domain.Category)(nil)).
			Return([]domain.Product{}, nil)

		got, err := s.ListProducts(t.Context())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Delete", func(t *testing.T) {
		storage := new(MockProductsStorage)
		s := service.NewProductService(storage)
		storage.On("DeleteProduct", t.Context(), "p1").Return(domain.ErrNotFound)

		err := s.DeleteProduct(t.Context(), "p1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
