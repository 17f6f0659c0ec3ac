package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryMen   Category = "men"
	CategoryWomen Category = "women"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryMen, CategoryWomen:
		return c, nil
	default:
		return "", NewValidationError("category", "must be one of men, women")
	}
}

const (
	DefaultProductStock = 10
)

var (
	DefaultProductRating = decimal.RequireFromString("4.5")
	maxProductRating     = decimal.NewFromInt(5)
)

type Product struct {
	ID        string
	NameEn    string
	NameAr    string
	Category  Category
	Price     decimal.Decimal
	Image     string
	Stock     int
	Sold      int
	Rating    decimal.Decimal
	IsPremium bool
	IsLimited bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// A ProductDraft carries the admin editable fields of a [Product].
//
// Nil pointers take the catalog defaults on create.
type ProductDraft struct {
	NameEn    string
	NameAr    string
	Category  string
	Price     decimal.Decimal
	Image     string
	Stock     *int
	Sold      *int
	Rating    *decimal.Decimal
	IsPremium bool
	IsLimited bool
}

// Build validates the draft and returns the product fields it describes.
func (d ProductDraft) Build() (Product, error) {
	p := Product{
		NameEn:    strings.TrimSpace(d.NameEn),
		NameAr:    strings.TrimSpace(d.NameAr),
		Price:     d.Price,
		Image:     strings.TrimSpace(d.Image),
		Stock:     DefaultProductStock,
		Rating:    DefaultProductRating,
		IsPremium: d.IsPremium,
		IsLimited: d.IsLimited,
	}

	if p.NameEn == "" {
		return Product{}, NewValidationError("nameEn", "is required")
	}
	if p.NameAr == "" {
		return Product{}, NewValidationError("nameAr", "is required")
	}

	category, err := ParseCategory(d.Category)
	if err != nil {
		return Product{}, err
	}
	p.Category = category

	if p.Price.IsNegative() {
		return Product{}, NewValidationError("price", "must not be negative")
	}
	if p.Image == "" {
		return Product{}, NewValidationError("image", "is required")
	}

	if d.Stock != nil {
		if *d.Stock < 0 {
			return Product{}, NewValidationError("stock", "must not be negative")
		}
		p.Stock = *d.Stock
	}
	if d.Sold != nil {
		if *d.Sold < 0 {
			return Product{}, NewValidationError("sold", "must not be negative")
		}
		p.Sold = *d.Sold
	}
	if d.Rating != nil {
		if d.Rating.IsNegative() || d.Rating.GreaterThan(maxProductRating) {
			return Product{}, NewValidationError("rating", "must be between 0 and 5")
		}
		p.Rating = *d.Rating
	}
	return p, nil
}
