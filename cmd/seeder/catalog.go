package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/shopspring/decimal"
)

const perCategory = 50

type productName struct {
	en, ar string
}

var menNames = []productName{
	{"Royal Suit", "بدلة ملكية"},
	{"Premium Blazer", "بليزر فاخر"},
	{"Silk Shirt", "قميص حرير"},
	{"Leather Jacket", "جاكيت جلد"},
	{"Wool Coat", "معطف صوف"},
	{"Cashmere Sweater", "سويتر كشمير"},
	{"Designer Hoodie", "هودي مصمم"},
	{"Tailored Pants", "بنطال مفصل"},
	{"Classic Oxford", "أكسفورد كلاسيك"},
	{"Velvet Jacket", "جاكيت مخمل"},
}

var womenNames = []productName{
	{"Evening Gown", "فستان سهرة"},
	{"Silk Blouse", "بلوزة حرير"},
	{"Cashmere Wrap", "شال كشمير"},
	{"Designer Dress", "فستان مصمم"},
	{"Tailored Blazer", "بليزر مفصل"},
	{"Luxury Jumpsuit", "جمبسوت فاخر"},
	{"Pleated Skirt", "تنورة مطوية"},
	{"Wool Coat", "معطف صوف"},
	{"Satin Top", "توب ساتان"},
	{"Embroidered Jacket", "جاكيت مطرز"},
}

var menImages = []string{
	"https://images.unsplash.com/photo-1617137968427-85924c800a22?w=400&h=500&fit=crop",
	"https://images.unsplash.com/photo-1552374196-1ab2a1c593e8?w=400&h=500&fit=crop",
	"https://images.unsplash.com/photo-1507679799987-c73779587ccf?w=400&h=500&fit=crop",
	"https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=400&h=500&fit=crop",
	"https://images.unsplash.com/photo-1591047139829-d91aecb6caea?w=400&h=500&fit=crop",
}

var womenImages = []string{
	"https://images.unsplash.com/photo-1515886657613-9f3515b0c78f?w=400&h=500&fit=crop",
	"https://images.unsplash.com/photo-1496747611176-843222e1e57c?w=400&h=500&fit=crop",
	"https://images.unsplash.com/photo-1509631179647-0177331693ae?w=400&h=500&fit=crop",
	"https://images.unsplash.com/photo-1485968579580-b6d095142e6e?w=400&h=500&fit=crop",
	"https://images.unsplash.com/photo-1581044777550-4cfa60707c03?w=400&h=500&fit=crop",
}

// buildCatalog returns 50 men and 50 women products. Timestamps step by a
// millisecond so newest first listings have a stable order.
func buildCatalog(
	rnd *rand.Rand, now time.Time, newID func() string,
) ([]domain.Product, error) {
	ps := make([]domain.Product, 0, 2*perCategory)

	categories := []struct {
		category domain.Category
		names    []productName
		images   []string
	}{
		{domain.CategoryMen, menNames, menImages},
		{domain.CategoryWomen, womenNames, womenImages},
	}

	for _, c := range categories {
		for i := range perCategory {
			name := c.names[i%len(c.names)]
			stock := rnd.IntN(10) + 1
			sold := rnd.IntN(50) + 10
			rating := decimal.NewFromInt(40 + rnd.Int64N(11)).Shift(-1)

			p, err := domain.ProductDraft{
				NameEn:    name.en,
				NameAr:    name.ar,
				Category:  string(c.category),
				Price:     decimal.NewFromInt(int64(1500 + i*50)),
				Image:     c.images[i%len(c.images)],
				Stock:     &stock,
				Sold:      &sold,
				Rating:    &rating,
				IsPremium: i < 10,
				IsLimited: i < 5,
			}.Build()
			if err != nil {
				return nil, fmt.Errorf("product %s #%d: %w", c.category, i, err)
			}

			ts := now.Add(time.Duration(len(ps)) * time.Millisecond).UTC()
			p.ID = newID()
			p.CreatedAt = ts
			p.UpdatedAt = ts
			ps = append(ps, p)
		}
	}
	return ps, nil
}
