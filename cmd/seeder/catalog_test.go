package main

import (
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalog(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	n := 0
	newID := func() string {
		n++
		return "p-" + strconv.Itoa(n)
	}

	ps, err := buildCatalog(rand.New(rand.NewPCG(1, 2)), now, newID)
	require.NoError(t, err)
	require.Len(t, ps, 100)

	counts := map[domain.Category]int{}
	ids := map[string]bool{}
	for _, p := range ps {
		counts[p.Category]++
		ids[p.ID] = true

		assert.GreaterOrEqual(t, p.Stock, 1)
		assert.LessOrEqual(t, p.Stock, 10)
		assert.GreaterOrEqual(t, p.Sold, 10)
		assert.LessOrEqual(t, p.Sold, 59)
		assert.True(t, p.Rating.GreaterThanOrEqual(decimal.NewFromInt(4)), p.Rating)
		assert.True(t, p.Rating.LessThanOrEqual(decimal.NewFromInt(5)), p.Rating)
		assert.NotEmpty(t, p.Image)
	}
	assert.Equal(t, 50, counts[domain.CategoryMen])
	assert.Equal(t, 50, counts[domain.CategoryWomen])
	assert.Len(t, ids, 100)

	first := ps[0]
	assert.Equal(t, "Royal Suit", first.NameEn)
	assert.True(t, first.Price.Equal(decimal.NewFromInt(1500)))
	assert.True(t, first.IsPremium)
	assert.True(t, first.IsLimited)
	assert.Equal(t, now, first.CreatedAt)

	last := ps[49]
	assert.True(t, last.Price.Equal(decimal.NewFromInt(1500+49*50)))
	assert.False(t, last.IsPremium)
	assert.False(t, last.IsLimited)

	tenth := ps[9]
	assert.True(t, tenth.IsPremium)
	assert.False(t, tenth.IsLimited)

	assert.Equal(t, "Evening Gown", ps[50].NameEn)
	assert.Equal(t, domain.CategoryWomen, ps[50].Category)
}
