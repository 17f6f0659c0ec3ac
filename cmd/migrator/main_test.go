package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseURL(t *testing.T) {
	for _, dsn := range []string{
		"postgres://vip:pw@db:5432/vipstore?sslmode=disable",
		"postgresql://vip:pw@db:5432/vipstore?sslmode=disable",
		"vip:pw@db:5432/vipstore?sslmode=disable",
	} {
		assert.Equal(t,
			"pgx5://vip:pw@db:5432/vipstore?sslmode=disable", databaseURL(dsn), dsn)
	}
}
