package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/vip-store/config"
	"github.com/niksmo/vip-store/internal/app"
	"github.com/niksmo/vip-store/pkg/sigctx"
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	app.InitLogger(cfg.LogLevel)

	storage, err := app.OpenStorage(sigCtx, cfg)
	if err != nil {
		fallDown(err)
	}
	defer storage.Close()

	now := time.Now()
	rnd := rand.New(rand.NewPCG(uint64(now.UnixNano()), 0))

	ps, err := buildCatalog(rnd, now, uuid.NewString)
	if err != nil {
		fallDown(err)
	}

	if err := storage.ReplaceCatalog(sigCtx, ps); err != nil {
		fallDown(err)
	}

	slog.Info("catalog seeded", "products", len(ps), "driver", cfg.Storage.Driver)
}

func fallDown(err error) {
	fmt.Printf("failed to seed products: %v\n", err)
	os.Exit(2)
}
