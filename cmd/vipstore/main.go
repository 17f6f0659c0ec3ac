package main

import (
	"context"
	"time"

	"github.com/niksmo/vip-store/config"
	"github.com/niksmo/vip-store/internal/app"
	"github.com/niksmo/vip-store/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	vipStore := app.New(sigCtx, cfg)

	vipStore.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	vipStore.Close(ctx)
}
