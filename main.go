package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"concierge/app/api"
	"concierge/app/api/mcpserver"
	"concierge/app/client/mockfood"
	"concierge/app/client/mockride"
	"concierge/app/config"
	"concierge/app/service/cache"
	"concierge/app/service/concierge"
	"concierge/app/service/conversation"
	"concierge/app/service/extract"
	"concierge/app/service/provider"
	"concierge/app/service/track"
	"concierge/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, cache.New)
	do.Provide(di, provider.NewRegistry)
	do.Provide(di, conversation.NewStore)
	do.Provide(di, extract.New)
	do.Provide(di, track.New)
	do.Provide(di, concierge.New)
	do.Provide(di, api.New)
	do.Provide(di, mcpserver.New)

	registry := do.MustInvoke[*provider.Registry](di)
	registry.Register(mockfood.New())
	registry.Register(mockride.New())

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*api.Server](di).Run(appCtx)

	if cfg.MCP.Listen != "" {
		go do.MustInvoke[*mcpserver.Server](di).Run(appCtx)
	}

	<-appCtx.Done()
}
