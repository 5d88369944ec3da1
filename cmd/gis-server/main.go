package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/alphikemal/web-GIS-tryon/internal/config"
	"github.com/alphikemal/web-GIS-tryon/internal/logger"
	"github.com/alphikemal/web-GIS-tryon/internal/model"
	"github.com/alphikemal/web-GIS-tryon/internal/observability"
	"github.com/alphikemal/web-GIS-tryon/internal/server"
	"github.com/alphikemal/web-GIS-tryon/internal/store"
)

var Version = "dev"

func main() {
	cfg := config.FromEnv()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	flag.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres connection URL")
	flag.Parse()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "gis-server",
	}, os.Stdout)
	log := logger.NewSlog(&zl)

	observability.SetBuildInfo(Version)
	log.Info("starting gis-server", "addr", cfg.Addr, "version", Version)

	st, err := store.Open(cfg.DatabaseURL, log,
		[]model.Layer{cfg.Blocks, cfg.Buildings}, cfg.StatsCacheTTL)
	if err != nil {
		log.Error("open store", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg, log, st); err != nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
