package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pmurley/ulb-tradedesk/internal/api"
	"github.com/pmurley/ulb-tradedesk/internal/cache"
	"github.com/pmurley/ulb-tradedesk/internal/config"
	"github.com/pmurley/ulb-tradedesk/internal/desk"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		log.Fatal("Failed to load tuning:", err)
	}
	tuning.Offers.RefreshGames = cfg.OfferRefreshGames

	log := logger.New(cfg.LogLevel)

	load, err := desk.LoaderFromConfig(cfg, log)
	if err != nil {
		log.Fatal("Failed to configure league source:", err)
	}
	d := desk.New(cache.New(cfg.CacheDuration), load, tuning, log)
	if _, err := d.Snapshot(ctx); err != nil {
		log.Error("Failed to load initial league data:", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.APIAddr,
		Handler:           api.New(d, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Infof("Trade desk API listening on %s", cfg.APIAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server failed:", err)
	}
}
