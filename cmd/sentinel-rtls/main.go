package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/rcandelu/adant/internal/cache"
	"github.com/rcandelu/adant/internal/config"
	"github.com/rcandelu/adant/internal/httpapi"
	"github.com/rcandelu/adant/internal/logger"
	"github.com/rcandelu/adant/internal/pipeline"
	"github.com/rcandelu/adant/internal/upstream"
)

// Sentinel for the RTLS deployment: enriches BLE/UWB zone-transition events
// from the point-demo tracking instance.
func main() {
	cfg := config.Load(":3026", "https://point-demo.adant.com/api/v0")

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "sentinel-rtls")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var kv cache.KVStore = cache.NewMemoryKV()
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = cache.NewRedisKV(client)
		log.Info("redis cache backend enabled", zap.String("addr", cfg.Redis.Addr))
	}

	store := cache.NewStore(kv, cfg.Cache.TTL, log)
	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, log)
	pipe := pipeline.New(pipeline.RTLSSchema(), store, client, log)
	api := httpapi.NewServer(pipe, "/api/enriched_area_events", log)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httpapi.WithCORS(cfg.CORS.Origins, api.Router()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("sentinel-rtls listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("upstream", cfg.Upstream.BaseURL),
			zap.Duration("cache_ttl", cfg.Cache.TTL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}
}
