package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agrilog/internal/activity/adapters"
	"agrilog/internal/activity/handler"
	"agrilog/internal/activity/metrics"
	"agrilog/internal/activity/ports"
	"agrilog/internal/activity/service/pipeline"
	audiostore "agrilog/internal/activity/store/audio"
	"agrilog/internal/activity/store/history"
	"agrilog/internal/platform/config"
	"agrilog/internal/platform/httpserver"
	"agrilog/internal/platform/logger"
	platformredis "agrilog/internal/platform/redis"
	"agrilog/pkg/platform/httputil"
	"agrilog/pkg/requestcontext"
)

const redisHistoryTTL = 30 * 24 * time.Hour

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the activity services.
func main() {
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)
	ctx := context.Background()

	historyStore, closeStore, err := buildHistoryStore(ctx, cfg, log)
	if err != nil {
		log.Error("history store init failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	blobs, err := audiostore.NewLocal(cfg.AudioDir)
	if err != nil {
		log.Error("audio store init failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	opts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithMetrics(m),
	}
	if cfg.TranscriberURL != "" {
		opts = append(opts, pipeline.WithTranscriber(adapters.NewHTTPTranscriber(cfg.TranscriberURL)))
	}
	if cfg.ExtractorURL != "" {
		opts = append(opts, pipeline.WithExtractor(adapters.NewHTTPExtractor(cfg.ExtractorURL)))
	}

	p, err := pipeline.New(historyStore, blobs, opts...)
	if err != nil {
		log.Error("pipeline init failed", "error", err)
		os.Exit(1)
	}

	h := handler.New(p, historyStore, blobs, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(bridgeRequestContext)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())
	h.Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting agrilog server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// buildHistoryStore picks the history backend from the environment: postgres
// when DATABASE_URL is set, redis when REDIS_URL is set, in-memory otherwise.
func buildHistoryStore(ctx context.Context, cfg config.Server, log *slog.Logger) (ports.HistoryStore, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("using postgres history store")
		return history.NewPostgres(pool), pool.Close, nil
	}

	if cfg.RedisURL != "" {
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis history store")
		return history.NewRedis(client.Client, redisHistoryTTL), func() { _ = client.Close() }, nil
	}

	log.Warn("no DATABASE_URL or REDIS_URL set, using in-memory history store")
	return history.NewInMemory(), func() {}, nil
}

// bridgeRequestContext copies the router's request ID into the transport
// independent context used by services and audit logging.
func bridgeRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
