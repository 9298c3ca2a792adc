package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	redis "github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/salonpuntos/loyalty-scheduler/internal/audit"
	"github.com/salonpuntos/loyalty-scheduler/internal/cache"
	"github.com/salonpuntos/loyalty-scheduler/internal/config"
	dbpkg "github.com/salonpuntos/loyalty-scheduler/internal/db"
	"github.com/salonpuntos/loyalty-scheduler/internal/infra/repository"
	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/routes"
	"github.com/salonpuntos/loyalty-scheduler/internal/storage"
	"github.com/salonpuntos/loyalty-scheduler/internal/usecase/redemption"
)

func main() {

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// The slot cache degrades to recompute-on-every-request without
		// Redis, so a missing instance is not fatal.
		logger.Warn().Err(err).Msg("redis unavailable, slot cache disabled")
		rdb = nil
	}
	slots := cache.NewSlotCache(rdb, logger)

	media := storage.NewMediaStore(cfg)

	dispatcher := audit.NewDispatcher(audit.New(db), logger)

	sweeper := redemption.NewSweeper(
		repository.NewLedgerGormRepository(db), cfg.SweepInterval, logger)
	go sweeper.Run(ctx)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, slots, media, dispatcher)

	logger.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
