package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	"github.com/BruksfildServices01/petcare-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/petcare-scheduler/internal/db"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/petcare-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/petcare-scheduler/internal/jobs"
	"github.com/BruksfildServices01/petcare-scheduler/internal/logger"
	"github.com/BruksfildServices01/petcare-scheduler/internal/middleware"
	"github.com/BruksfildServices01/petcare-scheduler/internal/routes"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
	"github.com/BruksfildServices01/petcare-scheduler/internal/usecase/materialize"
	"github.com/BruksfildServices01/petcare-scheduler/internal/validators"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	timezone.SetDefault(cfg.Timezone)

	if err := validators.Register(); err != nil {
		zl.Fatal("failed to register validators", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// STORAGE
	// ======================================================
	var (
		repo store.Store
		db   *gorm.DB
		sink audit.Sink
	)
	if cfg.UseMemoryStore() {
		zl.Warn("using in-memory store, data is lost on restart")
		repo = memory.New()
		sink = audit.NewZapSink(zl)
	} else {
		db = dbpkg.NewDB(cfg, zl)
		repo = infraRepo.NewGormStore(db)
		sink = audit.New(db)
	}

	redisClient, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		zl.Warn("redis unavailable, availability cache disabled", zap.Error(err))
	}
	availability := cache.NewAvailability(redisClient, cfg.CacheTTL, zl)

	dispatcher := audit.NewDispatcher(sink, zl)
	defer dispatcher.Close()

	materializer := materialize.NewMaterializer(
		repo,
		dispatcher,
		availability,
		zl,
		timezone.SystemClock,
		cfg.MaterializeHorizon,
		cfg.MaterializeMax,
	)

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(zl), gin.Recovery(), middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Log:          zl,
		Store:        repo,
		Cache:        availability,
		Audit:        dispatcher,
		Materializer: materializer,
		Clock:        timezone.SystemClock,
		DB:           db,
	})

	// ======================================================
	// JOBS
	// ======================================================
	scheduler, err := jobs.NewMaterializeScheduler(ctx, cfg.MaterializeCron, materializer, zl)
	if err != nil {
		zl.Fatal("invalid materialize schedule", zap.String("spec", cfg.MaterializeCron), zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
