package main

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/wyfcoding/pkg/app"
	"github.com/wyfcoding/pkg/cache"
	configpkg "github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/metrics"

	"github.com/wyfcoding/mcoptions/internal/mcoptions/application"
	"github.com/wyfcoding/mcoptions/internal/mcoptions/infrastructure"
	"github.com/wyfcoding/mcoptions/internal/mcoptions/infrastructure/eventing"
	"github.com/wyfcoding/mcoptions/internal/mcoptions/infrastructure/persistence"
	httphandler "github.com/wyfcoding/mcoptions/internal/mcoptions/interfaces/http"
)

// AppContext carries the wired dependencies between Build and Run, following
// cmd/pricing/main.go's AppContext convention.
type AppContext struct {
	Service *application.Service
	Config  *configpkg.Config
}

const bootstrapName = "mcoptions"

func main() {
	app.NewBuilder(bootstrapName).
		WithConfig(&configpkg.Config{}).
		WithService(initService).
		WithGin(registerGin).
		WithMetrics("9400").
		Build().
		Run()
}

func registerGin(e *gin.Engine, srv any) {
	ctx := srv.(*AppContext)
	handler := httphandler.NewHandler(ctx.Service)
	handler.RegisterRoutes(&e.RouterGroup)
	e.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": bootstrapName, "timestamp": time.Now().Unix()})
	})
	slog.Default().Info("HTTP routes registered", "service", bootstrapName)
}

func initService(cfg any, m *metrics.Metrics) (any, func(), error) {
	c := cfg.(*configpkg.Config)
	slog.Info("initializing mcoptions service dependencies...")

	logger := logging.NewFromConfig(logging.Config{
		Service: bootstrapName,
		Module:  "application",
		Level:   c.Log.Level,
	})

	db, err := gorm.Open(mysql.Open(c.Data.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}
	repo := persistence.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return nil, nil, err
	}

	producer := kafka.NewProducer(c.MessageQueue.Kafka, logger, m)
	publisher := eventing.NewPublisher(producer)

	redisCache, err := cache.NewRedisCache(c.Data.Redis, c.CircuitBreaker, logger, m)
	if err != nil {
		return nil, nil, err
	}
	resultCache := infrastructure.NewResultCache(redisCache)

	service := application.NewService(repo, publisher, resultCache, logger)

	cleanup := func() {
		slog.Info("cleaning up mcoptions resources...")
		if err := producer.Close(); err != nil {
			slog.Error("failed to close kafka producer", "error", err)
		}
		if err := redisCache.Close(); err != nil {
			slog.Error("failed to close redis cache", "error", err)
		}
	}

	return &AppContext{Service: service, Config: c}, cleanup, nil
}
