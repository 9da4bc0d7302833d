package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-hrms/internal/bootstrap"
	"go-hrms/internal/config"
	"go-hrms/internal/middleware"
	"go-hrms/internal/migrations"
	"go-hrms/internal/shared/clock"
	"go-hrms/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the connections shared by every module of the API process.
// Redis and Kafka are optional: a nil client disables caching and switches notifications to the direct store.
type Infra struct {
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
	Kafka  *kafkago.Writer
	Clock  clock.Clock
}

// RunAPI connects the infrastructure, mounts every module and serves until SIGINT or SIGTERM.
func RunAPI(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, cleanup, err := connectInfra(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.DBAutoMigrate {
		if err := migrations.Run(infra.SQLDB, migrations.DirectionUp, logger); err != nil {
			return err
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := NewRouter()
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}
	if err := registerModules(router, cfg, infra, logger); err != nil {
		return fmt.Errorf("register modules: %w", err)
	}

	return bootstrap.RunHTTPServer(
		ctx,
		router,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		bootstrap.NewStdoutAuditLogger(infra.Clock, logger),
		logger,
	)
}

// NewRouter returns the engine with the process wide middleware installed.
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	return r
}

func connectInfra(cfg *config.Config, log *zap.Logger) (Infra, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.DBMaxRetries)
	if err != nil {
		return Infra{}, cleanup, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return Infra{}, cleanup, err
	}
	closers = append(closers, func() { _ = sqlDB.Close() })

	infra := Infra{GormDB: gormDB, SQLDB: sqlDB, Clock: clock.NewSystem()}

	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBMaxRetries)
		if err != nil {
			cleanup()
			return Infra{}, func() {}, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		infra.Redis = rdb
	} else {
		log.Warn("REDIS_ADDR not set, approver cache and idempotency keys disabled")
	}

	if cfg.KafkaBroker != "" {
		writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DBMaxRetries)
		if err != nil {
			cleanup()
			return Infra{}, func() {}, err
		}
		closers = append(closers, func() { _ = writer.Close() })
		infra.Kafka = writer
	} else {
		log.Warn("KAFKA_BROKER not set, notifications are stored directly")
	}

	return infra, cleanup, nil
}
