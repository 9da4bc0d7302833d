package main

import (
	"flag"

	"go-hrms/internal/config"
	"go-hrms/internal/migrations"
	"go-hrms/internal/shared/connection"
	"go-hrms/internal/shared/logger"

	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", migrations.DirectionUp, "up applies every pending migration, down rolls back one step")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{Production: cfg.IsProduction(), FilePath: cfg.LogFile})
	defer log.Sync()
	zap.ReplaceGlobals(log)

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.DBMaxRetries)
	if err != nil {
		log.Fatal("connect database failed", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("get sql.DB failed", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := migrations.Run(sqlDB, *direction, log); err != nil {
		log.Fatal("migrate failed", zap.Error(err), zap.String("direction", *direction))
	}
}
