package main

import (
	"go-hrms/internal/app"
	"go-hrms/internal/config"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{Production: cfg.IsProduction(), FilePath: cfg.LogFile})
	defer log.Sync()
	zap.ReplaceGlobals(log)

	apperror.Init()

	if err := app.RunAPI(cfg, log); err != nil {
		log.Fatal("run api failed", zap.Error(err))
	}
}
