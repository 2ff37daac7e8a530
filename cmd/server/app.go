package main

import (
	"fmt"

	"procflow/internal/config"
	"procflow/internal/database"
	"procflow/internal/logger"
	"procflow/internal/service"

	"gorm.io/gorm"
)

// app bundles what every command needs: config, logger, store, service.
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *gorm.DB
	svc *service.Service
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db, svc: service.New(db, log)}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	a.log.Sync()
}
