package database

import (
	"fmt"
	"strings"
	"time"

	"procflow/internal/logger"
	"procflow/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open подключается к БД с повторными попытками (postgres в docker поднимается не сразу)
func Open(driver, dsn string, log *logger.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Info("trying to connect to DB", "driver", driver, "attempt", i, "max_attempts", maxAttempts)

		db, err = gorm.Open(dialector, &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}

		log.Warn("failed to connect to DB", "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("database: connect after %d attempts: %w", maxAttempts, err)
	}

	if driver == DriverSQLite {
		if err := configureSQLite(db); err != nil {
			return nil, err
		}
	}

	log.Info("connected to DB successfully", "driver", driver)
	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database: dsn is empty")
	}
	switch driver {
	case DriverPostgres, "":
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}
}

// sqlite: одно соединение (in-memory БД живёт в нём) и включённые внешние ключи
func configureSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database: sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("database: enable sqlite foreign keys: %w", err)
	}
	return nil
}

// Migrate создаёт/обновляет схему
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Chat{},
		&models.ChatStatus{},
		&models.ProcessVersion{},
		&models.Comment{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}

// IsPostgres: блокировки строк (FOR UPDATE) есть только в postgres
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == DriverPostgres
}
