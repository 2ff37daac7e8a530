// Package testutil provides in-memory databases and fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"procflow/internal/access"
	"procflow/internal/database"
	"procflow/internal/logger"
	"procflow/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DB opens a fresh migrated SQLite in-memory database for one test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:?_foreign_keys=on", logger.NewNop())
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.NewNop()
}

// Hash uses the minimum bcrypt cost to keep tests fast.
func Hash(tb testing.TB, password string) string {
	tb.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	return string(h)
}

func SeedUser(tb testing.TB, db *gorm.DB, name string, role models.UserRole) access.Identity {
	tb.Helper()
	u := models.User{Name: name, PasswordHash: Hash(tb, name+"-pw"), Role: role}
	if err := db.WithContext(context.Background()).Create(&u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return access.FromUser(u)
}

func SeedDepartment(tb testing.TB, db *gorm.DB, userID uint, name string) models.Department {
	tb.Helper()
	d := models.Department{UserID: userID, Name: name, PasswordHash: Hash(tb, name+"-pw")}
	if err := db.Omit("User").Create(&d).Error; err != nil {
		tb.Fatalf("seed department: %v", err)
	}
	return d
}

// SeedChat creates a chat together with its status row.
func SeedChat(tb testing.TB, db *gorm.DB, departmentID uint, name string, status models.Status) models.Chat {
	tb.Helper()
	c := models.Chat{DepartmentID: departmentID, Name: name, PasswordHash: Hash(tb, name+"-pw")}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Department").Create(&c).Error; err != nil {
			return err
		}
		return tx.Omit("Chat").Create(&models.ChatStatus{ChatID: c.ID, Status: status}).Error
	})
	if err != nil {
		tb.Fatalf("seed chat: %v", err)
	}
	return c
}

func StatusOf(tb testing.TB, db *gorm.DB, chatID uint) models.Status {
	tb.Helper()
	var st models.ChatStatus
	if err := db.Where("chat_id = ?", chatID).Take(&st).Error; err != nil {
		tb.Fatalf("load status: %v", err)
	}
	return st.Status
}

func Count(tb testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	tb.Helper()
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}
