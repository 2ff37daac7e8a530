// Package service implements the workflow operations on top of the store.
// Every call takes the caller's identity explicitly; read-check-write
// sequences run inside a single transaction.
package service

import (
	"context"
	"errors"
	"strings"

	"procflow/internal/apperr"
	"procflow/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	log      *logger.Logger
	hashCost int
}

type Option func(*Service)

// WithHashCost overrides the bcrypt cost (tests use bcrypt.MinCost).
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func New(db *gorm.DB, log *logger.Logger, opts ...Option) *Service {
	s := &Service{db: db, log: log.With("service", "Service"), hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Service) hash(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), s.hashCost)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return string(h), nil
}

func checkSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// tx runs fn in a transaction bound to ctx; unclassified errors become Internal.
func (s *Service) tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return apperr.Internal(err)
}
