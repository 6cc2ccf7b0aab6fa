// Package database provides the relational store accessor for users and
// products. It implements CRUD operations on top of gorm and surfaces
// constraint violations as domain-level sentinel errors rather than raw
// storage failures.
package database

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yacinebz/go-crud-soft-delete/models"
)

const defaultQueryTimeout = 10 * time.Second

// Db wraps the gorm connection together with a logger and a per-operation
// query timeout. All methods are safe for concurrent use; the underlying
// connection pool multiplexes concurrent requests.
type Db struct {
	Client       *gorm.DB
	Logger       *zap.Logger
	QueryTimeout time.Duration
}

// New creates a database accessor over the provided gorm connection and
// runs schema migrations for the user and product tables.
func New(client *gorm.DB, logger *zap.Logger) (*Db, error) {
	if client == nil {
		return nil, ErrInvalidGormConnectionObject
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	db := &Db{
		Client:       client,
		Logger:       logger,
		QueryTimeout: defaultQueryTimeout,
	}

	if err := db.Client.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		return nil, err
	}

	return db, nil
}

// GetQueryTimeout returns the timeout applied to each database operation.
func (db *Db) GetQueryTimeout() time.Duration {
	if db.QueryTimeout <= 0 {
		return defaultQueryTimeout
	}

	return db.QueryTimeout
}
