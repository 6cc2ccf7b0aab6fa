package database

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yacinebz/go-crud-soft-delete/models"
)

// GetProduct retrieves a product by id with its owner preloaded.
//
// Returns ErrProductDoesNotExist when no row matches.
func (db *Db) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var product models.Product

	err := db.Client.WithContext(ctx).Preload("User").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductDoesNotExist
		}

		db.Logger.Error("failed to get product",
			zap.Error(err),
			zap.Uint("product_id", id))

		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// ListProducts returns every product with its owner preloaded.
func (db *Db) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var products []models.Product

	err := db.Client.WithContext(ctx).Preload("User").Find(&products).Error
	if err != nil {
		db.Logger.Error("failed to list products", zap.Error(err))

		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}
