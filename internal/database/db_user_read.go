package database

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yacinebz/go-crud-soft-delete/models"
)

// GetUser retrieves a user by id with its products preloaded. Soft-deleted
// users are returned as well; the lifecycle filtering happens at the
// listing level, not here.
//
// Returns ErrUserDoesNotExist when no row matches.
func (db *Db) GetUser(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var user models.User

	err := db.Client.WithContext(ctx).Preload("Products").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserDoesNotExist
		}

		db.Logger.Error("failed to get user",
			zap.Error(err),
			zap.Uint("user_id", id))

		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// ListUsers returns every non-soft-deleted user with products preloaded.
func (db *Db) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var users []models.User

	err := db.Client.WithContext(ctx).
		Preload("Products").
		Where("deleted_at IS NULL").
		Find(&users).Error
	if err != nil {
		db.Logger.Error("failed to list users", zap.Error(err))

		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// ListDeletedUsers returns every soft-deleted user.
func (db *Db) ListDeletedUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var users []models.User

	err := db.Client.WithContext(ctx).
		Where("deleted_at IS NOT NULL").
		Find(&users).Error
	if err != nil {
		db.Logger.Error("failed to list deleted users", zap.Error(err))

		return nil, fmt.Errorf("failed to list deleted users: %w", err)
	}

	return users, nil
}
