package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yacinebz/go-crud-soft-delete/models"
)

// SoftDeleteUser marks a user as deleted by setting deleted_at. The row
// stays in place and can be restored or hard-deleted afterwards.
//
// Returns ErrUserDoesNotExist when absent and ErrUserNotDeletable when the
// user carries can_delete=false. Soft-deleting an already soft-deleted user
// just refreshes the marker.
func (db *Db) SoftDeleteUser(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var user models.User

	if err := db.Client.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserDoesNotExist
		}

		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.CanDelete {
		return nil, ErrUserNotDeletable
	}

	now := time.Now().UTC()

	err := db.Client.WithContext(ctx).
		Model(&user).
		Update("deleted_at", now).Error
	if err != nil {
		db.Logger.Error("failed to soft-delete user",
			zap.Error(err),
			zap.Uint("user_id", id))

		return nil, fmt.Errorf("failed to soft-delete user: %w", err)
	}

	user.DeletedAt = &now

	return &user, nil
}

// HardDeleteUser removes a user row for good, together with every product
// it owns. The two deletes run in a single transaction; this is the only
// transaction in the system and it never spans the cache or the index.
//
// A hard delete is only permitted after a soft delete: ErrUserNotSoftDeleted
// is returned when deleted_at is still null. Returns the pre-deletion
// snapshot of the user on success.
func (db *Db) HardDeleteUser(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var user models.User

	if err := db.Client.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserDoesNotExist
		}

		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.CanDelete {
		return nil, ErrUserNotDeletable
	}

	if user.DeletedAt == nil {
		return nil, ErrUserNotSoftDeleted
	}

	snapshot := user

	err := db.Client.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete owned products: %w", err)
		}

		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		return nil
	})
	if err != nil {
		db.Logger.Error("failed to hard-delete user",
			zap.Error(err),
			zap.Uint("user_id", id))

		return nil, err
	}

	return &snapshot, nil
}
