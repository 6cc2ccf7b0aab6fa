package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yacinebz/go-crud-soft-delete/models"
)

// UpdateUserEmailInput holds the input parameters for UpdateUserEmail.
type UpdateUserEmailInput struct {
	ID    uint   `validate:"required,gt=0"`
	Email string `validate:"required,email,max=100"`
}

func (d *UpdateUserEmailInput) validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(d); err != nil {
		return multierr.Append(ErrInvalidInput, err)
	}

	return nil
}

// UpdateUserEmail changes the email of a non-soft-deleted user. Soft-deleted
// users are treated as absent on this path.
//
// Returns ErrUserDoesNotExist when no active row matches.
func (db *Db) UpdateUserEmail(ctx context.Context, input *UpdateUserEmailInput) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	if input == nil {
		return nil, ErrInvalidInput
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	var user models.User

	err := db.Client.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", input.ID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserDoesNotExist
		}

		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Email = input.Email

	if err := db.Client.WithContext(ctx).Save(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}

		db.Logger.Error("failed to update user email",
			zap.Error(err),
			zap.Uint("user_id", input.ID))

		return nil, fmt.Errorf("failed to update user email: %w", err)
	}

	return &user, nil
}

// RestoreUser clears the deleted_at marker on a soft-deleted user, moving
// it back to the active state.
//
// Returns ErrUserNotSoftDeleted when the user is absent or not
// soft-deleted.
func (db *Db) RestoreUser(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	var user models.User

	if err := db.Client.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotSoftDeleted
		}

		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.DeletedAt == nil {
		return nil, ErrUserNotSoftDeleted
	}

	err := db.Client.WithContext(ctx).
		Model(&user).
		Update("deleted_at", nil).Error
	if err != nil {
		db.Logger.Error("failed to restore user",
			zap.Error(err),
			zap.Uint("user_id", id))

		return nil, fmt.Errorf("failed to restore user: %w", err)
	}

	user.DeletedAt = nil

	return &user, nil
}
