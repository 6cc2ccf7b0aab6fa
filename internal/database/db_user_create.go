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

// CreateUserInput holds the input parameters for the CreateUser function.
type CreateUserInput struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"required,email,max=100"`
}

func (d *CreateUserInput) validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(d); err != nil {
		return multierr.Append(ErrInvalidInput, err)
	}

	return nil
}

// CreateUser inserts a new user row. Email uniqueness is enforced against
// every existing row, soft-deleted ones included. New users are created
// with is_default=false and can_delete=true.
//
// Returns ErrEmailAlreadyExists when the email is taken, ErrInvalidInput
// when validation fails.
func (db *Db) CreateUser(ctx context.Context, input *CreateUserInput) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	if input == nil {
		return nil, ErrInvalidInput
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Client.WithContext(ctx).Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	if count > 0 {
		return nil, ErrEmailAlreadyExists
	}

	user := models.User{
		Name:      input.Name,
		Email:     input.Email,
		IsDefault: false,
		CanDelete: true,
	}

	if err := db.Client.WithContext(ctx).Create(&user).Error; err != nil {
		// The unique index is the backstop for the race between the check
		// above and the insert.
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}

		db.Logger.Error("failed to create user",
			zap.Error(err),
			zap.String("email", input.Email))

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// isUniqueViolation reports whether err comes from a unique constraint.
// Requires gorm's TranslateError to be enabled on the connection.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
