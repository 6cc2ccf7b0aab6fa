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

// CreateProductInput holds the input parameters for CreateProduct.
type CreateProductInput struct {
	Name        string  `validate:"required"`
	Description string  `validate:"omitempty"`
	Price       float64 `validate:"gte=0"`
	Available   bool
	UserID      uint `validate:"required,gt=0"`
}

func (d *CreateProductInput) validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(d); err != nil {
		return multierr.Append(ErrInvalidInput, err)
	}

	return nil
}

// CreateProduct inserts a new product owned by an existing user. The owner
// reference is checked before the insert so an unknown user surfaces as
// ErrUserDoesNotExist rather than a foreign-key failure.
//
// Returns ErrProductNameAlreadyExists when the name is taken. The created
// product carries its owner summary preloaded.
func (db *Db) CreateProduct(ctx context.Context, input *CreateProductInput) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	if input == nil {
		return nil, ErrInvalidInput
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	var owner models.User
	if err := db.Client.WithContext(ctx).First(&owner, input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserDoesNotExist
		}

		return nil, fmt.Errorf("failed to find product owner: %w", err)
	}

	var count int64
	if err := db.Client.WithContext(ctx).Model(&models.Product{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check product name uniqueness: %w", err)
	}

	if count > 0 {
		return nil, ErrProductNameAlreadyExists
	}

	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Available:   input.Available,
		UserID:      input.UserID,
	}

	if err := db.Client.WithContext(ctx).Create(&product).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProductNameAlreadyExists
		}

		db.Logger.Error("failed to create product",
			zap.Error(err),
			zap.String("name", input.Name),
			zap.Uint("user_id", input.UserID))

		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	product.User = &owner

	return &product, nil
}
