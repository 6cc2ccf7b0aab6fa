package database

import "errors"

// Domain-level error definitions. Handlers map these onto HTTP codes; raw
// gorm errors never cross the package boundary except wrapped.
var (
	// ErrInvalidGormConnectionObject is returned when the gorm connection
	// handed to New is nil or unusable.
	ErrInvalidGormConnectionObject = errors.New("invalid gorm connection object")

	// ErrInvalidInput is returned when an operation input fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUserDoesNotExist is returned when no matching user row exists.
	ErrUserDoesNotExist = errors.New("user does not exist")

	// ErrEmailAlreadyExists is returned when a user with the given email
	// already exists, soft-deleted rows included.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserNotDeletable is returned when a delete is attempted on a user
	// with can_delete=false.
	ErrUserNotDeletable = errors.New("user cannot be deleted")

	// ErrUserNotSoftDeleted is returned when a hard delete or restore is
	// attempted on a user that has not been soft-deleted first.
	ErrUserNotSoftDeleted = errors.New("user is not soft-deleted")

	// ErrProductDoesNotExist is returned when no matching product row exists.
	ErrProductDoesNotExist = errors.New("product does not exist")

	// ErrProductNameAlreadyExists is returned when a product with the given
	// name already exists.
	ErrProductNameAlreadyExists = errors.New("product name already exists")
)
