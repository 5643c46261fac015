package repository

import (
	"errors"

	"gorm.io/gorm"

	apperrors "pizzeria/internal/errors"
)

// wrap maps gorm's not found error to notFound and any other failure to a
// RepositoryError.
func wrap(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return &apperrors.RepositoryError{Op: op, Err: err}
}
