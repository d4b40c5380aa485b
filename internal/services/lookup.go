package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/apperrors"
)

// errNoRows marks a single-row lookup that matched nothing.
var errNoRows = errors.New("no matching row")

// first turns an empty Find/Scan result into errNoRows.
func first(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNoRows
	}
	return nil
}

func lookupError(err error, notFound *apperrors.Error, format string, args ...any) error {
	if errors.Is(err, errNoRows) {
		return notFound
	}
	return apperrors.DataAccess(err, format, args...)
}

func ptr[T any](v T) *T {
	return &v
}
