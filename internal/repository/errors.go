package repository

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStockConflict means a conditional decrement found fewer units than requested.
	ErrStockConflict = errors.New("not enough inventory to complete the operation")
	// ErrStatusConflict means the row was not in one of the expected statuses when locked.
	ErrStatusConflict = errors.New("transaction status changed")
)

// translate maps gorm's not-found into ErrNotFound and wraps everything else.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}
