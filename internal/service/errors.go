package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrValidation         = errors.New("validation failed")
	ErrUnsupportedRegion  = errors.New("shipping is not available for this department")
	ErrNotFound           = errors.New("not found")
	ErrOutOfStock         = errors.New("item is out of stock")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrForbidden          = errors.New("forbidden")
	ErrUnexpected         = errors.New("unexpected error")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrWrongPassword      = errors.New("current password is incorrect")

	ErrProductNotFound     = fmt.Errorf("product %w", ErrNotFound)
	ErrVariantNotFound     = fmt.Errorf("variant %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrCartItemNotFound    = fmt.Errorf("cart item %w", ErrNotFound)
	ErrCollectionNotFound  = fmt.Errorf("collection %w", ErrNotFound)
	ErrProfileNotFound     = fmt.Errorf("profile %w", ErrNotFound)
)

// ValidationError names the request fields that were missing or malformed.
type ValidationError struct {
	Fields  []string
	Message string
}

func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InsufficientStockError carries the units actually left on the variant. With nothing left it also
// matches ErrOutOfStock.
type InsufficientStockError struct {
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: only %d remaining", e.Remaining)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock || (target == ErrOutOfStock && e.Remaining <= 0)
}

// PaymentError is a gateway decline with its reason code.
type PaymentError struct {
	Code    string
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed (%s): %s", e.Code, e.Message)
}

func (e *PaymentError) Is(target error) bool {
	return target == ErrPaymentFailed
}

// TransitionError rejects a status change the fulfilment flow does not allow.
type TransitionError struct {
	From, To string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrValidation
}

// unexpected tags a store failure so handlers report it as a 500 while keeping the cause for logs.
func unexpected(err error) error {
	return fmt.Errorf("%w: %v", ErrUnexpected, err)
}
