package domain

import (
	"errors"
	"fmt"
)

// Caller-visible business errors. The routing layer maps these to HTTP
// statuses; none of them should crash the process.
var (
	ErrDuplicateRequest    = errors.New("duplicate partnership request")
	ErrUnauthorized        = errors.New("not authorized for this action")
	ErrAlreadyResolved     = errors.New("partnership already resolved")
	ErrPartnershipRequired = errors.New("approved partnership required")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrOrderNotSettled     = errors.New("order not found or not settled")
	ErrNotFound            = errors.New("not found")
	ErrBadInput            = errors.New("invalid input")

	// ErrConflict surfaces exhausted lock-contention retries; the
	// caller may simply try again.
	ErrConflict = errors.New("conflicting concurrent update, retry")
)

// ErrDataIntegrity marks an invariant violation found at read time
// (e.g. negative stock). Unlike the business errors above it signals
// corrupt data, not a bad request.
var ErrDataIntegrity = errors.New("data integrity violation")

// InsufficientStockError names the product a checkout could not cover.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (need %d, have %d)", e.ProductID, e.Requested, e.Available)
}

// IsInsufficientStock unwraps err down to an InsufficientStockError.
func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}
