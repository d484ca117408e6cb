package domain

import "errors"

// RejectedError defines an interface for errors that reject an operation
// without mutating core state. Every rejection in this package is recoverable:
// the caller decides whether to skip, retry, or abort.
type RejectedError interface {
	error
	IsRejection() bool
}

// IsRejection checks if an error is a recoverable rejection
func IsRejection(err error) bool {
	var re RejectedError
	if errors.As(err, &re) {
		return re.IsRejection()
	}
	return false
}

// QuoteError represents a rejected quote update
type QuoteError struct {
	Reason string // What was malformed (e.g., "crossed book", "negative size")
	Err    error  // Underlying sentinel
}

func (e *QuoteError) Error() string {
	return "quote rejected [" + e.Reason + "]: " + e.Err.Error()
}

func (e *QuoteError) IsRejection() bool {
	return true
}

func (e *QuoteError) Unwrap() error {
	return e.Err
}

// OrderError represents a rejected order-lifecycle operation
type OrderError struct {
	OrderID string
	Op      string // Operation that was rejected (e.g., "register", "fill", "cancel")
	Err     error  // Underlying sentinel
}

func (e *OrderError) Error() string {
	return e.Op + " rejected [order " + e.OrderID + "]: " + e.Err.Error()
}

func (e *OrderError) IsRejection() bool {
	return true
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

var (
	// ErrInvalidQuote is returned when a quote update is malformed (crossed or
	// non-positive prices, negative sizes). The quote state is left untouched.
	ErrInvalidQuote = errors.New("invalid quote")

	// ErrInvalidOrder is returned for non-positive order quantities or a
	// duplicate order id on registration.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrUnknownOrder is returned when a fill or cancel references an order id
	// that is not in the pending index.
	ErrUnknownOrder = errors.New("unknown order")

	// ErrOverFill is returned when a fill exceeds the order's remaining
	// pending quantity. The position is left unchanged.
	ErrOverFill = errors.New("fill exceeds pending quantity")

	// ErrInsufficientData is returned by the performance engine for a price
	// series with fewer than two points.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUndefinedRatio is returned when a risk-adjusted ratio has a zero or
	// undefined denominator (flat series). Never silently coerced to zero.
	ErrUndefinedRatio = errors.New("undefined ratio")
)
