package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel errors. Structured errors below unwrap to one of these, so callers
// can match with errors.Is.
var (
	ErrItemNotFound         = errors.New("item not found")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrEmptyDestination     = errors.New("destination must not be empty")
	ErrDivisionUndefined    = errors.New("division undefined: resulting quantity is zero")
	ErrEmptyItemName        = errors.New("item name must not be empty")
)

// ItemNotFoundError is returned when an operation references an item that is
// not in the inventory.
type ItemNotFoundError struct {
	Name string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %q not found in inventory", e.Name)
}

func (e *ItemNotFoundError) Unwrap() error {
	return ErrItemNotFound
}

// InsufficientQuantityError is returned when a withdrawal exceeds the
// quantity on hand.
type InsufficientQuantityError struct {
	Name      string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity of %q: available %s, requested %s",
		e.Name, e.Available.String(), e.Requested.String())
}

func (e *InsufficientQuantityError) Unwrap() error {
	return ErrInsufficientQuantity
}

// InvalidQuantityError is returned for negative or zero quantities and
// negative prices.
type InvalidQuantityError struct {
	Field string
	Value decimal.Decimal
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Value.String())
}

func (e *InvalidQuantityError) Unwrap() error {
	return ErrInvalidQuantity
}

// RowError is returned when a persisted row cannot be decoded.
type RowError struct {
	Collection string
	Line       int // 1-based, header excluded
	Field      string
	Err        error
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s row %d: %v", e.Collection, e.Line, e.Err)
	}
	return fmt.Sprintf("%s row %d: field %s: %v", e.Collection, e.Line, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// InvariantError describes a single invariant violation found by Check.
type InvariantError struct {
	Collection string
	Index      int
	Message    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s[%d]: %s", e.Collection, e.Index, e.Message)
}

// ValidationErrors wraps multiple validation errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors occurred", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}
