package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced at the request boundary. Handlers translate these
// into status codes; nothing in this package ever panics the process.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is inactive")
	ErrUserNotFound    = errors.New("user not found")
	ErrPlanNotFound    = errors.New("weekly stock plan not found")
	ErrAlertNotFound   = errors.New("low stock alert not found")

	ErrInsufficientStock = errors.New("insufficient stock for stock out")
	ErrDuplicatePlan     = errors.New("a plan already exists for this product and week")

	// ErrConcurrentUpdate is returned after the bounded compare-and-swap
	// retries are exhausted. Transient: the caller may retry the request.
	ErrConcurrentUpdate = errors.New("stock balance was modified concurrently, retry the request")
)

// ValidationError carries field-level detail for malformed input rejected
// before any state is touched.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed [%s]: %s", e.Field, e.Message)
}

// IntegrityError reports a delete blocked by dependent records. It is a
// descriptive conflict, not a raw constraint violation.
type IntegrityError struct {
	Entity    string
	ID        uint
	Rows      int64
	Dependent string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s %d: %d %s reference it", e.Entity, e.ID, e.Rows, e.Dependent)
}
