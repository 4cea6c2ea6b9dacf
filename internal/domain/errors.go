package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrOutOfStock is returned when a product with no stock is added to a cart.
	ErrOutOfStock = errors.New("out of stock")
	// ErrCheckoutInProgress is returned when a second placement starts for the same cart owner.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	// ErrPlacementFailed matches every PlacementError.
	ErrPlacementFailed = errors.New("failed to place order, please try again")
	// ErrInvalidTransition is returned for an order status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports a rejected input before any side effect happened.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PlacementStage names the checkout step that failed.
type PlacementStage string

const (
	StageUpload  PlacementStage = "upload"
	StagePersist PlacementStage = "persist"
)

// PlacementError wraps an upload or persistence failure during order placement.
// Error() is generic; the cause is reachable through Unwrap.
type PlacementError struct {
	Stage PlacementStage
	Err   error
}

func (e *PlacementError) Error() string {
	return ErrPlacementFailed.Error()
}

func (e *PlacementError) Unwrap() error {
	return e.Err
}

func (e *PlacementError) Is(target error) bool {
	return target == ErrPlacementFailed
}
