package errors

import (
	"errors"
	"fmt"

	"github.com/leiter/marketday/internal/domain/model"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrDeadlinePassed   = errors.New("order is no longer editable")
	ErrNewOrderRequired = errors.New("new order required")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidPickUp    = errors.New("pickup date not on pickup weekday")
	ErrEmptyBasket      = errors.New("basket is empty")
)

// InvalidTransitionError reports an order lifecycle operation attempted from an
// illegal source state. Always recoverable; callers decide whether to surface it.
type InvalidTransitionError struct {
	From      model.OrderStatus
	Attempted model.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.Attempted)
}

// StreamError wraps a terminal failure of a backend change-feed subscription.
// Retrying is the caller's concern, not the sync core's.
type StreamError struct {
	Collection string
	Err        error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream %s failed: %v", e.Collection, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
