package lifecycle

import (
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/leiter/marketday/internal/domain/errors"
	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/schedule"
)

var validNext = map[model.OrderStatus]map[model.OrderStatus]bool{
	model.OrderStatusDraft:     {model.OrderStatusPlaced: true},
	model.OrderStatusPlaced:    {model.OrderStatusLocked: true, model.OrderStatusCancelled: true, model.OrderStatusCompleted: true},
	model.OrderStatusLocked:    {model.OrderStatusCancelled: true, model.OrderStatusCompleted: true},
	model.OrderStatusCompleted: {},
	model.OrderStatusCancelled: {},
}

// CanTransition reports whether the lifecycle permits moving between two states.
func CanTransition(from, to model.OrderStatus) bool {
	return validNext[from][to]
}

// Machine evaluates order lifecycle rules against the weekly schedule. LOCKED
// and COMPLETED are derived from wall-clock time on every read, so no
// background job has to flip stored statuses at the deadline instant.
type Machine struct {
	schedule schedule.Schedule
}

// NewMachine constructs a lifecycle machine for the given schedule.
func NewMachine(s schedule.Schedule) *Machine {
	return &Machine{schedule: s}
}

// Schedule exposes the underlying weekly schedule.
func (m *Machine) Schedule() schedule.Schedule {
	return m.schedule
}

// EffectiveStatus derives the current status from the stored status, the
// pickup date and now.
func (m *Machine) EffectiveStatus(order model.Order, now time.Time) model.OrderStatus {
	if order.Status != model.OrderStatusPlaced {
		return order.Status
	}
	if !now.Before(order.PickUpDate) {
		return model.OrderStatusCompleted
	}
	if !m.schedule.CanEdit(order.PickUpDate, now) {
		return model.OrderStatusLocked
	}
	return model.OrderStatusPlaced
}

// CanEdit reports whether the order may still be modified at now. Drafts are
// always editable; placed orders until their deadline; everything else never.
func (m *Machine) CanEdit(order model.Order, now time.Time) bool {
	switch m.EffectiveStatus(order, now) {
	case model.OrderStatusDraft:
		return true
	case model.OrderStatusPlaced:
		return m.schedule.CanEdit(order.PickUpDate, now)
	default:
		return false
	}
}

// Place promotes a draft order to PLACED, assigning its id and creation date.
// The pickup date must fall on the configured pickup weekday.
func (m *Machine) Place(order model.Order, now time.Time) (model.Order, error) {
	if order.Status != model.OrderStatusDraft {
		return order, &domainErrors.InvalidTransitionError{From: order.Status, Attempted: model.OrderStatusPlaced}
	}
	if !m.schedule.OnPickupWeekday(order.PickUpDate) {
		return order, domainErrors.ErrInvalidPickUp
	}

	placed := order
	placed.ID = uuid.NewString()
	placed.CreatedDate = now
	placed.Status = model.OrderStatusPlaced
	return placed, nil
}

// Cancel marks the order CANCELLED. Allowed from PLACED or LOCKED while the
// pickup has not happened yet; completed or already cancelled orders are left
// untouched and a typed error is returned.
func (m *Machine) Cancel(order model.Order, now time.Time) (model.Order, error) {
	effective := m.EffectiveStatus(order, now)
	if !CanTransition(effective, model.OrderStatusCancelled) {
		return order, &domainErrors.InvalidTransitionError{From: effective, Attempted: model.OrderStatusCancelled}
	}

	cancelled := order
	cancelled.Status = model.OrderStatusCancelled
	return cancelled, nil
}
