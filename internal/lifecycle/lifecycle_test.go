package lifecycle

import (
	"errors"
	"testing"
	"time"

	domainErrors "github.com/leiter/marketday/internal/domain/errors"
	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/schedule"
)

func testMachine() *Machine {
	return NewMachine(schedule.Schedule{
		PickupWeekday:   time.Thursday,
		DeadlineWeekday: time.Tuesday,
		DeadlineHour:    23,
		DeadlineMinute:  59,
		Location:        time.UTC,
	})
}

var (
	pickup         = time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	beforeDeadline = time.Date(2024, time.June, 17, 12, 0, 0, 0, time.UTC)
	afterDeadline  = time.Date(2024, time.June, 19, 12, 0, 0, 0, time.UTC)
	afterPickup    = time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC)
)

func placedOrder() model.Order {
	return model.Order{ID: "o-1", Status: model.OrderStatusPlaced, PickUpDate: pickup}
}

func TestEffectiveStatusDerivation(t *testing.T) {
	m := testMachine()

	cases := []struct {
		name string
		now  time.Time
		want model.OrderStatus
	}{
		{"open window", beforeDeadline, model.OrderStatusPlaced},
		{"past deadline", afterDeadline, model.OrderStatusLocked},
		{"past pickup", afterPickup, model.OrderStatusCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.EffectiveStatus(placedOrder(), tc.now); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestEffectiveStatusKeepsStoredTerminalStates(t *testing.T) {
	m := testMachine()

	cancelled := model.Order{Status: model.OrderStatusCancelled, PickUpDate: pickup}
	if got := m.EffectiveStatus(cancelled, afterPickup); got != model.OrderStatusCancelled {
		t.Fatalf("expected CANCELLED to stay, got %s", got)
	}

	draft := model.Order{Status: model.OrderStatusDraft, PickUpDate: pickup}
	if got := m.EffectiveStatus(draft, afterPickup); got != model.OrderStatusDraft {
		t.Fatalf("expected DRAFT to stay, got %s", got)
	}
}

func TestCanEdit(t *testing.T) {
	m := testMachine()

	draft := model.Order{Status: model.OrderStatusDraft, PickUpDate: pickup}
	if !m.CanEdit(draft, afterPickup) {
		t.Fatal("expected draft always editable")
	}
	if !m.CanEdit(placedOrder(), beforeDeadline) {
		t.Fatal("expected placed order editable before deadline")
	}
	if m.CanEdit(placedOrder(), afterDeadline) {
		t.Fatal("expected placed order locked after deadline")
	}

	cancelled := model.Order{Status: model.OrderStatusCancelled, PickUpDate: pickup}
	if m.CanEdit(cancelled, beforeDeadline) {
		t.Fatal("expected cancelled order never editable")
	}
}

func TestPlaceAssignsIdentity(t *testing.T) {
	m := testMachine()
	draft := model.Order{Status: model.OrderStatusDraft, PickUpDate: pickup}

	placed, err := m.Place(draft, beforeDeadline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if placed.ID == "" {
		t.Fatal("expected id assigned on place")
	}
	if !placed.CreatedDate.Equal(beforeDeadline) {
		t.Fatalf("expected created date %s, got %s", beforeDeadline, placed.CreatedDate)
	}
	if placed.Status != model.OrderStatusPlaced {
		t.Fatalf("expected PLACED, got %s", placed.Status)
	}
}

func TestPlaceRejectsNonDraft(t *testing.T) {
	m := testMachine()

	_, err := m.Place(placedOrder(), beforeDeadline)
	var transition *domainErrors.InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transition.From != model.OrderStatusPlaced {
		t.Fatalf("unexpected source status %s", transition.From)
	}
}

func TestPlaceRejectsWrongWeekday(t *testing.T) {
	m := testMachine()
	friday := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	draft := model.Order{Status: model.OrderStatusDraft, PickUpDate: friday}

	if _, err := m.Place(draft, beforeDeadline); !errors.Is(err, domainErrors.ErrInvalidPickUp) {
		t.Fatalf("expected ErrInvalidPickUp, got %v", err)
	}
}

func TestCancelFromPlacedAndLocked(t *testing.T) {
	m := testMachine()

	cancelled, err := m.Cancel(placedOrder(), beforeDeadline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != model.OrderStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}

	// Locked but pre-pickup is still cancellable.
	if _, err := m.Cancel(placedOrder(), afterDeadline); err != nil {
		t.Fatalf("expected cancel allowed while locked, got %v", err)
	}
}

func TestCancelRejectsCompletedPickup(t *testing.T) {
	m := testMachine()
	order := placedOrder()

	updated, err := m.Cancel(order, afterPickup)
	var transition *domainErrors.InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transition.From != model.OrderStatusCompleted {
		t.Fatalf("expected derived COMPLETED source, got %s", transition.From)
	}
	if updated.Status != model.OrderStatusPlaced {
		t.Fatal("expected order left unmodified on rejected cancel")
	}
}

func TestCancelIsIdempotentlyRejected(t *testing.T) {
	m := testMachine()
	order := model.Order{Status: model.OrderStatusCancelled, PickUpDate: pickup}

	_, err := m.Cancel(order, beforeDeadline)
	var transition *domainErrors.InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestTransitionsNeverRevisitEarlierStates(t *testing.T) {
	terminal := []model.OrderStatus{
		model.OrderStatusLocked,
		model.OrderStatusCompleted,
		model.OrderStatusCancelled,
	}
	earlier := []model.OrderStatus{model.OrderStatusDraft, model.OrderStatusPlaced}

	for _, from := range terminal {
		for _, to := range earlier {
			if CanTransition(from, to) {
				t.Fatalf("transition %s -> %s must not be allowed", from, to)
			}
		}
	}
}
