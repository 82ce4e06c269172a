package usecase

import (
	"context"
	"time"

	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/domain/repository"
	"github.com/leiter/marketday/internal/lifecycle"
	"github.com/leiter/marketday/internal/reconcile"
	"github.com/leiter/marketday/internal/schedule"
)

// OrderUseCase exposes order queries and the user-invoked lifecycle
// operations. List reads come from the reconciled order store, which is
// seeded from the repository at startup and kept current by the feed; local
// cancels and hides fold straight into it so lists reflect them immediately.
// Statuses are derived on every read, never flipped in storage by a
// background job.
type OrderUseCase struct {
	orders  repository.OrderRepository
	store   *reconcile.Store[model.Order]
	machine *lifecycle.Machine
	now     func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, store *reconcile.Store[model.Order], machine *lifecycle.Machine) *OrderUseCase {
	return &OrderUseCase{orders: orders, store: store, machine: machine, now: time.Now}
}

// Get returns one order with its derived status.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	derived := *order
	derived.Status = u.machine.EffectiveStatus(*order, u.now())
	return &derived, nil
}

// ListForRole returns the party's orders with derived statuses, skipping the
// ones that party has hidden.
func (u *OrderUseCase) ListForRole(_ context.Context, role model.OrderRole, partyID string) ([]model.Order, error) {
	now := u.now()
	snapshot := u.store.Snapshot()
	visible := make([]model.Order, 0, len(snapshot))
	for _, order := range snapshot {
		if role == model.RoleSeller && order.SellerID != partyID {
			continue
		}
		if role == model.RoleBuyer && order.BuyerID != partyID {
			continue
		}
		if order.HiddenFor(role) {
			continue
		}
		order.Status = u.machine.EffectiveStatus(order, now)
		visible = append(visible, order)
	}
	return visible, nil
}

// Observe streams reconciled order list snapshots until ctx is cancelled.
func (u *OrderUseCase) Observe(ctx context.Context) <-chan []model.Order {
	return u.store.Observe(ctx)
}

// Cancel cancels the order if its lifecycle still permits it and persists the
// result. The typed transition error passes through for the caller to surface.
func (u *OrderUseCase) Cancel(ctx context.Context, id string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cancelled, err := u.machine.Cancel(*order, u.now())
	if err != nil {
		return nil, err
	}
	if err := u.orders.Save(ctx, cancelled); err != nil {
		return nil, err
	}
	u.store.Apply(reconcile.Event[model.Order]{Type: reconcile.EventChanged, ID: cancelled.ID, Value: cancelled})
	return &cancelled, nil
}

// Hide removes the order from the party's lists without deleting it.
func (u *OrderUseCase) Hide(ctx context.Context, id string, role model.OrderRole) error {
	if err := u.orders.SetHidden(ctx, id, role, true); err != nil {
		return err
	}

	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	hidden := *order
	if role == model.RoleSeller {
		hidden.HiddenBySeller = true
	} else {
		hidden.HiddenByBuyer = true
	}
	u.store.Apply(reconcile.Event[model.Order]{Type: reconcile.EventChanged, ID: hidden.ID, Value: hidden})
	return nil
}

// Window reports where the order sits relative to its edit deadline, together
// with the remaining time for display.
func (u *OrderUseCase) Window(ctx context.Context, id string) (schedule.Window, time.Duration, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return "", 0, err
	}

	now := u.now()
	s := u.machine.Schedule()
	return s.WindowStatus(order.PickUpDate, now), s.TimeUntilDeadline(order.PickUpDate, now), nil
}
