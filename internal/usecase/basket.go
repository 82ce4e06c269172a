package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/leiter/marketday/internal/domain/errors"
	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/domain/repository"
	"github.com/leiter/marketday/internal/lifecycle"
	"github.com/leiter/marketday/internal/reconcile"
)

// DraftMirror is an opportunistic fast store for draft baskets, used for
// cross-device continuity. Failures are logged, never surfaced: the repository
// remains the authoritative draft store.
type DraftMirror interface {
	Put(ctx context.Context, basket model.DraftBasket) error
	Get(ctx context.Context, buyerID string) (*model.DraftBasket, error)
	Drop(ctx context.Context, buyerID string) error
}

// BasketUseCase maintains the buyer's draft basket: line items, derived totals
// and the edit gate against the lifecycle of an associated placed order. The
// reconciled stores double as the local echo for its writes: placed orders
// fold into the order store and draft edits into the basket-items store, so
// list reads reflect a checkout before the feed confirms it.
type BasketUseCase struct {
	baskets repository.BasketRepository
	orders  repository.OrderRepository
	catalog *reconcile.Store[model.Article]
	placed  *reconcile.Store[model.Order]
	remote  *reconcile.Store[model.OrderedProduct]
	machine *lifecycle.Machine
	mirror  DraftMirror
	logger  *slog.Logger
	now     func() time.Time
}

// NewBasketUseCase constructs BasketUseCase. The mirror may be nil.
func NewBasketUseCase(
	baskets repository.BasketRepository,
	orders repository.OrderRepository,
	catalog *reconcile.Store[model.Article],
	placed *reconcile.Store[model.Order],
	remote *reconcile.Store[model.OrderedProduct],
	machine *lifecycle.Machine,
	mirror DraftMirror,
	logger *slog.Logger,
) *BasketUseCase {
	return &BasketUseCase{
		baskets: baskets,
		orders:  orders,
		catalog: catalog,
		placed:  placed,
		remote:  remote,
		machine: machine,
		mirror:  mirror,
		logger:  logger,
		now:     time.Now,
	}
}

// Current loads the buyer's draft, preferring the mirror and falling back to
// the repository. A buyer without a draft gets a fresh empty one.
func (u *BasketUseCase) Current(ctx context.Context, buyerID string) (model.DraftBasket, error) {
	if u.mirror != nil {
		if basket, err := u.mirror.Get(ctx, buyerID); err == nil && basket != nil {
			return *basket, nil
		}
	}

	basket, err := u.baskets.GetByBuyer(ctx, buyerID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// No locally persisted draft: the reconciled basket-items feed
			// may still carry lines the buyer added on another device.
			if items := u.remote.Snapshot(); len(items) > 0 {
				return model.DraftBasket{BuyerID: buyerID, Items: items, LastModified: u.now()}, nil
			}
			return model.DraftBasket{BuyerID: buyerID}, nil
		}
		return model.DraftBasket{}, err
	}
	return *basket, nil
}

// AddOrUpdateItem sets the quantity of one line. Quantities are last-write-wins
// per the explicit-quantity model; a quantity of exactly zero removes the line
// instead of storing it. Rejected with ErrNewOrderRequired once the basket's
// associated order can no longer be edited.
func (u *BasketUseCase) AddOrUpdateItem(ctx context.Context, buyerID string, item model.OrderedProduct) (model.DraftBasket, error) {
	if item.AmountCount.IsNegative() {
		return model.DraftBasket{}, domainErrors.ErrInvalidQuantity
	}

	basket, err := u.editableBasket(ctx, buyerID)
	if err != nil {
		return model.DraftBasket{}, err
	}

	if item.AmountCount.IsZero() {
		basket.Items = removeLine(basket.Items, item.ID)
	} else {
		item.PiecesCount = model.DerivePiecesCount(item.Unit, item.AmountCount, u.weightPerPiece(item.ID))
		replaced := false
		for i := range basket.Items {
			if basket.Items[i].ID == item.ID || basket.Items[i].ProductID == item.ProductID {
				basket.Items[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			basket.Items = append(basket.Items, item)
		}
	}

	return u.persist(ctx, basket)
}

// RemoveItem deletes all lines matching the id. Removing an absent id is a no-op.
func (u *BasketUseCase) RemoveItem(ctx context.Context, buyerID, id string) (model.DraftBasket, error) {
	basket, err := u.editableBasket(ctx, buyerID)
	if err != nil {
		return model.DraftBasket{}, err
	}

	basket.Items = removeLine(basket.Items, id)
	return u.persist(ctx, basket)
}

// SetPickupDate selects the pickup date for the draft. The date must fall on
// the configured pickup weekday.
func (u *BasketUseCase) SetPickupDate(ctx context.Context, buyerID string, pickup time.Time) (model.DraftBasket, error) {
	if !u.machine.Schedule().OnPickupWeekday(pickup) {
		return model.DraftBasket{}, domainErrors.ErrInvalidPickUp
	}

	basket, err := u.editableBasket(ctx, buyerID)
	if err != nil {
		return model.DraftBasket{}, err
	}

	basket.SelectedPickupDate = &pickup
	return u.persist(ctx, basket)
}

// StartNewOrder clears all items and detaches the associated order, producing a
// fresh draft. This is the recovery path after an edit was rejected because the
// backing order has locked.
func (u *BasketUseCase) StartNewOrder(ctx context.Context, buyerID string) (model.DraftBasket, error) {
	basket := model.DraftBasket{BuyerID: buyerID, LastModified: u.now()}
	if err := u.baskets.Save(ctx, basket); err != nil {
		return model.DraftBasket{}, err
	}
	u.remote.Replace(nil)
	u.mirrorPut(ctx, basket)
	return basket, nil
}

// LoadOrderForEdit fills the draft with the lines of an already placed order so
// the buyer can modify it before the deadline. Past the deadline the edit is
// rejected with ErrDeadlinePassed.
func (u *BasketUseCase) LoadOrderForEdit(ctx context.Context, buyerID, orderID string) (model.DraftBasket, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return model.DraftBasket{}, err
	}
	if !u.machine.CanEdit(*order, u.now()) {
		return model.DraftBasket{}, domainErrors.ErrDeadlinePassed
	}

	pickup := order.PickUpDate
	basket := model.DraftBasket{
		BuyerID:            buyerID,
		Items:              append([]model.OrderedProduct(nil), order.Articles...),
		SelectedPickupDate: &pickup,
		AssociatedOrderID:  order.ID,
	}
	return u.persist(ctx, basket)
}

// Checkout turns the draft into a placed order, or updates the associated
// order when the draft edits one. The draft is cleared on success.
func (u *BasketUseCase) Checkout(ctx context.Context, buyerID string, buyer model.BuyerProfile, sellerID, marketID, message string) (*model.Order, error) {
	basket, err := u.Current(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(basket.Items) == 0 {
		return nil, domainErrors.ErrEmptyBasket
	}

	now := u.now()

	if basket.AssociatedOrderID != "" {
		order, err := u.orders.GetByID(ctx, basket.AssociatedOrderID)
		if err != nil {
			return nil, err
		}
		if !u.machine.CanEdit(*order, now) {
			return nil, domainErrors.ErrNewOrderRequired
		}
		updated := *order
		updated.Articles = append([]model.OrderedProduct(nil), basket.Items...)
		updated.Message = message
		if err := u.orders.Save(ctx, updated); err != nil {
			return nil, err
		}
		u.placed.Apply(reconcile.Event[model.Order]{Type: reconcile.EventChanged, ID: updated.ID, Value: updated})
		if err := u.clear(ctx, buyerID); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	pickup := u.machine.Schedule().NextPickup(now)
	if basket.SelectedPickupDate != nil {
		pickup = *basket.SelectedPickupDate
	}

	draft := model.Order{
		BuyerID:    buyerID,
		Buyer:      buyer,
		SellerID:   sellerID,
		MarketID:   marketID,
		PickUpDate: pickup,
		Message:    message,
		Articles:   append([]model.OrderedProduct(nil), basket.Items...),
		Status:     model.OrderStatusDraft,
	}

	placed, err := u.machine.Place(draft, now)
	if err != nil {
		return nil, err
	}
	if err := u.orders.Save(ctx, placed); err != nil {
		return nil, err
	}
	u.placed.Apply(reconcile.Event[model.Order]{Type: reconcile.EventAdded, ID: placed.ID, Value: placed})
	if err := u.clear(ctx, buyerID); err != nil {
		return nil, err
	}
	return &placed, nil
}

// weightPerPiece looks the line's source article up in the reconciled catalog.
// An unknown article yields zero, which falls back to counting the quantity
// itself.
func (u *BasketUseCase) weightPerPiece(articleID string) decimal.Decimal {
	for _, article := range u.catalog.Snapshot() {
		if article.ID == articleID {
			return article.WeightPerPiece
		}
	}
	return decimal.Zero
}

// editableBasket loads the draft and applies the lifecycle gate of its
// associated order before any mutation.
func (u *BasketUseCase) editableBasket(ctx context.Context, buyerID string) (model.DraftBasket, error) {
	basket, err := u.Current(ctx, buyerID)
	if err != nil {
		return model.DraftBasket{}, err
	}

	if basket.AssociatedOrderID != "" {
		order, err := u.orders.GetByID(ctx, basket.AssociatedOrderID)
		if err != nil {
			return model.DraftBasket{}, err
		}
		if !u.machine.CanEdit(*order, u.now()) {
			return model.DraftBasket{}, domainErrors.ErrNewOrderRequired
		}
	}
	return basket, nil
}

func (u *BasketUseCase) persist(ctx context.Context, basket model.DraftBasket) (model.DraftBasket, error) {
	basket.LastModified = u.now()
	if err := u.baskets.Save(ctx, basket); err != nil {
		return model.DraftBasket{}, err
	}
	u.remote.Replace(basket.Items)
	u.mirrorPut(ctx, basket)
	return basket, nil
}

func (u *BasketUseCase) clear(ctx context.Context, buyerID string) error {
	if err := u.baskets.Delete(ctx, buyerID); err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}
	u.remote.Replace(nil)
	if u.mirror != nil {
		if err := u.mirror.Drop(ctx, buyerID); err != nil {
			u.logger.Warn("drop draft mirror failed", slog.String("buyer", buyerID), slog.String("error", err.Error()))
		}
	}
	return nil
}

func (u *BasketUseCase) mirrorPut(ctx context.Context, basket model.DraftBasket) {
	if u.mirror == nil {
		return
	}
	if err := u.mirror.Put(ctx, basket); err != nil {
		u.logger.Warn("mirror draft failed", slog.String("buyer", basket.BuyerID), slog.String("error", err.Error()))
	}
}

func removeLine(items []model.OrderedProduct, id string) []model.OrderedProduct {
	out := items[:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}
