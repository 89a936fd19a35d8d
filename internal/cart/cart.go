// Package cart synchronizes the cart screen's local mirror with the
// backend. Cart mutations are optimistic but always settle with a full
// re-fetch: the server may clamp quantities or merge duplicate adds, so the
// authoritative copy wins over whatever we guessed locally.
package cart

import (
	"context"
	"log/slog"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/api"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/mirror"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/syncer"
)

type Synchronizer struct {
	client *api.Client
	userID string
	scope  *mirror.Scope
	gate   *syncer.KeyGate

	Mirror    *mirror.Mirror[domain.Cart]
	Selection *mirror.Selection
	rec       *syncer.Reconciler[domain.Cart]
}

func New(client *api.Client, userID string, logger *slog.Logger) *Synchronizer {
	scope := mirror.NewScope()
	mir := mirror.New[domain.Cart](scope)
	sel := mirror.NewSelection()

	s := &Synchronizer{
		client:    client,
		userID:    userID,
		scope:     scope,
		gate:      syncer.NewKeyGate(),
		Mirror:    mir,
		Selection: sel,
	}
	s.rec = syncer.NewReconciler(mir,
		func(ctx context.Context) (domain.Cart, error) {
			return client.GetCart(ctx, userID)
		},
		syncer.WithOnApply[domain.Cart](func(c domain.Cart) {
			// First non-empty load checks everything for checkout.
			sel.SeedAll(c.Keys())
		}),
		syncer.WithLogger[domain.Cart](logger),
	)
	return s
}

// Refresh is the focus-triggered reconciliation.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	return s.rec.Refresh(ctx)
}

// Close ends the screen's lifetime; any fetch still in flight is dropped on
// arrival.
func (s *Synchronizer) Close() {
	s.scope.Close()
}

func (s *Synchronizer) AddItem(ctx context.Context, item domain.CartItem) (syncer.Outcome, error) {
	s.gate.Lock(item.ProductID)
	defer s.gate.Unlock(item.ProductID)

	return syncer.Do(ctx, s.Mirror, s.rec, syncer.Mutation[domain.Cart]{
		Name: "cart.add",
		Apply: func(c domain.Cart) domain.Cart {
			return applyAdd(c, item)
		},
		Send: func(ctx context.Context) error {
			return s.client.AddCartItem(ctx, s.userID, item)
		},
		Policy: syncer.RefetchAlways,
	})
}

func (s *Synchronizer) UpdateQuantity(ctx context.Context, productID string, quantity int) (syncer.Outcome, error) {
	s.gate.Lock(productID)
	defer s.gate.Unlock(productID)

	return syncer.Do(ctx, s.Mirror, s.rec, syncer.Mutation[domain.Cart]{
		Name: "cart.update-quantity",
		Apply: func(c domain.Cart) domain.Cart {
			return applyQuantity(c, productID, quantity)
		},
		Send: func(ctx context.Context) error {
			return s.client.UpdateCartQuantity(ctx, s.userID, productID, quantity)
		},
		Policy: syncer.RefetchAlways,
	})
}

func (s *Synchronizer) RemoveItem(ctx context.Context, productID string) (syncer.Outcome, error) {
	s.gate.Lock(productID)
	defer s.gate.Unlock(productID)

	return syncer.Do(ctx, s.Mirror, s.rec, syncer.Mutation[domain.Cart]{
		Name: "cart.remove",
		Apply: func(c domain.Cart) domain.Cart {
			return applyRemove(c, productID)
		},
		Send: func(ctx context.Context) error {
			return s.client.RemoveCartItem(ctx, s.userID, productID)
		},
		Policy: syncer.RefetchAlways,
	})
}

// SelectedItems returns the mirrored items currently checked for checkout.
func (s *Synchronizer) SelectedItems() []domain.CartItem {
	cart := s.Mirror.Value()
	out := make([]domain.CartItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		if s.Selection.Selected(it.ProductID) {
			out = append(out, it)
		}
	}
	return out
}

// SelectedTotal sums price*quantity over the selection, in base currency.
func (s *Synchronizer) SelectedTotal() float64 {
	var total float64
	for _, it := range s.SelectedItems() {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func applyAdd(c domain.Cart, item domain.CartItem) domain.Cart {
	out := cloneCart(c)
	for i := range out.Items {
		if out.Items[i].ProductID == item.ProductID {
			out.Items[i].Quantity += item.Quantity
			return out
		}
	}
	out.Items = append(out.Items, item)
	return out
}

func applyQuantity(c domain.Cart, productID string, quantity int) domain.Cart {
	out := cloneCart(c)
	for i := range out.Items {
		if out.Items[i].ProductID == productID {
			if quantity <= 0 {
				out.Items = append(out.Items[:i], out.Items[i+1:]...)
			} else {
				out.Items[i].Quantity = quantity
			}
			return out
		}
	}
	return out
}

func applyRemove(c domain.Cart, productID string) domain.Cart {
	out := cloneCart(c)
	for i := range out.Items {
		if out.Items[i].ProductID == productID {
			out.Items = append(out.Items[:i], out.Items[i+1:]...)
			return out
		}
	}
	return out
}

// cloneCart copies the item slice so optimistic updates never alias a
// snapshot a reader already holds.
func cloneCart(c domain.Cart) domain.Cart {
	out := c
	out.Items = make([]domain.CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}
