// Package wishlist mirrors the user's wishlist. Membership toggles apply
// optimistically; a failed request settles with a re-fetch so local
// membership never diverges from the server for more than one
// reconciliation cycle.
package wishlist

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

	Mirror *mirror.Mirror[[]domain.WishlistEntry]
	rec    *syncer.Reconciler[[]domain.WishlistEntry]
}

func New(client *api.Client, userID string, logger *slog.Logger) *Synchronizer {
	scope := mirror.NewScope()
	mir := mirror.New[[]domain.WishlistEntry](scope)

	s := &Synchronizer{
		client: client,
		userID: userID,
		scope:  scope,
		gate:   syncer.NewKeyGate(),
		Mirror: mir,
	}
	s.rec = syncer.NewReconciler(mir,
		func(ctx context.Context) ([]domain.WishlistEntry, error) {
			return client.GetWishlist(ctx, userID)
		},
		syncer.WithLogger[[]domain.WishlistEntry](logger),
	)
	return s
}

func (s *Synchronizer) Refresh(ctx context.Context) error {
	return s.rec.Refresh(ctx)
}

func (s *Synchronizer) Close() {
	s.scope.Close()
}

func (s *Synchronizer) Contains(productID string) bool {
	for _, e := range s.Mirror.Value() {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

// Toggle flips membership for the given product. The entry's metadata is
// only needed on the add path.
func (s *Synchronizer) Toggle(ctx context.Context, entry domain.WishlistEntry) (syncer.Outcome, error) {
	s.gate.Lock(entry.ProductID)
	defer s.gate.Unlock(entry.ProductID)

	adding := !s.Contains(entry.ProductID)

	return syncer.Do(ctx, s.Mirror, s.rec, syncer.Mutation[[]domain.WishlistEntry]{
		Name: "wishlist.toggle",
		Apply: func(list []domain.WishlistEntry) []domain.WishlistEntry {
			if adding {
				return appendUnique(list, entry)
			}
			return remove(list, entry.ProductID)
		},
		Send: func(ctx context.Context) error {
			if adding {
				return s.client.AddWishlistItem(ctx, s.userID, entry.ProductID)
			}
			return s.client.RemoveWishlistItem(ctx, s.userID, entry.ProductID)
		},
		Policy: syncer.RefetchOnFailure,
	})
}

func appendUnique(list []domain.WishlistEntry, entry domain.WishlistEntry) []domain.WishlistEntry {
	for _, e := range list {
		if e.ProductID == entry.ProductID {
			out := make([]domain.WishlistEntry, len(list))
			copy(out, list)
			return out
		}
	}
	out := make([]domain.WishlistEntry, len(list), len(list)+1)
	copy(out, list)
	return append(out, entry)
}

func remove(list []domain.WishlistEntry, productID string) []domain.WishlistEntry {
	out := make([]domain.WishlistEntry, 0, len(list))
	for _, e := range list {
		if e.ProductID != productID {
			out = append(out, e)
		}
	}
	return out
}
