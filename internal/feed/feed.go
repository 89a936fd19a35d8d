// Package feed synchronizes the reels feed: an append-only paged list of
// short videos with like, follow and comment actions. Likes and follows are
// exact toggles, so a failed request reverts the optimistic flip instead of
// re-fetching the whole feed and janking the scroll position.
package feed

import (
	"context"
	"log/slog"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/api"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/mirror"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/syncer"
)

// State is the feed screen's mirrored state: the loaded reels plus the set
// of sellers the user follows.
type State struct {
	Reels     []domain.Reel
	Following map[string]bool
	NextPage  int
}

type Synchronizer struct {
	client *api.Client
	userID string
	scope  *mirror.Scope
	gate   *syncer.KeyGate
	logger *slog.Logger

	Mirror *mirror.Mirror[State]
	rec    *syncer.Reconciler[State]
}

func New(client *api.Client, userID string, logger *slog.Logger) *Synchronizer {
	scope := mirror.NewScope()
	mir := mirror.New[State](scope)

	s := &Synchronizer{
		client: client,
		userID: userID,
		scope:  scope,
		gate:   syncer.NewKeyGate(),
		logger: logger,
		Mirror: mir,
	}
	// Reconciliation reloads page zero and the follow set; pages the user
	// scrolled past stay as loaded.
	s.rec = syncer.NewReconciler(mir,
		func(ctx context.Context) (State, error) {
			reels, errReels := client.GetReels(ctx, 0)
			if errReels != nil {
				return State{}, errReels
			}
			following, errFollow := client.GetFollowedSellers(ctx, userID)
			if errFollow != nil {
				return State{}, errFollow
			}
			followSet := make(map[string]bool, len(following))
			for _, id := range following {
				followSet[id] = true
			}
			return State{Reels: reels, Following: followSet, NextPage: 1}, nil
		},
		syncer.WithLogger[State](logger),
	)
	return s
}

func (s *Synchronizer) Refresh(ctx context.Context) error {
	return s.rec.Refresh(ctx)
}

func (s *Synchronizer) Close() {
	s.scope.Close()
}

// LoadMore appends the next page. Failures leave the feed as-is.
func (s *Synchronizer) LoadMore(ctx context.Context) error {
	st := s.Mirror.Value()
	reels, errFetch := s.client.GetReels(ctx, st.NextPage)
	if errFetch != nil {
		s.logger.Warn("load more reels failed", "page", st.NextPage, "err", errFetch)
		return errFetch
	}
	s.Mirror.Update(func(cur State) State {
		out := cloneState(cur)
		out.Reels = append(out.Reels, reels...)
		out.NextPage = cur.NextPage + 1
		return out
	})
	return nil
}

// ToggleLike flips the like on one reel, reverting on request failure.
func (s *Synchronizer) ToggleLike(ctx context.Context, reelID string) (syncer.Outcome, error) {
	s.gate.Lock(reelID)
	defer s.gate.Unlock(reelID)

	flip := func(st State) State {
		out := cloneState(st)
		for i := range out.Reels {
			if out.Reels[i].ID == reelID {
				if out.Reels[i].Liked {
					out.Reels[i].Liked = false
					out.Reels[i].Likes--
				} else {
					out.Reels[i].Liked = true
					out.Reels[i].Likes++
				}
				break
			}
		}
		return out
	}

	return syncer.Do(ctx, s.Mirror, s.rec, syncer.Mutation[State]{
		Name:   "feed.like",
		Apply:  flip,
		Revert: flip, // toggling twice restores the pre-action value
		Send: func(ctx context.Context) error {
			return s.client.LikeProduct(ctx, reelID, s.userID)
		},
		Policy: syncer.RevertOnFailure,
	})
}

// ToggleFollow flips the follow state for a seller, reverting on failure.
func (s *Synchronizer) ToggleFollow(ctx context.Context, sellerID string) (syncer.Outcome, error) {
	s.gate.Lock("follow:" + sellerID)
	defer s.gate.Unlock("follow:" + sellerID)

	target := !s.Mirror.Value().Following[sellerID]

	flip := func(st State) State {
		out := cloneState(st)
		out.Following[sellerID] = !out.Following[sellerID]
		return out
	}

	return syncer.Do(ctx, s.Mirror, s.rec, syncer.Mutation[State]{
		Name:   "feed.follow",
		Apply:  flip,
		Revert: flip,
		Send: func(ctx context.Context) error {
			return s.client.FollowSeller(ctx, sellerID, s.userID, target)
		},
		Policy: syncer.RevertOnFailure,
	})
}

// AddComment posts a comment; the server answers with the full updated list,
// which replaces the reel's local comments wholesale. No optimistic insert.
func (s *Synchronizer) AddComment(ctx context.Context, reelID, text string) error {
	comments, errSend := s.client.CommentProduct(ctx, reelID, s.userID, text)
	if errSend != nil {
		return errSend
	}
	s.Mirror.Update(func(st State) State {
		out := cloneState(st)
		for i := range out.Reels {
			if out.Reels[i].ID == reelID {
				out.Reels[i].Comments = comments
				break
			}
		}
		return out
	})
	return nil
}

func cloneState(st State) State {
	out := State{
		Reels:     make([]domain.Reel, len(st.Reels)),
		Following: make(map[string]bool, len(st.Following)),
		NextPage:  st.NextPage,
	}
	copy(out.Reels, st.Reels)
	for k, v := range st.Following {
		out.Following[k] = v
	}
	return out
}
