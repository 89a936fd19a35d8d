package syncer

import (
	"context"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/mirror"
)

// Outcome is the single answer every mutation call site has to handle.
type Outcome int

const (
	// Confirmed: the backend accepted the mutation; the optimistic local
	// state stands as-is.
	Confirmed Outcome = iota
	// Reverted: the request failed and the optimistic change was undone
	// locally (toggle-style mutations).
	Reverted
	// Superseded: the local state was replaced wholesale by a fresh
	// authoritative fetch, whether or not the request succeeded.
	Superseded
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Reverted:
		return "reverted"
	case Superseded:
		return "superseded"
	}
	return "unknown"
}

// Policy selects what happens after the mutation request settles.
type Policy int

const (
	// RevertOnFailure undoes the optimistic change when the request fails.
	// Used for cheap toggles (like, follow) whose inverse is exact.
	RevertOnFailure Policy = iota
	// RefetchAlways re-fetches the authoritative resource regardless of the
	// request's result. Used for cart quantity and membership changes where
	// the server may clamp or merge.
	RefetchAlways
	// RefetchOnFailure keeps the optimistic state on success and re-fetches
	// only when the request fails.
	RefetchOnFailure
)

// Mutation describes one user-initiated change to a mirrored resource.
// Apply runs synchronously before the network call; Revert must be its exact
// inverse and is required only for RevertOnFailure.
type Mutation[T any] struct {
	Name   string
	Apply  func(T) T
	Revert func(T) T
	Send   func(ctx context.Context) error
	Policy Policy
}

// Do applies the optimistic change, issues the request, and resolves per the
// mutation's policy. The returned error is the request error, if any; the
// Outcome tells the caller what happened to local state either way.
func Do[T any](ctx context.Context, mir *mirror.Mirror[T], rec *Reconciler[T], m Mutation[T]) (Outcome, error) {
	if m.Apply != nil {
		mir.Update(m.Apply)
	}

	errSend := m.Send(ctx)

	switch m.Policy {
	case RefetchAlways:
		_ = rec.Refresh(ctx)
		return Superseded, errSend
	case RefetchOnFailure:
		if errSend != nil {
			_ = rec.Refresh(ctx)
			return Superseded, errSend
		}
		return Confirmed, nil
	default: // RevertOnFailure
		if errSend != nil {
			if m.Revert != nil {
				mir.Update(m.Revert)
			}
			return Reverted, errSend
		}
		return Confirmed, nil
	}
}
