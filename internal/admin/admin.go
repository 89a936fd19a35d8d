// Package admin backs the admin dashboard: stats, pending seller
// applications and active offers are fetched with a fan-out/fan-in join and
// mirrored as one snapshot, polled on the dashboard interval. Notifications
// poll separately and more slowly.
package admin

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/api"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/mirror"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/syncer"
)

type Dashboard struct {
	Stats          domain.AdminStats
	PendingSellers []domain.SellerApplication
	Offers         []domain.Offer
}

type Synchronizer struct {
	client *api.Client
	scope  *mirror.Scope
	gate   *syncer.KeyGate

	Mirror *mirror.Mirror[Dashboard]
	rec    *syncer.Reconciler[Dashboard]
}

func New(client *api.Client, logger *slog.Logger) *Synchronizer {
	scope := mirror.NewScope()
	mir := mirror.New[Dashboard](scope)

	s := &Synchronizer{
		client: client,
		scope:  scope,
		gate:   syncer.NewKeyGate(),
		Mirror: mir,
	}
	s.rec = syncer.NewReconciler(mir,
		func(ctx context.Context) (Dashboard, error) {
			var dash Dashboard
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				stats, err := client.GetAdminStats(gctx)
				dash.Stats = stats
				return err
			})
			g.Go(func() error {
				apps, err := client.GetPendingSellers(gctx)
				dash.PendingSellers = apps
				return err
			})
			g.Go(func() error {
				offers, err := client.GetActiveOffers(gctx)
				dash.Offers = offers
				return err
			})
			if err := g.Wait(); err != nil {
				return Dashboard{}, err
			}
			return dash, nil
		},
		syncer.WithInterval[Dashboard](syncer.DashboardInterval),
		syncer.WithLogger[Dashboard](logger),
	)
	return s
}

func (s *Synchronizer) Run(ctx context.Context) {
	s.rec.Run(ctx)
}

func (s *Synchronizer) Refresh(ctx context.Context) error {
	return s.rec.Refresh(ctx)
}

func (s *Synchronizer) Close() {
	s.scope.Close()
}

// Decide approves or rejects a pending seller. The application leaves the
// pending list optimistically; the settle re-fetch restores it if the
// backend disagreed.
func (s *Synchronizer) Decide(ctx context.Context, sellerID string, approve bool) (syncer.Outcome, error) {
	s.gate.Lock(sellerID)
	defer s.gate.Unlock(sellerID)

	return syncer.Do(ctx, s.Mirror, s.rec, syncer.Mutation[Dashboard]{
		Name: "admin.seller-decide",
		Apply: func(d Dashboard) Dashboard {
			out := cloneDashboard(d)
			for i, app := range out.PendingSellers {
				if app.ID == sellerID {
					out.PendingSellers = append(out.PendingSellers[:i], out.PendingSellers[i+1:]...)
					break
				}
			}
			return out
		},
		Send: func(ctx context.Context) error {
			return s.client.DecideSeller(ctx, sellerID, approve)
		},
		Policy: syncer.RefetchAlways,
	})
}

func cloneDashboard(d Dashboard) Dashboard {
	out := Dashboard{Stats: d.Stats}
	out.PendingSellers = make([]domain.SellerApplication, len(d.PendingSellers))
	copy(out.PendingSellers, d.PendingSellers)
	out.Offers = make([]domain.Offer, len(d.Offers))
	copy(out.Offers, d.Offers)
	return out
}

// Notifications is the slow-poll notification feed shared by the admin and
// account screens.
type Notifications struct {
	scope  *mirror.Scope
	Mirror *mirror.Mirror[[]domain.Notification]
	rec    *syncer.Reconciler[[]domain.Notification]
}

func NewNotifications(client *api.Client, userID string, logger *slog.Logger) *Notifications {
	scope := mirror.NewScope()
	mir := mirror.New[[]domain.Notification](scope)

	n := &Notifications{scope: scope, Mirror: mir}
	n.rec = syncer.NewReconciler(mir,
		func(ctx context.Context) ([]domain.Notification, error) {
			return client.GetNotifications(ctx, userID)
		},
		syncer.WithInterval[[]domain.Notification](syncer.NotificationsInterval),
		syncer.WithLogger[[]domain.Notification](logger),
	)
	return n
}

func (n *Notifications) Run(ctx context.Context) {
	n.rec.Run(ctx)
}

func (n *Notifications) Unread() int {
	var count int
	for _, note := range n.Mirror.Value() {
		if !note.Read {
			count++
		}
	}
	return count
}

func (n *Notifications) Close() {
	n.scope.Close()
}
