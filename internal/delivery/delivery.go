// Package delivery drives the delivery-partner dashboard: available jobs
// and the partner's own jobs, each polled on the dashboard interval.
// Accepting a job moves it optimistically from one list to the other, then
// settles with a full re-fetch since another partner may have taken it
// first.
package delivery

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/api"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/mirror"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/syncer"
)

// Board is the dashboard's mirrored state.
type Board struct {
	Available []domain.DeliveryJob
	Mine      []domain.DeliveryJob
}

type Synchronizer struct {
	client    *api.Client
	partnerID string
	scope     *mirror.Scope
	gate      *syncer.KeyGate

	Mirror *mirror.Mirror[Board]
	rec    *syncer.Reconciler[Board]
}

func New(client *api.Client, partnerID string, logger *slog.Logger) *Synchronizer {
	scope := mirror.NewScope()
	mir := mirror.New[Board](scope)

	s := &Synchronizer{
		client:    client,
		partnerID: partnerID,
		scope:     scope,
		gate:      syncer.NewKeyGate(),
		Mirror:    mir,
	}
	// Both lists fetch concurrently; either failing fails the poll and
	// keeps the previous board.
	s.rec = syncer.NewReconciler(mir,
		func(ctx context.Context) (Board, error) {
			var board Board
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				jobs, err := client.GetAvailableJobs(gctx)
				board.Available = jobs
				return err
			})
			g.Go(func() error {
				jobs, err := client.GetMyJobs(gctx, partnerID)
				board.Mine = jobs
				return err
			})
			if err := g.Wait(); err != nil {
				return Board{}, err
			}
			return board, nil
		},
		syncer.WithInterval[Board](syncer.DashboardInterval),
		syncer.WithLogger[Board](logger),
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

func (s *Synchronizer) Accept(ctx context.Context, jobID string) (syncer.Outcome, error) {
	s.gate.Lock(jobID)
	defer s.gate.Unlock(jobID)

	return syncer.Do(ctx, s.Mirror, s.rec, syncer.Mutation[Board]{
		Name: "delivery.accept",
		Apply: func(b Board) Board {
			out := cloneBoard(b)
			for i, job := range out.Available {
				if job.ID == jobID {
					job.Status = domain.JobAccepted
					job.PartnerID = s.partnerID
					out.Available = append(out.Available[:i], out.Available[i+1:]...)
					out.Mine = append(out.Mine, job)
					break
				}
			}
			return out
		},
		Send: func(ctx context.Context) error {
			return s.client.AcceptJob(ctx, jobID, s.partnerID)
		},
		Policy: syncer.RefetchAlways,
	})
}

// SetStatus advances one of the partner's jobs (picked_up, delivered).
func (s *Synchronizer) SetStatus(ctx context.Context, jobID, status string) (syncer.Outcome, error) {
	s.gate.Lock(jobID)
	defer s.gate.Unlock(jobID)

	return syncer.Do(ctx, s.Mirror, s.rec, syncer.Mutation[Board]{
		Name: "delivery.set-status",
		Apply: func(b Board) Board {
			out := cloneBoard(b)
			for i := range out.Mine {
				if out.Mine[i].ID == jobID {
					out.Mine[i].Status = status
					break
				}
			}
			return out
		},
		Send: func(ctx context.Context) error {
			return s.client.UpdateJobStatus(ctx, jobID, s.partnerID, status)
		},
		Policy: syncer.RefetchAlways,
	})
}

func cloneBoard(b Board) Board {
	out := Board{
		Available: make([]domain.DeliveryJob, len(b.Available)),
		Mine:      make([]domain.DeliveryJob, len(b.Mine)),
	}
	copy(out.Available, b.Available)
	copy(out.Mine, b.Mine)
	return out
}
