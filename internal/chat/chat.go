// Package chat polls conversations. An open conversation reconciles every
// 2s, the conversation list every 5s. Sending is optimistic: the message
// shows immediately with a pending flag and the next successful poll
// replaces it with the server's copy.
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/api"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/mirror"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/syncer"
)

// Conversation is one open chat screen.
type Conversation struct {
	client  *api.Client
	userID  string
	otherID string
	scope   *mirror.Scope

	Mirror *mirror.Mirror[[]domain.Message]
	rec    *syncer.Reconciler[[]domain.Message]
}

func NewConversation(client *api.Client, userID, otherID string, logger *slog.Logger) *Conversation {
	scope := mirror.NewScope()
	mir := mirror.New[[]domain.Message](scope)

	c := &Conversation{
		client:  client,
		userID:  userID,
		otherID: otherID,
		scope:   scope,
		Mirror:  mir,
	}
	c.rec = syncer.NewReconciler(mir,
		func(ctx context.Context) ([]domain.Message, error) {
			return client.GetMessages(ctx, userID, otherID)
		},
		syncer.WithInterval[[]domain.Message](syncer.ActiveChatInterval),
		syncer.WithLogger[[]domain.Message](logger),
	)
	return c
}

// Run polls until ctx is cancelled (screen blur/unmount).
func (c *Conversation) Run(ctx context.Context) {
	c.rec.Run(ctx)
}

func (c *Conversation) Refresh(ctx context.Context) error {
	return c.rec.Refresh(ctx)
}

func (c *Conversation) Close() {
	c.scope.Close()
}

// Send appends the message locally with Pending set, then posts it. On
// failure the pending copy stays visible until a reconciliation drops it;
// on success the next poll swaps it for the server's copy.
func (c *Conversation) Send(ctx context.Context, text string) (syncer.Outcome, error) {
	pending := domain.Message{
		From:    c.userID,
		To:      c.otherID,
		Text:    text,
		SentAt:  time.Now(),
		Pending: true,
	}

	return syncer.Do(ctx, c.Mirror, c.rec, syncer.Mutation[[]domain.Message]{
		Name: "chat.send",
		Apply: func(msgs []domain.Message) []domain.Message {
			out := make([]domain.Message, len(msgs), len(msgs)+1)
			copy(out, msgs)
			return append(out, pending)
		},
		Send: func(ctx context.Context) error {
			return c.client.SendMessage(ctx, c.userID, c.otherID, text)
		},
		Policy: syncer.RefetchAlways,
	})
}

// List is the conversation overview screen.
type List struct {
	scope  *mirror.Scope
	Mirror *mirror.Mirror[[]domain.Conversation]
	rec    *syncer.Reconciler[[]domain.Conversation]
}

func NewList(client *api.Client, userID string, logger *slog.Logger) *List {
	scope := mirror.NewScope()
	mir := mirror.New[[]domain.Conversation](scope)

	l := &List{scope: scope, Mirror: mir}
	l.rec = syncer.NewReconciler(mir,
		func(ctx context.Context) ([]domain.Conversation, error) {
			return client.GetConversations(ctx, userID)
		},
		syncer.WithInterval[[]domain.Conversation](syncer.ChatListInterval),
		syncer.WithLogger[[]domain.Conversation](logger),
	)
	return l
}

func (l *List) Run(ctx context.Context) {
	l.rec.Run(ctx)
}

func (l *List) Refresh(ctx context.Context) error {
	return l.rec.Refresh(ctx)
}

func (l *List) Close() {
	l.scope.Close()
}
