package api

import (
	"context"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

func (c *Client) GetMessages(ctx context.Context, userID, otherID string) ([]domain.Message, error) {
	var msgs []domain.Message
	err := c.get(ctx, "/messages/"+userID+"/"+otherID, &msgs)
	return msgs, err
}

func (c *Client) GetConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	var convs []domain.Conversation
	err := c.get(ctx, "/messages/"+userID, &convs)
	return convs, err
}

type sendMessageRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

func (c *Client) SendMessage(ctx context.Context, from, to, text string) error {
	return c.post(ctx, "/messages/send", sendMessageRequest{From: from, To: to, Text: text}, nil)
}
