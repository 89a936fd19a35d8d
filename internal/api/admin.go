package api

import (
	"context"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

func (c *Client) GetAdminStats(ctx context.Context) (domain.AdminStats, error) {
	var stats domain.AdminStats
	err := c.get(ctx, "/admin/stats", &stats)
	return stats, err
}

func (c *Client) GetPendingSellers(ctx context.Context) ([]domain.SellerApplication, error) {
	var apps []domain.SellerApplication
	err := c.get(ctx, "/admin/pending-sellers", &apps)
	return apps, err
}

func (c *Client) GetActiveOffers(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	err := c.get(ctx, "/admin/offers", &offers)
	return offers, err
}

type sellerDecisionRequest struct {
	SellerID string `json:"sellerId"`
	Approve  bool   `json:"approve"`
}

func (c *Client) DecideSeller(ctx context.Context, sellerID string, approve bool) error {
	return c.post(ctx, "/admin/sellers/decide", sellerDecisionRequest{SellerID: sellerID, Approve: approve}, nil)
}

func (c *Client) GetNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	var notes []domain.Notification
	err := c.get(ctx, "/notifications/"+userID, &notes)
	return notes, err
}
