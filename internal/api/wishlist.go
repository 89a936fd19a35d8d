package api

import (
	"context"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

type wishlistRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

func (c *Client) GetWishlist(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	var entries []domain.WishlistEntry
	err := c.get(ctx, "/wishlist/"+userID, &entries)
	return entries, err
}

func (c *Client) AddWishlistItem(ctx context.Context, userID, productID string) error {
	return c.post(ctx, "/wishlist/add", wishlistRequest{UserID: userID, ProductID: productID}, nil)
}

func (c *Client) RemoveWishlistItem(ctx context.Context, userID, productID string) error {
	return c.post(ctx, "/wishlist/remove", wishlistRequest{UserID: userID, ProductID: productID}, nil)
}
