package api

import (
	"context"
	"fmt"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

func (c *Client) GetReels(ctx context.Context, page int) ([]domain.Reel, error) {
	var reels []domain.Reel
	err := c.get(ctx, fmt.Sprintf("/products/reels?page=%d", page), &reels)
	return reels, err
}

// LikeProduct toggles the caller's like on a product. The backend treats the
// call as a toggle, so the same request undoes a previous like.
func (c *Client) LikeProduct(ctx context.Context, productID, userID string) error {
	return c.post(ctx, "/products/"+productID+"/like", map[string]string{"userId": userID}, nil)
}

// CommentProduct appends a comment and returns the full updated comment
// list, which replaces the local copy wholesale.
func (c *Client) CommentProduct(ctx context.Context, productID, userID, text string) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := c.post(ctx, "/products/"+productID+"/comment", map[string]string{
		"userId": userID,
		"text":   text,
	}, &comments)
	return comments, err
}

type followRequest struct {
	UserID string `json:"userId"`
	Follow bool   `json:"follow"`
}

func (c *Client) FollowSeller(ctx context.Context, sellerID, userID string, follow bool) error {
	return c.post(ctx, "/sellers/"+sellerID+"/follow", followRequest{UserID: userID, Follow: follow}, nil)
}

func (c *Client) GetFollowedSellers(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := c.get(ctx, "/users/"+userID+"/following", &ids)
	return ids, err
}
