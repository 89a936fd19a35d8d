package api

import (
	"context"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

type cartItemRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}

func (c *Client) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	var cart domain.Cart
	err := c.get(ctx, "/cart/"+userID, &cart)
	return cart, err
}

func (c *Client) AddCartItem(ctx context.Context, userID string, item domain.CartItem) error {
	return c.post(ctx, "/cart/add", cartItemRequest{
		UserID:    userID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}, nil)
}

func (c *Client) UpdateCartQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return c.post(ctx, "/cart/update-quantity", cartItemRequest{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, userID, productID string) error {
	return c.post(ctx, "/cart/remove", cartItemRequest{
		UserID:    userID,
		ProductID: productID,
	}, nil)
}
