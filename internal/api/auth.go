package api

import (
	"context"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

type credentialsRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the login/registration response: the session identity the
// app persists plus the bearer token for later requests.
type AuthResult struct {
	User  domain.Session `json:"user"`
	Token string         `json:"token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var res AuthResult
	err := c.post(ctx, "/auth/login", credentialsRequest{Email: email, Password: password}, &res)
	return res, err
}

func (c *Client) Register(ctx context.Context, name, email, password string) (AuthResult, error) {
	var res AuthResult
	err := c.post(ctx, "/auth/register", credentialsRequest{Name: name, Email: email, Password: password}, &res)
	return res, err
}
