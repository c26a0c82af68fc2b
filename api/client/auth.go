package client

import (
	"context"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo/api/transport"
)

const (
	loginPath    = "/api/v1/auth/login"
	registerPath = "/api/v1/auth/register"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*transport.AuthData, error) {
	return c.authenticate(ctx, loginPath, email, password, "Login failed")
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, email, password string) (*transport.AuthData, error) {
	return c.authenticate(ctx, registerPath, email, password, "Registration failed")
}

func (c *Client) authenticate(ctx context.Context, path, email, password, fallback string) (*transport.AuthData, error) {
	resp, err := c.do(ctx, fasthttp.MethodPost, path, "", transport.Credentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(resp, fallback)
	}
	return transport.DecodeAuth(resp.body)
}
