package repository

import "context"

// TokenStore is the durable single-slot storage for the bearer token.
// Load returns an empty string when nothing is persisted.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Close() error
}
