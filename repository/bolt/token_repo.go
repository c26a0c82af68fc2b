package bolt

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/todo/repository"
)

var tokenKey = []byte("token")

// TokenRepository keeps the bearer token in a single BoltDB key.
type TokenRepository struct {
	db     *bolt.DB
	bucket []byte
}

var _ repository.TokenStore = (*TokenRepository)(nil)

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*TokenRepository, error) {
	if bucket == "" {
		bucket = "session"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &TokenRepository{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

func (r *TokenRepository) Load(ctx context.Context) (string, error) {
	if r == nil || r.db == nil {
		return "", bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var token string
	err := r.db.View(func(tx *bolt.Tx) error {
		token = string(tx.Bucket(r.bucket).Get(tokenKey))
		return nil
	})
	return token, err
}

func (r *TokenRepository) Save(ctx context.Context, token string) error {
	if token == "" {
		return r.Clear(ctx)
	}
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Put(tokenKey, []byte(token))
	})
}

func (r *TokenRepository) Clear(ctx context.Context) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Delete(tokenKey)
	})
}

// Ping reports whether the slot can be read, for the status monitor.
func (r *TokenRepository) Ping() error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(r.bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

// Close closes the Bolt database.
func (r *TokenRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
