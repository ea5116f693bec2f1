// Package storage keeps uploaded signature images, either on local disk or
// in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// SignatureStore saves, removes and locates signature objects by key, e.g.
// "signatures/0b9c...e1.png".
type SignatureStore interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// SignaturePrefix is the key prefix, and the public URL path of the local store.
const SignaturePrefix = "signatures"

func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key || strings.HasPrefix(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
