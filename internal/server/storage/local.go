package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/hrkeeper/internal/filex"
)

// LocalStore writes objects under a root directory. The HTTP layer serves
// <root>/signatures at /signatures.
type LocalStore struct {
	root string
}

// NewLocalStore creates root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(root)
	if err != nil {
		return nil, err
	}
	return &LocalStore{root: abs}, nil
}

// Root is the absolute storage directory.
func (s *LocalStore) Root() string {
	return s.root
}

// PublicDir is the directory served at /signatures.
func (s *LocalStore) PublicDir() string {
	return filepath.Join(s.root, SignaturePrefix)
}

func (s *LocalStore) Save(_ context.Context, key, _ string, r io.Reader) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := filex.WriteFile(s.path(key), r); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Delete removes the object. Missing objects are not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// URL returns the site-relative path the object is served at.
func (s *LocalStore) URL(_ context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	return "/" + key, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}
