package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveURLDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	key := SignaturePrefix + "/abc.png"
	require.NoError(t, s.Save(ctx, key, "image/png", strings.NewReader("png-bytes")))

	b, err := os.ReadFile(filepath.Join(s.PublicDir(), "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	url, err := s.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/signatures/abc.png", url)

	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(s.PublicDir(), "abc.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, key), "deleting a missing object is fine")
}

func TestLocalStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	key := SignaturePrefix + "/x.jpg"
	require.NoError(t, s.Save(ctx, key, "image/jpeg", strings.NewReader("one")))
	require.NoError(t, s.Save(ctx, key, "image/jpeg", strings.NewReader("two")))

	b, err := os.ReadFile(filepath.Join(s.Root(), "signatures", "x.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../x.png", "signatures/../../x.png", "signatures//x.png"} {
		assert.ErrorIs(t, s.Save(ctx, key, "image/png", strings.NewReader("x")), ErrInvalidKey, key)
		assert.ErrorIs(t, s.Delete(ctx, key), ErrInvalidKey, key)
		_, err := s.URL(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}
