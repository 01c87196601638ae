package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a.png", strings.NewReader("image-bytes"), 11, "image/png"))

	object, info, err := store.Open(ctx, "a.png")
	require.NoError(t, err)
	defer object.Close()

	data, err := io.ReadAll(object)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
	assert.Equal(t, int64(11), info.Size)
	assert.Equal(t, "image/png", info.ContentType)
}

func TestLocalStorage_RefusesOverwrite(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a.png", strings.NewReader("one"), 3, "image/png"))
	assert.Error(t, store.Save(ctx, "a.png", strings.NewReader("two"), 3, "image/png"))
}

func TestLocalStorage_Open(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	for _, name := range []string{"missing.png", "../etc/passwd", "sub", ""} {
		_, _, err := store.Open(context.Background(), name)
		assert.ErrorIs(t, err, ErrObjectNotFound, name)
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("0b6c.png"))
	assert.ErrorIs(t, ValidateName("a/b.png"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName(`a\b.png`), ErrInvalidName)
	assert.ErrorIs(t, ValidateName(".."), ErrInvalidName)
	assert.Equal(t, "uploads/x.png", PublicPath("x.png"))
}
