package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodlens/internal/photostore"
)

func newTestStore(t *testing.T) *LocalPhotoStore {
	t.Helper()
	store, err := NewLocalPhotoStore(t.TempDir(), nil)
	require.NoError(t, err)
	return store
}

func TestLocalPhotoStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	imageData := []byte("fake jpeg data")

	key, err := store.Save(ctx, "capture", "image/jpeg", bytes.NewReader(imageData))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "capture_"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	reader, mimeType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/jpeg", mimeType)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, imageData, data)
}

func TestLocalPhotoStoreKeepsMIMEType(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", "image/png"},
		{"image/webp", "image/webp"},
		{"image/gif", "image/gif"},
		{"application/octet-stream", "image/jpeg"},
	}

	store := newTestStore(t)
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			key, err := store.Save(context.Background(), "capture", tt.mime, strings.NewReader("x"))
			require.NoError(t, err)

			rc, mime, err := store.Get(context.Background(), key)
			require.NoError(t, err)
			defer rc.Close()
			assert.Equal(t, tt.want, mime)
		})
	}
}

func TestLocalPhotoStoreKeysAreUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, err := store.Save(ctx, "capture", "image/jpeg", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := store.Save(ctx, "capture", "image/jpeg", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLocalPhotoStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key, err := store.Save(ctx, "capture", "image/jpeg", bytes.NewReader([]byte("test data")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, key))

	_, _, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, photostore.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, key), photostore.ErrNotFound)
}

func TestLocalPhotoStoreNotFound(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Get(context.Background(), "nonexistent.jpg")
	assert.ErrorIs(t, err, photostore.ErrNotFound)
}

func TestLocalPhotoStorePathTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Get(ctx, "../../etc/passwd")
	require.Error(t, err)
	assert.NotErrorIs(t, err, photostore.ErrNotFound)

	assert.Error(t, store.Delete(ctx, "../outside.jpg"))
}
