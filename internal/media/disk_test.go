package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fundrace/pkg/domain-errors"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	up, err := store.Upload(ctx, "receipt.png", "image/png", strings.NewReader("fake-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.URL, "/media/"))
	assert.True(t, strings.HasSuffix(up.PublicID, ".png"))

	data, err := os.ReadFile(filepath.Join(store.Dir(), up.PublicID))
	require.NoError(t, err)
	assert.Equal(t, "fake-bytes", string(data))

	require.NoError(t, store.Delete(ctx, up.PublicID))
	_, err = os.Stat(filepath.Join(store.Dir(), up.PublicID))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStoreDeleteIsIdempotent(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "missing.png"))
}

func TestDiskStoreRejectsPathTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	err = store.Delete(context.Background(), "../etc/passwd")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
