package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskReceiptStoreRoundTrip(t *testing.T) {
	store, err := NewDiskReceiptStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	fileID, err := store.Save(ctx, "receipt.pdf", strings.NewReader("mcmaster invoice"))
	require.NoError(t, err)
	require.Equal(t, ".pdf", filepath.Ext(fileID))

	f, err := store.Open(ctx, fileID)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.Equal(t, "mcmaster invoice", string(data))

	require.NoError(t, store.Delete(ctx, fileID))
	_, err = store.Open(ctx, fileID)
	require.Error(t, err)
}

func TestDiskReceiptStoreIDsAreUnique(t *testing.T) {
	store, err := NewDiskReceiptStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := store.Save(ctx, "receipt.png", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save(ctx, "receipt.png", strings.NewReader("b"))
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestDiskReceiptStoreOpenStripsPathSeparators(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskReceiptStore(filepath.Join(dir, "receipts"))
	require.NoError(t, err)
	ctx := context.Background()

	fileID, err := store.Save(ctx, "note.txt", strings.NewReader("inside"))
	require.NoError(t, err)

	// a traversal prefix must resolve to the same stored file
	f, err := store.Open(ctx, "../receipts/"+fileID)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.Equal(t, "inside", string(data))

	_, err = store.Open(ctx, "../../etc/passwd")
	require.Error(t, err)
}
