package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveLoadRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	content := []byte("Total Cholesterol: 240 mg/dL\n")

	path, err := store.Save(ctx, "reports/lipid_panel.txt", content)
	require.NoError(t, err)

	// Load by the path Save returned.
	got, err := store.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// Load by the bare storage key.
	got, err = store.Load(ctx, "reports/lipid_panel.txt")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Save(ctx, "../escape.txt", []byte("x"))
	assert.Error(t, err)

	_, err = store.Load(ctx, "../../etc/passwd")
	assert.Error(t, err)

	_, err = store.Load(ctx, "/etc/passwd")
	assert.Error(t, err)
}
