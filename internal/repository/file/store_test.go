package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")

	s, err := New(dir)
	require.NoError(t, err)

	_, found, err := s.Get(ctx, "ledger")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "ledger", `{"goats":[]}`))
	require.NoError(t, s.Set(ctx, "ledger", `{"goats":[1]}`))

	v, found, err := s.Get(ctx, "ledger")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"goats":[1]}`, v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, "ledger.json", entries[0].Name())
}

func TestStoreRejectsPathKeys(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, s.Set(context.Background(), key, "x"), key)
		_, _, err := s.Get(context.Background(), key)
		assert.Error(t, err, key)
	}
}

func TestNewRequiresDirectory(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
