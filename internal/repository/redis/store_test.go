package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresAddress(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrEmptyAddress)
}

func TestStore(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(Config{Address: mr.Addr()})
	require.NoError(t, err)
	store := New(client)
	defer store.Close()

	ctx := context.Background()

	_, found, err := store.Get(ctx, "GOAT_FARM_DATA_v2")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "GOAT_FARM_DATA_v2", `{"goats":[]}`))

	v, found, err := store.Get(ctx, "GOAT_FARM_DATA_v2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"goats":[]}`, v)

	stored, err := mr.Get("GOAT_FARM_DATA_v2")
	require.NoError(t, err)
	assert.Equal(t, `{"goats":[]}`, stored)
	assert.Zero(t, mr.TTL("GOAT_FARM_DATA_v2"))
}

func TestStoreServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(Config{Address: mr.Addr()})
	require.NoError(t, err)
	store := New(client)
	defer store.Close()

	mr.Close()

	_, _, err = store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), "k", "v"))
}
