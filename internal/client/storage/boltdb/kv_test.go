package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelez/repairdesk/internal/client/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "client.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func TestStorage_SetGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "auth_token", "abc.def.ghi"))

	got, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", got)
}

func TestStorage_SetOverwrites(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "auth_token", "first"))
	require.NoError(t, s.Set(ctx, "auth_token", "second"))

	got, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestStorage_GetMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Get(context.Background(), "auth_user")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestStorage_Delete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "auth_user", `{"id":"1"}`))
	require.NoError(t, s.Delete(ctx, "auth_user"))

	_, err := s.Get(ctx, "auth_user")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	// deleting a missing key is not an error
	assert.NoError(t, s.Delete(ctx, "auth_user"))
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "client.db")
	ctx := context.Background()

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "auth_token", "persisted"))
	require.NoError(t, s.Close())

	s2, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, s2.Close())
	}()

	got, err := s2.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)
}
