package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LautaroYamil/trabajo-practico-2/internal/storage"
	apperrors "github.com/LautaroYamil/trabajo-practico-2/pkg/errors"
)

var _ storage.Store = (*Store)(nil)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "shop.db"))

	_, err := s.Get(context.Background(), storage.KeyCart)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStore_Upsert(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "shop.db"))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, storage.KeyCart, `[{"id":1}]`))
	require.NoError(t, s.Set(ctx, storage.KeyCart, `[{"id":2}]`))

	got, err := s.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":2}]`, got)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")
	ctx := context.Background()

	first, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, storage.KeyOrders, `[{"orderId":"ORD-1"}]`))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	got, err := second.Get(ctx, storage.KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, `[{"orderId":"ORD-1"}]`, got)
}

func TestStore_InMemory(t *testing.T) {
	s := openTestStore(t, ":memory:")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestStore_ClosedDatabase(t *testing.T) {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Set(context.Background(), "k", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite set k")
}
