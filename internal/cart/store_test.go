package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	"github.com/LautaroYamil/trabajo-practico-2/internal/notify"
	"github.com/LautaroYamil/trabajo-practico-2/internal/repository/kv"
	"github.com/LautaroYamil/trabajo-practico-2/internal/storage"
	"github.com/LautaroYamil/trabajo-practico-2/internal/storage/memory"
	apperrors "github.com/LautaroYamil/trabajo-practico-2/pkg/errors"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/logger"
)

// --- Test Helpers ---

type flakyStore struct {
	*memory.Store
	setErr error
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

type fixture struct {
	kv   *flakyStore
	rec  *notify.Recorder
	cart *Store
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	kvStore := &flakyStore{Store: memory.New()}
	return newFixtureWith(t, kvStore, opts...)
}

func newFixtureWith(t *testing.T, kvStore *flakyStore, opts ...Option) *fixture {
	t.Helper()
	rec := &notify.Recorder{}
	orders := kv.NewOrderRepository(kvStore, logger.Discard())
	s := New(context.Background(), kvStore, orders, rec, logger.Discard(), opts...)
	return &fixture{kv: kvStore, rec: rec, cart: s}
}

func product(id int, price string) domain.Product {
	return domain.Product{
		ID:         id,
		Title:      "Producto " + price,
		Price:      price,
		MainImage:  "assets/p.jpg",
		Thumbnails: []string{"assets/p-1.jpg"},
	}
}

func storedItems(t *testing.T, s storage.Store) []domain.LineItem {
	t.Helper()
	raw, err := s.Get(context.Background(), storage.KeyCart)
	require.NoError(t, err)
	var items []domain.LineItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items
}

// --- Load Tests ---

func TestNew_EmptyWhenNothingStored(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.cart.IsEmpty())
	assert.Equal(t, 0, f.cart.ItemCount())
	assert.NotNil(t, f.cart.Items())
}

func TestNew_CorruptCartDegradesToEmpty(t *testing.T) {
	kvStore := &flakyStore{Store: memory.New()}
	require.NoError(t, kvStore.Set(context.Background(), storage.KeyCart, "{not json"))

	f := newFixtureWith(t, kvStore)
	assert.True(t, f.cart.IsEmpty())
	assert.Empty(t, f.rec.Notifications, "a corrupt cart is never surfaced to the user")
}

func TestNew_NullCartDegradesToEmpty(t *testing.T) {
	kvStore := &flakyStore{Store: memory.New()}
	require.NoError(t, kvStore.Set(context.Background(), storage.KeyCart, "null"))

	f := newFixtureWith(t, kvStore)
	assert.True(t, f.cart.IsEmpty())
}

func TestNew_RestoresAndNormalizes(t *testing.T) {
	kvStore := &flakyStore{Store: memory.New()}
	stored := `[
		{"id":1,"title":"A","price":"$5.000","quantity":2},
		{"id":2,"title":"B","price":"$1.800","quantity":0},
		{"id":1,"title":"A again","price":"$9.999","quantity":3},
		{"id":3,"title":"C","price":"$39.900","quantity":-1}
	]`
	require.NoError(t, kvStore.Set(context.Background(), storage.KeyCart, stored))

	f := newFixtureWith(t, kvStore)
	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "A", items[0].Title, "the first occurrence keeps its fields")
	assert.Equal(t, 5, items[0].Quantity)
}

// --- AddItem Tests ---

func TestAddItem_DistinctProductsSumQuantities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	quantities := map[int]int{1: 2, 2: 1, 3: 7, 4: 100}
	want := 0
	for id, q := range quantities {
		require.NoError(t, f.cart.AddItem(ctx, product(id, "$1.000"), q))
		want += q
	}

	assert.Equal(t, want, f.cart.ItemCount())
	assert.Len(t, f.cart.Items(), len(quantities))
}

func TestAddItem_SameProductMergesQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 2))
	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 3))

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItem_KeepsFieldsFromFirstAdd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := product(1, "$5.000")
	require.NoError(t, f.cart.AddItem(ctx, p, 1))

	p.Price = "$7.000"
	p.Title = "Renamed"
	p.Thumbnails[0] = "changed.jpg"
	require.NoError(t, f.cart.AddItem(ctx, p, 1))

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "$5.000", items[0].Price)
	assert.Equal(t, "Producto $5.000", items[0].Title)
	assert.Equal(t, "assets/p-1.jpg", items[0].Thumbnails[0])
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddItem_PersistsAndNotifies(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.cart.AddItem(context.Background(), product(1, "$5.000"), 2))

	stored := storedItems(t, f.kv)
	require.Len(t, stored, 1)
	assert.Equal(t, 2, stored[0].Quantity)

	require.Len(t, f.rec.Views, 1)
	assert.Equal(t, 2, f.rec.Views[0].ItemCount)
	require.Len(t, f.rec.Notifications, 1)
	assert.Equal(t, domain.Notification{Kind: domain.NotificationSuccess, Message: MsgItemAdded}, f.rec.Notifications[0])
}

func TestAddItem_RejectsInvalidQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
	}{
		{"zero", 0},
		{"negative", -3},
		{"above limit", MaxQuantityPerItem + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			err := f.cart.AddItem(context.Background(), product(1, "$5.000"), tt.quantity)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

			assert.True(t, f.cart.IsEmpty())
			assert.Empty(t, f.rec.Views)
			require.Len(t, f.rec.Notifications, 1)
			assert.Equal(t, domain.NotificationError, f.rec.Notifications[0].Kind)
			assert.Equal(t, 0, f.kv.Keys(), "rejected adds write nothing")
		})
	}
}

func TestAddItem_CombinedQuantityCapped(t *testing.T) {
	f := newFixture(t, WithMaxQuantity(5))
	ctx := context.Background()

	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 4))
	err := f.cart.AddItem(ctx, product(1, "$5.000"), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, 4, f.cart.ItemCount())
}

func TestAddItem_PersistenceFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	f.kv.setErr = errors.New("quota exceeded")

	err := f.cart.AddItem(context.Background(), product(1, "$5.000"), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPersistence))
	assert.Equal(t, 1, f.cart.ItemCount(), "in-memory state is not rolled back")

	require.Len(t, f.rec.Notifications, 1)
	assert.Equal(t, domain.Notification{Kind: domain.NotificationError, Message: MsgAddFailed}, f.rec.Notifications[0])
	require.Len(t, f.rec.Views, 1)
}

// --- RemoveItem Tests ---

func TestRemoveItem_RemovesLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 1))
	require.NoError(t, f.cart.AddItem(ctx, product(2, "$1.800"), 1))
	f.rec.Reset()

	require.NoError(t, f.cart.RemoveItem(ctx, 1))

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)
	assert.Len(t, storedItems(t, f.kv), 1)
	require.Len(t, f.rec.Notifications, 1)
	assert.Equal(t, domain.Notification{Kind: domain.NotificationInfo, Message: MsgItemRemoved}, f.rec.Notifications[0])
}

func TestRemoveItem_AbsentIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 2))
	before := f.cart.Items()
	f.rec.Reset()

	require.NoError(t, f.cart.RemoveItem(ctx, 42))

	assert.Equal(t, before, f.cart.Items())
	assert.Len(t, f.rec.Notifications, 1, "only the standard notification")
	assert.Equal(t, domain.NotificationInfo, f.rec.Notifications[0].Kind)
}

func TestRemoveItem_PersistenceFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 2))
	f.rec.Reset()
	f.kv.setErr = errors.New("disk full")

	err := f.cart.RemoveItem(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPersistence))
	assert.True(t, f.cart.IsEmpty())
	last, ok := f.rec.LastNotification()
	require.True(t, ok)
	assert.Equal(t, domain.NotificationError, last.Kind)
}

// --- UpdateQuantity Tests ---

func TestUpdateQuantity_SetsQuantityWithoutToast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 1))
	f.rec.Reset()

	require.NoError(t, f.cart.UpdateQuantity(ctx, 1, 7))

	assert.Equal(t, 7, f.cart.ItemCount())
	assert.Equal(t, 7, storedItems(t, f.kv)[0].Quantity)
	assert.Len(t, f.rec.Views, 1)
	assert.Empty(t, f.rec.Notifications)
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -5} {
		f := newFixture(t)
		ctx := context.Background()
		require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 3))
		require.NoError(t, f.cart.AddItem(ctx, product(2, "$1.800"), 1))
		f.rec.Reset()

		require.NoError(t, f.cart.UpdateQuantity(ctx, 1, q))

		items := f.cart.Items()
		require.Len(t, items, 1, "quantity %d", q)
		assert.Equal(t, 2, items[0].ID)
		require.Len(t, f.rec.Notifications, 1)
		assert.Equal(t, MsgItemRemoved, f.rec.Notifications[0].Message)
	}
}

func TestUpdateQuantity_UnknownIDIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 1))
	f.rec.Reset()

	require.NoError(t, f.cart.UpdateQuantity(ctx, 99, 4))

	assert.Equal(t, 1, f.cart.ItemCount())
	assert.Empty(t, f.rec.Views)
	assert.Empty(t, f.rec.Notifications)
}

func TestUpdateQuantity_AboveLimitRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 1))
	f.rec.Reset()

	err := f.cart.UpdateQuantity(ctx, 1, MaxQuantityPerItem+1)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	assert.Equal(t, 1, f.cart.ItemCount())
	require.Len(t, f.rec.Notifications, 1)
	assert.Equal(t, domain.NotificationError, f.rec.Notifications[0].Kind)
}

func TestUpdateQuantity_UnknownIDAboveLimitIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 1))
	f.rec.Reset()

	require.NoError(t, f.cart.UpdateQuantity(ctx, 99, MaxQuantityPerItem+1))

	assert.Equal(t, 1, f.cart.ItemCount())
	assert.Empty(t, f.rec.Views)
	assert.Empty(t, f.rec.Notifications)
}

// --- ClearCart Tests ---

func TestClearCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 2))
	require.NoError(t, f.cart.AddItem(ctx, product(2, "$1.800"), 1))
	f.rec.Reset()

	require.NoError(t, f.cart.ClearCart(ctx))

	assert.Equal(t, 0, f.cart.ItemCount())
	assert.Empty(t, storedItems(t, f.kv))
	raw, err := f.kv.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	require.Len(t, f.rec.Views, 1)
	assert.Empty(t, f.rec.Notifications)
}

// --- Items Tests ---

func TestItems_ReturnsCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, product(1, "$5.000"), 1))

	items := f.cart.Items()
	items[0].Quantity = 50
	items[0].Thumbnails[0] = "mutated.jpg"

	fresh := f.cart.Items()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, "assets/p-1.jpg", fresh[0].Thumbnails[0])
}

func TestNilListenerAndLogger(t *testing.T) {
	kvStore := memory.New()
	s := New(context.Background(), kvStore, kv.NewOrderRepository(kvStore, logger.Discard()), nil, nil)
	require.NoError(t, s.AddItem(context.Background(), product(1, "$5.000"), 1))
	assert.Equal(t, 1, s.ItemCount())
}
