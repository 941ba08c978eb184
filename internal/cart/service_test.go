package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/luissince/architect-portfolio-sub000/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewService(context.Background(), store, "local"), store
}

func candidate(productID string, price int64, quantity int) Candidate {
	return Candidate{
		ProductID: productID,
		Name:      "Nordica Lounge Chair",
		Image:     "/images/products/nordica-chair.jpg",
		Category:  "furniture",
		Price:     decimal.NewFromInt(price),
		Quantity:  quantity,
	}
}

func TestAddItem_MergesOnProductID(t *testing.T) {
	sut, _ := newTestService(t)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, candidate("f1", 450, 1))
	require.NoError(t, err)

	updated, err := sut.AddItem(ctx, candidate("f1", 450, 2))
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, 3, updated.Items[0].Quantity)
	assert.True(t, updated.TotalPrice().Equal(decimal.NewFromInt(1350)))
}

func TestAddItem_FirstWriteWinsForSnapshot(t *testing.T) {
	sut, _ := newTestService(t)
	ctx := context.Background()

	first, err := sut.AddItem(ctx, candidate("f1", 450, 1))
	require.NoError(t, err)

	// Same product, different display snapshot and price: the existing
	// line keeps what it captured at add time.
	second := candidate("f1", 999, 1)
	second.Name = "Renamed Chair"
	updated, err := sut.AddItem(ctx, second)
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, first.Items[0].Name, updated.Items[0].Name)
	assert.True(t, updated.Items[0].Price.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, 2, updated.Items[0].Quantity)
}

func TestAddItem_DistinctProductsGetDistinctLines(t *testing.T) {
	sut, _ := newTestService(t)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, candidate("f1", 450, 1))
	require.NoError(t, err)
	updated, err := sut.AddItem(ctx, candidate("l2", 180, 2))
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.NotEqual(t, updated.Items[0].ID, updated.Items[1].ID)
	assert.Equal(t, 3, updated.TotalItems())
	assert.True(t, updated.TotalPrice().Equal(decimal.NewFromInt(810)))
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	sut, _ := newTestService(t)
	ctx := context.Background()

	for _, quantity := range []int{0, -3} {
		_, err := sut.AddItem(ctx, candidate("f1", 450, quantity))
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Empty(t, sut.Snapshot().Items)
}

func TestUpdateQuantity_SetsExactValue(t *testing.T) {
	sut, _ := newTestService(t)
	ctx := context.Background()

	added, err := sut.AddItem(ctx, candidate("f1", 450, 1))
	require.NoError(t, err)

	updated, err := sut.UpdateQuantity(ctx, added.Items[0].ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Items[0].Quantity)
	assert.Equal(t, 7, updated.TotalItems())
}

func TestUpdateQuantity_NonPositiveRemovesLine(t *testing.T) {
	sut, _ := newTestService(t)
	ctx := context.Background()

	added, err := sut.AddItem(ctx, candidate("f1", 450, 2))
	require.NoError(t, err)

	updated, err := sut.UpdateQuantity(ctx, added.Items[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, updated.Items)
	assert.Equal(t, 0, sut.TotalItems())
	assert.True(t, sut.TotalPrice().IsZero())
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	sut, _ := newTestService(t)

	_, err := sut.UpdateQuantity(context.Background(), "no-such-line", 2)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveItem_UnknownLineIsNoOp(t *testing.T) {
	sut, _ := newTestService(t)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, candidate("f1", 450, 1))
	require.NoError(t, err)

	updated, err := sut.RemoveItem(ctx, "no-such-line")
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
}

func TestClear_EmptiesCartAndStorage(t *testing.T) {
	sut, store := newTestService(t)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, candidate("f1", 450, 1))
	require.NoError(t, err)

	require.NoError(t, sut.Clear(ctx))
	assert.Empty(t, sut.Snapshot().Items)

	_, err = store.Get(ctx, "cart:local")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestHydration_RoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	first := NewService(ctx, store, "local")
	_, err := first.AddItem(ctx, candidate("f1", 450, 3))
	require.NoError(t, err)
	_, err = first.AddItem(ctx, candidate("l2", 180, 1))
	require.NoError(t, err)
	before := first.Snapshot()

	second := NewService(ctx, store, "local")
	after := second.Snapshot()

	require.Len(t, after.Items, len(before.Items))
	for i := range before.Items {
		assert.Equal(t, before.Items[i].ID, after.Items[i].ID)
		assert.Equal(t, before.Items[i].ProductID, after.Items[i].ProductID)
		assert.Equal(t, before.Items[i].Quantity, after.Items[i].Quantity)
		assert.True(t, before.Items[i].Price.Equal(after.Items[i].Price))
	}
	assert.True(t, before.TotalPrice().Equal(after.TotalPrice()))
}

func TestHydration_CorruptRecordFailsOpen(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "cart:local", []byte("{not json")))

	sut := NewService(ctx, store, "local")
	assert.Empty(t, sut.Snapshot().Items)
}

func TestSnapshot_IsDecoupledFromLaterMutations(t *testing.T) {
	sut, _ := newTestService(t)
	ctx := context.Background()

	added, err := sut.AddItem(ctx, candidate("f1", 450, 1))
	require.NoError(t, err)

	snapshot := sut.Snapshot()
	_, err = sut.UpdateQuantity(ctx, added.Items[0].ID, 9)
	require.NoError(t, err)

	assert.Equal(t, 1, snapshot.Items[0].Quantity)
}
