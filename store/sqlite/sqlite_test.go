package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/retail-ledger/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoad_EmptyStoreReturnsNil(t *testing.T) {
	store := newTestStore(t)

	l, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	l := ledger.New()
	l.InitialCash = decimal.RequireFromString("250.75")
	l.Products = []ledger.Product{
		{ID: "p-1", Name: "Oil", Price: decimal.NewFromInt(100), CostPrice: decimal.NewFromInt(60), Stock: 10},
	}
	l.Sales = []ledger.Sale{
		{
			ID:        "sale-1",
			Timestamp: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
			Items:     []ledger.SaleItem{{ProductID: "p-1", Name: "Oil", UnitPrice: decimal.NewFromInt(100), Quantity: 2}},
			Total:     decimal.NewFromInt(200),
			Status:    ledger.SaleCompleted,
		},
	}
	require.NoError(t, store.Save(ctx, l))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.True(t, loaded.InitialCash.Equal(l.InitialCash))
	require.Len(t, loaded.Products, 1)
	assert.Equal(t, 10, loaded.Products[0].Stock)
	require.Len(t, loaded.Sales, 1)
	assert.True(t, loaded.Sales[0].Total.Equal(decimal.NewFromInt(200)))
	require.Len(t, loaded.Sales[0].Items, 1)
	assert.Equal(t, 2, loaded.Sales[0].Items[0].Quantity)
}

func TestSave_ReplacesPreviousSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := ledger.New()
	first.Products = []ledger.Product{{ID: "p-1", Name: "Oil", Stock: 10}}
	require.NoError(t, store.Save(ctx, first))

	second := first.Clone()
	second.Products[0].Stock = 7
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 7, loaded.Products[0].Stock, "only the latest snapshot survives")
}
