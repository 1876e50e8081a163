package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/retail-ledger/ledger"
)

func TestLoad_EmptyReturnsNil(t *testing.T) {
	s := New()
	l, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestSaveLoad_CloneIndependence(t *testing.T) {
	s := New()
	ctx := context.Background()

	l := ledger.New()
	l.Products = []ledger.Product{{ID: "p-1", Name: "Oil", Stock: 10}}
	require.NoError(t, s.Save(ctx, l))

	// Mutating the saved-from ledger does not leak into the store
	l.Products[0].Stock = 0

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 10, loaded.Products[0].Stock)

	// Nor does mutating a loaded copy
	loaded.Products[0].Stock = 3
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, again.Products[0].Stock)
}
