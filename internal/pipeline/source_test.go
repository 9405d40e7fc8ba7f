package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/couchcryptid/order-fulfillment-engine/internal/pipeline"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_Snapshot(t *testing.T) {
	snap, err := pipeline.NewFileSource(filepath.Join("testdata", "snapshot.json")).Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Orders, 2)
	o := snap.Orders[0]
	assert.Equal(t, domain.OrderID(1), o.ID)
	assert.Equal(t, domain.Address("Moscow, Leninsky prospekt 30"), o.Address)
	assert.Equal(t, domain.StatusUnprocessed, o.Status)
	require.Len(t, o.Items, 2)
	assert.True(t, decimal.RequireFromString("820.50").Equal(o.TotalCost()))

	assert.Len(t, snap.Restaurants, 2)
	assert.Len(t, snap.Products, 2)
	assert.Len(t, snap.Availability, 4)
	assert.False(t, snap.Availability[3].Available)
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := pipeline.NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Snapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read snapshot file")
}

func TestFileSource_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := pipeline.NewFileSource(path).Snapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode snapshot")
}
