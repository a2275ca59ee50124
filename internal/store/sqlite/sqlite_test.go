package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armsatlas/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "atlas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRecord(id, supplier, recipient string) model.TradeRecord {
	return model.TradeRecord{
		ID:            id,
		Supplier:      supplier,
		Recipient:     recipient,
		OrderYear:     2014,
		Category:      "Aircraft",
		SupplierType:  model.RegionCountry,
		RecipientType: model.RegionCountry,
		SupplierCode:  "RUS",
		RecipientCode: "IND",
		Quantities: map[string]float64{
			"Numbers delivered":         12,
			"SIPRI TIV for total order": 480,
		},
	}
}

func TestRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := []model.TradeRecord{
		testRecord("10001", "Russia", "India"),
		testRecord("10002", "United States", "India"),
	}
	require.NoError(t, store.UpsertRecords(ctx, in))

	out, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "10001", out[0].ID)
	assert.Equal(t, "Russia", out[0].Supplier)
	assert.Equal(t, "India", out[0].Recipient)
	assert.Equal(t, 2014, out[0].OrderYear)
	assert.Equal(t, model.RegionCountry, out[0].SupplierType)
	assert.Equal(t, "RUS", out[0].SupplierCode)
	assert.InDelta(t, 480, out[0].Quantities["SIPRI TIV for total order"], 1e-9)
	assert.False(t, out[0].IngestedAt.IsZero())
}

func TestUpsertReplacesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := testRecord("10001", "Russia", "India")
	require.NoError(t, store.UpsertRecords(ctx, []model.TradeRecord{record}))

	record.Category = "Ships"
	record.Quantities["Numbers delivered"] = 3
	require.NoError(t, store.UpsertRecords(ctx, []model.TradeRecord{record}))

	out, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ships", out[0].Category)
	assert.InDelta(t, 3, out[0].Quantities["Numbers delivered"], 1e-9)
}

func TestUpsertKeepsExplicitIngestedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := testRecord("10001", "Russia", "India")
	record.IngestedAt = time.Date(2020, time.March, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertRecords(ctx, []model.TradeRecord{record}))

	out, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, record.IngestedAt.Equal(out[0].IngestedAt))
}

func TestEmptyUpsertAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertRecords(ctx, nil))

	out, err := store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
