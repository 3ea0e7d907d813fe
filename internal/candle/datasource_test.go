package candle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core"
)

func TestDataSource_GetStock_UnknownSymbol(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ds := NewDataSource(store, "1m")
	_, err = ds.GetStock("ethusdt")
	assert.Error(t, err)
}

func TestDataSource_RegisterAndGetStock(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ds := NewDataSource(store, "1m")
	want := core.NewStock("SIM", "ETHUSDT", "Ether", 1, 0, 0.01, 1)
	ds.RegisterStock("ethusdt", want)

	got, err := ds.GetStock("ethusdt")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDataSource_GetKRecordList_ReadsFromStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	bars := sampleBars()
	_, err = store.InsertKRecords(ctx, "btcusdt", "1m", bars)
	require.NoError(t, err)

	ds := NewDataSource(store, "1m")
	list, err := ds.GetKRecordList(ctx, "btcusdt")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, bars[0].Close, list[0].Close)
	assert.Equal(t, bars[0].Amount, list[0].Amount)
}

func TestDataSource_GetKRecordRange_FiltersByWindow(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	bars := sampleBars()
	_, err = store.InsertKRecords(ctx, "btcusdt", "1m", bars)
	require.NoError(t, err)

	ds := NewDataSource(store, "1m")
	start := bars[1].Datetime.Time().UnixMilli()
	end := bars[2].Datetime.Time().UnixMilli()
	list, err := ds.GetKRecordRange(ctx, "btcusdt", start, end)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
