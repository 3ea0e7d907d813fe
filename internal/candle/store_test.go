package candle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core"
)

func sampleBars() core.KRecordList {
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	return core.KRecordList{
		{Datetime: core.NewDatetime(base), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100, Amount: 1050},
		{Datetime: core.NewDatetime(base.Add(time.Minute)), Open: 10.5, High: 12, Low: 10, Close: 11.5, Volume: 150, Amount: 1725},
		{Datetime: core.NewDatetime(base.Add(2 * time.Minute)), Open: 11.5, High: 13, Low: 11, Close: 12.5, Volume: 200, Amount: 2500},
	}
}

func TestStore_InsertAndListAllKRecords(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	bars := sampleBars()
	n, err := store.InsertKRecords(ctx, "btcusdt", "1m", bars)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := store.ListAllKRecords(ctx, "btcusdt", "1m")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Datetime.Equal(bars[0].Datetime))
	assert.True(t, all[2].Datetime.Equal(bars[2].Datetime))
}

func TestStore_InsertKRecords_SkipsInvalidBars(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	bars := sampleBars()
	bars[1].High = bars[1].Low - 1 // high < low: fails core.KRecord.IsValid

	ctx := context.Background()
	n, err := store.InsertKRecords(ctx, "btcusdt", "1m", bars)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "the invalid bar must be skipped, not persisted")

	all, err := store.ListAllKRecords(ctx, "btcusdt", "1m")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestStore_InsertKRecords_UpsertsOnDuplicateOpenTime(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	bars := sampleBars()
	_, err = store.InsertKRecords(ctx, "btcusdt", "1m", bars)
	require.NoError(t, err)

	updated := bars[:1]
	updated[0].Close = 999
	updated[0].High = 999
	_, err = store.InsertKRecords(ctx, "btcusdt", "1m", updated)
	require.NoError(t, err)

	all, err := store.ListAllKRecords(ctx, "btcusdt", "1m")
	require.NoError(t, err)
	require.Len(t, all, 3, "duplicate open_time must overwrite, not append")
	assert.Equal(t, 999.0, all[0].Close)
}

func TestStore_RangeKRecords_FiltersByOpenTime(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	bars := sampleBars()
	_, err = store.InsertKRecords(ctx, "btcusdt", "1m", bars)
	require.NoError(t, err)

	start := bars[1].Datetime.Time().UnixMilli()
	end := bars[2].Datetime.Time().UnixMilli()
	out, err := store.RangeKRecords(ctx, "btcusdt", "1m", start, end)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].Datetime.Equal(bars[1].Datetime))
}

func TestStore_RangeKRecords_RejectsNonPositiveBounds(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.RangeKRecords(context.Background(), "btcusdt", "1m", 0, 0)
	assert.Error(t, err)
}

func TestStore_Manifest_ReflectsInsertedRows(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	bars := sampleBars()
	_, err = store.InsertKRecords(ctx, "btcusdt", "1m", bars)
	require.NoError(t, err)

	m, err := store.Manifest(ctx, "btcusdt", "1m")
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.Rows)
	assert.Equal(t, bars[0].Datetime.Time().UnixMilli(), m.MinTime)
	assert.Equal(t, bars[2].Datetime.Time().UnixMilli(), m.MaxTime)
}

func TestStore_QueryKRecords_DefaultsToMostRecentWhenNoBounds(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_, err = store.InsertKRecords(ctx, "btcusdt", "1m", sampleBars())
	require.NoError(t, err)

	out, err := store.QueryKRecords(ctx, "btcusdt", "1m", 0, 0, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].Datetime.Before(out[1].Datetime), "results are returned in ascending order even for the default (most-recent) query")
}

func TestNewStore_RejectsEmptyRoot(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}
