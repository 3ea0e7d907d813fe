package candle

import (
	"context"
	"fmt"

	"tradecore/internal/core"
)

// DataSource is the external collaborator the Trading System is handed a
// bound candle series from: instrument metadata, the candle series itself,
// and (eventually) a market calendar. Persistence and transport are the
// Store's concern; DataSource only resolves instrument identity on top of
// it, since the Store already speaks core.KRecord natively.
type DataSource struct {
	store     *Store
	timeframe string
	registry  map[string]core.Stock
}

// NewDataSource wraps a Store with a fixed timeframe and an instrument
// registry used to resolve Stock metadata by symbol.
func NewDataSource(store *Store, timeframe string) *DataSource {
	return &DataSource{store: store, timeframe: timeframe, registry: make(map[string]core.Stock)}
}

// RegisterStock attaches trading metadata (lot size, tick size,
// multiplier) to a symbol so that GetStock can resolve it.
func (ds *DataSource) RegisterStock(symbol string, stock core.Stock) {
	ds.registry[symbol] = stock
}

func (ds *DataSource) GetStock(symbol string) (core.Stock, error) {
	s, ok := ds.registry[symbol]
	if !ok {
		return core.Stock{}, fmt.Errorf("candle: unknown instrument: %s", symbol)
	}
	return s, nil
}

// GetKRecordList loads the full candle history for symbol, ordered by
// datetime ascending, the shape the Trading System iterates bar by bar.
func (ds *DataSource) GetKRecordList(ctx context.Context, symbol string) (core.KRecordList, error) {
	return ds.store.ListAllKRecords(ctx, symbol, ds.timeframe)
}

// GetKRecordRange loads the candle history for symbol within [start,end]
// (unix milliseconds, matching the Store's open_time column).
func (ds *DataSource) GetKRecordRange(ctx context.Context, symbol string, start, end int64) (core.KRecordList, error) {
	return ds.store.RangeKRecords(ctx, symbol, ds.timeframe, start, end)
}
