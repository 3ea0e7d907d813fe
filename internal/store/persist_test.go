package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core"
)

func TestLedger_AppendAndListRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ledger, err := OpenLedger(path)
	require.NoError(t, err)
	defer ledger.Close()

	trades := []core.TradeRecord{
		{Datetime: dt(1), Stock: stock(), Business: core.BusinessBuy, RealPrice: 100, Number: 10, Part: core.PartSignal},
		{Datetime: dt(2), Stock: stock(), Business: core.BusinessSell, RealPrice: 110, Number: 10, Part: core.PartStoploss},
		core.NoneTrade(dt(3), stock(), core.PartSignal),
	}

	ctx := context.Background()
	require.NoError(t, ledger.AppendRun(ctx, "run-1", trades))

	out, err := ledger.ListRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, out, 2, "rejected NONE trades are not persisted")
	assert.Equal(t, core.BusinessBuy, out[0].Business)
	assert.Equal(t, core.BusinessSell, out[1].Business)
}

func TestLedger_ListRun_ScopedToRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ledger, err := OpenLedger(path)
	require.NoError(t, err)
	defer ledger.Close()

	ctx := context.Background()
	require.NoError(t, ledger.AppendRun(ctx, "run-a", []core.TradeRecord{
		{Datetime: dt(1), Stock: stock(), Business: core.BusinessBuy, Number: 5},
	}))
	require.NoError(t, ledger.AppendRun(ctx, "run-b", []core.TradeRecord{
		{Datetime: dt(1), Stock: stock(), Business: core.BusinessBuy, Number: 7},
	}))

	out, err := ledger.ListRun(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 5.0, out[0].Number)
}

func TestOpenLedger_RejectsEmptyPath(t *testing.T) {
	_, err := OpenLedger("  ")
	assert.Error(t, err)
}
