// Package system implements the per-bar Trading System state machine:
// environment -> condition -> signal -> position-management ordering, the
// four-direction delayed-order protocol, and short-side symmetry.
package system

import (
	"fmt"

	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// TradingSystem drives one instrument through a candle series, producing
// TradeRecords by delegating entry/exit decisions to plugins and
// bookkeeping to a TradeManager. A TradingSystem is single-threaded and
// runMoment is not reentrant; use Clone to run sibling instances in
// parallel on separate goroutines.
type TradingSystem struct {
	params *core.ParamSet
	stock  core.Stock

	ev plugin.Environment
	cn plugin.Condition
	sg plugin.Signal
	st plugin.Stoploss
	tp plugin.TakeProfit
	pg plugin.ProfitGoal
	mm plugin.MoneyManager
	sp plugin.Slippage
	tm plugin.TradeManager
	cm plugin.CostModel

	// preEVValid/preCNValid track the prior bar's gate state so phase
	// handlers can detect true<->false transitions. Pristine state is
	// false: New leaves both false and Reset clears them back to false, so
	// a gate that is valid on the first bar reads as a false->true
	// transition.
	preEVValid bool
	preCNValid bool

	// reqs holds the four deferred order buffers, indexed by Direction.
	// At most one is Valid per direction at a time; a second submission
	// to the same direction coalesces into the existing buffer.
	reqs [4]core.OrderRequest

	// buyDays/sellShortDays mirror m_buy_days/m_sell_short_days: running
	// counters of bars spent long/short. No decision path reads them yet;
	// kept for parity and for a future holding-period plugin to consume.
	buyDays       int
	sellShortDays int

	// lastTakeProfit mirrors m_lastTakeProfit: seeded at the real fill
	// price of the current position's entry, ratcheted while held, and
	// zeroed once flat.
	lastTakeProfit float64
	barsSinceEntry int

	ready bool
}

func New() *TradingSystem {
	ts := &TradingSystem{params: core.NewParamSet()}
	ts.initParam()
	return ts
}

func (ts *TradingSystem) initParam() {
	p := ts.params
	p.Declare(ParamMaxDelayCount, 3)
	p.Declare(ParamDelay, true)
	p.Declare(ParamDelayUseCurrentPrice, true)
	p.Declare(ParamTPMonotonic, true)
	p.Declare(ParamTPDelayN, 3)
	p.Declare(ParamIgnoreSellSG, false)
	p.Declare(ParamCanTradeWhenHighEqLow, false)
	p.Declare(ParamEVOpenPosition, false)
	p.Declare(ParamCNOpenPosition, false)
	p.Declare(ParamSupportBorrowCash, false)
	p.Declare(ParamSupportBorrowStock, false)
}

func (ts *TradingSystem) GetParam(key string) (any, error) { return ts.params.GetParam(key) }
func (ts *TradingSystem) SetParam(key string, value any) error {
	return ts.params.SetParam(key, value)
}

// SetEnvironment, SetCondition, ... wire the plugin tree. Each setter only
// stores the given instance; it does not bind it to the current series, so
// a plugin wired after SetTO sees no candles until SetTO runs again.
func (ts *TradingSystem) SetEnvironment(ev plugin.Environment) { ts.ev = ev }
func (ts *TradingSystem) SetCondition(cn plugin.Condition)     { ts.cn = cn }
func (ts *TradingSystem) SetSignal(sg plugin.Signal)           { ts.sg = sg }
func (ts *TradingSystem) SetStoploss(st plugin.Stoploss)       { ts.st = st }
func (ts *TradingSystem) SetTakeProfit(tp plugin.TakeProfit)   { ts.tp = tp }
func (ts *TradingSystem) SetProfitGoal(pg plugin.ProfitGoal)   { ts.pg = pg }
func (ts *TradingSystem) SetMoneyManager(mm plugin.MoneyManager) { ts.mm = mm }
func (ts *TradingSystem) SetSlippage(sp plugin.Slippage)       { ts.sp = sp }
func (ts *TradingSystem) SetTradeManager(tm plugin.TradeManager) { ts.tm = tm }
func (ts *TradingSystem) SetCostModel(cm plugin.CostModel)     { ts.cm = cm }

func (ts *TradingSystem) TradeManager() plugin.TradeManager { return ts.tm }
func (ts *TradingSystem) Stock() core.Stock                 { return ts.stock }

// Reset returns all wired plugins to their pristine state and clears
// trade-list-adjacent TS state (request buffers, gate history, day
// counters). It does not forget which plugins are wired, nor the bound
// stock, matching reset(with_tm=false)'s usual call shape.
func (ts *TradingSystem) Reset() {
	ts.preEVValid = false
	ts.preCNValid = false
	for i := range ts.reqs {
		ts.reqs[i].Clear()
	}
	ts.buyDays = 0
	ts.sellShortDays = 0
	ts.lastTakeProfit = 0
	ts.barsSinceEntry = 0

	for _, q := range []plugin.Queryable{ts.ev, ts.cn, ts.sg, ts.st, ts.tp, ts.pg, ts.mm, ts.sp} {
		if q != nil {
			q.Reset()
		}
	}
}

// SetTO binds the TS to one instrument's candle series, propagating the
// binding to every queryable plugin.
func (ts *TradingSystem) SetTO(stock core.Stock, k core.KRecordList) {
	ts.stock = stock
	for _, q := range []plugin.Queryable{ts.ev, ts.cn, ts.sg, ts.st, ts.tp, ts.pg, ts.mm, ts.sp} {
		if q != nil {
			q.SetTO(k)
		}
	}
	if ts.cn != nil {
		ts.cn.SetTM(ts.tm)
		ts.cn.SetSG(ts.sg)
	}
}

// Clone produces an independent TradingSystem: a deep copy of the
// parameter map and every plugin, so the clone and the original may run
// concurrently on separate goroutines with no shared mutable state.
func (ts *TradingSystem) Clone() *TradingSystem {
	out := &TradingSystem{
		params:        ts.params.Clone(),
		stock:         ts.stock,
		preEVValid:    ts.preEVValid,
		preCNValid:    ts.preCNValid,
		reqs:          ts.reqs,
		buyDays:        ts.buyDays,
		sellShortDays:  ts.sellShortDays,
		lastTakeProfit: ts.lastTakeProfit,
		barsSinceEntry: ts.barsSinceEntry,
		ready:          ts.ready,
	}
	if ts.ev != nil {
		out.ev = ts.ev.Clone()
	}
	if ts.cn != nil {
		out.cn = ts.cn.Clone()
	}
	if ts.sg != nil {
		out.sg = ts.sg.Clone()
	}
	if ts.st != nil {
		out.st = ts.st.Clone()
	}
	if ts.tp != nil {
		out.tp = ts.tp.Clone()
	}
	if ts.pg != nil {
		out.pg = ts.pg.Clone()
	}
	if ts.mm != nil {
		out.mm = ts.mm.Clone()
	}
	if ts.sp != nil {
		out.sp = ts.sp.Clone()
	}
	if ts.tm != nil {
		out.tm = ts.tm.Clone()
	}
	if ts.cm != nil {
		out.cm = ts.cm.Clone()
	}
	if out.cn != nil {
		out.cn.SetTM(out.tm)
		out.cn.SetSG(out.sg)
	}
	return out
}

// ReadyForRun validates that the required plugins are wired and
// propagates borrow-cash/borrow-stock support down to the TradeManager.
// Per the failure semantics, a missing TradeManager, MoneyManager or
// Signal is a hard configuration error.
func (ts *TradingSystem) ReadyForRun() error {
	if ts.tm == nil {
		return fmt.Errorf("system: missing TradeManager")
	}
	if ts.mm == nil {
		return fmt.Errorf("system: missing MoneyManager")
	}
	if ts.sg == nil {
		return fmt.Errorf("system: missing Signal")
	}
	if ts.cn != nil {
		ts.cn.SetTM(ts.tm)
		ts.cn.SetSG(ts.sg)
	}
	ts.preEVValid = false
	ts.preCNValid = false
	if err := ts.tm.SetParam(ParamSupportBorrowCash, ts.params.GetBool(ParamSupportBorrowCash)); err != nil {
		return err
	}
	if err := ts.tm.SetParam(ParamSupportBorrowStock, ts.params.GetBool(ParamSupportBorrowStock)); err != nil {
		return err
	}
	ts.ready = true
	return nil
}

// Run iterates every bar whose datetime is >= the TradeManager's
// InitDatetime, calling RunMoment in order. Bars are assumed already
// sorted ascending per the strictly-increasing-datetime invariant.
func (ts *TradingSystem) Run(k core.KRecordList, reset bool) ([]core.TradeRecord, error) {
	if reset {
		ts.Reset()
	}
	if !ts.ready {
		if err := ts.ReadyForRun(); err != nil {
			return nil, err
		}
	}
	init := ts.tm.InitDatetime()
	var produced []core.TradeRecord
	for _, bar := range k {
		if bar.Datetime.Before(init) {
			continue
		}
		tr, err := ts.RunMoment(bar)
		if err != nil {
			return produced, err
		}
		if !tr.IsNone() {
			produced = append(produced, tr)
		}
	}
	return produced, nil
}
