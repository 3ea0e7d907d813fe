package system

import "tradecore/internal/core"

// priorityOrder is the dispatch order for the four deferred-order slots:
// long-buy, long-sell, short-sell, short-buy. At most one fires per bar.
var priorityOrder = [4]core.Direction{
	core.DirLongBuy, core.DirLongSell, core.DirShortSell, core.DirShortBuy,
}

// RunMoment executes the per-bar procedure for one candle: the
// degenerate-bar gate, delayed-order dispatch, then the
// environment/condition/signal/position-management decision phases in
// that order. It is not reentrant.
func (ts *TradingSystem) RunMoment(k core.KRecord) (core.TradeRecord, error) {
	if k.Degenerate() && !ts.params.GetBool(ParamCanTradeWhenHighEqLow) {
		ts.bumpAllPending()
		return core.NoneTrade(k.Datetime, ts.stock, core.PartOther), nil
	}

	if tr := ts.processPendingRequests(k); !tr.IsNone() {
		return tr, nil
	}
	if tr := ts.environmentPhase(k); !tr.IsNone() {
		return tr, nil
	}
	if tr := ts.conditionPhase(k); !tr.IsNone() {
		return tr, nil
	}
	if tr := ts.signalPhase(k); !tr.IsNone() {
		return tr, nil
	}
	if tr := ts.positionManagementPhase(k); !tr.IsNone() {
		return tr, nil
	}
	return core.NoneTrade(k.Datetime, ts.stock, core.PartOther), nil
}

func (ts *TradingSystem) hasLong() bool  { return ts.tm.Have(ts.stock) }
func (ts *TradingSystem) hasShort() bool { return ts.tm.HaveShort(ts.stock) }

// environmentPhase and conditionPhase only ever drive the long side: both
// check hasLong() for the exit branch and !hasLong() for the entry branch,
// so neither phase opens or closes a short position. A short is entered
// and exited entirely through signalPhase and manageShortPosition.
func (ts *TradingSystem) environmentPhase(k core.KRecord) core.TradeRecord {
	if ts.ev == nil {
		return core.NoneTrade(k.Datetime, ts.stock, core.PartEnvironment)
	}
	valid := ts.ev.IsValid(k.Datetime)
	prev := ts.preEVValid
	tr := core.NoneTrade(k.Datetime, ts.stock, core.PartEnvironment)
	switch {
	case prev && !valid && ts.hasLong():
		tr = ts.decideOrSubmit(core.DirLongSell, core.PartEnvironment, k.Datetime, k.Close)
	case !prev && valid && ts.params.GetBool(ParamEVOpenPosition) && !ts.hasLong():
		tr = ts.decideOrSubmit(core.DirLongBuy, core.PartEnvironment, k.Datetime, k.Close)
	}
	ts.preEVValid = valid
	return tr
}

func (ts *TradingSystem) conditionPhase(k core.KRecord) core.TradeRecord {
	if ts.cn == nil {
		return core.NoneTrade(k.Datetime, ts.stock, core.PartCondition)
	}
	valid := ts.cn.IsValid(k.Datetime)
	prev := ts.preCNValid
	tr := core.NoneTrade(k.Datetime, ts.stock, core.PartCondition)
	switch {
	case prev && !valid && ts.hasLong():
		tr = ts.decideOrSubmit(core.DirLongSell, core.PartCondition, k.Datetime, k.Close)
	case !prev && valid && ts.params.GetBool(ParamCNOpenPosition) && !ts.hasLong():
		tr = ts.decideOrSubmit(core.DirLongBuy, core.PartCondition, k.Datetime, k.Close)
	}
	ts.preCNValid = valid
	return tr
}

// signalPhase resolves buy-vs-sell ties by letting buy win, matching the
// source's (undocumented, preserved-as-arbitrary) tie-break.
func (ts *TradingSystem) signalPhase(k core.KRecord) core.TradeRecord {
	buy := ts.sg.ShouldBuy(k.Datetime)
	sell := ts.sg.ShouldSell(k.Datetime)
	borrowStock := ts.params.GetBool(ParamSupportBorrowStock)

	switch {
	case buy && borrowStock && ts.hasShort():
		return ts.decideOrSubmit(core.DirShortBuy, core.PartSignal, k.Datetime, k.Close)
	case buy && !ts.hasLong():
		return ts.decideOrSubmit(core.DirLongBuy, core.PartSignal, k.Datetime, k.Close)
	case sell && !buy && ts.hasLong() && !ts.params.GetBool(ParamIgnoreSellSG):
		return ts.decideOrSubmit(core.DirLongSell, core.PartSignal, k.Datetime, k.Close)
	case sell && borrowStock && !ts.hasLong() && !ts.hasShort():
		return ts.decideOrSubmit(core.DirShortSell, core.PartSignal, k.Datetime, k.Close)
	}
	return core.NoneTrade(k.Datetime, ts.stock, core.PartSignal)
}

func (ts *TradingSystem) positionManagementPhase(k core.KRecord) core.TradeRecord {
	switch {
	case ts.hasLong():
		return ts.manageLongPosition(k)
	case ts.params.GetBool(ParamSupportBorrowStock) && ts.hasShort():
		return ts.manageShortPosition(k)
	}
	return core.NoneTrade(k.Datetime, ts.stock, core.PartOther)
}

func (ts *TradingSystem) manageLongPosition(k core.KRecord) core.TradeRecord {
	ts.barsSinceEntry++
	ts.buyDays++
	pos := ts.tm.GetPosition(ts.stock)
	if pos.Stoploss > 0 && k.Close <= pos.Stoploss {
		return ts.decideOrSubmit(core.DirLongSell, core.PartStoploss, k.Datetime, k.Close)
	}
	if ts.pg != nil {
		if goal := ts.pg.Get(k.Datetime, k.Close); goal > 0 && k.Close >= goal {
			return ts.decideOrSubmit(core.DirLongSell, core.PartProfitGoal, k.Datetime, k.Close)
		}
	}
	if ts.tp != nil && ts.barsSinceEntry >= ts.params.GetInt(ParamTPDelayN) {
		if tp := ts.tp.Get(k.Datetime, k.Close); tp > 0 {
			if ts.params.GetBool(ParamTPMonotonic) && ts.lastTakeProfit > 0 {
				tp = max(tp, ts.lastTakeProfit)
			}
			ts.lastTakeProfit = tp
			if k.Close <= tp {
				return ts.decideOrSubmit(core.DirLongSell, core.PartTakeProfit, k.Datetime, k.Close)
			}
		}
	}
	return core.NoneTrade(k.Datetime, ts.stock, core.PartOther)
}

func (ts *TradingSystem) manageShortPosition(k core.KRecord) core.TradeRecord {
	ts.barsSinceEntry++
	ts.sellShortDays++
	pos := ts.tm.GetShortPosition(ts.stock)
	if pos.Stoploss > 0 && k.Close >= pos.Stoploss {
		return ts.decideOrSubmit(core.DirShortBuy, core.PartStoploss, k.Datetime, k.Close)
	}
	if ts.pg != nil {
		if goal := ts.pg.Get(k.Datetime, k.Close); goal > 0 && k.Close <= goal {
			return ts.decideOrSubmit(core.DirShortBuy, core.PartProfitGoal, k.Datetime, k.Close)
		}
	}
	if ts.tp != nil && ts.barsSinceEntry >= ts.params.GetInt(ParamTPDelayN) {
		if tp := ts.tp.Get(k.Datetime, k.Close); tp > 0 {
			if ts.params.GetBool(ParamTPMonotonic) && ts.lastTakeProfit > 0 {
				tp = min(tp, ts.lastTakeProfit)
			}
			ts.lastTakeProfit = tp
			if k.Close >= tp {
				return ts.decideOrSubmit(core.DirShortBuy, core.PartTakeProfit, k.Datetime, k.Close)
			}
		}
	}
	return core.NoneTrade(k.Datetime, ts.stock, core.PartOther)
}
