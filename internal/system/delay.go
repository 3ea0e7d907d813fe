package system

import (
	"tradecore/internal/core"
	"tradecore/internal/logger"
)

// decideOrSubmit computes stoploss/goal/number for a just-made decision
// and either fills it immediately at planPrice (delay=false) or submits
// it into the direction's buffer for next-bar execution (delay=true).
func (ts *TradingSystem) decideOrSubmit(dir core.Direction, from core.Part, dt core.Datetime, planPrice float64) core.TradeRecord {
	stoploss, goal, number, ok := ts.computeOrderParams(dir, dt, planPrice, from)
	if !ok {
		return core.NoneTrade(dt, ts.stock, from)
	}
	if !ts.params.GetBool(ParamDelay) {
		return ts.executeFill(dir, from, dt, planPrice, stoploss, goal, number)
	}
	ts.submit(dir, from, dt, planPrice, stoploss, goal, number)
	return core.NoneTrade(dt, ts.stock, from)
}

// submit creates or coalesces the buffer for dir. A second submission
// while one is pending updates the buffer in place rather than queueing
// a second request.
func (ts *TradingSystem) submit(dir core.Direction, from core.Part, dt core.Datetime, planPrice, stoploss, goal, number float64) {
	req := &ts.reqs[dir]
	if !req.Valid {
		*req = core.OrderRequest{
			Valid: true, Business: directionBusiness(dir), From: from,
			Datetime: dt, PlanPrice: planPrice, Stoploss: stoploss, Goal: goal,
			Number: number, Count: 1,
		}
		return
	}
	req.Count++
	if req.Count > ts.params.GetInt(ParamMaxDelayCount) {
		logger.Warnf("system: discarding delayed %s request for %s after %d retries", req.Business, ts.stock.Identity(), req.Count-1)
		req.Clear()
		return
	}
	req.From = from
	req.Datetime = dt
	req.PlanPrice = planPrice
	if ts.params.GetBool(ParamDelayUseCurrentPrice) {
		req.Stoploss = stoploss
		req.Goal = goal
		req.Number = number
	}
}

// bumpAllPending is the degenerate-bar response: every live buffer is
// re-submitted (counter bumped, discarded past max_delay_count) without
// attempting execution.
func (ts *TradingSystem) bumpAllPending() {
	maxDelay := ts.params.GetInt(ParamMaxDelayCount)
	for i := range ts.reqs {
		req := &ts.reqs[i]
		if !req.Valid {
			continue
		}
		req.Count++
		if req.Count > maxDelay {
			logger.Warnf("system: discarding delayed %s request for %s on degenerate bar after %d retries", req.Business, ts.stock.Identity(), req.Count-1)
			req.Clear()
		}
	}
}

// processPendingRequests dispatches the first valid buffer in priority
// order and executes (or discards) it against the current bar's open.
func (ts *TradingSystem) processPendingRequests(k core.KRecord) core.TradeRecord {
	for _, dir := range priorityOrder {
		if ts.reqs[dir].Valid {
			return ts.executeDelayed(dir, k)
		}
	}
	return core.NoneTrade(k.Datetime, ts.stock, core.PartOther)
}

func (ts *TradingSystem) executeDelayed(dir core.Direction, k core.KRecord) core.TradeRecord {
	req := &ts.reqs[dir]
	from := req.From
	planPrice := k.Open
	stoploss, goal, number := req.Stoploss, req.Goal, req.Number

	if ts.params.GetBool(ParamDelayUseCurrentPrice) {
		s, g, n, ok := ts.computeOrderParams(dir, k.Datetime, planPrice, from)
		if !ok {
			req.Clear()
			return core.NoneTrade(k.Datetime, ts.stock, from)
		}
		stoploss, goal, number = s, g, n
	}

	if !ts.passesEntryGuard(dir, planPrice, stoploss) || number <= 0 {
		logger.Warnf("system: rejecting delayed %s request for %s at open=%.4f (stoploss=%.4f, number=%.4f)", req.Business, ts.stock.Identity(), planPrice, stoploss, number)
		req.Clear()
		return core.NoneTrade(k.Datetime, ts.stock, from)
	}

	tr := ts.executeFill(dir, from, k.Datetime, planPrice, stoploss, goal, number)
	req.Clear()
	return tr
}

// passesEntryGuard enforces invariant 5: planPrice > stoploss for a long
// entry, planPrice < stoploss for a short entry. Exits have no such
// constraint.
func (ts *TradingSystem) passesEntryGuard(dir core.Direction, planPrice, stoploss float64) bool {
	switch dir {
	case core.DirLongBuy:
		return stoploss == 0 || planPrice > stoploss
	case core.DirShortSell:
		return stoploss == 0 || planPrice < stoploss
	default:
		return true
	}
}

// computeOrderParams derives stoploss/goal/number for a direction at a
// given plan price, enforcing the entry-price-vs-stoploss guard and the
// full-holding-on-stoploss-exit rule.
func (ts *TradingSystem) computeOrderParams(dir core.Direction, dt core.Datetime, planPrice float64, from core.Part) (stoploss, goal, number float64, ok bool) {
	switch dir {
	case core.DirLongBuy:
		if ts.st != nil {
			stoploss = ts.st.Get(dt, planPrice)
		}
		if !ts.passesEntryGuard(dir, planPrice, stoploss) {
			return 0, 0, 0, false
		}
		if ts.pg != nil {
			goal = ts.pg.Get(dt, planPrice)
		}
		number = ts.stock.RoundLot(ts.mm.GetBuyNum(dt, ts.stock, planPrice, planPrice-stoploss, from))
		return stoploss, goal, number, number > 0

	case core.DirShortSell:
		if ts.st != nil {
			stoploss = ts.st.Get(dt, planPrice)
		}
		if !ts.passesEntryGuard(dir, planPrice, stoploss) {
			return 0, 0, 0, false
		}
		if ts.pg != nil {
			goal = ts.pg.Get(dt, planPrice)
		}
		number = ts.stock.RoundLot(ts.mm.GetSellShortNum(dt, ts.stock, planPrice, stoploss-planPrice, from))
		return stoploss, goal, number, number > 0

	case core.DirLongSell:
		pos := ts.tm.GetPosition(ts.stock)
		stoploss, goal = pos.Stoploss, pos.GoalPrice
		if from == core.PartStoploss {
			number = pos.Number
		} else {
			number = ts.stock.RoundLot(ts.mm.GetSellNum(dt, ts.stock, planPrice, planPrice-stoploss, from))
			if number > pos.Number {
				number = pos.Number
			}
		}
		return stoploss, goal, number, number > 0

	case core.DirShortBuy:
		pos := ts.tm.GetShortPosition(ts.stock)
		stoploss, goal = pos.Stoploss, pos.GoalPrice
		if from == core.PartStoploss {
			number = pos.Number
		} else {
			number = ts.stock.RoundLot(ts.mm.GetBuyShortNum(dt, ts.stock, planPrice, stoploss-planPrice, from))
			if number > pos.Number {
				number = pos.Number
			}
		}
		return stoploss, goal, number, number > 0
	}
	return 0, 0, 0, false
}

func directionBusiness(dir core.Direction) core.Business {
	switch dir {
	case core.DirLongBuy:
		return core.BusinessBuy
	case core.DirLongSell:
		return core.BusinessSell
	case core.DirShortSell:
		return core.BusinessSellShort
	case core.DirShortBuy:
		return core.BusinessBuyShort
	default:
		return core.BusinessNone
	}
}

func (ts *TradingSystem) executeFill(dir core.Direction, from core.Part, dt core.Datetime, planPrice, stoploss, goal, number float64) core.TradeRecord {
	realPrice := ts.realPriceFor(dir, dt, planPrice)
	cost := ts.costFor(dir, dt, realPrice, number)

	var tr core.TradeRecord
	switch dir {
	case core.DirLongBuy:
		tr = ts.tm.Buy(dt, ts.stock, realPrice, number, cost, planPrice, stoploss, goal, from)
	case core.DirLongSell:
		tr = ts.tm.Sell(dt, ts.stock, realPrice, number, cost, planPrice, stoploss, goal, from)
	case core.DirShortSell:
		tr = ts.tm.SellShort(dt, ts.stock, realPrice, number, cost, planPrice, stoploss, goal, from)
	case core.DirShortBuy:
		tr = ts.tm.BuyShort(dt, ts.stock, realPrice, number, cost, planPrice, stoploss, goal, from)
	}
	if tr.IsNone() {
		return tr
	}

	ts.afterFill(dir, tr)
	if ts.mm != nil {
		switch dir {
		case core.DirLongBuy, core.DirShortBuy:
			ts.mm.BuyNotify(tr)
		default:
			ts.mm.SellNotify(tr)
		}
	}
	return tr
}

// afterFill seeds m_lastTakeProfit on any entry and zeroes it once a
// position has been fully closed.
func (ts *TradingSystem) afterFill(dir core.Direction, tr core.TradeRecord) {
	switch dir {
	case core.DirLongBuy, core.DirShortSell:
		ts.lastTakeProfit = tr.RealPrice
		ts.barsSinceEntry = 0
	case core.DirLongSell:
		if !ts.hasLong() {
			ts.lastTakeProfit = 0
			ts.buyDays = 0
		}
	case core.DirShortBuy:
		if !ts.hasShort() {
			ts.lastTakeProfit = 0
			ts.sellShortDays = 0
		}
	}
}

func (ts *TradingSystem) realPriceFor(dir core.Direction, dt core.Datetime, planPrice float64) float64 {
	if ts.sp == nil {
		return planPrice
	}
	switch dir {
	case core.DirLongBuy, core.DirShortBuy:
		return ts.sp.GetRealBuyPrice(dt, planPrice)
	default:
		return ts.sp.GetRealSellPrice(dt, planPrice)
	}
}

func (ts *TradingSystem) costFor(dir core.Direction, dt core.Datetime, price, num float64) core.CostRecord {
	if ts.cm == nil {
		return core.CostRecord{}
	}
	switch dir {
	case core.DirLongBuy, core.DirShortBuy:
		return ts.cm.GetBuyCost(dt, ts.stock, price, num)
	default:
		return ts.cm.GetSellCost(dt, ts.stock, price, num)
	}
}
