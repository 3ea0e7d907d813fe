package system

// Parameter keys recognised by a TradingSystem's ParamSet. These mirror
// the eleven defaults a freshly constructed system is seeded with.
const (
	ParamMaxDelayCount         = "max_delay_count"
	ParamDelay                 = "delay"
	ParamDelayUseCurrentPrice  = "delay_use_current_price"
	ParamTPMonotonic           = "tp_monotonic"
	ParamTPDelayN              = "tp_delay_n"
	ParamIgnoreSellSG          = "ignore_sell_sg"
	ParamCanTradeWhenHighEqLow = "can_trade_when_high_eq_low"
	ParamEVOpenPosition        = "ev_open_position"
	ParamCNOpenPosition        = "cn_open_position"
	ParamSupportBorrowCash     = "support_borrow_cash"
	ParamSupportBorrowStock    = "support_borrow_stock"
)
