package core

// Stock is an opaque instrument identifier plus the trading metadata
// needed to round order quantities to exchange-legal lots.
type Stock struct {
	Market   string
	Code     string
	Name     string
	TickSize float64
	Multiplier float64

	minTradeNumber float64
	maxTradeNumber float64
}

func NewStock(market, code, name string, minNum, maxNum, tick, multiplier float64) Stock {
	if multiplier <= 0 {
		multiplier = 1
	}
	if tick <= 0 {
		tick = 0.01
	}
	return Stock{
		Market:         market,
		Code:           code,
		Name:           name,
		TickSize:       tick,
		Multiplier:     multiplier,
		minTradeNumber: minNum,
		maxTradeNumber: maxNum,
	}
}

func (s Stock) MinTradeNumber() float64 { return s.minTradeNumber }
func (s Stock) MaxTradeNumber() float64 { return s.maxTradeNumber }

func (s Stock) Identity() string { return s.Market + s.Code }

// RoundLot rounds num down to the nearest multiple of the lot size
// (MinTradeNumber), clamped to [MinTradeNumber, MaxTradeNumber]. A result
// below one lot is reported as zero so callers can skip the trade.
func (s Stock) RoundLot(num float64) float64 {
	lot := s.minTradeNumber
	if lot <= 0 {
		lot = 1
	}
	if num < lot {
		return 0
	}
	units := float64(int64(num / lot))
	rounded := units * lot
	if s.maxTradeNumber > 0 && rounded > s.maxTradeNumber {
		maxUnits := float64(int64(s.maxTradeNumber / lot))
		rounded = maxUnits * lot
	}
	return rounded
}
