// Package report turns a finished Trading System run into exportable
// artifacts: a trade list and a summary of realised performance.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"tradecore/internal/core"
)

// Summary aggregates a completed run's trade list into headline figures.
// The return percentage is computed against InitCash, not against peak
// equity, since the Trading System itself does not track a mark-to-market
// equity curve; no drawdown figure is reported.
type Summary struct {
	RunID       string  `yaml:"run_id"`
	Stock       string  `yaml:"stock"`
	InitCash    float64 `yaml:"init_cash"`
	FinalCash   float64 `yaml:"final_cash"`
	TradeCount  int     `yaml:"trade_count"`
	BuyCount    int     `yaml:"buy_count"`
	SellCount   int     `yaml:"sell_count"`
	TotalCost   float64 `yaml:"total_cost"`
	NetPnL      float64 `yaml:"net_pnl"`
	ReturnPct   float64 `yaml:"return_pct"`
}

// Summarize computes a Summary from a stock identity, the initial cash
// balance and the trade list a TradeManager accumulated over a run.
func Summarize(stockID string, initCash, finalCash float64, trades []core.TradeRecord) Summary {
	s := Summary{RunID: uuid.NewString(), Stock: stockID, InitCash: initCash, FinalCash: finalCash}
	for _, tr := range trades {
		if tr.IsNone() {
			continue
		}
		s.TradeCount++
		s.TotalCost += tr.Cost.Total()
		switch tr.Business {
		case core.BusinessBuy, core.BusinessBuyShort:
			s.BuyCount++
		case core.BusinessSell, core.BusinessSellShort:
			s.SellCount++
		}
	}
	s.NetPnL = finalCash - initCash
	if initCash != 0 {
		s.ReturnPct = 100 * s.NetPnL / initCash
	}
	return s
}

// WriteSummaryYAML writes a Summary in YAML, the same serialisation
// format the config loader reads, repurposed here for run output.
func WriteSummaryYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(s)
}

// WriteTradesCSV writes the trade list as CSV, one row per fill,
// including rejected (Business == NONE) attempts so a reviewer can see
// what was declined and why bookkeeping didn't move.
func WriteTradesCSV(w io.Writer, trades []core.TradeRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"datetime", "stock", "business", "part", "price", "number",
		"commission", "stamp_tax", "transfer", "plan_price", "stoploss",
		"goal_price", "cash_after", "position_after",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, tr := range trades {
		row := []string{
			tr.Datetime.String(),
			tr.Stock.Identity(),
			tr.Business.String(),
			tr.Part.String(),
			formatFloat(tr.RealPrice),
			formatFloat(tr.Number),
			formatFloat(tr.Cost.Commission),
			formatFloat(tr.Cost.StampTax),
			formatFloat(tr.Cost.Transfer),
			formatFloat(tr.PlanPrice),
			formatFloat(tr.Stoploss),
			formatFloat(tr.GoalPrice),
			formatFloat(tr.CashAfter),
			formatFloat(tr.PositionAfter),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// Fprint writes a one-line human summary, used by the CLI's stdout report.
func Fprint(w io.Writer, s Summary) {
	fmt.Fprintf(w, "[%s] %s: %d trades (%d buy / %d sell), cost=%.2f, pnl=%.2f (%.2f%%)\n",
		s.RunID, s.Stock, s.TradeCount, s.BuyCount, s.SellCount, s.TotalCost, s.NetPnL, s.ReturnPct)
}
