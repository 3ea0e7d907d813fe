package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tradecore/internal/candle"
	tccfg "tradecore/internal/config"
	"tradecore/internal/core"
	"tradecore/internal/logger"
	"tradecore/internal/plugin/builtin"
	"tradecore/internal/report"
	"tradecore/internal/scheduler"
	"tradecore/internal/store"
	"tradecore/internal/system"
)

func main() {
	cfgPath := os.Getenv("TRADECORE_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}
	symbol := flag.String("symbol", "", "instrument symbol to backtest")
	timeframe := flag.String("timeframe", "1d", "candle timeframe")
	initCash := flag.Float64("cash", 100000, "starting cash")
	flag.Parse()

	cfg, err := tccfg.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Fatalf("failed to init log output: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetLevel(cfg.App.LogLevel)
	logger.Infof("config loaded (env=%s)", cfg.App.Env)

	if *symbol == "" {
		log.Fatal("missing -symbol")
	}
	barSpan, ok := scheduler.ParseIntervalDuration(*timeframe)
	if !ok {
		log.Fatalf("invalid -timeframe %q: expected a duration like 15m, 1h, 1d", *timeframe)
	}
	logger.Infof("candle timeframe %s resolves to bar span %s", *timeframe, barSpan)

	if err := run(context.Background(), cfg, *symbol, *timeframe, *initCash); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

func run(ctx context.Context, cfg *tccfg.Config, symbol, timeframe string, initCash float64) error {
	st, err := candle.NewStore(cfg.Data.StorePath)
	if err != nil {
		return err
	}
	defer st.Close()

	ds := candle.NewDataSource(st, timeframe)
	stock := core.NewStock("SIM", symbol, symbol, 1, 0, 0.01, 1)
	ds.RegisterStock(symbol, stock)

	bars, err := ds.GetKRecordList(ctx, symbol)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		logger.Warnf("no candles found for %s@%s under %s", symbol, timeframe, cfg.Data.StorePath)
		return nil
	}

	ts := system.New()
	seedParams(ts, cfg.System)

	ts.SetEnvironment(builtin.NewAlwaysValidEnvironment())
	ts.SetCondition(builtin.NewAlwaysValidCondition())
	ts.SetSignal(builtin.NewCrossSignal(5, 20))
	ts.SetStoploss(builtin.NewFixedPercentStoploss(0.05))
	ts.SetTakeProfit(builtin.NewATRTrailingTakeProfit(14, 3))
	ts.SetProfitGoal(builtin.NewFixedRatioProfitGoal(0.15))
	ts.SetMoneyManager(builtin.NewFixedCapitalMoneyManager(initCash, 0.3))
	ts.SetSlippage(builtin.NewFixedPercentSlippage(0.001))
	ts.SetCostModel(builtin.NewPercentCostModel(0.0003, 5, 0.001, 0.00002))

	tm := store.NewSimTradeManager(initCash, bars[0].Datetime)
	ts.SetTradeManager(tm)
	ts.SetTO(stock, bars)

	if _, err := ts.Run(bars, true); err != nil {
		return err
	}

	summary := report.Summarize(stock.Identity(), initCash, tm.CashBalance(), tm.TradeList())

	ledgerPath := filepath.Join(cfg.Data.StorePath, "ledger.db")
	ledger, err := store.OpenLedger(ledgerPath)
	if err != nil {
		return err
	}
	defer ledger.Close()
	if err := ledger.AppendRun(ctx, summary.RunID, tm.TradeList()); err != nil {
		return err
	}

	report.Fprint(os.Stdout, summary)
	return report.WriteTradesCSV(os.Stdout, tm.TradeList())
}

// seedParams pushes the loaded SystemConfig onto a freshly constructed
// TradingSystem, overriding the compiled-in defaults from initParam.
func seedParams(ts *system.TradingSystem, sc tccfg.SystemConfig) {
	_ = ts.SetParam(system.ParamDelay, sc.Delay)
	_ = ts.SetParam(system.ParamMaxDelayCount, sc.MaxDelayCount)
	_ = ts.SetParam(system.ParamDelayUseCurrentPrice, sc.DelayUseCurrentPrice)
	_ = ts.SetParam(system.ParamTPMonotonic, sc.TPMonotonic)
	_ = ts.SetParam(system.ParamTPDelayN, sc.TPDelayN)
	_ = ts.SetParam(system.ParamIgnoreSellSG, sc.IgnoreSellSG)
	_ = ts.SetParam(system.ParamCanTradeWhenHighEqLow, sc.CanTradeWhenHighEqLow)
	_ = ts.SetParam(system.ParamEVOpenPosition, sc.EVOpenPosition)
	_ = ts.SetParam(system.ParamCNOpenPosition, sc.CNOpenPosition)
	_ = ts.SetParam(system.ParamSupportBorrowCash, sc.SupportBorrowCash)
	_ = ts.SetParam(system.ParamSupportBorrowStock, sc.SupportBorrowStock)
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}
