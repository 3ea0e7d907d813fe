package config

import "strings"

// Config is the main configuration carrier.
type Config struct {
	App    AppConfig    `toml:"app"`
	System SystemConfig `toml:"system"`
	Sched  SchedConfig  `toml:"sched"`
	Data   DataConfig   `toml:"data"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
}

// SystemConfig carries the default Trading System parameters. These seed a
// freshly constructed system's parameter map and may be overridden per
// instance via set_param.
type SystemConfig struct {
	Delay                 bool `toml:"delay"`
	MaxDelayCount         int  `toml:"max_delay_count"`
	DelayUseCurrentPrice  bool `toml:"delay_use_current_price"`
	TPMonotonic           bool `toml:"tp_monotonic"`
	TPDelayN              int  `toml:"tp_delay_n"`
	IgnoreSellSG          bool `toml:"ignore_sell_sg"`
	CanTradeWhenHighEqLow bool `toml:"can_trade_when_high_eq_low"`
	EVOpenPosition        bool `toml:"ev_open_position"`
	CNOpenPosition        bool `toml:"cn_open_position"`
	SupportBorrowCash     bool `toml:"support_borrow_cash"`
	SupportBorrowStock    bool `toml:"support_borrow_stock"`
}

// SchedConfig carries defaults for timers registered with the scheduler
// when no explicit window is given by the caller.
type SchedConfig struct {
	WorkerPoolSize  int    `toml:"worker_pool_size"`
	DefaultStartTOD string `toml:"default_start_tod"` // "HH:MM:SS", start of daily window
	DefaultEndTOD   string `toml:"default_end_tod"`   // "HH:MM:SS", end of daily window
}

// DataConfig points at the candle store backing a backtest run.
type DataConfig struct {
	StorePath string `toml:"store_path"`
}

// keySet tracks configuration paths explicitly set by the user so that
// applyDefaults does not clobber an intentional zero value.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault describes a single default-value rule for one field.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
