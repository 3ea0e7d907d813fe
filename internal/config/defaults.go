package config

import "strings"

const (
	defaultAppEnv      = "dev"
	defaultAppLogLevel = "info"
	defaultAppLogPath  = "/data/logs/backtest.log"

	defaultMaxDelayCount = 3
	defaultTPDelayN      = 3

	defaultWorkerPoolSize = 4
	defaultSchedStartTOD  = "00:00:01"
	defaultSchedEndTOD    = "23:59:59"

	defaultStorePath = "/data/candles"
)

// applyDefaults fills unset fields with their defaults, skipping any path
// that was explicitly present in the loaded config files.
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.System.applyDefaults(keys)
	c.Sched.applyDefaults(keys)
	c.Data.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.log_path", &a.LogPath, defaultAppLogPath),
	)
}

// applyDefaults seeds the Trading System's parameter map with the values
// from System::initParam: every boolean defaults to false except delay,
// delay_use_current_price and tp_monotonic.
func (s *SystemConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "system.max_delay_count",
			need:  func() bool { return s.MaxDelayCount <= 0 },
			apply: func() { s.MaxDelayCount = defaultMaxDelayCount },
		},
		fieldDefault{
			key:   "system.tp_delay_n",
			need:  func() bool { return s.TPDelayN <= 0 },
			apply: func() { s.TPDelayN = defaultTPDelayN },
		},
		boolFieldDefault("system.delay", &s.Delay, true),
		boolFieldDefault("system.delay_use_current_price", &s.DelayUseCurrentPrice, true),
		boolFieldDefault("system.tp_monotonic", &s.TPMonotonic, true),
	)
}

func (s *SchedConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "sched.worker_pool_size",
			need:  func() bool { return s.WorkerPoolSize <= 0 },
			apply: func() { s.WorkerPoolSize = defaultWorkerPoolSize },
		},
		stringFieldDefault("sched.default_start_tod", &s.DefaultStartTOD, defaultSchedStartTOD),
		stringFieldDefault("sched.default_end_tod", &s.DefaultEndTOD, defaultSchedEndTOD),
	)
}

func (d *DataConfig) applyDefaults(keys keySet) {
	if d == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("data.store_path", &d.StorePath, defaultStorePath),
	)
}

// Helper functions

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

// boolFieldDefault only applies when the field's path was never set in any
// config file; unlike numeric/string defaults it cannot infer "unset" from
// the zero value since false is itself meaningful.
func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
