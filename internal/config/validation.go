package config

import (
	"fmt"
	"strings"
)

// validate performs basic sanity checks once defaults have been applied.
func validate(c *Config) error {
	if err := c.System.validate(); err != nil {
		return err
	}
	if err := c.Sched.validate(); err != nil {
		return err
	}
	if err := c.Data.validate(); err != nil {
		return err
	}
	return nil
}

func (s *SystemConfig) validate() error {
	if s.MaxDelayCount < 0 {
		return fmt.Errorf("system.max_delay_count must be >= 0")
	}
	if s.TPDelayN < 0 {
		return fmt.Errorf("system.tp_delay_n must be >= 0")
	}
	return nil
}

func (s *SchedConfig) validate() error {
	if s.WorkerPoolSize <= 0 {
		return fmt.Errorf("sched.worker_pool_size must be > 0")
	}
	start, err := parseTOD(s.DefaultStartTOD)
	if err != nil {
		return fmt.Errorf("sched.default_start_tod: %w", err)
	}
	end, err := parseTOD(s.DefaultEndTOD)
	if err != nil {
		return fmt.Errorf("sched.default_end_tod: %w", err)
	}
	if end < start {
		return fmt.Errorf("sched.default_end_tod must be >= sched.default_start_tod")
	}
	return nil
}

func (d *DataConfig) validate() error {
	if strings.TrimSpace(d.StorePath) == "" {
		return fmt.Errorf("data.store_path cannot be empty")
	}
	return nil
}

// parseTOD parses an "HH:MM:SS" time-of-day into seconds since midnight.
func parseTOD(s string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid time-of-day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid time-of-day %q", s)
	}
	return h*3600 + m*60 + sec, nil
}
