package config

import "time"

// Config is the cronwatchd configuration file.
//
// The file may be JSON or YAML; YAML is converted to JSON and both go
// through a strict decoder, so unknown keys are rejected.
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Storage StorageConfig `json:"storage,omitempty"`
	Watch   WatchConfig   `json:"watch"`
}

type LoggingConfig struct {
	Level   string     `json:"level,omitempty"`
	Console bool       `json:"console"`
	File    FileConfig `json:"file,omitempty"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// StorageConfig selects the match record backend.
// Driver is "none" (default), "file", or "sqlite".
type StorageConfig struct {
	Driver string `json:"driver,omitempty"`
	Path   string `json:"path,omitempty"`

	// BusyTimeout is a Go duration string (sqlite only).
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

// WatchConfig controls the rule evaluation service.
//
// All durations are Go duration strings (e.g. "1s", "500ms").
type WatchConfig struct {
	Enabled bool `json:"enabled"`

	// Tick is the evaluation cadence; defaults to "1s".
	Tick string `json:"tick,omitempty"`

	// Timezone is the default IANA zone for rules that don't set one.
	// Empty means the rule is evaluated in the instant's own location.
	Timezone string `json:"timezone,omitempty"`

	HistorySize   int `json:"history_size,omitempty"`
	LogRatePerSec int `json:"log_rate_per_sec,omitempty"`

	Rules []RuleConfig `json:"rules,omitempty"`
}

// RuleConfig names one schedule expression to evaluate.
type RuleConfig struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Timezone   string `json:"timezone,omitempty"`
}

// TickOrDefault resolves the evaluation cadence.
func (w WatchConfig) TickOrDefault() (time.Duration, error) {
	return ParseDurationOrDefault("watch.tick", w.Tick, time.Second)
}
