package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// MatchEntry records one rule evaluation that matched, or that failed hard.
// Keep it compact and schema-stable.
type MatchEntry struct {
	At         time.Time `json:"at"`
	Rule       string    `json:"rule"`
	Expression string    `json:"expression"`
	Timezone   string    `json:"timezone,omitempty"`
	Error      string    `json:"error,omitempty"`
}
