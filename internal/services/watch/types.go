package watch

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"cronwatch/internal/storage"
	"cronwatch/pkg/cronexpr"
	logx "cronwatch/pkg/logx"
)

// Config controls the watch service.
type Config struct {
	Enabled bool

	// Tick is the evaluation cadence (default 1s).
	Tick time.Duration

	// Timezone is the default IANA zone for rules without one.
	// Empty evaluates instants in their own location.
	Timezone string

	HistorySize   int // history ring length (default 100)
	LogRatePerSec int // cap on per-second match log lines (default 5)

	Rules []Rule
}

// Rule names one schedule expression to evaluate.
type Rule struct {
	Name       string
	Expression string
	Timezone   string
}

type compiledRule struct {
	name string
	raw  string
	tz   string
	expr *cronexpr.Expression

	matches   uint64
	lastMatch time.Time
	lastError string
}

// HistoryItem is one recorded rule hit or hard evaluation failure.
type HistoryItem struct {
	At    time.Time
	Rule  string
	Error string
}

type Service struct {
	mu sync.Mutex

	log   logx.Logger
	cfg   Config
	cal   cronexpr.Calendar
	store storage.Store

	rules   []*compiledRule
	limiter *rate.Limiter

	stopCh chan struct{}
	wg     sync.WaitGroup

	history []HistoryItem
}

// RuleInfo is the exported view of one rule.
type RuleInfo struct {
	Name       string
	Expression string
	Timezone   string
	Matches    uint64
	LastMatch  time.Time
	LastError  string
}

// Snapshot is a point-in-time view of the service for inspection.
type Snapshot struct {
	Enabled  bool
	Timezone string
	Tick     time.Duration
	Rules    []RuleInfo
	History  []HistoryItem
}
