package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cronwatch/internal/storage"
	"cronwatch/pkg/cronexpr"
	logx "cronwatch/pkg/logx"
)

// New compiles the configured rules and returns the service. A nil store
// disables persistence; history and counters still work.
func New(cfg Config, log logx.Logger, store storage.Store) (*Service, error) {
	rules, err := compileRules(cfg.Rules)
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{
		log:   log,
		cfg:   cfg,
		cal:   cronexpr.StdCalendar(),
		store: store,
		rules: rules,
	}
	s.limiter = newLogLimiter(cfg.LogRatePerSec)
	return s, nil
}

// ValidateRules reports the first rule whose expression does not compile.
// Used as a config validation hook before a hot reload is committed.
func ValidateRules(rules []Rule) error {
	_, err := compileRules(rules)
	return err
}

func compileRules(rules []Rule) ([]*compiledRule, error) {
	out := make([]*compiledRule, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("rule %d: name is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("rule %q: duplicate name", name)
		}
		seen[name] = true

		expr, err := cronexpr.Parse(r.Expression)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		out = append(out, &compiledRule{
			name: name,
			raw:  r.Expression,
			tz:   strings.TrimSpace(r.Timezone),
			expr: expr,
		})
	}
	return out, nil
}

func newLogLimiter(perSec int) *rate.Limiter {
	if perSec <= 0 {
		perSec = 5
	}
	return rate.NewLimiter(rate.Limit(perSec), perSec)
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Enabled
}

// Apply recompiles the rule set and swaps it in. Counters of rules that
// keep their name survive the swap. Returns without changing anything when
// a rule fails to compile.
func (s *Service) Apply(cfg Config) error {
	rules, err := compileRules(cfg.Rules)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := make(map[string]*compiledRule, len(s.rules))
	for _, r := range s.rules {
		old[r.name] = r
	}
	for _, r := range rules {
		if prev, ok := old[r.name]; ok && prev.raw == r.raw {
			r.matches = prev.matches
			r.lastMatch = prev.lastMatch
			r.lastError = prev.lastError
		}
	}

	s.cfg = cfg
	s.rules = rules
	s.limiter = newLogLimiter(cfg.LogRatePerSec)
	s.log.Info("watch rules applied", logx.Int("rules", len(rules)))
	return nil
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil || !s.cfg.Enabled {
		return
	}
	s.stopCh = make(chan struct{})

	tick := s.cfg.Tick
	if tick <= 0 {
		tick = time.Second
	}

	s.wg.Add(1)
	go s.run(ctx, s.stopCh, tick)
	s.log.Info("watch started",
		logx.Int("rules", len(s.rules)),
		logx.Duration("tick", tick),
	)
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.stopCh = nil
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	s.log.Info("watch stopped")
}

func (s *Service) run(ctx context.Context, stopCh chan struct{}, tick time.Duration) {
	defer s.wg.Done()

	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case now := <-t.C:
			s.evaluateAll(ctx, now)
		}
	}
}

// evaluateAll runs every rule against one instant.
func (s *Service) evaluateAll(ctx context.Context, now time.Time) {
	s.mu.Lock()
	rules := make([]*compiledRule, len(s.rules))
	copy(rules, s.rules)
	defaultTZ := s.cfg.Timezone
	lim := s.limiter
	s.mu.Unlock()

	for _, r := range rules {
		tz := r.tz
		if tz == "" {
			tz = defaultTZ
		}

		ok, err := r.expr.MatchInstant(now, tz, s.cal)
		if err != nil {
			s.recordError(ctx, r, now, tz, err, lim)
			continue
		}
		if ok {
			s.recordMatch(ctx, r, now, tz, lim)
		}
	}
}

func (s *Service) recordMatch(ctx context.Context, r *compiledRule, now time.Time, tz string, lim *rate.Limiter) {
	s.mu.Lock()
	r.matches++
	r.lastMatch = now
	r.lastError = ""
	s.pushHistoryLocked(HistoryItem{At: now, Rule: r.name})
	s.mu.Unlock()

	if lim.Allow() {
		s.log.Info("rule matched",
			logx.String("rule", r.name),
			logx.String("expr", r.raw),
			logx.Time("at", now),
		)
	}
	s.persist(ctx, storage.MatchEntry{At: now, Rule: r.name, Expression: r.raw, Timezone: tz})
}

func (s *Service) recordError(ctx context.Context, r *compiledRule, now time.Time, tz string, err error, lim *rate.Limiter) {
	s.mu.Lock()
	r.lastError = err.Error()
	s.pushHistoryLocked(HistoryItem{At: now, Rule: r.name, Error: err.Error()})
	s.mu.Unlock()

	if lim.Allow() {
		s.log.Warn("rule evaluation failed",
			logx.String("rule", r.name),
			logx.String("expr", r.raw),
			logx.Err(err),
		)
	}
	s.persist(ctx, storage.MatchEntry{At: now, Rule: r.name, Expression: r.raw, Timezone: tz, Error: err.Error()})
}

func (s *Service) persist(ctx context.Context, e storage.MatchEntry) {
	if s.store == nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.store.AppendMatch(wctx, e); err != nil {
		s.log.Warn("match persist failed", logx.String("rule", e.Rule), logx.Err(err))
	}
}

// Snapshot returns a copy of the current rule state and history.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Enabled:  s.cfg.Enabled,
		Timezone: s.cfg.Timezone,
		Tick:     s.cfg.Tick,
		Rules:    make([]RuleInfo, 0, len(s.rules)),
		History:  make([]HistoryItem, len(s.history)),
	}
	if snap.Tick <= 0 {
		snap.Tick = time.Second
	}
	for _, r := range s.rules {
		snap.Rules = append(snap.Rules, RuleInfo{
			Name:       r.name,
			Expression: r.raw,
			Timezone:   r.tz,
			Matches:    r.matches,
			LastMatch:  r.lastMatch,
			LastError:  r.lastError,
		})
	}
	copy(snap.History, s.history)
	return snap
}

func (s *Service) pushHistoryLocked(it HistoryItem) {
	max := s.cfg.HistorySize
	if max <= 0 {
		max = 100
	}
	s.history = append(s.history, it)
	if len(s.history) > max {
		s.history = s.history[len(s.history)-max:]
	}
}
