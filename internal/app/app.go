// Package app wires config, logging, storage and the watch service into
// one runnable daemon.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cronwatch/internal/config"
	"cronwatch/internal/services/watch"
	"cronwatch/internal/storage"
	logx "cronwatch/pkg/logx"
)

type App struct {
	cfgPath string

	manager *config.Manager
	logs    *logx.Service
	log     logx.Logger
	store   storage.Store
	watch   *watch.Service

	stopOnce sync.Once
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New loads and validates the config file and builds all services.
// Nothing is started yet.
func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := validate(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logs, rootLog := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log := rootLog.With(logx.String("svc", "app"))
	mgr.SetLogger(rootLog.With(logx.String("svc", "config")))
	mgr.SetValidator(validate)

	st, err := openStore(cfg.Storage, rootLog)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	wcfg, err := watchConfig(cfg.Watch)
	if err != nil {
		closeQuiet(st)
		_ = logs.Close()
		return nil, err
	}
	ws, err := watch.New(wcfg, rootLog.With(logx.String("svc", "watch")), st)
	if err != nil {
		closeQuiet(st)
		_ = logs.Close()
		return nil, fmt.Errorf("watch service: %w", err)
	}

	return &App{
		cfgPath: cfgPath,
		manager: mgr,
		logs:    logs,
		log:     log,
		store:   st,
		watch:   ws,
	}, nil
}

// Start launches the watch service, the config file watcher, and the
// reload loop that applies published configs to the running services.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	a.watch.Start(ctx)

	updates := a.manager.Subscribe(1)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.manager.Watch(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.manager.Unsubscribe(updates)
		for {
			select {
			case <-ctx.Done():
				return
			case cfg, ok := <-updates:
				if !ok {
					return
				}
				a.applyConfig(ctx, cfg)
			}
		}
	}()

	a.log.Info("started", logx.String("config", a.cfgPath))
}

// applyConfig pushes a reloaded config into the live services. The
// manager's validator already accepted it, so failures here are limited
// to races with concurrent edits and are logged, not fatal.
func (a *App) applyConfig(ctx context.Context, cfg *config.Config) {
	if cfg == nil {
		return
	}

	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	wcfg, err := watchConfig(cfg.Watch)
	if err != nil {
		a.log.Warn("reload skipped", logx.Err(err))
		return
	}
	wasEnabled := a.watch.Enabled()
	if err := a.watch.Apply(wcfg); err != nil {
		a.log.Warn("watch reload rejected", logx.Err(err))
		return
	}
	switch {
	case wcfg.Enabled && !wasEnabled:
		a.watch.Start(ctx)
	case !wcfg.Enabled && wasEnabled:
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		a.watch.Stop(stopCtx)
		cancel()
	}

	a.log.Info("config applied")
}

func (a *App) Stop(ctx context.Context) {
	a.stopOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}

		a.watch.Stop(ctx)

		done := make(chan struct{})
		go func() {
			a.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
		}

		closeQuiet(a.store)
		a.log.Info("stopped")
		_ = a.logs.Close()
	})
}

// Watch exposes the watch service for inspection.
func (a *App) Watch() *watch.Service { return a.watch }

// validate is the config validation hook: every duration must parse and
// every rule expression must compile before a reload is committed.
func validate(_ context.Context, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("empty config")
	}
	if _, err := cfg.Watch.TickOrDefault(); err != nil {
		return err
	}
	if _, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 0); err != nil {
		return err
	}
	rules := make([]watch.Rule, 0, len(cfg.Watch.Rules))
	for _, r := range cfg.Watch.Rules {
		rules = append(rules, watch.Rule{Name: r.Name, Expression: r.Expression, Timezone: r.Timezone})
	}
	return watch.ValidateRules(rules)
}

func watchConfig(w config.WatchConfig) (watch.Config, error) {
	tick, err := w.TickOrDefault()
	if err != nil {
		return watch.Config{}, err
	}
	rules := make([]watch.Rule, 0, len(w.Rules))
	for _, r := range w.Rules {
		rules = append(rules, watch.Rule{Name: r.Name, Expression: r.Expression, Timezone: r.Timezone})
	}
	return watch.Config{
		Enabled:       w.Enabled,
		Tick:          tick,
		Timezone:      w.Timezone,
		HistorySize:   w.HistorySize,
		LogRatePerSec: w.LogRatePerSec,
		Rules:         rules,
	}, nil
}

func openStore(sc config.StorageConfig, log logx.Logger) (storage.Store, error) {
	busy, err := config.ParseDurationOrDefault("storage.busy_timeout", sc.BusyTimeout, 0)
	if err != nil {
		return nil, err
	}
	return storage.Open(storage.Config{
		Driver:      sc.Driver,
		Path:        sc.Path,
		BusyTimeout: busy,
	}, log.With(logx.String("svc", "storage")))
}

func closeQuiet(st storage.Store) {
	if st != nil {
		_ = st.Close()
	}
}
