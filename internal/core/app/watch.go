package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"eosindex/internal/core/config"
	"eosindex/internal/core/watcher"
	"eosindex/internal/engine/graph"
	"eosindex/internal/shared/observability"
	"eosindex/internal/shared/util"
)

// Watch runs once, then re-indexes whenever headers change until ctx is
// cancelled. Re-runs are spaced by watch.min_interval. Failed runs are
// logged and the loop keeps going.
func (a *App) Watch(ctx context.Context) error {
	cfg := a.Config()
	paths := config.ResolvePaths(cfg, a.baseDir)
	includeDir, err := LocateSDK(paths.SDKDir, cfg.SDK.MarkerFile, cfg.SDK.Layouts)
	if err != nil {
		return err
	}

	if cfg.Observability.Enabled {
		server := observability.NewServer(cfg.Observability.Address, a.Health)
		if err := server.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Stop(shutdownCtx); err != nil {
				slog.Warn("observability server shutdown failed", "error", err)
			}
		}()
	}

	if a.configPath != "" {
		cw := config.NewWatcher(a.configPath, config.DefaultReloadDebounce, a.SetConfig)
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config watcher unavailable", "path", a.configPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	if _, err := a.Run(ctx); err != nil {
		slog.Error("initial index run failed", "error", err)
	}

	changes := make(chan []string, 16)
	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.SDK.Extensions, cfg.SDK.ExcludeFiles, func(paths []string) {
		select {
		case changes <- paths:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch([]string{includeDir}); err != nil {
		return err
	}
	slog.Info("watching sdk headers", "path", includeDir)

	limiter := util.NewIntervalLimiter(cfg.Watch.MinInterval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-changes:
			a.logImpact(changed)
			if !limiter.Allow() {
				observability.ReindexThrottledTotal.Inc()
				if err := limiter.Wait(ctx); err != nil {
					return nil
				}
				changed = append(changed, drain(changes)...)
			}
			slog.Info("headers changed, re-indexing", "count", len(changed))
			if _, err := a.Run(ctx); err != nil {
				slog.Error("index run failed", "error", err)
			}
		}
	}
}

func drain(changes <-chan []string) []string {
	var out []string
	for {
		select {
		case more := <-changes:
			out = append(out, more...)
		default:
			return out
		}
	}
}

// logImpact reports the headers that include a changed header, using the
// include graph of the last successful run.
func (a *App) logImpact(changed []string) {
	last, _ := a.Last()
	if last == nil {
		return
	}
	g, err := graph.BuildIncludeGraph(last.Files, a.Config().Index.AuxiliaryExtensions)
	if err != nil {
		return
	}
	for _, path := range changed {
		name := filepath.Base(path)
		if dependents := g.Dependents(name); len(dependents) > 0 {
			slog.Debug("changed header affects", "file", name, "dependents", dependents)
		}
	}
}
