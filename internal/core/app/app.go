package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"eosindex/internal/core/config"
	"eosindex/internal/core/errors"
	"eosindex/internal/data/history"
	"eosindex/internal/engine/index"
	"eosindex/internal/engine/parser"
	"eosindex/internal/shared/observability"
	"eosindex/internal/shared/util"
	"eosindex/internal/ui/report"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result is the outcome of one indexing run.
type Result struct {
	Document *index.Document
	Run      history.Run
	// Previous is the run recorded before this one, when history is enabled.
	Previous *history.Run
	Files    []parser.SourceFile
	// Unchanged reports that the encoded output matches the previous run.
	Unchanged bool
}

type App struct {
	cfg     *config.Config
	cfgMu   sync.RWMutex
	baseDir string
	stdout  io.Writer

	configPath string
	history    *history.Store

	lastMu  sync.RWMutex
	last    *Result
	lastErr error

	handlerMu sync.RWMutex
	onResult  func(*Result)
}

type Option func(*App)

// WithBaseDir resolves relative configured paths against dir instead of
// the working directory.
func WithBaseDir(dir string) Option {
	return func(a *App) { a.baseDir = dir }
}

// WithStdout redirects documents written to the stdout marker.
func WithStdout(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

// WithConfigPath enables configuration reloads in watch mode.
func WithConfigPath(path string) Option {
	return func(a *App) { a.configPath = path }
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, stdout: os.Stdout}
	for _, opt := range opts {
		opt(a)
	}
	if a.baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "resolve working directory")
		}
		a.baseDir = wd
	}

	if cfg.History.Enabled {
		path := config.ResolvePaths(cfg, a.baseDir).HistoryPath
		store, err := history.Open(path)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "open run history"), errors.CtxPath, path)
		}
		a.history = store
	}

	return a, nil
}

func (a *App) Config() *config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

// SetConfig swaps the configuration used by subsequent runs.
func (a *App) SetConfig(cfg *config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	if cfg.History.Enabled != a.cfg.History.Enabled || cfg.History.Path != a.cfg.History.Path {
		slog.Warn("history settings changed; restart to apply")
	}
	a.cfg = cfg
	return nil
}

// Paths returns the configured locations resolved against the base directory.
func (a *App) Paths() config.ResolvedPaths {
	return config.ResolvePaths(a.Config(), a.baseDir)
}

// History returns the run history store, or nil when history is disabled.
func (a *App) History() *history.Store {
	return a.history
}

// SetResultHandler registers a callback invoked after every successful run.
func (a *App) SetResultHandler(handler func(*Result)) {
	a.handlerMu.Lock()
	defer a.handlerMu.Unlock()
	a.onResult = handler
}

// Last returns the most recent successful result and the error of the most
// recent run, if it failed.
func (a *App) Last() (*Result, error) {
	a.lastMu.RLock()
	defer a.lastMu.RUnlock()
	return a.last, a.lastErr
}

// Run indexes the configured SDK once and writes the document.
func (a *App) Run(ctx context.Context) (*Result, error) {
	cfg := a.Config()
	paths := config.ResolvePaths(cfg, a.baseDir)

	ctx, span := observability.Tracer.Start(ctx, "app.Run", trace.WithAttributes(
		attribute.String("sdk.path", paths.SDKDir),
		attribute.String("output.path", paths.OutputPath),
	))
	defer span.End()

	start := time.Now()
	result, err := a.run(ctx, cfg, paths)
	observability.PhaseDuration.WithLabelValues(observability.PhaseTotal).Observe(time.Since(start).Seconds())

	a.lastMu.Lock()
	a.lastErr = err
	if err == nil {
		a.last = result
	}
	a.lastMu.Unlock()

	if err != nil {
		observability.RunsTotal.WithLabelValues(observability.ResultError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	observability.RunsTotal.WithLabelValues(observability.ResultOK).Inc()

	a.handlerMu.RLock()
	handler := a.onResult
	a.handlerMu.RUnlock()
	if handler != nil {
		handler(result)
	}
	return result, nil
}

func (a *App) run(ctx context.Context, cfg *config.Config, paths config.ResolvedPaths) (*Result, error) {
	start := time.Now()

	if err := CheckDestination(paths.OutputPath); err != nil {
		return nil, err
	}
	includeDir, err := LocateSDK(paths.SDKDir, cfg.SDK.MarkerFile, cfg.SDK.Layouts)
	if err != nil {
		return nil, err
	}

	var files []parser.SourceFile
	err = a.phase(ctx, observability.PhaseLoad, func(ctx context.Context) error {
		files, err = LoadHeaders(ctx, includeDir, cfg.SDK.Extensions, cfg.SDK.ExcludeFiles)
		return err
	})
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, observability.PhaseLoad)
	}
	observability.HeadersLoaded.Set(float64(len(files)))

	opts := cfg.IndexOptions()
	var planned []parser.SourceFile
	err = a.phase(ctx, observability.PhaseOrder, func(context.Context) error {
		planned, err = index.Plan(files, opts)
		return err
	})
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, observability.PhaseOrder)
	}

	var doc *index.Document
	err = a.phase(ctx, observability.PhaseExtract, func(context.Context) error {
		doc, err = index.Extract(planned, opts, cfg.Metadata)
		return err
	})
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, observability.PhaseExtract)
	}

	data, err := report.EncodeBytes(doc, cfg.Output.Format, cfg.Output.Indent)
	if err != nil {
		return nil, err
	}
	err = a.phase(ctx, observability.PhaseWrite, func(context.Context) error {
		return writeOutput(paths.OutputPath, data, a.stdout)
	})
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, observability.PhaseWrite)
	}
	observability.OutputBytes.Set(float64(len(data)))

	counts := doc.Counts()
	for kind, n := range counts {
		observability.Declarations.WithLabelValues(kind).Set(float64(n))
	}

	result := &Result{
		Document: doc,
		Files:    files,
		Run: history.Run{
			SDKDir:    includeDir,
			Output:    paths.OutputPath,
			Timestamp: start.UTC(),
			Duration:  time.Since(start),
			FileCount: len(files),
			Counts:    counts,
			Digest:    report.Digest(data),
		},
	}
	a.record(result)

	slog.Info("index written",
		"sdk", includeDir,
		"output", paths.OutputPath,
		"files", len(files),
		"declarations", result.Run.Total(),
		"duration", result.Run.Duration.Round(time.Millisecond),
		"heap_mb", util.HeapAllocMB(),
	)
	return result, nil
}

// record stores the run in history. History failures never fail a run.
func (a *App) record(result *Result) {
	if a.history == nil {
		return
	}
	previous, ok, err := a.history.LatestRun(result.Run.SDKDir)
	if err != nil {
		slog.Warn("failed to read run history", "error", err)
	} else if ok {
		result.Previous = &previous
		result.Unchanged = previous.Digest == result.Run.Digest
	}

	saved, err := a.history.SaveRun(result.Run)
	if err != nil {
		slog.Warn("failed to record run", "error", err)
		return
	}
	result.Run = saved
}

func (a *App) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := observability.Tracer.Start(ctx, "app."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	observability.PhaseDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (a *App) Close(ctx context.Context) error {
	if a.history == nil {
		return nil
	}
	if err := a.history.Close(); err != nil {
		return fmt.Errorf("close run history: %w", err)
	}
	return nil
}
