package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	coreapp "eosindex/internal/core/app"
	"eosindex/internal/core/config"
	"eosindex/internal/shared/observability"
	"eosindex/internal/shared/version"
	"eosindex/internal/ui/report"
)

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintln(stderr, version.String())
		return 0
	}

	cleanupLogs := configureLogging(stderr, opts.browse, opts.verbose)
	defer cleanupLogs()

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if err := applyArgs(opts, cfg); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 2
	}
	var query *report.Query
	if opts.query != "" {
		if query, err = report.CompileQuery(opts.query); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 2
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := initTracing(ctx, cfg)
	defer shutdownTracing()

	appOpts := []coreapp.Option{coreapp.WithStdout(stdout)}
	if cfgPath != "" {
		appOpts = append(appOpts, coreapp.WithConfigPath(cfgPath))
		if abs, err := filepath.Abs(cfgPath); err == nil {
			appOpts = append(appOpts, coreapp.WithBaseDir(filepath.Dir(abs)))
		}
	}
	a, err := coreapp.New(cfg, appOpts...)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer a.Close(context.Background())

	if opts.historyLimit > 0 {
		if err := printHistory(stderr, a, opts.historyLimit); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
		return 0
	}

	if opts.watch {
		if err := runWatch(ctx, a, opts); err != nil {
			slog.Error("watch failed", "error", err)
			return 1
		}
		return 0
	}

	result, err := a.Run(ctx)
	if err != nil {
		slog.Error("indexing failed", "error", err)
		return 1
	}

	if opts.browse {
		if err := Browse(result); err != nil {
			slog.Error("failed to run browser", "error", err)
			return 1
		}
		return 0
	}
	if query != nil {
		results, err := query.Run(ctx, result.Document)
		if err != nil {
			slog.Error("query failed", "query", query.String(), "error", err)
			return 1
		}
		if err := report.WriteResults(stdout, results); err != nil {
			slog.Error("failed to write query results", "error", err)
			return 1
		}
	}
	if !opts.quiet {
		fmt.Fprintln(stderr, report.RenderSummary(result.Document, result.Run, result.Previous))
	}
	return 0
}

func runWatch(ctx context.Context, a *coreapp.App, opts cliOptions) error {
	if !opts.browse {
		return a.Watch(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- a.Watch(ctx) }()

	if err := BrowseLive(ctx, a); err != nil {
		return err
	}
	cancel()
	return <-errCh
}

func printHistory(w io.Writer, a *coreapp.App, limit int) error {
	store := a.History()
	if store == nil {
		return fmt.Errorf("--history requires [history] enabled = true")
	}
	cfg := a.Config()
	sdkDir, err := coreapp.LocateSDK(a.Paths().SDKDir, cfg.SDK.MarkerFile, cfg.SDK.Layouts)
	if err != nil {
		return err
	}

	runs, err := store.LoadRuns(sdkDir, limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Runs for %s (%d):\n", sdkDir, len(runs))
	for _, run := range runs {
		fmt.Fprintf(w, "  %s files=%d declarations=%d duration=%s digest=%s\n",
			run.Timestamp.Format(time.RFC3339),
			run.FileCount,
			run.Total(),
			run.Duration,
			run.Digest,
		)
	}
	return nil
}

// loadConfig returns the configuration and the path it was read from. The
// path is empty when the defaults were used.
func loadConfig(path string) (*config.Config, string, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return cfg, "", nil
	}
	return cfg, path, nil
}

func initTracing(ctx context.Context, cfg *config.Config) func() {
	if !cfg.Observability.EnableTracing {
		return func() {}
	}
	shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, version.Version)
	if err != nil {
		slog.Warn("tracing disabled", "endpoint", cfg.Observability.OTLPEndpoint, "error", err)
		return func() {}
	}
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}
}

// configureLogging logs to stderr, which never carries the document. In
// browse mode logs go to a state file so they do not corrupt the TUI.
func configureLogging(stderr io.Writer, uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := stderr
	closeFn := func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
			fmt.Fprintf(stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				output = f
				closeFn = func() { _ = f.Close() }
			} else {
				fmt.Fprintf(stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "eosindex", "eosindex.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "eosindex", "eosindex.log")
	}

	return "eosindex.log"
}
