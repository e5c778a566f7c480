package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"eosindex/internal/core/config"
)

type cliOptions struct {
	configPath   string
	format       string
	watch        bool
	browse       bool
	quiet        bool
	historyLimit int
	query        string
	verbose      bool
	version      bool
	args         []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("eosindex", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: eosindex [flags] [<sdk_dir> <output> [metadata_json]]\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", config.DefaultPath, "Path to config file")
	fs.StringVar(&opts.format, "format", "", "Output format: json or yaml (overrides config)")
	fs.BoolVar(&opts.watch, "watch", false, "Re-index whenever SDK headers change")
	fs.BoolVar(&opts.browse, "browse", false, "Browse the indexed declarations in a terminal UI")
	fs.BoolVar(&opts.quiet, "quiet", false, "Do not print the run summary")
	fs.IntVar(&opts.historyLimit, "history", 0, "Print the last N recorded runs and exit (requires [history] enabled)")
	fs.StringVar(&opts.query, "query", "", "Print the results of a jq expression over the written document")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}

// applyArgs copies positional arguments and flag overrides into cfg. The
// positional form mirrors the classic <sdk_dir> <output> [metadata_json]
// invocation; without arguments the configured paths are used. Positional
// paths are relative to the working directory, configured ones to the config
// file's directory.
func applyArgs(opts cliOptions, cfg *config.Config) error {
	switch len(opts.args) {
	case 0:
	case 2, 3:
		cfg.SDK.Path = absArg(opts.args[0])
		cfg.Output.Path = opts.args[1]
		if cfg.Output.Path != config.StdoutPath {
			cfg.Output.Path = absArg(cfg.Output.Path)
		}
		if len(opts.args) == 3 {
			metadata, err := parseMetadata(opts.args[2])
			if err != nil {
				return err
			}
			cfg.Metadata = metadata
		}
	default:
		return fmt.Errorf("expected <sdk_dir> <output> [metadata_json], got %d arguments", len(opts.args))
	}

	if opts.format != "" {
		cfg.Output.Format = strings.ToLower(opts.format)
	}
	if strings.TrimSpace(cfg.SDK.Path) == "" {
		return fmt.Errorf("no SDK directory given: pass <sdk_dir> or set sdk.path")
	}
	return validateModeCompatibility(opts, cfg)
}

func absArg(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func parseMetadata(raw string) (map[string]interface{}, error) {
	var metadata map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, fmt.Errorf("metadata must be a JSON object: %w", err)
	}
	return metadata, nil
}

func validateModeCompatibility(opts cliOptions, cfg *config.Config) error {
	if opts.historyLimit < 0 {
		return fmt.Errorf("--history must not be negative")
	}
	if opts.historyLimit > 0 && (opts.watch || opts.browse) {
		return fmt.Errorf("--history cannot be combined with --watch or --browse")
	}
	if opts.query != "" && (opts.watch || opts.browse || opts.historyLimit > 0) {
		return fmt.Errorf("--query cannot be combined with --watch, --browse or --history")
	}
	if opts.query != "" && cfg.Output.ToStdout() {
		return fmt.Errorf("--query needs a file output; stdout carries the query results")
	}
	if opts.browse && cfg.Output.ToStdout() {
		return fmt.Errorf("--browse needs a file output; the terminal is used by the browser")
	}
	return nil
}
