package config

import (
	"eosindex/internal/core/errors"
	"fmt"
	"net"
	"strings"

	"github.com/gobwas/glob"
)

// Validate checks every section and returns the first problem found.
func Validate(cfg *Config) error {
	validators := []func(*Config) error{
		validateSDK,
		validateOutput,
		validateIndex,
		validateHistory,
		validateWatch,
		validateObservability,
	}
	for _, validate := range validators {
		if err := validate(cfg); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.New(errors.CodeValidationError, fmt.Sprintf(format, args...))
}

func validateSDK(cfg *Config) error {
	if strings.TrimSpace(cfg.SDK.MarkerFile) == "" {
		return invalid("sdk.marker_file must not be empty")
	}
	for i, ext := range cfg.SDK.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return invalid("sdk.extensions[%d] must start with '.', got %q", i, ext)
		}
	}
	for i, pattern := range cfg.SDK.ExcludeFiles {
		if _, err := glob.Compile(pattern); err != nil {
			return invalid("sdk.exclude_files[%d] is not a valid pattern %q: %v", i, pattern, err)
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Output.Format)) {
	case FormatJSON, FormatYAML:
	default:
		return invalid("output.format must be one of: json, yaml")
	}
	if cfg.Output.Indent > 16 {
		return invalid("output.indent must be between 1 and 16, got %d", cfg.Output.Indent)
	}
	return nil
}

func validateIndex(cfg *Config) error {
	if strings.TrimSpace(cfg.Index.ResultEnum) == "" {
		return invalid("index.result_enum must not be empty")
	}

	seeded := make(map[string]bool, len(cfg.Index.SeedEnums))
	for i, seed := range cfg.Index.SeedEnums {
		ref := fmt.Sprintf("index.seed_enums[%d]", i)
		if strings.TrimSpace(seed.Name) == "" {
			return invalid("%s.name must not be empty", ref)
		}
		if strings.TrimSpace(seed.Source) == "" {
			return invalid("%s.source must not be empty", ref)
		}
		if seeded[seed.Name] {
			return invalid("duplicate seed enum %q", seed.Name)
		}
		seeded[seed.Name] = true
	}
	if !seeded[cfg.Index.ResultEnum] {
		return invalid("index.result_enum %q must be listed in index.seed_enums", cfg.Index.ResultEnum)
	}

	files := make(map[string]bool, len(cfg.Index.UIEnums))
	for i, ui := range cfg.Index.UIEnums {
		ref := fmt.Sprintf("index.ui_enums[%d]", i)
		if strings.TrimSpace(ui.File) == "" {
			return invalid("%s.file must not be empty", ref)
		}
		if !seeded[ui.Enum] {
			return invalid("%s.enum %q must be listed in index.seed_enums", ref, ui.Enum)
		}
		if files[ui.File] {
			return invalid("duplicate ui enum file %q", ui.File)
		}
		files[ui.File] = true
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		return invalid("history.path must not be empty when history is enabled")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return invalid("watch.debounce must not be negative")
	}
	if cfg.Watch.MinInterval < 0 {
		return invalid("watch.min_interval must not be negative")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if !cfg.Observability.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Observability.Address); err != nil {
		return invalid("observability.address %q is not host:port: %v", cfg.Observability.Address, err)
	}
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		return invalid("observability.otlp_endpoint must be set when tracing is enabled")
	}
	return nil
}
