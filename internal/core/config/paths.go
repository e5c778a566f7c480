package config

import (
	"path/filepath"
	"strings"
)

// ResolvedPaths are the configured filesystem locations made absolute.
type ResolvedPaths struct {
	SDKDir      string
	OutputPath  string
	HistoryPath string
}

// ResolvePaths resolves relative paths against base, normally the directory
// holding the configuration file. The stdout marker is kept as-is.
func ResolvePaths(cfg *Config, base string) ResolvedPaths {
	resolved := ResolvedPaths{
		SDKDir:      ResolveRelative(base, cfg.SDK.Path),
		OutputPath:  StdoutPath,
		HistoryPath: ResolveRelative(base, cfg.History.Path),
	}
	if !cfg.Output.ToStdout() {
		resolved.OutputPath = ResolveRelative(base, cfg.Output.Path)
	}
	return resolved
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}
