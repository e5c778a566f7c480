package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: EOSINDEX_[SECTION]_[KEY] (e.g., EOSINDEX_OUTPUT_FORMAT).
func ApplyEnvOverrides(cfg *Config) {
	// SDK
	setEnvString(&cfg.SDK.Path, "EOSINDEX_SDK_PATH")
	setEnvString(&cfg.SDK.MarkerFile, "EOSINDEX_SDK_MARKER_FILE")
	setEnvList(&cfg.SDK.ExcludeFiles, "EOSINDEX_SDK_EXCLUDE_FILES")

	// Output
	setEnvString(&cfg.Output.Path, "EOSINDEX_OUTPUT_PATH")
	setEnvString(&cfg.Output.Format, "EOSINDEX_OUTPUT_FORMAT")
	setEnvInt(&cfg.Output.Indent, "EOSINDEX_OUTPUT_INDENT")

	// Index
	setEnvString(&cfg.Index.BootstrapFile, "EOSINDEX_INDEX_BOOTSTRAP_FILE")

	// History
	setEnvBool(&cfg.History.Enabled, "EOSINDEX_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "EOSINDEX_HISTORY_PATH")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "EOSINDEX_WATCH_DEBOUNCE")
	setEnvDuration(&cfg.Watch.MinInterval, "EOSINDEX_WATCH_MIN_INTERVAL")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "EOSINDEX_OBSERVABILITY_ENABLED")
	setEnvString(&cfg.Observability.Address, "EOSINDEX_OBSERVABILITY_ADDRESS")
	setEnvString(&cfg.Observability.OTLPEndpoint, "EOSINDEX_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "EOSINDEX_OBSERVABILITY_ENABLE_TRACING")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvList splits a comma separated value.
func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		var items []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*target = items
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
