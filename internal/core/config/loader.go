package config

import (
	"eosindex/internal/core/errors"
	"eosindex/internal/engine/index"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads a TOML configuration file, fills defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}

	return finish(&cfg)
}

// LoadOrDefault behaves like Load, except that a missing file at the default
// path yields the default configuration.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && path == DefaultPath {
		return finish(&Config{})
	}
	return Load(path)
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	ApplyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.SDK.MarkerFile) == "" {
		cfg.SDK.MarkerFile = "eos_common.h"
	}
	if cfg.SDK.Layouts == nil {
		cfg.SDK.Layouts = []string{"", "Include", "SDK/Include"}
	}
	if len(cfg.SDK.Extensions) == 0 {
		cfg.SDK.Extensions = []string{".h", ".inl"}
	}

	if strings.TrimSpace(cfg.Output.Path) == "" {
		cfg.Output.Path = StdoutPath
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = FormatJSON
	}
	if cfg.Output.Indent <= 0 {
		cfg.Output.Indent = defaultIndent
	}

	defaults := index.DefaultOptions()
	if strings.TrimSpace(cfg.Index.BootstrapFile) == "" {
		cfg.Index.BootstrapFile = defaults.BootstrapFile
	}
	if cfg.Index.BootstrapLines == nil {
		cfg.Index.BootstrapLines = defaults.BootstrapLines
	}
	if cfg.Index.AuxiliaryExtensions == nil {
		cfg.Index.AuxiliaryExtensions = defaults.AuxiliaryExtensions
	}
	if cfg.Index.DefineIgnore == nil {
		cfg.Index.DefineIgnore = defaults.DefineIgnore
	}
	if cfg.Index.DirectiveIgnore == nil {
		cfg.Index.DirectiveIgnore = defaults.DirectiveIgnore
	}
	if cfg.Index.RetiredNames == nil {
		cfg.Index.RetiredNames = defaults.RetiredNames
	}
	if cfg.Index.CallingConventions == nil {
		cfg.Index.CallingConventions = defaults.CallingConventions
	}
	if strings.TrimSpace(cfg.Index.ResultEnum) == "" {
		cfg.Index.ResultEnum = defaults.ResultEnum
	}
	if cfg.Index.SeedEnums == nil {
		for _, seed := range defaults.SeedEnums {
			cfg.Index.SeedEnums = append(cfg.Index.SeedEnums, SeedEnum{Name: seed.Name, Source: seed.Source})
		}
	}
	if cfg.Index.UIEnums == nil {
		for _, ui := range defaults.UIEnums {
			cfg.Index.UIEnums = append(cfg.Index.UIEnums, UIEnum{File: ui.File, Enum: ui.Enum, AutoIndex: ui.AutoIndex})
		}
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "data/eosindex.db"
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MinInterval == 0 {
		cfg.Watch.MinInterval = time.Second
	}

	if strings.TrimSpace(cfg.Observability.Address) == "" {
		cfg.Observability.Address = "127.0.0.1:9464"
	}
}
