package config

import (
	"eosindex/internal/engine/index"
	"eosindex/internal/engine/parser"
	"time"
)

const (
	DefaultPath   = "eosindex.toml"
	StdoutPath    = "-"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	defaultIndent = 2
)

type Config struct {
	SDK           SDK                    `toml:"sdk"`
	Output        Output                 `toml:"output"`
	Index         Index                  `toml:"index"`
	Metadata      map[string]interface{} `toml:"metadata"`
	History       History                `toml:"history"`
	Watch         Watch                  `toml:"watch"`
	Observability Observability          `toml:"observability"`
}

type SDK struct {
	Path         string   `toml:"path"`
	MarkerFile   string   `toml:"marker_file"`
	Layouts      []string `toml:"layouts"`
	Extensions   []string `toml:"extensions"`
	ExcludeFiles []string `toml:"exclude_files"`
}

type Output struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
	Indent int    `toml:"indent"`
}

type Index struct {
	BootstrapFile       string     `toml:"bootstrap_file"`
	BootstrapLines      []string   `toml:"bootstrap_lines"`
	AuxiliaryExtensions []string   `toml:"auxiliary_extensions"`
	DefineIgnore        []string   `toml:"define_ignore"`
	DirectiveIgnore     []string   `toml:"directive_ignore"`
	RetiredNames        []string   `toml:"retired_names"`
	CallingConventions  []string   `toml:"calling_conventions"`
	ResultEnum          string     `toml:"result_enum"`
	SeedEnums           []SeedEnum `toml:"seed_enums"`
	UIEnums             []UIEnum   `toml:"ui_enums"`
}

type SeedEnum struct {
	Name   string `toml:"name"`
	Source string `toml:"source"`
}

type UIEnum struct {
	File      string `toml:"file"`
	Enum      string `toml:"enum"`
	AutoIndex bool   `toml:"auto_index"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce    time.Duration `toml:"debounce"`
	MinInterval time.Duration `toml:"min_interval"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Address       string `toml:"address"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	EnableTracing bool   `toml:"enable_tracing"`
}

// DefaultConfig returns a configuration for the stock EOS SDK layout.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// IndexOptions converts the [index] section into engine options.
func (c *Config) IndexOptions() index.Options {
	opts := index.Options{
		Options: parser.Options{
			DefineIgnore:       append([]string(nil), c.Index.DefineIgnore...),
			RetiredNames:       append([]string(nil), c.Index.RetiredNames...),
			DirectiveIgnore:    append([]string(nil), c.Index.DirectiveIgnore...),
			CallingConventions: append([]string(nil), c.Index.CallingConventions...),
			ResultEnum:         c.Index.ResultEnum,
		},
		BootstrapFile:       c.Index.BootstrapFile,
		BootstrapLines:      append([]string(nil), c.Index.BootstrapLines...),
		AuxiliaryExtensions: append([]string(nil), c.Index.AuxiliaryExtensions...),
	}
	for _, seed := range c.Index.SeedEnums {
		opts.SeedEnums = append(opts.SeedEnums, parser.SeedEnum{Name: seed.Name, Source: seed.Source})
	}
	for _, ui := range c.Index.UIEnums {
		opts.UIEnums = append(opts.UIEnums, parser.UIEnum{File: ui.File, Enum: ui.Enum, AutoIndex: ui.AutoIndex})
	}
	return opts
}

func (o Output) ToStdout() bool {
	return o.Path == "" || o.Path == StdoutPath
}
