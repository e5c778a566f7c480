package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eosindex/internal/core/config"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"-format", "yaml", "-watch", "-history", "5", "sdk", "out.yaml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.format != "yaml" || !opts.watch || opts.historyLimit != 5 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if len(opts.args) != 2 || opts.args[0] != "sdk" {
		t.Fatalf("unexpected args: %v", opts.args)
	}
	if opts.configPath != config.DefaultPath {
		t.Fatalf("expected default config path, got %s", opts.configPath)
	}
}

func TestApplyArgs_Positionals(t *testing.T) {
	cfg := config.DefaultConfig()
	opts := cliOptions{args: []string{"./EOS-SDK", "out/index.json", `{"version": "1.16", "build": {"id": 3}}`}}

	if err := applyArgs(opts, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantSDK, _ := filepath.Abs("./EOS-SDK")
	wantOut, _ := filepath.Abs("out/index.json")
	if cfg.SDK.Path != wantSDK || cfg.Output.Path != wantOut {
		t.Fatalf("unexpected paths: sdk=%s output=%s", cfg.SDK.Path, cfg.Output.Path)
	}
	if cfg.Metadata["version"] != "1.16" {
		t.Fatalf("unexpected metadata: %v", cfg.Metadata)
	}
}

func TestApplyArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts cliOptions
		want string
	}{
		{"one argument", cliOptions{args: []string{"sdk"}}, "expected <sdk_dir> <output>"},
		{"bad metadata", cliOptions{args: []string{"sdk", "-", "[1, 2]"}}, "metadata must be a JSON object"},
		{"no sdk", cliOptions{}, "no SDK directory"},
		{"browse to stdout", cliOptions{browse: true, args: []string{"sdk", "-"}}, "--browse needs a file output"},
		{"history with watch", cliOptions{historyLimit: 3, watch: true, args: []string{"sdk", "out.json"}}, "cannot be combined"},
		{"query to stdout", cliOptions{query: ".defines", args: []string{"sdk", "-"}}, "--query needs a file output"},
		{"query with watch", cliOptions{query: ".defines", watch: true, args: []string{"sdk", "out.json"}}, "cannot be combined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := applyArgs(tt.opts, config.DefaultConfig())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestApplyArgs_FormatOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := applyArgs(cliOptions{format: "YAML", args: []string{"sdk", "-"}}, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != config.FormatYAML {
		t.Fatalf("expected yaml, got %s", cfg.Output.Format)
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	include := filepath.Join(root, "Include")
	if err := os.MkdirAll(include, 0o755); err != nil {
		t.Fatal(err)
	}
	headers := map[string]string{
		"eos_base.h":   "#pragma once\n",
		"eos_common.h": "#include \"eos_base.h\"\n#define EOS_LOBBY_MAX 64\n",
	}
	for name, content := range headers {
		if err := os.WriteFile(filepath.Join(include, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := filepath.Join(t.TempDir(), "index.json")

	var stdout, stderr bytes.Buffer
	if code := run([]string{root, out, `{"sdk": "test"}`}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"sdk": "test"`) || !strings.Contains(string(data), "EOS_LOBBY_MAX") {
		t.Fatalf("unexpected document:\n%s", data)
	}
	if !strings.Contains(stderr.String(), "EOS SDK index") {
		t.Errorf("expected run summary on stderr, got:\n%s", stderr.String())
	}

	stderr.Reset()
	if code := run([]string{"-quiet", filepath.Join(root, "missing"), out}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit code 1 for missing sdk, got %d", code)
	}
	if code := run([]string{"only-one"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit code 2 for bad arguments, got %d", code)
	}
	if code := run([]string{"-version"}, &stdout, &stderr); code != 0 || !strings.Contains(stderr.String(), "eosindex") {
		t.Fatalf("unexpected version output: %d %s", code, stderr.String())
	}

	stdout.Reset()
	if code := run([]string{"-quiet", "-query", ".defines[].name", root, out}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0 for query, got %d: %s", code, stderr.String())
	}
	if stdout.String() != "\"EOS_TRUE\"\n\"EOS_FALSE\"\n\"EOS_LOBBY_MAX\"\n" {
		t.Fatalf("unexpected query output: %q", stdout.String())
	}
	if code := run([]string{"-query", ".[", root, out}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit code 2 for a bad query, got %d", code)
	}
}

func TestRun_ConfigRelativePaths(t *testing.T) {
	dir := t.TempDir()
	include := filepath.Join(dir, "sdk", "Include")
	for _, d := range []string{include, filepath.Join(dir, "out")} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	headers := map[string]string{
		"eos_base.h":   "#pragma once\n",
		"eos_common.h": "#include \"eos_base.h\"\n#define EOS_LOBBY_MAX 64\n",
	}
	for name, content := range headers {
		if err := os.WriteFile(filepath.Join(include, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfgPath := filepath.Join(dir, "eosindex.toml")
	cfgText := "[sdk]\npath = \"sdk\"\n\n[output]\npath = \"out/index.json\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfgText), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-quiet", "-config", cfgPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "index.json"))
	if err != nil {
		t.Fatalf("expected output next to the config file: %v", err)
	}
	if !strings.Contains(string(data), "EOS_LOBBY_MAX") {
		t.Fatalf("unexpected document:\n%s", data)
	}
}
