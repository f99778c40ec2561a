package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/Wladim1r/preferlogger/internal/config"
	"github.com/Wladim1r/preferlogger/internal/rules"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := config.DefaultConfig()

	if cfg.LoggerName != "logger" {
		t.Errorf("expected default logger name %q, got %q", "logger", cfg.LoggerName)
	}
	if cfg.ImportStyle != rules.ImportESM {
		t.Errorf("expected default import style %q, got %q", rules.ImportESM, cfg.ImportStyle)
	}
	if !slices.Contains(cfg.Extensions, ".js") {
		t.Errorf("expected .js in default extensions, got %v", cfg.Extensions)
	}
	if !slices.Contains(cfg.Exclude, "node_modules") {
		t.Errorf("expected node_modules in default excludes, got %v", cfg.Exclude)
	}
}

func TestValidate_MissingLogger(t *testing.T) {
	t.Parallel()
	err := config.DefaultConfig().Validate()
	if !errors.Is(err, rules.ErrMissingLogger) {
		t.Fatalf("expected ErrMissingLogger, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"valid", func(c *config.Config) {}, false},
		{"commonjs", func(c *config.Config) { c.ImportStyle = rules.ImportCommonJS }, false},
		{"script", func(c *config.Config) { c.SourceType = "script" }, false},
		{"bad import style", func(c *config.Config) { c.ImportStyle = "amd" }, true},
		{"bad source type", func(c *config.Config) { c.SourceType = "typescript" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			cfg.Logger = "logger"
			tc.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Parallel()
	// A non-existent file returns defaults without error.
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file returned error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Logger != "" {
		t.Errorf("expected empty logger, got %q", cfg.Logger)
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	t.Parallel()

	yaml := `
logger: utils/logger.js
logger_name: log
base: src
globals:
  - console
exclude:
  - dist
`
	f := writeTempFile(t, ".preferlogger.yaml", yaml)

	cfg, err := config.Load(f)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Logger != "utils/logger.js" {
		t.Errorf("expected logger utils/logger.js, got %q", cfg.Logger)
	}
	if cfg.LoggerName != "log" {
		t.Errorf("expected logger name log, got %q", cfg.LoggerName)
	}
	if cfg.Base != "src" {
		t.Errorf("expected base src, got %q", cfg.Base)
	}
	if !slices.Equal(cfg.Globals, []string{"console"}) {
		t.Errorf("expected globals [console], got %v", cfg.Globals)
	}
	if !slices.Equal(cfg.Exclude, []string{"dist"}) {
		t.Errorf("expected exclude [dist], got %v", cfg.Exclude)
	}
	// Unset fields keep defaults.
	if cfg.ImportStyle != rules.ImportESM {
		t.Errorf("expected default import style, got %q", cfg.ImportStyle)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_ValidTOML(t *testing.T) {
	t.Parallel()

	toml := `
logger = "pino"
import_style = "commonjs"
source_type = "script"
extensions = [".cjs"]
`
	f := writeTempFile(t, ".preferlogger.toml", toml)

	cfg, err := config.Load(f)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logger != "pino" {
		t.Errorf("expected logger pino, got %q", cfg.Logger)
	}
	if cfg.ImportStyle != rules.ImportCommonJS {
		t.Errorf("expected commonjs import style, got %q", cfg.ImportStyle)
	}
	if cfg.SourceType != "script" {
		t.Errorf("expected script source type, got %q", cfg.SourceType)
	}
	if !slices.Equal(cfg.Extensions, []string{".cjs"}) {
		t.Errorf("expected extensions [.cjs], got %v", cfg.Extensions)
	}
	if cfg.LoggerName != "logger" {
		t.Errorf("expected default logger name, got %q", cfg.LoggerName)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()
	f := writeTempFile(t, ".preferlogger.yaml", "logger: [invalid yaml }{")
	if _, err := config.Load(f); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	t.Parallel()
	f := writeTempFile(t, ".preferlogger.toml", "logger = ")
	if _, err := config.Load(f); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()
	cfg := config.DefaultConfig()
	cfg.Globals = []string{"window"}

	cfg.Merge(&config.Config{
		Logger:  "logger",
		Globals: []string{"window", "console"},
	})

	if cfg.Logger != "logger" {
		t.Errorf("expected logger to be merged, got %q", cfg.Logger)
	}
	if !slices.Equal(cfg.Globals, []string{"window", "console"}) {
		t.Errorf("expected accumulated globals, got %v", cfg.Globals)
	}
	if cfg.LoggerName != "logger" {
		t.Errorf("expected logger name to stay default, got %q", cfg.LoggerName)
	}
}

func TestRuleOptions(t *testing.T) {
	t.Parallel()
	cfg := config.DefaultConfig()
	cfg.Logger = "utils/logger.js"
	cfg.Base = "src"

	opts := cfg.RuleOptions("/work")
	if opts.Logger != cfg.Logger || opts.Base != "src" || opts.WorkDir != "/work" {
		t.Errorf("unexpected rule options %+v", opts)
	}
	if _, err := rules.New(opts); err != nil {
		t.Errorf("rules.New: %v", err)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writeTempFile: %v", err)
	}
	return path
}
