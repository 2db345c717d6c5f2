package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Parser.MaxInterpolationDepth != 64 {
		t.Errorf("expected default depth 64, got %d", cfg.Parser.MaxInterpolationDepth)
	}
	if cfg.Parser.Interpolation != InterpolationIoke {
		t.Errorf("expected default interpolation %q, got %q", InterpolationIoke, cfg.Parser.Interpolation)
	}
	if cfg.Format.MaxOutput != 0 {
		t.Errorf("expected unlimited format output, got %d", cfg.Format.MaxOutput)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level 'info', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestInterpolateEnv(t *testing.T) {
	getenv := func(key string) string {
		switch key {
		case "TEST_DEPTH":
			return "8"
		case "TEST_LEVEL":
			return "debug"
		default:
			return ""
		}
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple substitution",
			input:    "level: ${TEST_LEVEL}",
			expected: "level: debug",
		},
		{
			name:     "with default (env set)",
			input:    "level: ${TEST_LEVEL:-warn}",
			expected: "level: debug",
		},
		{
			name:     "with default (env not set)",
			input:    "level: ${UNSET_VAR:-warn}",
			expected: "level: warn",
		},
		{
			name:     "multiple substitutions",
			input:    "x: ${TEST_LEVEL}/${TEST_DEPTH}",
			expected: "x: debug/8",
		},
		{
			name:     "unset without default",
			input:    "x: [${UNSET_VAR}]",
			expected: "x: []",
		},
		{
			name:     "no substitution needed",
			input:    "static: value",
			expected: "static: value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(interpolateEnv([]byte(tt.input), getenv))
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "ioke.yaml")

	configContent := `
parser:
  max_interpolation_depth: 16
  interpolation: expr

format:
  max_output: 4096

logging:
  level: debug
  format: json
  output: logs/ioke.log
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, path, err := LoadWithPath(configPath, os.Getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if path != configPath {
		t.Errorf("expected resolved path %q, got %q", configPath, path)
	}
	if cfg.BaseDir != dir {
		t.Errorf("expected base dir %q, got %q", dir, cfg.BaseDir)
	}
	if cfg.Parser.MaxInterpolationDepth != 16 {
		t.Errorf("expected depth 16, got %d", cfg.Parser.MaxInterpolationDepth)
	}
	if cfg.Parser.Interpolation != InterpolationExpr {
		t.Errorf("expected interpolation 'expr', got %q", cfg.Parser.Interpolation)
	}
	if cfg.Format.MaxOutput != 4096 {
		t.Errorf("expected max output 4096, got %d", cfg.Format.MaxOutput)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got %q", cfg.Logging.Format)
	}

	// relative log files resolve against the config directory
	expectedOutput := filepath.Join(dir, "logs", "ioke.log")
	if cfg.Logging.Output != expectedOutput {
		t.Errorf("expected log output %q, got %q", expectedOutput, cfg.Logging.Output)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "ioke.yaml")
	if err := os.WriteFile(configPath, []byte("format:\n  max_output: 10\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath, os.Getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Parser.MaxInterpolationDepth != 64 {
		t.Errorf("expected default depth to survive, got %d", cfg.Parser.MaxInterpolationDepth)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("expected stderr output, got %q", cfg.Logging.Output)
	}
}

func TestLoadWithEnvInterpolation(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "ioke.yaml")

	configContent := `
parser:
  max_interpolation_depth: ${IOKE_DEPTH:-32}
logging:
  level: ${IOKE_LOG_LEVEL}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	getenv := func(key string) string {
		if key == "IOKE_LOG_LEVEL" {
			return "warn"
		}
		return ""
	}

	cfg, err := Load(configPath, getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Parser.MaxInterpolationDepth != 32 {
		t.Errorf("expected depth 32 from default, got %d", cfg.Parser.MaxInterpolationDepth)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected level 'warn', got %q", cfg.Logging.Level)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		expectErr bool
		errSubstr string
	}{
		{
			name: "valid config",
			config: `
parser:
  max_interpolation_depth: 4
logging:
  level: info
  format: text
`,
		},
		{
			name: "unlimited depth",
			config: `
parser:
  max_interpolation_depth: 0
`,
		},
		{
			name: "negative depth",
			config: `
parser:
  max_interpolation_depth: -1
`,
			expectErr: true,
			errSubstr: "max_interpolation_depth",
		},
		{
			name: "unknown interpolation engine",
			config: `
parser:
  interpolation: lua
`,
			expectErr: true,
			errSubstr: "invalid parser.interpolation",
		},
		{
			name: "negative max output",
			config: `
format:
  max_output: -1
`,
			expectErr: true,
			errSubstr: "invalid format.max_output",
		},
		{
			name: "invalid log level",
			config: `
logging:
  level: verbose
`,
			expectErr: true,
			errSubstr: "invalid log level",
		},
		{
			name: "invalid log format",
			config: `
logging:
  format: xml
`,
			expectErr: true,
			errSubstr: "invalid log format",
		},
		{
			name:      "malformed yaml",
			config:    "parser: [",
			expectErr: true,
			errSubstr: "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			configPath := filepath.Join(dir, "ioke.yaml")
			if err := os.WriteFile(configPath, []byte(tt.config), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			_, err := Load(configPath, os.Getenv)

			if tt.expectErr {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("expected error containing %q, got %q", tt.errSubstr, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Defaults()
	cfg.Parser.MaxInterpolationDepth = -3
	cfg.Logging.Level = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "configuration errors:\n" +
		"  - invalid parser.max_interpolation_depth: -3 (must be 0 or more)\n" +
		"  - invalid log level: loud (must be debug, info, warn, or error)"
	if err.Error() != want {
		t.Errorf("unexpected error message:\n%s", err)
	}
}

func TestResolveConfigPath(t *testing.T) {
	noenv := func(string) string { return "" }

	if _, err := resolveConfigPath("/nonexistent/path/ioke.yaml", noenv); err == nil {
		t.Error("expected error for nonexistent path")
	}

	dir := t.TempDir()
	configPath := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	resolved, err := resolveConfigPath(configPath, noenv)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if resolved != configPath {
		t.Errorf("expected %q, got %q", configPath, resolved)
	}

	fromEnv := func(key string) string {
		if key == "IOKE_CONFIG" {
			return configPath
		}
		return ""
	}
	resolved, err = resolveConfigPath("", fromEnv)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if resolved != configPath {
		t.Errorf("expected %q from IOKE_CONFIG, got %q", configPath, resolved)
	}

	missingEnv := func(key string) string {
		if key == "IOKE_CONFIG" {
			return filepath.Join(dir, "missing.yaml")
		}
		return ""
	}
	if _, err := resolveConfigPath("", missingEnv); err == nil || !strings.Contains(err.Error(), "IOKE_CONFIG") {
		t.Errorf("expected IOKE_CONFIG error, got %v", err)
	}
}
