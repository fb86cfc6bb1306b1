package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/memodom/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Journal.Capacity != DefaultJournalCapacity {
		t.Errorf("Journal.Capacity = %d, want %d", cfg.Journal.Capacity, DefaultJournalCapacity)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.ReadTimeout() != time.Minute || cfg.WriteTimeout() != 10*time.Second {
		t.Errorf("timeouts = %v, %v", cfg.ReadTimeout(), cfg.WriteTimeout())
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !stderrors.Is(err, errors.New("M040")) {
		t.Fatalf("Load(empty dir) = %v, want M040", err)
	}

	writeFile(t, tmpDir, ConfigFileName, `{
  "server": {
    "addr": "127.0.0.1:9000",
    "readTimeout": "5s",
    "allowedOrigins": ["app.example.com"]
  },
  "journal": {
    "capacity": 16,
    "bucket": "journals"
  },
  "log": {"level": "debug", "format": "json"}
}
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.ReadTimeout() != 5*time.Second {
		t.Errorf("ReadTimeout() = %v, want 5s", cfg.ReadTimeout())
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout default not applied: %q", cfg.Server.WriteTimeout)
	}
	if cfg.Journal.Capacity != 16 || cfg.Journal.Bucket != "journals" {
		t.Errorf("Journal = %+v", cfg.Journal)
	}
	if cfg.Journal.Prefix != "journals/" {
		t.Errorf("Journal.Prefix = %q, want default", cfg.Journal.Prefix)
	}
	if level, err := cfg.LogLevel(); err != nil || level != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, %v", level, err)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) || cfg.Dir() != tmpDir {
		t.Errorf("Path() = %q, Dir() = %q", cfg.Path(), cfg.Dir())
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "memodom.yaml", `server:
  addr: ":9090"
  writeTimeout: 2s
journal:
  capacity: 8
metrics:
  namespace: edge
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.WriteTimeout() != 2*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Journal.Capacity != 8 {
		t.Errorf("Journal.Capacity = %d, want 8", cfg.Journal.Capacity)
	}
	if cfg.Metrics.Namespace != "edge" {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want default", cfg.Log.Level)
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, ConfigFileName, `{"server": {"addr": ":1"}}`)
	writeFile(t, tmpDir, "memodom.yml", "server:\n  addr: \":2\"\n")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":1" {
		t.Errorf("Server.Addr = %q, want the JSON value", cfg.Server.Addr)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "memodom.yml", "")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(empty) error: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), ConfigFileName, "{\n  \"server\": {\n    \"addr\": 12\n  }\n}\n")

	_, err := LoadFile(path)
	var me *errors.MemoError
	if !stderrors.As(err, &me) {
		t.Fatalf("LoadFile error = %v, want MemoError", err)
	}
	if me.Code != "M041" {
		t.Errorf("Code = %q, want M041", me.Code)
	}
	if me.Location == nil || me.Location.Line != 3 {
		t.Errorf("Location = %+v, want line 3", me.Location)
	}
}

func TestLoadFile_UnknownYAMLKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "memodom.yaml", "server:\n  addr: \":1\"\n  port: 80\n")

	_, err := LoadFile(path)
	var me *errors.MemoError
	if !stderrors.As(err, &me) || me.Code != "M041" {
		t.Fatalf("LoadFile error = %v, want M041", err)
	}
	if me.Location == nil || me.Location.Line != 3 {
		t.Errorf("Location = %+v, want line 3", me.Location)
	}
	if !strings.Contains(me.Suggestion, "YAML") {
		t.Errorf("Suggestion = %q", me.Suggestion)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := New()
	cfg.Server.Addr = ":7000"
	cfg.Journal.Bucket = "archive"

	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}

	for _, name := range []string{ConfigFileName, "memodom.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}
			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if loaded.Server.Addr != ":7000" || loaded.Journal.Bucket != "archive" {
				t.Errorf("reloaded = %+v", loaded)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		detail string
	}{
		{"bad duration", func(c *Config) { c.Server.ReadTimeout = "soon" }, "server.readTimeout is not a duration"},
		{"negative duration", func(c *Config) { c.Server.WriteTimeout = "-1s" }, "server.writeTimeout must not be negative"},
		{"negative buffer", func(c *Config) { c.Server.ReadBufferSize = -1 }, "buffer sizes"},
		{"zero capacity", func(c *Config) { c.Journal.Capacity = 0 }, "journal.capacity must be positive"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			var me *errors.MemoError
			if !stderrors.As(err, &me) || me.Code != "M042" {
				t.Fatalf("Validate() = %v, want M042", err)
			}
			if !strings.Contains(me.Detail, tt.detail) {
				t.Errorf("Detail = %q, want it to contain %q", me.Detail, tt.detail)
			}
		})
	}
}

func TestDurationFallback(t *testing.T) {
	cfg := New()
	cfg.Server.ReadTimeout = "soon"
	if cfg.ReadTimeout() != time.Minute {
		t.Errorf("ReadTimeout() = %v, want default", cfg.ReadTimeout())
	}
}

func TestOriginAllowed(t *testing.T) {
	cfg := New()
	cfg.Server.AllowedOrigins = []string{"app.example.com"}

	tests := []struct {
		origin, host string
		want         bool
	}{
		{"", "memodom.local", true},
		{"https://memodom.local", "memodom.local", true},
		{"https://APP.example.com", "memodom.local", true},
		{"https://evil.example.com", "memodom.local", false},
	}
	for _, tt := range tests {
		if got := cfg.OriginAllowed(tt.origin, tt.host); got != tt.want {
			t.Errorf("OriginAllowed(%q, %q) = %v, want %v", tt.origin, tt.host, got, tt.want)
		}
	}

	cfg.Server.AllowedOrigins = []string{"*"}
	if !cfg.OriginAllowed("https://evil.example.com", "memodom.local") {
		t.Error("wildcard should accept any origin")
	}
}

func TestLogger(t *testing.T) {
	var buf strings.Builder
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":1`) {
		t.Errorf("json record missing: %s", out)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "memodom.yml", "log:\n  level: warn\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists mismatch")
	}
}
