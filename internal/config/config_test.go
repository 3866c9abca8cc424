package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/mvi/internal/errors"
	"github.com/vango-dev/mvi/pkg/lifecycle"
	"github.com/vango-dev/mvi/pkg/mvi"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Inspector.Port != DefaultPort {
		t.Errorf("Inspector.Port = %d, want %d", cfg.Inspector.Port, DefaultPort)
	}
	if cfg.Inspector.Host != DefaultHost {
		t.Errorf("Inspector.Host = %q, want %q", cfg.Inspector.Host, DefaultHost)
	}
	if cfg.Events.Overflow != "drop-oldest" {
		t.Errorf("Events.Overflow = %q", cfg.Events.Overflow)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !errors.HasCode(err, "M101") {
		t.Fatalf("Load(missing) = %v, want M101", err)
	}

	configJSON := `{
  "inspector": {"host": "0.0.0.0", "port": 9090},
  "events": {"capacity": 16, "overflow": "drop-newest"},
  "lifecycle": {"minState": "resumed"},
  "log": {"level": "debug", "format": "json"},
  "metrics": {"enabled": false}
}`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InspectorAddress() != "0.0.0.0:9090" {
		t.Errorf("InspectorAddress() = %q", cfg.InspectorAddress())
	}
	if cfg.Events.Capacity != 16 || cfg.Overflow() != mvi.DropNewest {
		t.Errorf("Events = %+v", cfg.Events)
	}
	if s, err := cfg.MinState(); err != nil || s != lifecycle.Resumed {
		t.Errorf("MinState() = %v, %v", s, err)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false")
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want default", cfg.Metrics.Namespace)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if !errors.HasCode(err, "M102") {
		t.Errorf("LoadFile = %v, want M102", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"inspector":{"port":70000}}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if !errors.HasCode(err, "M103") {
		t.Errorf("LoadFile = %v, want M103", err)
	}
}

func TestLoadOrNew(t *testing.T) {
	cfg, err := LoadOrNew(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadOrNew: %v", err)
	}
	if cfg.Inspector.Port != DefaultPort {
		t.Errorf("Inspector.Port = %d", cfg.Inspector.Port)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := New()
	cfg.Inspector.Port = 8181
	cfg.Metrics.Enabled = false
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Inspector.Port != 8181 || loaded.Metrics.Enabled {
		t.Errorf("loaded = %+v", loaded)
	}

	loaded.Log.Level = "warn"
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["log"]["level"] != "warn" {
		t.Errorf("saved log = %v", raw["log"])
	}

	if err := New().Save(); err == nil {
		t.Error("Save without a path should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"port zero", func(c *Config) { c.Inspector.Port = -1 }, "M103"},
		{"negative capacity", func(c *Config) { c.Events.Capacity = -1 }, "M108"},
		{"bad overflow", func(c *Config) { c.Events.Overflow = "block" }, "M104"},
		{"bad state", func(c *Config) { c.Lifecycle.MinState = "paused" }, "M105"},
		{"state below created", func(c *Config) { c.Lifecycle.MinState = "initialized" }, "M105"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "M106"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "M107"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.HasCode(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestMinStateCaseInsensitive(t *testing.T) {
	cfg := New()
	cfg.Lifecycle.MinState = "CREATED"
	if s, err := cfg.MinState(); err != nil || s != lifecycle.Created {
		t.Errorf("MinState() = %v, %v", s, err)
	}
}

func TestContainerOptions(t *testing.T) {
	cfg := New()
	cfg.Events.Capacity = 4
	if got := len(cfg.ContainerOptions()); got != 2 {
		t.Errorf("len(ContainerOptions()) = %d, want 2", got)
	}
}

func TestLogger(t *testing.T) {
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record passed a warn-level logger")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("json output = %q", out)
	}
}
