package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/mvi/internal/errors"
	"github.com/vango-dev/mvi/pkg/lifecycle"
	"github.com/vango-dev/mvi/pkg/mvi"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "mvi.json"

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultMinState is the default lifecycle threshold for subscriptions.
	DefaultMinState = "started"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "mvi"
)

// Config represents the complete mvi.json configuration.
type Config struct {
	// Inspector configures the devtools HTTP server.
	Inspector InspectorConfig `json:"inspector"`

	// Events configures container event queues.
	Events EventsConfig `json:"events"`

	// Lifecycle configures lifecycle-aware subscriptions.
	Lifecycle LifecycleConfig `json:"lifecycle"`

	// Log configures the CLI logger.
	Log LogConfig `json:"log"`

	// Metrics configures the Prometheus observer.
	Metrics MetricsConfig `json:"metrics"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`
}

// EventsConfig contains event queue settings.
type EventsConfig struct {
	// Capacity bounds each queue. Zero means unbounded.
	Capacity int `json:"capacity"`

	// Overflow is "drop-oldest" or "drop-newest".
	Overflow string `json:"overflow,omitempty"`
}

// LifecycleConfig contains subscription threshold settings.
type LifecycleConfig struct {
	// MinState is "created", "started" or "resumed".
	MinState string `json:"minState,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Enabled registers the Prometheus observer and /metrics.
	Enabled bool `json:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{Metrics: MetricsConfig{Enabled: true}}
	c.applyDefaults()
	return c
}

// Load reads mvi.json from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("M101").
				WithFile(path).
				WithSuggestion("Run 'mvi config init' to create one").
				Wrap(err)
		}
		return nil, errors.New("M102").WithFile(path).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("M102").
			WithFile(path).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.FromError(err, "M102").WithFile(path)
	}
	return cfg, nil
}

// LoadOrNew reads path, or returns the defaults when it does not exist.
func LoadOrNew(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if errors.HasCode(err, "M101") {
		return New(), nil
	}
	return cfg, err
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("M109").WithFile(path).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("M109").WithFile(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Events.Overflow == "" {
		c.Events.Overflow = mvi.DropOldest.String()
	}
	if c.Lifecycle.MinState == "" {
		c.Lifecycle.MinState = DefaultMinState
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspector.Port < 1 || c.Inspector.Port > 65535 {
		return errors.New("M103").
			WithSuggestion("Use a port between 1 and 65535").
			Wrap(fmt.Errorf("port %d", c.Inspector.Port))
	}
	if c.Events.Capacity < 0 {
		return errors.New("M108").Wrap(fmt.Errorf("capacity %d", c.Events.Capacity))
	}
	if _, ok := mvi.ParseOverflow(c.Events.Overflow); !ok {
		return errors.New("M104").Wrap(fmt.Errorf("overflow %q", c.Events.Overflow))
	}
	if _, err := c.MinState(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("M107").Wrap(fmt.Errorf("format %q", c.Log.Format))
	}
	return nil
}

// InspectorAddress returns the inspector listen address.
func (c *Config) InspectorAddress() string {
	return net.JoinHostPort(c.Inspector.Host, strconv.Itoa(c.Inspector.Port))
}

// InspectorURL returns the inspector base URL.
func (c *Config) InspectorURL() string {
	return "http://" + c.InspectorAddress()
}

// MinState returns the configured lifecycle threshold.
func (c *Config) MinState() (lifecycle.State, error) {
	name := strings.ToLower(strings.TrimSpace(c.Lifecycle.MinState))
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	s, err := lifecycle.ParseState(name)
	if err != nil || s < lifecycle.Created {
		return lifecycle.Destroyed, errors.New("M105").
			Wrap(fmt.Errorf("minState %q", c.Lifecycle.MinState))
	}
	return s, nil
}

// Overflow returns the configured overflow policy, defaulting to DropOldest.
func (c *Config) Overflow() mvi.Overflow {
	o, ok := mvi.ParseOverflow(c.Events.Overflow)
	if !ok {
		return mvi.DropOldest
	}
	return o
}

// ContainerOptions returns the container options implied by the config.
func (c *Config) ContainerOptions() []mvi.Option {
	return []mvi.Option{
		mvi.WithEventCapacity(c.Events.Capacity),
		mvi.WithOverflow(c.Overflow()),
	}
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, errors.New("M106").Wrap(err)
	}
	return level, nil
}

// Logger builds a logger writing to w in the configured format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
