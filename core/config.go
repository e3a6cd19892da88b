package core

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultFixedUpdateRate = 128

// Config is the engine configuration, usually loaded from a YAML file.
// Zero values are replaced by defaults when the file is parsed.
type Config struct {
	Window          WindowConfig `yaml:"window"`
	FixedUpdateRate int          `yaml:"fixed_update_rate"`
	ClearColor      *Color       `yaml:"clear_color"`
	LogLevel        string       `yaml:"log_level"`
	ShutdownGrace   Duration     `yaml:"shutdown_grace"`
	Models          []string     `yaml:"models"`
	Shaders         []string     `yaml:"shaders"`
	Textures        []string     `yaml:"textures"`
}

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable *bool  `yaml:"resizable"`
	VSync     bool   `yaml:"vsync"`
	Samples   int    `yaml:"samples"`
	GLMajor   int    `yaml:"gl_major"`
	GLMinor   int    `yaml:"gl_minor"`
}

func DefaultWindowConfig() WindowConfig {
	resizable := true
	return WindowConfig{
		Title:     "Tiny Engine",
		Width:     1280,
		Height:    720,
		Resizable: &resizable,
		VSync:     true,
		Samples:   4,
		GLMajor:   4,
		GLMinor:   1,
	}
}

func DefaultConfig() Config {
	cc := DefaultClearColor
	return Config{
		Window:          DefaultWindowConfig(),
		FixedUpdateRate: DefaultFixedUpdateRate,
		ClearColor:      &cc,
		LogLevel:        "info",
		ShutdownGrace:   Duration(time.Second),
	}
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses YAML config data, filling unset fields with defaults.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	w := &c.Window
	if w.Title == "" {
		w.Title = def.Window.Title
	}
	if w.Width == 0 {
		w.Width = def.Window.Width
	}
	if w.Height == 0 {
		w.Height = def.Window.Height
	}
	if w.Resizable == nil {
		w.Resizable = def.Window.Resizable
	}
	if w.Samples == 0 {
		w.Samples = def.Window.Samples
	}
	if w.GLMajor == 0 {
		w.GLMajor, w.GLMinor = def.Window.GLMajor, def.Window.GLMinor
	}
	if c.FixedUpdateRate == 0 {
		c.FixedUpdateRate = def.FixedUpdateRate
	}
	if c.ClearColor == nil {
		c.ClearColor = def.ClearColor
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.ShutdownGrace == 0 {
		c.ShutdownGrace = def.ShutdownGrace
	}
}

func (c Config) Validate() error {
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.FixedUpdateRate < 0 {
		return fmt.Errorf("invalid fixed_update_rate %d", c.FixedUpdateRate)
	}
	if c.ShutdownGrace < 0 {
		return fmt.Errorf("invalid shutdown_grace %v", c.ShutdownGrace.Duration())
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level; invalid values fall back to info.
func (c Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// FixedInterval is the target period between fixed updates.
func (c Config) FixedInterval() time.Duration {
	rate := c.FixedUpdateRate
	if rate <= 0 {
		rate = DefaultFixedUpdateRate
	}
	return time.Second / time.Duration(rate)
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log_level %q", s)
}

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
