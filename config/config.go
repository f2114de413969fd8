// Package config loads the daemon configuration from an optional YAML file
// and SPATIAL_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chabad360/osc-spatial/geom"
)

// Config is the top-level daemon configuration.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	HTTP      HTTPConfig      `yaml:"http"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
	Storage   StorageConfig   `yaml:"storage"`
	Scene     SceneConfig     `yaml:"scene"`
	Speakers  SpeakerConfig   `yaml:"speakers"`
	Meters    MeterConfig     `yaml:"meters"`

	BurstDelay   time.Duration `yaml:"burst_delay"`
	StartupDelay time.Duration `yaml:"startup_delay"`
	Autoload     *bool         `yaml:"autoload"`
	LogLevel     string        `yaml:"log_level"` // debug | info | warn | error
}

// EngineConfig locates the audio engine.
type EngineConfig struct {
	// Host is empty until the operator sets one.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Listen is the UDP address acks and meters arrive on.
	Listen string `yaml:"listen"`
}

type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

type HeartbeatConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// StorageConfig selects the snapshot backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // fs | sqlite | memory
	Path    string `yaml:"path"`
}

type SceneConfig struct {
	Objects     int     `yaml:"objects"`
	Labels      int     `yaml:"labels"`
	Zones       int     `yaml:"zones"`
	Radius      float64 `yaml:"radius"`
	OuterRadius float64 `yaml:"outer_radius"`
	AngleBound  float64 `yaml:"angle_bound"`
}

type SpeakerConfig struct {
	Max    int       `yaml:"max"`
	Bounds geom.Rect `yaml:"bounds"`
}

type MeterConfig struct {
	Inputs  int `yaml:"inputs"`
	Outputs int `yaml:"outputs"`
	// Master is the /channelOut/ number of the master meter.
	Master int `yaml:"master"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadFile reads a YAML configuration file. Missing fields get defaults.
func LoadFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Load reads path when it is not empty, applies environment overrides and
// validates the result. Defaults are applied last so that they can depend
// on overridden fields.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		var err error
		if cfg, err = readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	if c.Engine.Port <= 0 {
		c.Engine.Port = 9000
	}
	if c.Engine.Listen == "" {
		c.Engine.Listen = ":9001"
	}
	if c.HTTP.Listen == "" {
		c.HTTP.Listen = "127.0.0.1:8080"
	}
	if c.Heartbeat.Interval <= 0 {
		c.Heartbeat.Interval = time.Second
	}
	if c.Heartbeat.Timeout <= 0 {
		c.Heartbeat.Timeout = 2 * time.Second
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "fs"
	}
	if c.Storage.Path == "" {
		if c.Storage.Backend == "sqlite" {
			c.Storage.Path = "snapshots.db"
		} else {
			c.Storage.Path = "snapshots"
		}
	}
	if c.Scene.Objects <= 0 {
		c.Scene.Objects = 16
	}
	if c.Scene.Labels <= 0 {
		c.Scene.Labels = c.Scene.Objects
	}
	if c.Scene.Zones <= 0 {
		c.Scene.Zones = 8
	}
	if c.Scene.Radius <= 0 {
		c.Scene.Radius = 2.8
	}
	if c.Scene.OuterRadius <= 0 {
		c.Scene.OuterRadius = 3.8
	}
	if c.Scene.AngleBound <= 0 {
		c.Scene.AngleBound = 999
	}
	if c.Speakers.Max <= 0 {
		c.Speakers.Max = 16
	}
	if c.Speakers.Bounds == (geom.Rect{}) {
		c.Speakers.Bounds = geom.Rect{Min: geom.Point{X: -5, Y: -3}, Max: geom.Point{X: 5, Y: 3}}
	}
	if c.Meters.Inputs <= 0 {
		c.Meters.Inputs = 8
	}
	if c.Meters.Outputs <= 0 {
		c.Meters.Outputs = 16
	}
	if c.Meters.Master <= 0 {
		c.Meters.Master = 20
	}
	if c.BurstDelay <= 0 {
		c.BurstDelay = 100 * time.Millisecond
	}
	if c.StartupDelay <= 0 {
		c.StartupDelay = 500 * time.Millisecond
	}
	if c.Autoload == nil {
		on := true
		c.Autoload = &on
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// applyEnv overrides fields from SPATIAL_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	str("SPATIAL_ENGINE_HOST", &c.Engine.Host)
	str("SPATIAL_OSC_LISTEN", &c.Engine.Listen)
	str("SPATIAL_HTTP_LISTEN", &c.HTTP.Listen)
	str("SPATIAL_STORAGE", &c.Storage.Backend)
	str("SPATIAL_STORAGE_PATH", &c.Storage.Path)
	str("SPATIAL_LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup("SPATIAL_ENGINE_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SPATIAL_ENGINE_PORT: %w", err)
		}
		c.Engine.Port = n
	}
	if v, ok := lookup("SPATIAL_AUTOLOAD"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SPATIAL_AUTOLOAD: %w", err)
		}
		c.Autoload = &b
	}
	return nil
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	if c.Engine.Port > 65535 {
		return fmt.Errorf("engine.port %d out of range", c.Engine.Port)
	}
	switch c.Storage.Backend {
	case "fs", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.backend: unsupported %q (use fs, sqlite or memory)", c.Storage.Backend)
	}
	if c.Scene.OuterRadius <= c.Scene.Radius {
		return fmt.Errorf("scene.outer_radius %v must exceed scene.radius %v", c.Scene.OuterRadius, c.Scene.Radius)
	}
	if c.Meters.Master <= c.Meters.Outputs {
		return fmt.Errorf("meters.master %d collides with output meters 1..%d", c.Meters.Master, c.Meters.Outputs)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns LogLevel as a slog level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
