// Package config loads the YAML settings shared by the viewer, the server and
// the command line tools. Values resolve in this order: built-in defaults, the
// YAML file, then environment variables (optionally from a .env file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	chart "github.com/wcharczuk/go-chart/v2"
	"gopkg.in/yaml.v3"

	"github.com/TheHeat/moods/src/moods"
	"github.com/TheHeat/moods/src/render"
)

// DefaultPath is used when CONFIG_FILE is unset.
const DefaultPath = "config/moods.yaml"

// Environment overrides.
const (
	EnvConfigFile = "CONFIG_FILE"
	EnvData       = "MOODS_DATA"
	EnvHTTPPort   = "MOODS_HTTP_PORT"
	EnvLogLevel   = "MOODS_LOG_LEVEL"
)

type Config struct {
	Data     DataConfig  `yaml:"data"`
	Chart    ChartConfig `yaml:"chart"`
	HTTP     HTTPConfig  `yaml:"http"`
	LogLevel string      `yaml:"log_level"`
}

type DataConfig struct {
	Path string `yaml:"path"`
}

type ChartConfig struct {
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	Padding    PaddingConfig `yaml:"padding"`
	MarkerDays []int         `yaml:"marker_days"`
	Hints      bool          `yaml:"hints"`
}

type PaddingConfig struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

// RenderOptions converts the chart section for the renderer.
func (c ChartConfig) RenderOptions() render.Options {
	o := render.DefaultOptions()
	o.Width, o.Height = c.Width, c.Height
	o.Padding = chart.Box{Top: c.Padding.Top, Right: c.Padding.Right, Bottom: c.Padding.Bottom, Left: c.Padding.Left}
	if c.MarkerDays != nil {
		o.MarkerDays = append([]int(nil), c.MarkerDays...)
	}
	o.Hints = c.Hints
	return o
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr joins host and port for net/http.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Data: DataConfig{Path: moods.DefaultDataFile},
		Chart: ChartConfig{
			Width:      1000,
			Height:     500,
			Padding:    PaddingConfig{Top: 40, Right: 20, Bottom: 20, Left: 60},
			MarkerDays: []int{7, 15, 29},
		},
		HTTP:     HTTPConfig{Host: "127.0.0.1", Port: 8080},
		LogLevel: "info",
	}
}

// LoadConfig reads the YAML file at path over the defaults. Keys missing from
// the file keep their default value.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves the full configuration: .env, CONFIG_FILE (or DefaultPath),
// then the MOODS_* variables. Only a missing DefaultPath falls back to defaults;
// a CONFIG_FILE that does not exist is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		moods.Warnf("[config] .env: %v", err)
	}
	path := os.Getenv(EnvConfigFile)
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	cfg, err := LoadConfig(path)
	switch {
	case err == nil:
		moods.Debugf("[config] loaded %s", path)
	case errors.Is(err, fs.ErrNotExist) && explicit:
		return nil, fmt.Errorf("%s=%s: %w", EnvConfigFile, path, err)
	case errors.Is(err, fs.ErrNotExist):
		moods.Debugf("[config] %s not found, using defaults", path)
		cfg = Default()
	default:
		return nil, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays MOODS_* values read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvData)); v != "" {
		c.Data.Path = v
	}
	if v := strings.TrimSpace(getenv(EnvHTTPPort)); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvHTTPPort, v, err)
		}
		c.HTTP.Port = p
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	return c.Validate()
}

// Validate rejects settings that cannot produce a chart or a listener.
func (c *Config) Validate() error {
	if c.Chart.Width < 100 || c.Chart.Height < 100 {
		return fmt.Errorf("chart size %dx%d too small", c.Chart.Width, c.Chart.Height)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http port %d out of range", c.HTTP.Port)
	}
	p := c.Chart.Padding
	if p.Top < 0 || p.Right < 0 || p.Bottom < 0 || p.Left < 0 {
		return errors.New("chart padding must be non-negative")
	}
	if _, err := moods.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
