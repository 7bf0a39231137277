package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const appName = "camp-tui"

// DeviceConfig describes a switchable consumer on the battery
type DeviceConfig struct {
	Name string `json:"name"`
	// Rated consumption in watts
	PowerW int  `json:"power_w"`
	On     bool `json:"on"`
}

// EnergyConfig configures the battery simulation
type EnergyConfig struct {
	CapacityWh   float64 `json:"capacity_wh"`
	StartPercent int     `json:"start_percent"`
	AutoSave     bool    `json:"auto_save"`
	// Device switched off by autosave (substring match)
	ChargerName string         `json:"charger_name"`
	Devices     []DeviceConfig `json:"devices"`
	IntervalMS  int            `json:"interval_ms"`
}

// LightingConfig configures the campsite lights
type LightingConfig struct {
	Brightness int  `json:"brightness"`
	AutoNight  bool `json:"auto_night"`
	IntervalMS int  `json:"interval_ms"`
}

// WeatherConfig configures the weather simulation
type WeatherConfig struct {
	IntervalMS int `json:"interval_ms"`
}

// ViewportConfig is the map size used for route projection
type ViewportConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// LogConfig controls the log file
type LogConfig struct {
	// debug, info, warn or error
	Level string `json:"level"`
	// text or json
	Format string `json:"format"`
	// Empty uses the state directory
	Path string `json:"path,omitempty"`
}

// Config stores all application configuration
type Config struct {
	Energy   EnergyConfig   `json:"energy"`
	Lighting LightingConfig `json:"lighting"`
	Weather  WeatherConfig  `json:"weather"`
	Viewport ViewportConfig `json:"viewport"`
	Log      LogConfig      `json:"log"`
	// Random seed for the simulators; 0 seeds from the clock
	Seed uint64 `json:"seed,omitempty"`
	// Address for the Prometheus endpoint; empty disables it
	MetricsAddr string `json:"metrics_addr,omitempty"`
}

var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrDeviceNotFound = errors.New("device not found")
)

// Default returns the stock configuration
func Default() *Config {
	return &Config{
		Energy: EnergyConfig{
			CapacityWh:   800,
			StartPercent: 78,
			AutoSave:     true,
			ChargerName:  "Charger",
			Devices: []DeviceConfig{
				{Name: "Fridge", PowerW: 60, On: true},
				{Name: "Water Pump", PowerW: 40},
				{Name: "Charger", PowerW: 20},
			},
			IntervalMS: 1000,
		},
		Lighting: LightingConfig{
			Brightness: 60,
			AutoNight:  true,
			IntervalMS: 60,
		},
		Weather:  WeatherConfig{IntervalMS: 1200},
		Viewport: ViewportConfig{Width: 1600, Height: 1067},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Interval returns the tick period
func (c EnergyConfig) Interval() time.Duration { return time.Duration(c.IntervalMS) * time.Millisecond }

// Interval returns the tick period
func (c LightingConfig) Interval() time.Duration { return time.Duration(c.IntervalMS) * time.Millisecond }

// Interval returns the tick period
func (c WeatherConfig) Interval() time.Duration { return time.Duration(c.IntervalMS) * time.Millisecond }

// configDir returns the configuration directory path
func configDir() (string, error) {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName), nil
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the full path to the config file
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns the configured log file, or camp.log in the XDG state
// directory
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, appName, "camp.log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName, "camp.log"), nil
}

// Load reads the configuration from disk. Fields missing from the file
// keep their defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if file doesn't exist
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Decode devices into a fresh slice so entries from the file do not
	// inherit fields from the defaults.
	defaults := cfg.Energy.Devices
	cfg.Energy.Devices = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Energy.Devices == nil {
		cfg.Energy.Devices = defaults
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to disk
func (c *Config) Save() error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Validate reports the first setting that cannot drive a simulation
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Energy.CapacityWh <= 0 {
		return invalid("energy.capacity_wh must be positive, got %v", c.Energy.CapacityWh)
	}
	if c.Energy.StartPercent < 0 || c.Energy.StartPercent > 100 {
		return invalid("energy.start_percent must be within 0-100, got %d", c.Energy.StartPercent)
	}
	seen := make(map[string]bool, len(c.Energy.Devices))
	for _, d := range c.Energy.Devices {
		switch {
		case strings.TrimSpace(d.Name) == "":
			return invalid("device with empty name")
		case d.PowerW < 0:
			return invalid("device %q has negative power %d", d.Name, d.PowerW)
		case seen[d.Name]:
			return invalid("duplicate device %q", d.Name)
		}
		seen[d.Name] = true
	}
	if c.Lighting.Brightness < 0 || c.Lighting.Brightness > 100 {
		return invalid("lighting.brightness must be within 0-100, got %d", c.Lighting.Brightness)
	}
	for name, ms := range map[string]int{
		"energy.interval_ms":   c.Energy.IntervalMS,
		"lighting.interval_ms": c.Lighting.IntervalMS,
		"weather.interval_ms":  c.Weather.IntervalMS,
	} {
		if ms <= 0 {
			return invalid("%s must be positive, got %d", name, ms)
		}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return invalid("viewport must have a positive size, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// AddDevice adds or updates a device by name
func (c *Config) AddDevice(device DeviceConfig) {
	// Check if device already exists and update it
	for i, d := range c.Energy.Devices {
		if d.Name == device.Name {
			c.Energy.Devices[i] = device
			return
		}
	}

	// Add new device
	c.Energy.Devices = append(c.Energy.Devices, device)
}

// GetDevice returns the device configuration by name
func (c *Config) GetDevice(name string) (*DeviceConfig, error) {
	for i := range c.Energy.Devices {
		if c.Energy.Devices[i].Name == name {
			return &c.Energy.Devices[i], nil
		}
	}
	return nil, ErrDeviceNotFound
}

// RemoveDevice removes a device by name
func (c *Config) RemoveDevice(name string) {
	for i, d := range c.Energy.Devices {
		if d.Name == name {
			c.Energy.Devices = append(c.Energy.Devices[:i], c.Energy.Devices[i+1:]...)
			return
		}
	}
}
