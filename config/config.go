package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/olivierh59500/ventrella/physics"
)

// DefaultPath is read when VENTRELLA_CONFIG is unset.
const DefaultPath = "ventrella.json"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Window describes the ebiten window.
type Window struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Title      string     `json:"title"`
	Resizable  bool       `json:"resizable"`
	TPS        int        `json:"tps"`
	Background color.RGBA `json:"background"`
}

// ClusterConfig is one population.
type ClusterConfig struct {
	Name  string     `json:"name"`
	Count int        `json:"count"`
	Color color.RGBA `json:"color"`
}

// Rule is one interaction pass: Source particles move under the force of
// Target particles. Gain is scaled by the frame time before use.
type Rule struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Gain        float64 `json:"gain"`
	MaxDistance float64 `json:"max_distance"`
}

// Config holds every tunable of the simulation.
type Config struct {
	Window   Window          `json:"window"`
	Clusters []ClusterConfig `json:"clusters"`
	// Rules run in order every unpaused frame.
	Rules       []Rule `json:"rules"`
	Integration string `json:"integration"`
	StartPaused bool   `json:"start_paused"`
	// Seed of 0 seeds from the wall clock.
	Seed int64 `json:"seed"`
}

var (
	Red  = color.RGBA{230, 41, 55, 255}
	Blue = color.RGBA{0, 121, 241, 255}
)

// DefaultConfig returns the reference setup: 100 red and 10000 blue particles.
func DefaultConfig() *Config {
	return &Config{
		Window: Window{
			Width:      800,
			Height:     600,
			Title:      "ventrella",
			Resizable:  true,
			TPS:        60,
			Background: color.RGBA{0x18, 0x18, 0x18, 0xAA},
		},
		Clusters: []ClusterConfig{
			{Name: "red", Count: 100, Color: Red},
			{Name: "blue", Count: 10000, Color: Blue},
		},
		Rules: []Rule{
			{Source: "red", Target: "red", Gain: -1.0, MaxDistance: 80},
			{Source: "red", Target: "blue", Gain: 0.1, MaxDistance: 19},
			{Source: "blue", Target: "red", Gain: 0.1, MaxDistance: 80},
		},
		Integration: physics.PerTarget.String(),
		StartPaused: true,
	}
}

// Load reads a JSON config from path over the defaults. A missing file yields
// the defaults. Clusters and rules, when present, replace the default lists.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	defaults := DefaultConfig()
	cfg.Clusters = nil
	cfg.Rules = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Clusters == nil {
		cfg.Clusters = defaults.Clusters
	}
	if cfg.Rules == nil {
		cfg.Rules = defaults.Rules
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Path returns the config file location from VENTRELLA_CONFIG.
func Path() string {
	if p := os.Getenv("VENTRELLA_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// FromEnv loads the config file named by Path and applies environment
// overrides on top:
//
//	VENTRELLA_<NAME>_COUNT   particle count of cluster NAME (e.g. VENTRELLA_RED_COUNT)
//	VENTRELLA_INTEGRATION    per-target or per-source
//	VENTRELLA_SEED           random seed, 0 for wall clock
//	VENTRELLA_START_PAUSED   true or false
//
// Malformed values are ignored.
func FromEnv() (*Config, error) {
	cfg, err := Load(Path())
	if err != nil {
		return nil, err
	}

	for i := range cfg.Clusters {
		key := "VENTRELLA_" + strings.ToUpper(cfg.Clusters[i].Name) + "_COUNT"
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				cfg.Clusters[i].Count = n
			}
		}
	}
	if v := os.Getenv("VENTRELLA_INTEGRATION"); v != "" {
		cfg.Integration = v
	}
	if v := os.Getenv("VENTRELLA_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("VENTRELLA_START_PAUSED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.StartPaused = b
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross references and ranges.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.Window.TPS)
	}
	if len(c.Clusters) == 0 {
		return fmt.Errorf("%w: no clusters", ErrInvalid)
	}

	names := make(map[string]bool, len(c.Clusters))
	for _, cl := range c.Clusters {
		if cl.Name == "" {
			return fmt.Errorf("%w: cluster without a name", ErrInvalid)
		}
		if names[cl.Name] {
			return fmt.Errorf("%w: duplicate cluster %q", ErrInvalid, cl.Name)
		}
		if cl.Count <= 0 {
			return fmt.Errorf("%w: cluster %q count %d", ErrInvalid, cl.Name, cl.Count)
		}
		names[cl.Name] = true
	}

	for i, r := range c.Rules {
		if !names[r.Source] {
			return fmt.Errorf("%w: rule %d: unknown source %q", ErrInvalid, i, r.Source)
		}
		if !names[r.Target] {
			return fmt.Errorf("%w: rule %d: unknown target %q", ErrInvalid, i, r.Target)
		}
		if r.MaxDistance <= 0 {
			return fmt.Errorf("%w: rule %d: max distance %g", ErrInvalid, i, r.MaxDistance)
		}
	}

	if _, err := physics.ParseMode(c.Integration); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Mode returns the parsed integration mode. Call after Validate.
func (c *Config) Mode() physics.Mode {
	m, _ := physics.ParseMode(c.Integration)
	return m
}
