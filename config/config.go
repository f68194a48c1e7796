// Package config provides configuration loading and access for the road
// network generator.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/papaveez/metropolis-gen/generate"
	"github.com/papaveez/metropolis-gen/roads"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Roads     RoadsConfig     `yaml:"roads"`
	Noise     NoiseConfig     `yaml:"noise"`
	Editor    EditorConfig    `yaml:"editor"`
	Particles ParticlesConfig `yaml:"particles"`
	Traffic   TrafficConfig   `yaml:"traffic"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ScreenConfig holds display settings. The generation viewport matches
// the screen.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// RoadsConfig holds per-class generator parameters.
type RoadsConfig struct {
	Main       RoadClassConfig `yaml:"main"`
	HighStreet RoadClassConfig `yaml:"high_street"`
	SideStreet RoadClassConfig `yaml:"side_street"`
}

// RoadClassConfig mirrors generate.Parameters for one road class.
type RoadClassConfig struct {
	MaxSeedRetries           int     `yaml:"max_seed_retries"`
	MaxIntegrationIterations int     `yaml:"max_integration_iterations"`
	DSep                     float64 `yaml:"d_sep"`       // same-direction seed separation
	DTest                    float64 `yaml:"d_test"`      // tip termination distance
	DCircle                  float64 `yaml:"d_circle"`    // cycle detection divergence
	Dl                       float64 `yaml:"dl"`          // integration step length
	DLookahead               float64 `yaml:"d_lookahead"` // endpoint join search radius
	ThetaMax                 float64 `yaml:"theta_max"`   // max join angle (radians)
	Epsilon                  float64 `yaml:"epsilon"`     // simplification tolerance
	NodeSep                  float64 `yaml:"node_sep"`    // min retained node spacing
}

// NoiseConfig perturbs field sampling for organic-looking streets.
type NoiseConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Size     float64 `yaml:"size"`
	Strength float64 `yaml:"strength"`
}

// EditorConfig holds field editor brush defaults.
type EditorConfig struct {
	BrushSize    float64 `yaml:"brush_size"`
	BrushDecay   float64 `yaml:"brush_decay"`
	ThetaStep    float64 `yaml:"theta_step"`
	HatchSpacing int     `yaml:"hatch_spacing"`
}

// ParticlesConfig holds the flow particle overlay settings for the
// field editor.
type ParticlesConfig struct {
	Enabled     bool `yaml:"enabled"`
	TargetCount int  `yaml:"target_count"`
}

// TrafficConfig holds ambient vehicle settings for the map view.
type TrafficConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Vehicles  int     `yaml:"vehicles"`
	SpeedMain float64 `yaml:"speed_main"`
	SpeedHigh float64 `yaml:"speed_high"`
	SpeedSide float64 `yaml:"speed_side"`
}

// TelemetryConfig holds stats output settings.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
}

func (r RoadClassConfig) params() generate.Parameters {
	return generate.Parameters{
		MaxSeedRetries:           r.MaxSeedRetries,
		MaxIntegrationIterations: r.MaxIntegrationIterations,
		DSep:                     r.DSep,
		DTest:                    r.DTest,
		DCircle:                  r.DCircle,
		Dl:                       r.Dl,
		DLookahead:               r.DLookahead,
		ThetaMax:                 r.ThetaMax,
		Epsilon:                  r.Epsilon,
		NodeSep:                  r.NodeSep,
	}
}

// GeneratorParams builds the per-class parameter map the generator
// consumes.
func (c *Config) GeneratorParams() map[roads.RoadType]generate.Parameters {
	return map[roads.RoadType]generate.Parameters{
		roads.Main:       c.Roads.Main.params(),
		roads.HighStreet: c.Roads.HighStreet.params(),
		roads.SideStreet: c.Roads.SideStreet.params(),
	}
}

// VehicleSpeed returns the traffic speed for a road class.
func (c *Config) VehicleSpeed(road roads.RoadType) float64 {
	switch road {
	case roads.Main:
		return c.Traffic.SpeedMain
	case roads.HighStreet:
		return c.Traffic.SpeedHigh
	default:
		return c.Traffic.SpeedSide
	}
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct so the file only overrides the
		// fields it names.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
