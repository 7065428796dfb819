// Package config loads the TOML configuration of the scene stress harness.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/plus3/tween/scene"
)

// Config is the root of a configuration file.
type Config struct {
	Log LogConfig `toml:"log"`
	Rig RigConfig `toml:"rig"`
	Run RunConfig `toml:"run"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	Prefix     string `toml:"prefix"`
	Timestamps bool   `toml:"timestamps"`
}

// RigConfig describes the randomly generated scene.
type RigConfig struct {
	Entities int   `toml:"entities"`
	MaxDeps  int   `toml:"max_deps"`
	Seed     int64 `toml:"seed"`

	// BackEdges is the chance that a dependency points at an entity later in
	// store order, which is what makes cycles possible.
	BackEdges float64 `toml:"back_edges"`

	Mix TrackMix `toml:"mix"`
}

// TrackMix holds relative weights for picking track kinds.
type TrackMix struct {
	Position   int `toml:"position"`
	Rotation   int `toml:"rotation"`
	Procedural int `toml:"procedural"`
	Pose       int `toml:"pose"`
	IK         int `toml:"ik"`
	Constraint int `toml:"constraint"`
	Visibility int `toml:"visibility"`
	Texture    int `toml:"texture"`
	Distortion int `toml:"distortion"`
}

// Total returns the sum of all weights.
func (m TrackMix) Total() int {
	return m.Position + m.Rotation + m.Procedural + m.Pose + m.IK +
		m.Constraint + m.Visibility + m.Texture + m.Distortion
}

type RunConfig struct {
	Frames        int     `toml:"frames"`
	FPS           float64 `toml:"fps"`
	EditsPerFrame int     `toml:"edits_per_frame"`
	FaultPolicy   string  `toml:"fault_policy"`
	Renotify      bool    `toml:"renotify_on_revisit"`
	Profile       string  `toml:"profile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Prefix:     "scene-stress",
			Timestamps: true,
		},
		Rig: RigConfig{
			Entities:  2000,
			MaxDeps:   3,
			Seed:      1,
			BackEdges: 0.1,
			Mix: TrackMix{
				Position:   4,
				Rotation:   3,
				Procedural: 2,
				Pose:       1,
				IK:         1,
				Constraint: 1,
				Visibility: 1,
				Texture:    1,
				Distortion: 1,
			},
		},
		Run: RunConfig{
			Frames:        600,
			FPS:           60,
			EditsPerFrame: 4,
			FaultPolicy:   "isolate",
		},
	}
}

// Load reads path on top of the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a TOML document on top of the defaults. Unknown keys are
// an error.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Rig.Entities < 1 {
		errs = append(errs, fmt.Errorf("rig.entities must be positive, got %d", c.Rig.Entities))
	}
	if c.Rig.MaxDeps < 0 {
		errs = append(errs, fmt.Errorf("rig.max_deps must not be negative, got %d", c.Rig.MaxDeps))
	}
	if c.Rig.BackEdges < 0 || c.Rig.BackEdges > 1 {
		errs = append(errs, fmt.Errorf("rig.back_edges must be within [0, 1], got %g", c.Rig.BackEdges))
	}
	if c.Rig.Mix.Total() <= 0 {
		errs = append(errs, errors.New("rig.mix needs at least one positive weight"))
	}
	if c.Run.Frames < 1 {
		errs = append(errs, fmt.Errorf("run.frames must be positive, got %d", c.Run.Frames))
	}
	if c.Run.FPS <= 0 {
		errs = append(errs, fmt.Errorf("run.fps must be positive, got %g", c.Run.FPS))
	}
	if c.Run.EditsPerFrame < 0 {
		errs = append(errs, fmt.Errorf("run.edits_per_frame must not be negative, got %d", c.Run.EditsPerFrame))
	}
	if _, err := c.Policy(); err != nil {
		errs = append(errs, err)
	}
	switch c.Run.Profile {
	case "", "cpu", "mem":
	default:
		errs = append(errs, fmt.Errorf("run.profile must be cpu, mem or empty, got %q", c.Run.Profile))
	}
	return errors.Join(errs...)
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (log.Level, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Policy maps the configured fault policy to the evaluator's.
func (c *Config) Policy() (scene.FaultPolicy, error) {
	switch c.Run.FaultPolicy {
	case "", "isolate":
		return scene.FaultIsolate, nil
	case "abort":
		return scene.FaultAbort, nil
	default:
		return 0, fmt.Errorf("run.fault_policy must be isolate or abort, got %q", c.Run.FaultPolicy)
	}
}

// EvaluatorOptions translates the run settings into evaluator options.
func (c *Config) EvaluatorOptions(logger *log.Logger) []scene.Option {
	policy, _ := c.Policy()
	opts := []scene.Option{
		scene.WithLogger(logger),
		scene.WithFaultPolicy(policy),
	}
	if c.Run.Renotify {
		opts = append(opts, scene.WithRenotifyOnRevisit())
	}
	return opts
}
