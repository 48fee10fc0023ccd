package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim       SimConfig       `toml:"sim"`
	World     WorldConfig     `toml:"world"`
	Data      DataConfig      `toml:"data"`
	Scripting ScriptingConfig `toml:"scripting"`
	Display   DisplayConfig   `toml:"display"`
	Logging   LoggingConfig   `toml:"logging"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

type SimConfig struct {
	FrameRate      time.Duration `toml:"frame_rate"`       // delay between presented frames
	FrameDivisor   int           `toml:"frame_divisor"`    // simulate once every N frames
	HitstunTicks   int           `toml:"hitstun_ticks"`    // ticks of frozen AI after the player lands a hit
	EventLogWindow int           `toml:"event_log_window"` // ticks a drained event stays in the log
	Seed           int64         `toml:"seed"`             // 0 = seed from the clock
	ShowEventLog   bool          `toml:"show_event_log"`
}

type WorldConfig struct {
	Left            int `toml:"left"`
	Top             int `toml:"top"`
	Width           int `toml:"width"`
	Height          int `toml:"height"`
	SoftMaxEntities int `toml:"soft_max_entities"`
	SoftMaxMobs     int `toml:"soft_max_mobs"`
	SoftMaxSprites  int `toml:"soft_max_sprites"`
	SoftMaxPhysics  int `toml:"soft_max_physics"`
}

type DataConfig struct {
	Species string `toml:"species"` // YAML path; empty = built-in table
}

type ScriptingConfig struct {
	Dir      string `toml:"dir"`      // directory of scenario scripts; empty = built-in population
	Scenario string `toml:"scenario"` // global Lua function to call
}

type DisplayConfig struct {
	Headless  bool `toml:"headless"`
	Width     int  `toml:"width"`      // headless only
	Height    int  `toml:"height"`     // headless only
	MaxFrames int  `toml:"max_frames"` // 0 = run until quit
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr
}

type MetricsConfig struct {
	Enabled  bool          `toml:"enabled"`
	Interval time.Duration `toml:"interval"`
}

// Load reads a TOML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return defaults(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaults(), nil
	}
	return cfg, err
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Sim.FrameRate <= 0:
		return errors.New("sim.frame_rate must be positive")
	case c.Sim.FrameDivisor < 1:
		return errors.New("sim.frame_divisor must be at least 1")
	case c.Sim.HitstunTicks < 0:
		return errors.New("sim.hitstun_ticks must not be negative")
	case c.World.Width <= 0 || c.World.Height <= 0:
		return errors.New("world.width and world.height must be positive")
	case c.World.SoftMaxEntities < 0 || c.World.SoftMaxMobs < 0 ||
		c.World.SoftMaxSprites < 0 || c.World.SoftMaxPhysics < 0:
		return errors.New("world.soft_max_* must not be negative")
	case c.Scripting.Dir != "" && c.Scripting.Scenario == "":
		return errors.New("scripting.scenario must be set when scripting.dir is")
	case c.Display.Headless && (c.Display.Width <= 0 || c.Display.Height <= 0):
		return errors.New("display.width and display.height must be positive when headless")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Sim: SimConfig{
			FrameRate:      15 * time.Millisecond,
			FrameDivisor:   1,
			HitstunTicks:   2,
			EventLogWindow: 20,
		},
		World: WorldConfig{
			Left:            -32,
			Top:             13,
			Width:           64,
			Height:          26,
			SoftMaxEntities: 8192,
			SoftMaxMobs:     1024,
			SoftMaxSprites:  4096,
			SoftMaxPhysics:  2048,
		},
		Scripting: ScriptingConfig{
			Scenario: "populate",
		},
		Display: DisplayConfig{
			Width:  80,
			Height: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "tickworld.log",
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Interval: 10 * time.Second,
		},
	}
}
