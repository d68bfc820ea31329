package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/caarlos0/env/v11"

	"vortex/internal/field"
)

const (
	HostDesktop  = "desktop"
	HostTerminal = "terminal"
)

// Settings is the process configuration read from VORTEX_* variables.
type Settings struct {
	Host   string `env:"VORTEX_HOST" envDefault:"desktop"`
	Seed   uint64 `env:"VORTEX_SEED" envDefault:"0"` // 0 seeds from the clock
	Width  int    `env:"VORTEX_WIDTH" envDefault:"1280"`
	Height int    `env:"VORTEX_HEIGHT" envDefault:"720"`
	Audio  bool   `env:"VORTEX_AUDIO" envDefault:"true"`
	FPS    int    `env:"VORTEX_FPS" envDefault:"30"` // terminal host only

	// LogFile receives the log when set. The terminal host discards it
	// otherwise, since stderr shares the screen.
	LogFile string `env:"VORTEX_LOG_FILE"`

	// Workers splits the field step across goroutines; 0 means one per CPU.
	Workers int `env:"VORTEX_WORKERS" envDefault:"0"`

	Particles          int     `env:"VORTEX_PARTICLES" envDefault:"4000"`
	GravityThreshold   float64 `env:"VORTEX_GRAVITY_THRESHOLD" envDefault:"12"`
	AttractionStrength float64 `env:"VORTEX_ATTRACTION" envDefault:"0.15"`
	SwirlStrength      float64 `env:"VORTEX_SWIRL" envDefault:"0.08"`
	BaseSpeed          float64 `env:"VORTEX_BASE_SPEED" envDefault:"0.002"`
	SpinRate           float64 `env:"VORTEX_SPIN_RATE" envDefault:"0.02"`
	ReturnRate         float64 `env:"VORTEX_RETURN_RATE" envDefault:"0.03"`
	CameraZ            float64 `env:"VORTEX_CAMERA_Z" envDefault:"8"`
	FogDensity         float64 `env:"VORTEX_FOG_DENSITY" envDefault:"0.035"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates Settings.
func Load() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	switch {
	case s.Host != HostDesktop && s.Host != HostTerminal:
		return fmt.Errorf("VORTEX_HOST %q: want %s or %s", s.Host, HostDesktop, HostTerminal)
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("window size %dx%d: must be positive", s.Width, s.Height)
	case s.FPS <= 0 || s.FPS > 240:
		return fmt.Errorf("VORTEX_FPS %d: want 1..240", s.FPS)
	case s.Workers < 0:
		return errors.New("VORTEX_WORKERS must not be negative")
	}
	return s.Field().Validate()
}

// Field maps the tunables onto a field config.
func (s Settings) Field() field.Config {
	workers := s.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return field.Config{
		ParticleCount:      s.Particles,
		GravityThreshold:   s.GravityThreshold,
		AttractionStrength: s.AttractionStrength,
		SwirlStrength:      s.SwirlStrength,
		BaseSpeed:          s.BaseSpeed,
		SpinRate:           s.SpinRate,
		ReturnRate:         s.ReturnRate,
		CameraZ:            s.CameraZ,
		FogDensity:         s.FogDensity,
		Workers:            workers,
	}
}

// Source returns the seeded generator, or a clock-seeded one for seed 0.
func (s Settings) Source() field.Source {
	if s.Seed == 0 {
		return field.NewRand(field.ClockSeed())
	}
	return field.NewRand(s.Seed)
}
