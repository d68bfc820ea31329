package field

import (
	"errors"
	"fmt"
	"math"
)

// Defaults.
const (
	DefaultParticleCount      = 4000
	DefaultGravityThreshold   = 12.0
	DefaultAttractionStrength = 0.15
	DefaultSwirlStrength      = 0.08
	DefaultBaseSpeed          = 0.002
	DefaultSpinRate           = 0.02
	DefaultReturnRate         = 0.03
	DefaultCameraZ            = 8.0
	DefaultFogDensity         = 0.035
)

// Orbit sampling ranges.
const (
	MinRadius   = 3.0
	MaxRadius   = 11.0
	MaxSpread   = 1.0
	DepthExtent = 2.5
	MinSpeed    = 0.005
	MaxSpeed    = 0.025
	OrbitSquash = 0.5 // vertical squash of the home ellipse
)

// Additive terms that keep the near-regime forces finite at dist = 0.
const (
	attractionSoftening = 0.1
	swirlSoftening      = 0.5
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid field config")

// Config holds the immutable tunables of one field.
type Config struct {
	ParticleCount      int
	GravityThreshold   float64
	AttractionStrength float64
	SwirlStrength      float64
	BaseSpeed          float64 // carried for host tuning; orbits use per-particle speeds
	SpinRate           float64 // rotation of the whole field about z, rad per second
	ReturnRate         float64 // fraction of the remaining distance closed per frame
	CameraZ            float64
	FogDensity         float64

	// Workers > 1 splits Step across goroutines.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		ParticleCount:      DefaultParticleCount,
		GravityThreshold:   DefaultGravityThreshold,
		AttractionStrength: DefaultAttractionStrength,
		SwirlStrength:      DefaultSwirlStrength,
		BaseSpeed:          DefaultBaseSpeed,
		SpinRate:           DefaultSpinRate,
		ReturnRate:         DefaultReturnRate,
		CameraZ:            DefaultCameraZ,
		FogDensity:         DefaultFogDensity,
		Workers:            1,
	}
}

// Validate reports the first out-of-range tunable.
func (c Config) Validate() error {
	switch {
	case c.ParticleCount <= 0:
		return fmt.Errorf("%w: particle count %d", ErrInvalidConfig, c.ParticleCount)
	case !finite(c.GravityThreshold) || c.GravityThreshold < 0:
		return fmt.Errorf("%w: gravity threshold %v", ErrInvalidConfig, c.GravityThreshold)
	case !finite(c.AttractionStrength) || c.AttractionStrength < 0:
		return fmt.Errorf("%w: attraction strength %v", ErrInvalidConfig, c.AttractionStrength)
	case !finite(c.SwirlStrength):
		return fmt.Errorf("%w: swirl strength %v", ErrInvalidConfig, c.SwirlStrength)
	case !finite(c.BaseSpeed):
		return fmt.Errorf("%w: base speed %v", ErrInvalidConfig, c.BaseSpeed)
	case !finite(c.SpinRate):
		return fmt.Errorf("%w: spin rate %v", ErrInvalidConfig, c.SpinRate)
	case !finite(c.ReturnRate) || c.ReturnRate <= 0 || c.ReturnRate > 1:
		return fmt.Errorf("%w: return rate %v", ErrInvalidConfig, c.ReturnRate)
	case !finite(c.CameraZ) || c.CameraZ <= 0:
		return fmt.Errorf("%w: camera z %v", ErrInvalidConfig, c.CameraZ)
	case !finite(c.FogDensity) || c.FogDensity < 0:
		return fmt.Errorf("%w: fog density %v", ErrInvalidConfig, c.FogDensity)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
