package field

import (
	"fmt"
	"math"
)

// Orbit is one particle's home trajectory.
type Orbit struct {
	Radius float64
	Angle  float64 // base angle at t = 0
	Spread float64 // vertical offset of the ellipse
	Depth  float64
	Speed  float64 // angular speed, rad per second
}

// Field is a fixed set of particles stored as structure-of-arrays.
// Particle identity is the index. Home orbits never change after New;
// only X, Y and Z are written by Step.
type Field struct {
	cfg Config

	X, Y, Z []float64

	radius []float64
	angle  []float64
	spread []float64
	depth  []float64
	speed  []float64
}

// New validates cfg and generates cfg.ParticleCount home orbits from src.
func New(cfg Config, src Source) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}
	f := &Field{cfg: cfg}
	f.generate(cfg.ParticleCount, src)
	return f, nil
}

// generate samples, per particle and in this order: angle, radius, spread,
// depth and speed. The order is part of the seeded-determinism contract.
func (f *Field) generate(n int, src Source) {
	f.X = make([]float64, n)
	f.Y = make([]float64, n)
	f.Z = make([]float64, n)
	f.radius = make([]float64, n)
	f.angle = make([]float64, n)
	f.spread = make([]float64, n)
	f.depth = make([]float64, n)
	f.speed = make([]float64, n)

	for i := 0; i < n; i++ {
		a := rangeF(src, 0, 2*math.Pi)
		r := rangeF(src, MinRadius, MaxRadius)
		s := rangeF(src, -MaxSpread, MaxSpread)
		z := rangeF(src, -DepthExtent, DepthExtent)
		v := rangeF(src, MinSpeed, MaxSpeed)

		f.angle[i] = a
		f.radius[i] = r
		f.spread[i] = s
		f.depth[i] = z
		f.speed[i] = v

		f.X[i] = math.Cos(a) * r
		f.Y[i] = math.Sin(a)*r*OrbitSquash + s
		f.Z[i] = z
	}
}

func (f *Field) Len() int { return len(f.X) }

func (f *Field) Config() Config { return f.cfg }

func (f *Field) Orbit(i int) Orbit {
	return Orbit{
		Radius: f.radius[i],
		Angle:  f.angle[i],
		Spread: f.spread[i],
		Depth:  f.depth[i],
		Speed:  f.speed[i],
	}
}

// Position returns particle i's current position.
func (f *Field) Position(i int) (x, y, z float64) {
	return f.X[i], f.Y[i], f.Z[i]
}

// Target returns where particle i's home orbit places it at time t.
func (o Orbit) Target(t float64) (x, y, z float64) {
	angle := o.Angle + t*o.Speed
	return math.Cos(angle) * o.Radius, math.Sin(angle)*o.Radius*OrbitSquash + o.Spread, o.Depth
}

// Spin returns the render-only rotation of the whole field about z at time t.
func (f *Field) Spin(t float64) float64 {
	return t * f.cfg.SpinRate
}
