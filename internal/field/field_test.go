package field

import (
	"errors"
	"math"
	"testing"
)

func newTestField(t *testing.T, count int, seed uint64) *Field {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ParticleCount = count
	f, err := New(cfg, NewRand(seed))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a := newTestField(t, 64, 42)
	b := newTestField(t, 64, 42)
	for i := 0; i < a.Len(); i++ {
		if a.Orbit(i) != b.Orbit(i) {
			t.Fatalf("orbit %d differs: %+v vs %+v", i, a.Orbit(i), b.Orbit(i))
		}
		ax, ay, az := a.Position(i)
		bx, by, bz := b.Position(i)
		if ax != bx || ay != by || az != bz {
			t.Fatalf("position %d differs", i)
		}
	}

	c := newTestField(t, 64, 43)
	same := 0
	for i := 0; i < a.Len(); i++ {
		if a.Orbit(i) == c.Orbit(i) {
			same++
		}
	}
	if same == a.Len() {
		t.Fatal("different seeds produced identical orbits")
	}
}

func TestGenerateRanges(t *testing.T) {
	f := newTestField(t, 2000, 7)
	for i := 0; i < f.Len(); i++ {
		o := f.Orbit(i)
		if o.Angle < 0 || o.Angle >= 2*math.Pi {
			t.Fatalf("angle %v out of range", o.Angle)
		}
		if o.Radius < MinRadius || o.Radius >= MaxRadius {
			t.Fatalf("radius %v out of range", o.Radius)
		}
		if o.Spread < -MaxSpread || o.Spread >= MaxSpread {
			t.Fatalf("spread %v out of range", o.Spread)
		}
		if o.Depth < -DepthExtent || o.Depth >= DepthExtent {
			t.Fatalf("depth %v out of range", o.Depth)
		}
		if o.Speed < MinSpeed || o.Speed >= MaxSpeed {
			t.Fatalf("speed %v out of range", o.Speed)
		}

		// The initial position sits on the home orbit at t = 0.
		x, y, z := f.Position(i)
		tx, ty, tz := o.Target(0)
		if math.Abs(x-tx) > 1e-12 || math.Abs(y-ty) > 1e-12 || z != tz {
			t.Fatalf("particle %d starts at (%v,%v,%v), orbit says (%v,%v,%v)", i, x, y, z, tx, ty, tz)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero count", func(c *Config) { c.ParticleCount = 0 }},
		{"negative threshold", func(c *Config) { c.GravityThreshold = -1 }},
		{"nan attraction", func(c *Config) { c.AttractionStrength = math.NaN() }},
		{"inf swirl", func(c *Config) { c.SwirlStrength = math.Inf(1) }},
		{"zero return rate", func(c *Config) { c.ReturnRate = 0 }},
		{"return rate above one", func(c *Config) { c.ReturnRate = 1.5 }},
		{"camera behind plane", func(c *Config) { c.CameraZ = 0 }},
		{"negative fog", func(c *Config) { c.FogDensity = -0.1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, err := New(cfg, NewRand(1))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if _, err := New(DefaultConfig(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("nil source: err = %v", err)
	}
}

func TestRenderDataInterleaves(t *testing.T) {
	f := newTestField(t, 5, 3)
	buf := f.RenderData(nil)
	if len(buf) != 15 {
		t.Fatalf("len = %d, want 15", len(buf))
	}
	for i := 0; i < f.Len(); i++ {
		x, y, z := f.Position(i)
		if buf[i*3] != float32(x) || buf[i*3+1] != float32(y) || buf[i*3+2] != float32(z) {
			t.Fatalf("particle %d packed as %v", i, buf[i*3:i*3+3])
		}
	}

	again := f.RenderData(buf)
	if &again[0] != &buf[0] {
		t.Fatal("RenderData reallocated a buffer with enough capacity")
	}
}

func TestRandFloat64Range(t *testing.T) {
	r := NewRand(0)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 = %v", v)
		}
	}
}
