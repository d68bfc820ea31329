package field

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const frameDt = 1.0 / 60.0

// farPointer is well beyond any gravity threshold for a field of radius < 11.
var farPointer = mgl64.Vec3{-1e5, -1e5, 0}

func targetDistance(f *Field, i int, t float64) float64 {
	x, y, z := f.Position(i)
	tx, ty, tz := f.Orbit(i).Target(t)
	return math.Sqrt((x-tx)*(x-tx) + (y-ty)*(y-ty) + (z-tz)*(z-tz))
}

func TestStepFarPointerNeverNear(t *testing.T) {
	f := newTestField(t, DefaultParticleCount, 11)
	for frame := 1; frame <= 30; frame++ {
		st := f.Step(float64(frame)*frameDt, farPointer)
		if st.Near != 0 {
			t.Fatalf("frame %d: %d particles near a far pointer", frame, st.Near)
		}
		if st.Far != f.Len() {
			t.Fatalf("frame %d: far = %d, want %d", frame, st.Far, f.Len())
		}
	}
}

func TestStepConvergesMonotonically(t *testing.T) {
	f := newTestField(t, 200, 5)
	for i := 0; i < f.Len(); i++ {
		f.X[i] += 20
		f.Y[i] -= 15
		f.Z[i] += 6
	}

	prev := make([]float64, f.Len())
	for i := range prev {
		prev[i] = targetDistance(f, i, 0)
	}
	for frame := 1; frame <= 60; frame++ {
		now := float64(frame) * frameDt
		f.Step(now, farPointer)
		for i := 0; i < f.Len(); i++ {
			d := targetDistance(f, i, now)
			if d >= prev[i]+1e-12 {
				t.Fatalf("frame %d particle %d: distance %v did not drop below %v", frame, i, d, prev[i])
			}
			prev[i] = d
		}
	}
}

func TestStepNearAttractsTowardPointer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 1
	f, err := New(cfg, NewRand(1))
	if err != nil {
		t.Fatal(err)
	}

	offsets := [][2]float64{{1, 0}, {0, -3}, {-5, 4}, {0.01, 0.02}, {8, 8}, {-11.9, 0}}
	for _, off := range offsets {
		f.X[0], f.Y[0], f.Z[0] = 0, 0, 1.25
		pointer := mgl64.Vec3{off[0], off[1], 0}

		st := f.Step(0, pointer)
		if st.Near != 1 {
			t.Fatalf("offset %v: stats %+v, want one near particle", off, st)
		}
		moveX, moveY := f.X[0], f.Y[0]
		radial := moveX*off[0] + moveY*off[1]
		if radial <= 0 {
			t.Fatalf("offset %v: radial component %v points away from the pointer", off, radial)
		}
		if f.Z[0] != 1.25 {
			t.Fatalf("offset %v: depth changed to %v in the near regime", off, f.Z[0])
		}
	}
}

func TestStepNearForceFormulas(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 1
	f, err := New(cfg, NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	f.X[0], f.Y[0], f.Z[0] = 2, 1, -0.5

	// dx = 3, dy = 4, dist = 5.
	f.Step(0, mgl64.Vec3{5, 5, 0})

	force := cfg.AttractionStrength / 5.1
	swirl := cfg.SwirlStrength / 5.5
	wantX := 2 + 3*force - 4*swirl
	wantY := 1 + 4*force + 3*swirl
	if math.Abs(f.X[0]-wantX) > 1e-12 || math.Abs(f.Y[0]-wantY) > 1e-12 {
		t.Fatalf("got (%v,%v), want (%v,%v)", f.X[0], f.Y[0], wantX, wantY)
	}
}

func TestStepThresholdIsStrict(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 1
	f, err := New(cfg, NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	f.X[0], f.Y[0] = 0, 0

	st := f.Step(0, mgl64.Vec3{cfg.GravityThreshold, 0, 0})
	if st.Far != 1 || st.Near != 0 {
		t.Fatalf("dist == threshold: stats %+v, want far", st)
	}
}

func TestStepGuardsNonFinitePointer(t *testing.T) {
	f := newTestField(t, 100, 9)
	bad := []mgl64.Vec3{
		{math.NaN(), 0, 0},
		{0, math.NaN(), 0},
		{math.Inf(1), math.Inf(-1), 0},
	}
	for _, p := range bad {
		f.Step(frameDt, p)
		for i := 0; i < f.Len(); i++ {
			x, y, z := f.Position(i)
			if !finite(x) || !finite(y) || !finite(z) {
				t.Fatalf("pointer %v leaked a non-finite position into particle %d", p, i)
			}
		}
	}

	st := f.Step(math.NaN(), farPointer)
	if st.Held != f.Len() {
		t.Fatalf("NaN time: held = %d, want %d", st.Held, f.Len())
	}
}

func TestStepZeroElapsedPointerOnParticle(t *testing.T) {
	f := newTestField(t, 1, 2)
	x, y, _ := f.Position(0)
	f.Step(0, mgl64.Vec3{x, y, 0})
	nx, ny, _ := f.Position(0)
	if nx != x || ny != y {
		t.Fatalf("pointer on particle moved it to (%v,%v)", nx, ny)
	}
}

func TestStepParallelMatchesSerial(t *testing.T) {
	serial := newTestField(t, DefaultParticleCount, 21)

	cfg := DefaultConfig()
	cfg.Workers = 4
	parallel, err := New(cfg, NewRand(21))
	if err != nil {
		t.Fatal(err)
	}

	pointers := []mgl64.Vec3{{0, 0, 0}, {3, -1, 0}, farPointer, {-6, 2, 0}}
	for frame := 1; frame <= 40; frame++ {
		p := pointers[frame%len(pointers)]
		now := float64(frame) * frameDt
		a := serial.Step(now, p)
		b := parallel.Step(now, p)
		if a != b {
			t.Fatalf("frame %d: stats %+v vs %+v", frame, a, b)
		}
	}
	for i := 0; i < serial.Len(); i++ {
		if serial.X[i] != parallel.X[i] || serial.Y[i] != parallel.Y[i] || serial.Z[i] != parallel.Z[i] {
			t.Fatalf("particle %d diverged", i)
		}
	}
}

// Ten particles, seed 42, 100 frames with the pointer never engaged: each
// particle trails its analytic orbit by at most the per-frame target motion
// divided by the return rate.
func TestStepEndToEndOrbit(t *testing.T) {
	f := newTestField(t, 10, 42)
	const frames = 100
	for frame := 1; frame <= frames; frame++ {
		f.Step(float64(frame)*frameDt, farPointer)
	}

	now := frames * frameDt
	rate := f.Config().ReturnRate
	for i := 0; i < f.Len(); i++ {
		o := f.Orbit(i)
		x, y, z := f.Position(i)
		tx, ty, tz := o.Target(now)

		step := o.Radius * o.Speed * frameDt
		if dx := math.Abs(x - tx); dx > step/rate+1e-9 {
			t.Fatalf("particle %d: x off by %v, bound %v", i, dx, step/rate)
		}
		if dy := math.Abs(y - ty); dy > OrbitSquash*step/rate+1e-9 {
			t.Fatalf("particle %d: y off by %v, bound %v", i, dy, OrbitSquash*step/rate)
		}
		if math.Abs(z-tz) > 1e-12 {
			t.Fatalf("particle %d: z = %v, want %v", i, z, tz)
		}
	}
}

func TestNearFraction(t *testing.T) {
	if got := (Stats{}).NearFraction(); got != 0 {
		t.Fatalf("empty = %v", got)
	}
	if got := (Stats{Near: 1, Far: 3}).NearFraction(); got != 0.25 {
		t.Fatalf("1/4 = %v", got)
	}
}
