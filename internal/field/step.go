package field

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
)

// minParallelChunk is the smallest slice of particles worth its own goroutine.
const minParallelChunk = 512

// Stats counts the regime each particle took during one Step.
type Stats struct {
	Near int // pulled into the pointer vortex
	Far  int // drifting back toward the home orbit
	Held int // update skipped because it would not have been finite
}

func (s Stats) add(o Stats) Stats {
	return Stats{Near: s.Near + o.Near, Far: s.Far + o.Far, Held: s.Held + o.Held}
}

// NearFraction is the share of particles caught in the vortex, in [0,1].
func (s Stats) NearFraction() float64 {
	total := s.Near + s.Far + s.Held
	if total == 0 {
		return 0
	}
	return clampF(float64(s.Near)/float64(total), 0, 1)
}

// Step advances every particle by one frame at simulation time t, with
// pointer the projected pointer point in the field's local frame.
//
// A particle within GravityThreshold of the pointer (planar distance, strict
// less-than) receives an inverse-distance attraction plus a perpendicular
// inverse-distance swirl and keeps its depth. Every other particle closes
// ReturnRate of the distance to its home-orbit target on all three axes.
//
// Each particle reads only its own previous position and the shared pointer,
// so the buffer is updated in place and chunks may run concurrently.
func (f *Field) Step(t float64, pointer mgl64.Vec3) Stats {
	n := f.Len()
	chunks := f.cfg.Workers
	if limit := n / minParallelChunk; chunks > limit {
		chunks = limit
	}
	if chunks <= 1 {
		return f.stepRange(0, n, t, pointer)
	}

	size := (n + chunks - 1) / chunks
	parts := make([]Stats, chunks)
	var g errgroup.Group
	for c := 0; c < chunks; c++ {
		c := c
		lo := c * size
		hi := min(lo+size, n)
		g.Go(func() error {
			parts[c] = f.stepRange(lo, hi, t, pointer)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	var st Stats
	for _, p := range parts {
		st = st.add(p)
	}
	return st
}

func (f *Field) stepRange(lo, hi int, t float64, pointer mgl64.Vec3) Stats {
	var st Stats

	mx, my := pointer.X(), pointer.Y()
	threshold := f.cfg.GravityThreshold
	attraction := f.cfg.AttractionStrength
	swirlStrength := f.cfg.SwirlStrength
	rate := f.cfg.ReturnRate

	for i := lo; i < hi; i++ {
		px, py, pz := f.X[i], f.Y[i], f.Z[i]

		dx := mx - px
		dy := my - py
		dist := math.Sqrt(dx*dx + dy*dy)

		if dist < threshold {
			force := attraction / (dist + attractionSoftening)
			vx := dx * force
			vy := dy * force

			swirl := swirlStrength / (dist + swirlSoftening)
			vx -= dy * swirl
			vy += dx * swirl

			nx, ny := px+vx, py+vy
			if !finite(nx) || !finite(ny) {
				st.Held++
				continue
			}
			f.X[i], f.Y[i] = nx, ny
			st.Near++
			continue
		}

		// NaN distance lands here too: a broken pointer never pulls.
		angle := f.angle[i] + t*f.speed[i]
		tx := math.Cos(angle) * f.radius[i]
		ty := math.Sin(angle)*f.radius[i]*OrbitSquash + f.spread[i]
		tz := f.depth[i]

		nx := px + (tx-px)*rate
		ny := py + (ty-py)*rate
		nz := pz + (tz-pz)*rate
		if !finite(nx) || !finite(ny) || !finite(nz) {
			st.Held++
			continue
		}
		f.X[i], f.Y[i], f.Z[i] = nx, ny, nz
		st.Far++
	}
	return st
}
