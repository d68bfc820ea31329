package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon treats rays this close to the plane's orientation as parallel.
const parallelEpsilon = 1e-12

// Projector turns the pointer NDC into a world point on the z = 0 plane.
type Projector struct {
	cam    *Camera
	in     *Inputs
	planeZ float64
	last   mgl64.Vec3
}

func NewProjector(cam *Camera, in *Inputs) *Projector {
	p := &Projector{cam: cam, in: in}
	// Seed the cache with the sentinel so the very first frame is well defined.
	if pt, ok := p.intersect(cam.Ray(PointerSentinel)); ok {
		p.last = pt
	} else {
		p.last = mgl64.Vec3{-1e6, -1e6, 0}
	}
	return p
}

// Project casts the current pointer through the camera. A ray that cannot hit
// the plane (parallel, pointing away, or non-finite) yields the previous point.
func (p *Projector) Project() mgl64.Vec3 {
	if pt, ok := p.intersect(p.cam.Ray(p.in.Pointer)); ok {
		p.last = pt
	}
	return p.last
}

// Last returns the most recent projected point without recomputing it.
func (p *Projector) Last() mgl64.Vec3 {
	return p.last
}

func (p *Projector) intersect(origin, dir mgl64.Vec3) (mgl64.Vec3, bool) {
	denom := dir.Z()
	if math.IsNaN(denom) || math.Abs(denom) < parallelEpsilon {
		return mgl64.Vec3{}, false
	}
	t := (p.planeZ - origin.Z()) / denom
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return mgl64.Vec3{}, false
	}
	pt := origin.Add(dir.Mul(t))
	for _, v := range pt {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return mgl64.Vec3{}, false
		}
	}
	return pt, true
}
