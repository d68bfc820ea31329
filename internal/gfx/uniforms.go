package gfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"vortex/internal/scene"
)

// maxLights matches MAX_LIGHTS in meshFragSrc.
const maxLights = 4

// lightBlock is the scene's light rig flattened into shader uniform arrays.
type lightBlock struct {
	count int32
	kind  [maxLights]int32
	pos   [maxLights * 3]float32
	color [maxLights * 3]float32
	rng   [maxLights]float32
	cone  [maxLights * 2]float32
	decay [maxLights]float32
}

// packLights keeps the first maxLights lights. Colours are pre-multiplied by
// intensity; spot cones become (cos outer, cos inner) pairs.
func packLights(lights []scene.Light) lightBlock {
	var b lightBlock
	n := min(len(lights), maxLights)
	b.count = int32(n)
	for i := 0; i < n; i++ {
		l := lights[i]
		b.kind[i] = int32(l.Kind)

		c := l.Color.Vec().Mul(l.Intensity)
		b.color[i*3], b.color[i*3+1], b.color[i*3+2] = float32(c.X()), float32(c.Y()), float32(c.Z())
		b.pos[i*3], b.pos[i*3+1], b.pos[i*3+2] = float32(l.Position.X()), float32(l.Position.Y()), float32(l.Position.Z())
		b.rng[i] = float32(l.Range)
		b.decay[i] = float32(l.Decay)

		if l.Kind == scene.LightSpot {
			outer := math.Cos(l.Angle)
			inner := math.Cos(l.Angle * (1 - l.Penumbra))
			b.cone[i*2], b.cone[i*2+1] = float32(outer), float32(inner)
		}
	}
	return b
}

func mat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X()), float32(v.Y()), float32(v.Z())}
}

func rgb32(c scene.RGB) mgl32.Vec3 {
	return vec32(c.Vec())
}

// clampPixelRatio caps the HiDPI factor used for sprite sizing at 2.
func clampPixelRatio(r float64) float64 {
	if r <= 0 || math.IsNaN(r) {
		return 1
	}
	return math.Min(r, 2)
}
