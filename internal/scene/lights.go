package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightSpot
	LightPoint
)

// Light is one scene light. Position is ignored for ambient lights; a
// directional light shines from Position toward the origin.
type Light struct {
	Kind      LightKind
	Color     RGB
	Intensity float64
	Position  mgl64.Vec3
	Range     float64 // 0 = unbounded
	Angle     float64 // spot cone half-angle, radians
	Penumbra  float64 // spot edge softness [0,1]
	Decay     float64
}

// DefaultLights is the rig around the artifact: a soft ambient base, a white
// key light, and two off-screen accents (gold top right, blue bottom left).
func DefaultLights() []Light {
	return []Light{
		{Kind: LightAmbient, Color: Palette.Ambient, Intensity: 2},
		{Kind: LightDirectional, Color: Palette.Key, Intensity: 1, Position: mgl64.Vec3{5, 5, 5}},
		{
			Kind: LightSpot, Color: Palette.Gold, Intensity: 20,
			Position: mgl64.Vec3{15, 10, 10}, Range: 100, Angle: 0.5, Penumbra: 0.5, Decay: 1,
		},
		{
			Kind: LightPoint, Color: Palette.Blue, Intensity: 10,
			Position: mgl64.Vec3{-10, -8, 5}, Range: 50, Decay: 2,
		},
	}
}

// Fog is exponential-squared distance fog.
type Fog struct {
	Color   RGB
	Density float64
}

// Factor returns the fog blend at eye distance d, 0 = clear, 1 = fully fogged.
func (f Fog) Factor(d float64) float64 {
	x := f.Density * d
	v := 1 - math.Exp(-x*x)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
