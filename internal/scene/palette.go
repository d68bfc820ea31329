package scene

import "github.com/go-gl/mathgl/mgl64"

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Hex builds an RGB from 0xRRGGBB.
func Hex(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Vec returns the colour in [0,1] components.
func (c RGB) Vec() mgl64.Vec3 {
	return mgl64.Vec3{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// Scale multiplies every channel by k, saturating at 255.
func (c RGB) Scale(k float64) RGB {
	ch := func(v uint8) uint8 {
		f := float64(v) * k
		if f < 0 {
			return 0
		}
		if f > 255 {
			return 255
		}
		return uint8(f + 0.5)
	}
	return RGB{R: ch(c.R), G: ch(c.G), B: ch(c.B)}
}

var Palette = struct {
	Void      RGB // fog and clear colour
	Ambient   RGB
	Key       RGB
	Gold      RGB
	Blue      RGB
	Body      RGB
	Wireframe RGB
	Particle  RGB
}{
	Void:      Hex(0x02040a),
	Ambient:   Hex(0x404040),
	Key:       Hex(0xffffff),
	Gold:      Hex(0xffaa00),
	Blue:      Hex(0x0044ff),
	Body:      Hex(0x050817),
	Wireframe: Hex(0xffcc00),
	Particle:  Hex(0xff7a1a),
}

// BodyMaterial is the solid artifact's metallic surface.
type BodyMaterial struct {
	Color              RGB
	Metalness          float64
	Roughness          float64
	Clearcoat          float64
	ClearcoatRoughness float64
}

// LineMaterial is the translucent wireframe overlay.
type LineMaterial struct {
	Color   RGB
	Opacity float64
}

// PointMaterial describes particle sprites: additive, size-attenuated.
type PointMaterial struct {
	Color   RGB
	Size    float64 // world units
	Opacity float64
}

var (
	DefaultBody = BodyMaterial{
		Color:              Palette.Body,
		Metalness:          0.9,
		Roughness:          0.1,
		Clearcoat:          1.0,
		ClearcoatRoughness: 0.1,
	}
	DefaultWire      = LineMaterial{Color: Palette.Wireframe, Opacity: 0.3}
	DefaultParticles = PointMaterial{Color: Palette.Particle, Size: 0.04, Opacity: 0.6}
)
