package scene

import "github.com/go-gl/mathgl/mgl64"

const (
	FieldOfView    = 75.0 // vertical, degrees
	NearPlane      = 0.1
	FarPlane       = 100.0
	ScrollParallax = 0.005 // camera y units per scrolled pixel
)

// Camera is a perspective camera looking down -z from Position.
type Camera struct {
	Fov      float64 // degrees
	Near     float64
	Far      float64
	Aspect   float64
	Position mgl64.Vec3
}

func NewCamera(z float64) *Camera {
	return &Camera{
		Fov:      FieldOfView,
		Near:     NearPlane,
		Far:      FarPlane,
		Aspect:   1,
		Position: mgl64.Vec3{0, 0, z},
	}
}

// Sync pulls viewport aspect and scroll parallax from in.
func (c *Camera) Sync(in *Inputs) {
	if in.Width > 0 && in.Height > 0 {
		c.Aspect = float64(in.Width) / float64(in.Height)
	}
	c.Position[1] = -in.Scroll * ScrollParallax
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z())
}

func (c *Camera) Projection() mgl64.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Ray returns the world-space ray through a normalized device coordinate.
func (c *Camera) Ray(ndc mgl64.Vec2) (origin, dir mgl64.Vec3) {
	inv := c.ViewProjection().Inv()
	p := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), 0.5, 1})
	if p.W() != 0 {
		p = p.Mul(1 / p.W())
	}
	d := p.Vec3().Sub(c.Position)
	if l := d.Len(); l > 0 {
		d = d.Mul(1 / l)
	}
	return c.Position, d
}

// ProjectPoint maps a world point to NDC; ok is false behind the camera.
func (c *Camera) ProjectPoint(p mgl64.Vec3) (ndc mgl64.Vec3, ok bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return mgl64.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}
