package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Artifact motion, radians (or units) per second of scene time.
const (
	ArtifactSpinX = 0.15
	ArtifactSpinY = 0.2
	BobRate       = 0.7
	BobHeight     = 0.2
)

// Frame is everything a renderer needs to draw one tick. The composer owns
// and reuses it; renderers must not retain it past Render.
type Frame struct {
	Time   float64
	Width  int
	Height int

	View           mgl64.Mat4
	Projection     mgl64.Mat4
	CameraPosition mgl64.Vec3

	BodyModel  mgl64.Mat4
	WireModel  mgl64.Mat4
	FieldModel mgl64.Mat4 // field spin about z

	Lights []Light
	Fog    Fog
	Clear  RGB

	Body   BodyMaterial
	Wire   LineMaterial
	Points PointMaterial

	Mesh  Mesh
	Edges []uint32

	// Particles is [x, y, z] * N in field-local space.
	Particles []float32
}

// ParticleCount is the number of packed particles in the frame.
func (f *Frame) ParticleCount() int { return len(f.Particles) / 3 }

// Composer owns the camera, lights and artifact and stamps out frames.
// It never reads particle state beyond the packed buffer it is handed.
type Composer struct {
	cam   *Camera
	in    *Inputs
	frame Frame
}

func NewComposer(cam *Camera, in *Inputs, fogDensity float64) *Composer {
	mesh := Torus(TorusRadius, TorusTube, TorusRadialSegments, TorusTubularSegments)
	return &Composer{
		cam: cam,
		in:  in,
		frame: Frame{
			Lights: DefaultLights(),
			Fog:    Fog{Color: Palette.Void, Density: fogDensity},
			Clear:  Palette.Void,
			Body:   DefaultBody,
			Wire:   DefaultWire,
			Points: DefaultParticles,
			Mesh:   mesh,
			Edges:  WireframeEdges(mesh),
		},
	}
}

func (c *Composer) Camera() *Camera { return c.cam }

// Sync applies the latest viewport and scroll to the camera.
func (c *Composer) Sync() {
	c.cam.Sync(c.in)
}

// ArtifactModel returns the solid body's transform at time t: a slow tumble
// about x and y with a vertical bob.
func ArtifactModel(t float64) mgl64.Mat4 {
	lift := math.Sin(t*BobRate) * BobHeight
	return mgl64.Translate3D(0, lift, 0).
		Mul4(mgl64.HomogRotate3DX(t * ArtifactSpinX)).
		Mul4(mgl64.HomogRotate3DY(t * ArtifactSpinY))
}

// Compose fills the frame for time t. spin is the field's rotation about z.
func (c *Composer) Compose(t, spin float64, particles []float32) *Frame {
	c.Sync()

	f := &c.frame
	f.Time = t
	f.Width = c.in.Width
	f.Height = c.in.Height
	f.View = c.cam.View()
	f.Projection = c.cam.Projection()
	f.CameraPosition = c.cam.Position

	f.BodyModel = ArtifactModel(t)
	f.WireModel = f.BodyModel.Mul4(mgl64.Scale3D(WireframeScale, WireframeScale, WireframeScale))
	f.FieldModel = mgl64.HomogRotate3DZ(spin)
	f.Particles = particles
	return f
}

// ToFieldLocal rotates a world point into the frame of a field spun by spin
// about z, so forces computed in field space line up with what is drawn.
func ToFieldLocal(p mgl64.Vec3, spin float64) mgl64.Vec3 {
	if spin == 0 {
		return p
	}
	return mgl64.Rotate3DZ(-spin).Mul3x1(p)
}
