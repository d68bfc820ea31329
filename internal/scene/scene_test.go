package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tol = 1e-9

func near(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a.X()-b.X()) < eps && math.Abs(a.Y()-b.Y()) < eps && math.Abs(a.Z()-b.Z()) < eps
}

func newRig(w, h int) (*Camera, *Inputs, *Projector) {
	in := NewInputs(w, h)
	cam := NewCamera(8)
	cam.Sync(in)
	return cam, in, NewProjector(cam, in)
}

func TestProjectCenterHitsOrigin(t *testing.T) {
	_, in, p := newRig(1280, 720)
	in.PointerMove(640, 360)
	got := p.Project()
	if !near(got, mgl64.Vec3{}, 1e-6) {
		t.Fatalf("centre projects to %v, want origin", got)
	}
}

func TestProjectLandsOnPlaneUnderPointer(t *testing.T) {
	cam, in, p := newRig(800, 600)
	in.Pointer = mgl64.Vec2{0.5, -0.25}
	got := p.Project()
	if math.Abs(got.Z()) > tol {
		t.Fatalf("point %v is off the z = 0 plane", got)
	}

	// Reprojecting the world point must land back on the pointer.
	ndc, ok := cam.ProjectPoint(got)
	if !ok {
		t.Fatal("projected point is behind the camera")
	}
	if math.Abs(ndc.X()-0.5) > 1e-6 || math.Abs(ndc.Y()+0.25) > 1e-6 {
		t.Fatalf("round trip NDC = %v", ndc)
	}
}

func TestProjectSentinelIsFarAway(t *testing.T) {
	_, _, p := newRig(1280, 720)
	got := p.Project()
	if d := math.Hypot(got.X(), got.Y()); d < 1000 {
		t.Fatalf("sentinel projects only %v from the origin", d)
	}
}

func TestProjectKeepsLastPointOnDegenerateRay(t *testing.T) {
	_, in, p := newRig(800, 600)
	in.Pointer = mgl64.Vec2{0.2, 0.1}
	want := p.Project()

	in.Pointer = mgl64.Vec2{math.NaN(), 0}
	if got := p.Project(); got != want {
		t.Fatalf("NaN pointer: got %v, want cached %v", got, want)
	}

	origin := mgl64.Vec3{0, 0, 8}
	if _, ok := p.intersect(origin, mgl64.Vec3{1, 0, 0}); ok {
		t.Fatal("parallel ray intersected the plane")
	}
	if _, ok := p.intersect(origin, mgl64.Vec3{0, 0, 1}); ok {
		t.Fatal("ray pointing away intersected the plane")
	}
	if got := p.Last(); got != want {
		t.Fatalf("Last = %v, want %v", got, want)
	}
}

func TestPointerMoveToNDC(t *testing.T) {
	in := NewInputs(200, 100)
	if in.Pointer != PointerSentinel {
		t.Fatalf("initial pointer = %v", in.Pointer)
	}
	cases := []struct {
		x, y float64
		want mgl64.Vec2
	}{
		{0, 0, mgl64.Vec2{-1, 1}},
		{200, 100, mgl64.Vec2{1, -1}},
		{100, 50, mgl64.Vec2{0, 0}},
		{150, 25, mgl64.Vec2{0.5, 0.5}},
	}
	for _, tc := range cases {
		in.PointerMove(tc.x, tc.y)
		if in.Pointer != tc.want {
			t.Fatalf("PointerMove(%v,%v) = %v, want %v", tc.x, tc.y, in.Pointer, tc.want)
		}
	}
	in.PointerLeave()
	if in.Pointer != PointerSentinel {
		t.Fatalf("after leave = %v", in.Pointer)
	}

	empty := NewInputs(0, 0)
	empty.PointerMove(10, 10)
	if empty.Pointer != PointerSentinel {
		t.Fatal("zero-sized viewport accepted a pointer move")
	}
}

func TestCameraSyncScrollAndAspect(t *testing.T) {
	in := NewInputs(1600, 800)
	in.Scroll = 400
	cam := NewCamera(8)
	cam.Sync(in)
	if cam.Aspect != 2 {
		t.Fatalf("aspect = %v", cam.Aspect)
	}
	if math.Abs(cam.Position.Y()+2) > tol {
		t.Fatalf("camera y = %v, want -2", cam.Position.Y())
	}
	if cam.Position.Z() != 8 {
		t.Fatalf("camera z = %v", cam.Position.Z())
	}
}

func TestTorusTopology(t *testing.T) {
	m := Torus(TorusRadius, TorusTube, TorusRadialSegments, TorusTubularSegments)
	if got := m.VertexCount(); got != 35 {
		t.Fatalf("vertices = %d, want 35", got)
	}
	if got := len(m.Indices) / 3; got != 48 {
		t.Fatalf("triangles = %d, want 48", got)
	}
	for i := 0; i < m.VertexCount(); i++ {
		x, y, z := m.Vertex(i)
		ring := math.Hypot(x, y)
		tube := math.Hypot(ring-TorusRadius, z)
		if math.Abs(tube-TorusTube) > 1e-5 {
			t.Fatalf("vertex %d is %v from the tube centre", i, tube)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= m.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}

	edges := WireframeEdges(m)
	if got := len(edges) / 2; got != 82 {
		t.Fatalf("edges = %d, want 82", got)
	}
}

func TestComposeArtifactMotion(t *testing.T) {
	in := NewInputs(800, 600)
	c := NewComposer(NewCamera(8), in, 0.035)

	f := c.Compose(0, 0, nil)
	if !f.BodyModel.ApproxEqual(mgl64.Ident4()) {
		t.Fatalf("body at t=0 = %v", f.BodyModel)
	}

	now := math.Pi / (2 * BobRate)
	f = c.Compose(now, 0, nil)
	lift := f.BodyModel.Col(3)
	if math.Abs(lift.Y()-BobHeight) > tol {
		t.Fatalf("bob at quarter period = %v, want %v", lift.Y(), BobHeight)
	}

	// The wireframe shares the body's transform, scaled up slightly.
	bodyPt := f.BodyModel.Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3().Sub(lift.Vec3())
	wirePt := f.WireModel.Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3().Sub(lift.Vec3())
	if math.Abs(wirePt.Len()/bodyPt.Len()-WireframeScale) > 1e-9 {
		t.Fatalf("wireframe scale = %v", wirePt.Len()/bodyPt.Len())
	}

	if len(f.Lights) != 4 || f.Lights[0].Kind != LightAmbient {
		t.Fatalf("lights = %+v", f.Lights)
	}
	if f.Fog.Density != 0.035 || f.Fog.Color != Palette.Void {
		t.Fatalf("fog = %+v", f.Fog)
	}
}

func TestComposeFollowsScroll(t *testing.T) {
	in := NewInputs(800, 600)
	c := NewComposer(NewCamera(8), in, 0)
	in.Scroll = 1000
	f := c.Compose(1, 0, nil)
	if math.Abs(f.CameraPosition.Y()+5) > tol {
		t.Fatalf("camera y = %v, want -5", f.CameraPosition.Y())
	}
	if math.Abs(f.View.Col(3).Y()-5) > tol {
		t.Fatalf("view translation y = %v", f.View.Col(3).Y())
	}
}

func TestToFieldLocalUndoesSpin(t *testing.T) {
	p := mgl64.Vec3{3, 1, 0}
	spin := 0.7
	local := ToFieldLocal(p, spin)
	back := mgl64.Rotate3DZ(spin).Mul3x1(local)
	if !near(back, p, 1e-12) {
		t.Fatalf("round trip = %v, want %v", back, p)
	}
	if ToFieldLocal(p, 0) != p {
		t.Fatal("zero spin changed the point")
	}
}

func TestFogFactor(t *testing.T) {
	f := Fog{Density: 0.035}
	if f.Factor(0) != 0 {
		t.Fatal("fog at the eye")
	}
	if a, b := f.Factor(5), f.Factor(20); !(a < b) || b >= 1 {
		t.Fatalf("fog not increasing: %v, %v", a, b)
	}
}

func TestHexAndScale(t *testing.T) {
	if got := Hex(0xff7a1a); got != (RGB{0xff, 0x7a, 0x1a}) {
		t.Fatalf("Hex = %+v", got)
	}
	if got := (RGB{200, 100, 0}).Scale(2); got != (RGB{255, 200, 0}) {
		t.Fatalf("Scale = %+v", got)
	}
}

func TestPageScroll(t *testing.T) {
	var p PageScroll
	steps := []struct {
		delta, want float64
	}{
		{-40, 0}, // already at the top
		{40, 40},
		{100, 140},
		{math.NaN(), 140},
		{math.Inf(1), 140},
		{1e6, MaxScroll},
		{-40, MaxScroll - 40},
	}
	for i, s := range steps {
		if got := p.By(s.delta); got != s.want {
			t.Fatalf("step %d: By(%v) = %v, want %v", i, s.delta, got, s.want)
		}
	}
	if p.Offset() != MaxScroll-40 {
		t.Fatalf("offset = %v", p.Offset())
	}
}
