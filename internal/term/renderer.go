package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"vortex/internal/scene"
)

// CellAspect is how many viewport units tall one cell is for each unit wide.
// The driver sees a viewport of cols x rows*CellAspect units.
const CellAspect = 2

// Glyph ramp for particle density per cell.
var densityGlyphs = []rune{'·', '∙', '•', '●'}

const wireGlyph = '.'

type cell struct {
	n    int
	dist float64
}

// Renderer draws frames into a tcell screen: the artifact wireframe as dim
// dots, particles as density glyphs fading into the fog.
type Renderer struct {
	screen     tcell.Screen
	cols, rows int
	cells      []cell
	disposed   bool
}

func NewRenderer(screen tcell.Screen) *Renderer {
	r := &Renderer{screen: screen}
	r.Resize(0, 0)
	return r
}

// Resize re-reads the screen size; the viewport units are implied by it.
func (r *Renderer) Resize(_, _ int) {
	r.cols, r.rows = r.screen.Size()
	if n := r.cols * r.rows; cap(r.cells) < n {
		r.cells = make([]cell, n)
	} else {
		r.cells = r.cells[:n]
	}
}

func (r *Renderer) Render(f *scene.Frame) {
	if r.disposed || r.cols <= 0 || r.rows <= 0 {
		return
	}
	bg := tcell.StyleDefault.Background(color(f.Clear))
	r.screen.Fill(' ', bg)

	vp := f.Projection.Mul4(f.View)
	r.drawWire(vp.Mul4(f.WireModel), f, bg)
	r.drawParticles(vp.Mul4(f.FieldModel), f, bg)
	r.screen.Show()
}

func (r *Renderer) drawWire(mvp mgl64.Mat4, f *scene.Frame, bg tcell.Style) {
	for i := 0; i+1 < len(f.Edges); i += 2 {
		ax, ay, az := f.Mesh.Vertex(int(f.Edges[i]))
		bx, by, bz := f.Mesh.Vertex(int(f.Edges[i+1]))
		x0, y0, d0, ok0 := r.project(mvp, mgl64.Vec3{ax, ay, az}, false)
		x1, y1, d1, ok1 := r.project(mvp, mgl64.Vec3{bx, by, bz}, false)
		if !ok0 || !ok1 {
			continue
		}
		fog := f.Fog.Factor((d0 + d1) / 2)
		c := mix(mix(f.Clear, f.Wire.Color, f.Wire.Opacity), f.Clear, fog)
		style := bg.Foreground(color(c))
		line(x0, y0, x1, y1, func(x, y int) {
			if x >= 0 && y >= 0 && x < r.cols && y < r.rows {
				r.screen.SetContent(x, y, wireGlyph, nil, style)
			}
		})
	}
}

func (r *Renderer) drawParticles(mvp mgl64.Mat4, f *scene.Frame, bg tcell.Style) {
	for i := range r.cells {
		r.cells[i] = cell{dist: math.Inf(1)}
	}
	p := f.Particles
	for i := 0; i+2 < len(p); i += 3 {
		x, y, dist, ok := r.project(mvp, mgl64.Vec3{float64(p[i]), float64(p[i+1]), float64(p[i+2])}, true)
		if !ok {
			continue
		}
		c := &r.cells[y*r.cols+x]
		c.n++
		c.dist = math.Min(c.dist, dist)
	}

	for i, c := range r.cells {
		if c.n == 0 {
			continue
		}
		glyph := densityGlyphs[min(c.n, len(densityGlyphs))-1]
		// Stacked additive sprites brighten toward full colour.
		strength := 1 - math.Pow(1-f.Points.Opacity, float64(c.n))
		col := mix(mix(f.Clear, f.Points.Color, strength), f.Clear, f.Fog.Factor(c.dist))
		r.screen.SetContent(i%r.cols, i/r.cols, glyph, nil, bg.Foreground(color(col)))
	}
}

// project maps a model-space point to a cell. dist is the eye distance. With
// clip set, points outside the viewport are rejected; otherwise points up to
// a few viewports away map to off-screen cells so lines can run toward them.
func (r *Renderer) project(mvp mgl64.Mat4, p mgl64.Vec3, clip bool) (x, y int, dist float64, ok bool) {
	c := mvp.Mul4x1(p.Vec4(1))
	w := c.W()
	if w <= 0 || math.IsNaN(w) {
		return 0, 0, 0, false
	}
	nx, ny := c.X()/w, c.Y()/w
	limit := 4.0
	if clip {
		limit = 1
	}
	if !(math.Abs(nx) <= limit && math.Abs(ny) <= limit) {
		return 0, 0, 0, false
	}
	fx := (nx + 1) * 0.5 * float64(r.cols)
	fy := (1 - ny) * 0.5 * float64(r.rows)
	x, y = int(math.Floor(fx)), int(math.Floor(fy))
	if clip {
		x = min(max(x, 0), r.cols-1)
		y = min(max(y, 0), r.rows-1)
	}
	return x, y, w, true
}

// Dispose restores the terminal. Later frames are dropped.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	r.screen.Fini()
}

// line walks the cells between two points with Bresenham's algorithm.
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func mix(a, b scene.RGB, t float64) scene.RGB {
	t = math.Max(0, math.Min(1, t))
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return scene.RGB{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B)}
}

func color(c scene.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
