package scene

import "math"

// Artifact torus: a low-facet ring that reads as a hexagonal band.
const (
	TorusRadius          = 1.8
	TorusTube            = 0.2
	TorusRadialSegments  = 4
	TorusTubularSegments = 6
	WireframeScale       = 1.02
)

// Mesh is indexed triangle geometry. Positions are [x, y, z] * N.
type Mesh struct {
	Positions []float32
	Indices   []uint32 // triangle list
}

func (m Mesh) VertexCount() int { return len(m.Positions) / 3 }

// Vertex returns vertex i as float64 components.
func (m Mesh) Vertex(i int) (x, y, z float64) {
	return float64(m.Positions[i*3]), float64(m.Positions[i*3+1]), float64(m.Positions[i*3+2])
}

// Torus builds a ring of the given major radius and tube radius. The seam
// vertices are duplicated so each (radial, tubular) grid cell is a quad.
func Torus(radius, tube float64, radialSegments, tubularSegments int) Mesh {
	cols := tubularSegments + 1
	m := Mesh{
		Positions: make([]float32, 0, (radialSegments+1)*cols*3),
		Indices:   make([]uint32, 0, radialSegments*tubularSegments*6),
	}

	for j := 0; j <= radialSegments; j++ {
		v := float64(j) / float64(radialSegments) * 2 * math.Pi
		for i := 0; i <= tubularSegments; i++ {
			u := float64(i) / float64(tubularSegments) * 2 * math.Pi
			ring := radius + tube*math.Cos(v)
			m.Positions = append(m.Positions,
				float32(ring*math.Cos(u)),
				float32(ring*math.Sin(u)),
				float32(tube*math.Sin(v)),
			)
		}
	}

	for j := 1; j <= radialSegments; j++ {
		for i := 1; i <= tubularSegments; i++ {
			a := uint32(cols*j + i - 1)
			b := uint32(cols*(j-1) + i - 1)
			c := uint32(cols*(j-1) + i)
			d := uint32(cols*j + i)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	return m
}

// WireframeEdges returns each distinct triangle edge once, as index pairs
// suitable for a line-segment draw.
func WireframeEdges(m Mesh) []uint32 {
	seen := make(map[[2]uint32]struct{}, len(m.Indices))
	edges := make([]uint32, 0, len(m.Indices)*2)
	for t := 0; t+2 < len(m.Indices); t += 3 {
		tri := [3]uint32{m.Indices[t], m.Indices[t+1], m.Indices[t+2]}
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]uint32{a, b}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, a, b)
		}
	}
	return edges
}
