package scene

import "math"

// MaxScroll bounds the virtual page offset in pixels; at the bottom the
// camera sits ten units below the artifact.
const MaxScroll = 2000.0

// PageScroll accumulates host scroll gestures into a virtual page offset.
type PageScroll struct {
	offset float64
}

// By moves the offset by delta pixels, clamped to [0, MaxScroll], and
// returns the new offset. Non-finite deltas are ignored.
func (p *PageScroll) By(delta float64) float64 {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return p.offset
	}
	p.offset = math.Max(0, math.Min(MaxScroll, p.offset+delta))
	return p.offset
}

func (p *PageScroll) Offset() float64 { return p.offset }
