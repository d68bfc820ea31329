package scene

import "github.com/go-gl/mathgl/mgl64"

// PointerSentinel is the NDC held before the first pointer event. It projects
// far outside the field so the pointer exerts no force until engaged.
var PointerSentinel = mgl64.Vec2{-9999, -9999}

// Inputs is the state written by host event handlers and read once per frame.
// There is exactly one writer and one reader, both on the host thread.
type Inputs struct {
	Pointer mgl64.Vec2 // normalized device coordinate
	Width   int        // viewport, pixels
	Height  int
	Scroll  float64 // page scroll offset, pixels
}

func NewInputs(width, height int) *Inputs {
	return &Inputs{
		Pointer: PointerSentinel,
		Width:   width,
		Height:  height,
	}
}

// PointerMove converts a viewport pixel position into NDC.
func (in *Inputs) PointerMove(x, y float64) {
	if in.Width <= 0 || in.Height <= 0 {
		return
	}
	in.Pointer = mgl64.Vec2{
		x/float64(in.Width)*2 - 1,
		-(y/float64(in.Height))*2 + 1,
	}
}

// PointerLeave parks the pointer back on the sentinel.
func (in *Inputs) PointerLeave() {
	in.Pointer = PointerSentinel
}
