package loop

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"vortex/internal/field"
	"vortex/internal/scene"
)

// MaxFrameDt caps one tick's elapsed time so a stalled host does not make
// the orbit clock jump.
const MaxFrameDt = 0.1

var (
	ErrStarted  = errors.New("driver already started")
	ErrDisposed = errors.New("driver disposed")
)

// FrameID identifies one scheduled frame callback.
type FrameID uint64

// Scheduler is the host's refresh primitive: vsync, a ticker, or a test mock.
// A requested callback fires at most once and never after CancelFrame.
type Scheduler interface {
	RequestFrame(fn func(dt float64)) FrameID
	CancelFrame(id FrameID)
}

// Renderer draws composed frames onto a surface.
type Renderer interface {
	Resize(width, height int)
	Render(f *scene.Frame)
	// Dispose releases every handle. It is called exactly once.
	Dispose()
}

// SurfaceOpener creates the render surface and its particle buffers.
type SurfaceOpener func(width, height, particles int) (Renderer, error)

// SurfaceError reports that the render surface could not be created.
type SurfaceError struct {
	Err error
}

func (e *SurfaceError) Error() string { return fmt.Sprintf("open render surface: %v", e.Err) }

func (e *SurfaceError) Unwrap() error { return e.Err }

type Options struct {
	Width, Height int
	Source        field.Source // nil seeds from the clock
	Logger        *log.Logger
}

// Driver runs one projection, integration and render pass per frame.
// All methods must be called from the host's frame thread.
type Driver struct {
	state State
	sched Scheduler
	rend  Renderer
	log   *log.Logger
	bus   *EventBus

	in     *scene.Inputs
	proj   *scene.Projector
	comp   *scene.Composer
	field  *field.Field
	buf    []float32
	detach []func()

	pending    FrameID
	hasPending bool

	elapsed float64
	frames  uint64
	stats   field.Stats
	pointer mgl64.Vec3
}

// New builds the field and opens the render surface. A surface failure is
// returned as *SurfaceError and is not retried.
func New(cfg field.Config, sched Scheduler, open SurfaceOpener, opts Options) (*Driver, error) {
	if sched == nil || open == nil {
		return nil, errors.New("loop: scheduler and surface opener are required")
	}
	src := opts.Source
	if src == nil {
		src = field.NewRand(field.ClockSeed())
	}
	fld, err := field.New(cfg, src)
	if err != nil {
		return nil, fmt.Errorf("build field: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "vortex: ", log.LstdFlags)
	}

	in := scene.NewInputs(opts.Width, opts.Height)
	cam := scene.NewCamera(cfg.CameraZ)
	cam.Sync(in)

	rend, err := open(opts.Width, opts.Height, cfg.ParticleCount)
	if err != nil {
		return nil, &SurfaceError{Err: err}
	}

	d := &Driver{
		sched: sched,
		rend:  rend,
		log:   logger,
		bus:   NewEventBus(),
		in:    in,
		proj:  scene.NewProjector(cam, in),
		comp:  scene.NewComposer(cam, in, cfg.FogDensity),
		field: fld,
		buf:   make([]float32, 0, cfg.ParticleCount*3),
	}
	d.pointer = d.proj.Last()
	return d, nil
}

// Start moves the driver to Running and requests the first frame.
func (d *Driver) Start() error {
	switch d.state {
	case StateRunning:
		return ErrStarted
	case StateDisposed:
		return ErrDisposed
	}
	d.state = StateRunning
	d.bus.Emit(Event{Type: EventMounted, Width: d.in.Width, Height: d.in.Height})
	d.schedule()
	return nil
}

func (d *Driver) schedule() {
	d.pending = d.sched.RequestFrame(d.onFrame)
	d.hasPending = true
}

func (d *Driver) onFrame(dt float64) {
	d.hasPending = false
	if d.state != StateRunning {
		return
	}
	d.Tick(dt)
	if d.state == StateRunning {
		d.schedule()
	}
}

// Tick advances the simulation by dt seconds and renders one frame. It
// reports whether a frame was drawn; nothing happens unless the driver is
// running.
func (d *Driver) Tick(dt float64) bool {
	if d.state != StateRunning {
		return false
	}
	if math.IsNaN(dt) || dt < 0 {
		dt = 0
	}
	if dt > MaxFrameDt {
		dt = MaxFrameDt
	}

	d.comp.Sync()
	d.pointer = d.proj.Project()
	d.elapsed += dt

	spin := d.field.Spin(d.elapsed)
	d.stats = d.field.Step(d.elapsed, scene.ToFieldLocal(d.pointer, spin))

	// A handler may have disposed the driver mid-frame.
	if d.state != StateRunning {
		return false
	}
	d.buf = d.field.RenderData(d.buf)
	d.rend.Render(d.comp.Compose(d.elapsed, spin, d.buf))
	d.frames++

	d.bus.Emit(Event{Type: EventFrame, Time: d.elapsed, Stats: d.stats})
	return true
}

// Resize updates the viewport and camera aspect; particle state is untouched.
func (d *Driver) Resize(width, height int) {
	if d.state == StateDisposed || width <= 0 || height <= 0 {
		return
	}
	d.in.Width, d.in.Height = width, height
	d.comp.Sync()
	d.rend.Resize(width, height)
	d.bus.Emit(Event{Type: EventResized, Time: d.elapsed, Width: width, Height: height})
}

// PointerMove records a pointer position in viewport pixels.
func (d *Driver) PointerMove(x, y float64) {
	d.in.PointerMove(x, y)
}

// PointerLeave disengages the pointer until the next move.
func (d *Driver) PointerLeave() {
	d.in.PointerLeave()
}

// SetScroll feeds the page scroll offset, in pixels, into the camera.
func (d *Driver) SetScroll(px float64) {
	if math.IsNaN(px) || math.IsInf(px, 0) {
		return
	}
	d.in.Scroll = px
}

// OnDispose registers a teardown hook, typically detaching host listeners.
func (d *Driver) OnDispose(fn func()) {
	d.detach = append(d.detach, fn)
}

func (d *Driver) Subscribe(t EventType, fn EventHandler) {
	d.bus.Subscribe(t, fn)
}

// Dispose cancels the pending frame, runs teardown hooks and releases the
// renderer. Calling it again is a no-op.
func (d *Driver) Dispose() {
	if d.state == StateDisposed {
		return
	}
	d.state = StateDisposed

	if d.hasPending {
		d.sched.CancelFrame(d.pending)
		d.hasPending = false
	}
	for _, fn := range d.detach {
		d.runHook(fn)
	}
	d.detach = nil
	d.runHook(d.rend.Dispose)

	d.bus.Emit(Event{Type: EventDisposed, Time: d.elapsed})
}

func (d *Driver) runHook(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Printf("dispose hook panicked: %v", r)
		}
	}()
	fn()
}

func (d *Driver) State() State { return d.state }

func (d *Driver) Field() *field.Field { return d.field }

func (d *Driver) Inputs() *scene.Inputs { return d.in }

func (d *Driver) Camera() *scene.Camera { return d.comp.Camera() }

// Elapsed is the accumulated simulation time in seconds.
func (d *Driver) Elapsed() float64 { return d.elapsed }

func (d *Driver) Frames() uint64 { return d.frames }

// Stats reports the regimes taken during the last tick.
func (d *Driver) Stats() field.Stats { return d.stats }

// Pointer is the last projected pointer point in world space.
func (d *Driver) Pointer() mgl64.Vec3 { return d.pointer }
