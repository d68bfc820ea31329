package desktop

import (
	"fmt"
	"log"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"vortex/internal/config"
	"vortex/internal/gfx"
	"vortex/internal/hum"
	"vortex/internal/loop"
	"vortex/internal/scene"
)

const wheelStep = 40.0 // page pixels per wheel notch

// Run opens a window and drives the field at the display refresh rate until
// the window closes or Escape is pressed.
func Run(s config.Settings, logger *log.Logger) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	window, err := initWindow(s.Width, s.Height)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	logger.Printf("GL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	var (
		queue  loop.Queue
		rend   *gfx.Renderer
		scroll scene.PageScroll
	)
	winW, winH := window.GetSize()
	d, err := loop.New(s.Field(), &queue, func(w, h, n int) (loop.Renderer, error) {
		r, err := gfx.NewRenderer(w, h, n, pixelRatio(window))
		if err != nil {
			return nil, err
		}
		rend = r
		return r, nil
	}, loop.Options{Width: winW, Height: winH, Source: s.Source(), Logger: logger})
	if err != nil {
		return err
	}
	defer d.Dispose()

	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		d.PointerMove(x, y)
	})
	window.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if !entered {
			d.PointerLeave()
		}
	})
	window.SetSizeCallback(func(_ *glfw.Window, w, h int) {
		d.Resize(w, h)
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, _, _ int) {
		rend.SetPixelRatio(pixelRatio(w))
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		d.SetScroll(scroll.By(-yoff * wheelStep))
	})
	d.OnDispose(func() {
		window.SetCursorPosCallback(nil)
		window.SetCursorEnterCallback(nil)
		window.SetSizeCallback(nil)
		window.SetFramebufferSizeCallback(nil)
		window.SetScrollCallback(nil)
	})

	if s.Audio {
		hum.Attach(d, logger)
	}

	if err := d.Start(); err != nil {
		return err
	}

	last := glfw.GetTime()
	for !window.ShouldClose() {
		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		// Minimised: block until something changes instead of spinning.
		if fbW, fbH := window.GetFramebufferSize(); fbW <= 0 || fbH <= 0 {
			glfw.WaitEvents()
			continue
		}

		now := glfw.GetTime()
		dt := now - last
		last = now

		if !queue.Fire(dt) {
			break
		}
		window.SwapBuffers()
	}
	logger.Printf("closed after %d frames", d.Frames())
	return nil
}
