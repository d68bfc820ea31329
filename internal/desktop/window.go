package desktop

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const title = "vortex"

func initWindow(width, height int) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}

// pixelRatio is framebuffer pixels per window unit.
func pixelRatio(window *glfw.Window) float64 {
	fbW, _ := window.GetFramebufferSize()
	winW, _ := window.GetSize()
	if fbW <= 0 || winW <= 0 {
		return 1
	}
	return float64(fbW) / float64(winW)
}
