package gfx

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"vortex/internal/scene"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type meshUniforms struct {
	model, view, proj                      int32
	color, metalness, roughness, clearcoat int32
	cameraPos                              int32
	lightCount, lightKind, lightPos        int32
	lightColor, lightRange, lightCone      int32
	lightDecay                             int32
	fogColor, fogDensity                   int32
}

type lineUniforms struct {
	model, view, proj    int32
	color, opacity       int32
	fogColor, fogDensity int32
}

type pointUniforms struct {
	model, view, proj int32
	size, scale       int32
	color, opacity    int32
	fogDensity        int32
}

// Renderer draws the artifact and the particle field with OpenGL 4.1 core.
// It must be created and used on the thread that owns the GL context.
type Renderer struct {
	meshProg  uint32
	lineProg  uint32
	pointProg uint32

	// Artifact geometry: one vertex buffer shared by the triangle and the
	// line element buffers.
	meshVAO uint32
	lineVAO uint32
	meshVBO uint32
	meshEBO uint32
	lineEBO uint32

	// Particle stream.
	pointVAO uint32
	pointVBO uint32

	mu meshUniforms
	lu lineUniforms
	pu pointUniforms

	triCount   int32
	edgeCount  int32
	capacity   int // particles the stream buffer can hold
	width      int // viewport in window units
	height     int
	pixelRatio float64 // framebuffer pixels per window unit
}

// NewRenderer compiles the programs and allocates every GPU buffer once:
// static artifact geometry and a streaming buffer for particles.
func NewRenderer(width, height, particles int, pixelRatio float64) (*Renderer, error) {
	if particles <= 0 {
		return nil, fmt.Errorf("particle capacity %d", particles)
	}
	meshProg, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	lineProg, err := linkProgram(meshVertSrc, lineFragSrc)
	if err != nil {
		gl.DeleteProgram(meshProg)
		return nil, fmt.Errorf("line program: %w", err)
	}
	pointProg, err := linkProgram(pointVertSrc, pointFragSrc)
	if err != nil {
		gl.DeleteProgram(meshProg)
		gl.DeleteProgram(lineProg)
		return nil, fmt.Errorf("point program: %w", err)
	}

	r := &Renderer{
		meshProg:   meshProg,
		lineProg:   lineProg,
		pointProg:  pointProg,
		capacity:   particles,
		width:      width,
		height:     height,
		pixelRatio: pixelRatio,
	}
	if r.pixelRatio <= 0 {
		r.pixelRatio = 1
	}

	mesh := scene.Torus(scene.TorusRadius, scene.TorusTube, scene.TorusRadialSegments, scene.TorusTubularSegments)
	edges := scene.WireframeEdges(mesh)
	r.triCount = int32(len(mesh.Indices))
	r.edgeCount = int32(len(edges))

	gl.GenBuffers(1, &r.meshVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Positions)*4, gl.Ptr(mesh.Positions), gl.STATIC_DRAW)

	// Triangles.
	gl.GenVertexArrays(1, &r.meshVAO)
	gl.BindVertexArray(r.meshVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))
	gl.GenBuffers(1, &r.meshEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.meshEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	// Wireframe edges over the same vertices.
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))
	gl.GenBuffers(1, &r.lineEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.lineEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(edges)*4, gl.Ptr(edges), gl.STATIC_DRAW)

	// Particle stream: [x, y, z] per particle, rewritten every frame.
	gl.GenVertexArrays(1, &r.pointVAO)
	gl.BindVertexArray(r.pointVAO)
	gl.GenBuffers(1, &r.pointVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.pointVBO)
	gl.BufferData(gl.ARRAY_BUFFER, particles*3*4, nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))

	gl.BindVertexArray(0)

	r.lookupUniforms()

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Disable(gl.CULL_FACE)

	if err := glError("allocate buffers"); err != nil {
		r.Dispose()
		return nil, err
	}
	return r, nil
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func (r *Renderer) lookupUniforms() {
	p := r.meshProg
	r.mu.model = uniform(p, "uModel")
	r.mu.view = uniform(p, "uView")
	r.mu.proj = uniform(p, "uProj")
	r.mu.color = uniform(p, "uColor")
	r.mu.metalness = uniform(p, "uMetalness")
	r.mu.roughness = uniform(p, "uRoughness")
	r.mu.clearcoat = uniform(p, "uClearcoat")
	r.mu.cameraPos = uniform(p, "uCameraPos")
	r.mu.lightCount = uniform(p, "uLightCount")
	r.mu.lightKind = uniform(p, "uLightKind")
	r.mu.lightPos = uniform(p, "uLightPos")
	r.mu.lightColor = uniform(p, "uLightColor")
	r.mu.lightRange = uniform(p, "uLightRange")
	r.mu.lightCone = uniform(p, "uLightCone")
	r.mu.lightDecay = uniform(p, "uLightDecay")
	r.mu.fogColor = uniform(p, "uFogColor")
	r.mu.fogDensity = uniform(p, "uFogDensity")

	p = r.lineProg
	r.lu.model = uniform(p, "uModel")
	r.lu.view = uniform(p, "uView")
	r.lu.proj = uniform(p, "uProj")
	r.lu.color = uniform(p, "uColor")
	r.lu.opacity = uniform(p, "uOpacity")
	r.lu.fogColor = uniform(p, "uFogColor")
	r.lu.fogDensity = uniform(p, "uFogDensity")

	p = r.pointProg
	r.pu.model = uniform(p, "uModel")
	r.pu.view = uniform(p, "uView")
	r.pu.proj = uniform(p, "uProj")
	r.pu.size = uniform(p, "uSize")
	r.pu.scale = uniform(p, "uScale")
	r.pu.color = uniform(p, "uColor")
	r.pu.opacity = uniform(p, "uOpacity")
	r.pu.fogDensity = uniform(p, "uFogDensity")
}

// Resize records the new viewport in window units.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
}

// SetPixelRatio updates the framebuffer-to-window scale (HiDPI).
func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio > 0 {
		r.pixelRatio = ratio
	}
}

// Render draws the body, its wireframe overlay and the particles, in that order.
func (r *Renderer) Render(f *scene.Frame) {
	if r.meshProg == 0 {
		return
	}
	fbW := int32(float64(r.width) * r.pixelRatio)
	fbH := int32(float64(r.height) * r.pixelRatio)
	gl.Viewport(0, 0, fbW, fbH)

	bg := rgb32(f.Clear)
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := mat32(f.View)
	proj := mat32(f.Projection)
	fogColor := rgb32(f.Fog.Color)
	fogDensity := float32(f.Fog.Density)

	// Solid body.
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.UseProgram(r.meshProg)
	body := mat32(f.BodyModel)
	gl.UniformMatrix4fv(r.mu.model, 1, false, &body[0])
	gl.UniformMatrix4fv(r.mu.view, 1, false, &view[0])
	gl.UniformMatrix4fv(r.mu.proj, 1, false, &proj[0])
	bodyColor := rgb32(f.Body.Color)
	gl.Uniform3fv(r.mu.color, 1, &bodyColor[0])
	gl.Uniform1f(r.mu.metalness, float32(f.Body.Metalness))
	gl.Uniform1f(r.mu.roughness, float32(f.Body.Roughness))
	gl.Uniform1f(r.mu.clearcoat, float32(f.Body.Clearcoat))
	cam := vec32(f.CameraPosition)
	gl.Uniform3fv(r.mu.cameraPos, 1, &cam[0])

	lb := packLights(f.Lights)
	gl.Uniform1i(r.mu.lightCount, lb.count)
	gl.Uniform1iv(r.mu.lightKind, maxLights, &lb.kind[0])
	gl.Uniform3fv(r.mu.lightPos, maxLights, &lb.pos[0])
	gl.Uniform3fv(r.mu.lightColor, maxLights, &lb.color[0])
	gl.Uniform1fv(r.mu.lightRange, maxLights, &lb.rng[0])
	gl.Uniform2fv(r.mu.lightCone, maxLights, &lb.cone[0])
	gl.Uniform1fv(r.mu.lightDecay, maxLights, &lb.decay[0])
	gl.Uniform3fv(r.mu.fogColor, 1, &fogColor[0])
	gl.Uniform1f(r.mu.fogDensity, fogDensity)

	gl.BindVertexArray(r.meshVAO)
	gl.DrawElements(gl.TRIANGLES, r.triCount, gl.UNSIGNED_INT, glOffset(0))

	// Translucent wireframe: blended, depth-tested, no depth writes.
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	gl.UseProgram(r.lineProg)
	wire := mat32(f.WireModel)
	gl.UniformMatrix4fv(r.lu.model, 1, false, &wire[0])
	gl.UniformMatrix4fv(r.lu.view, 1, false, &view[0])
	gl.UniformMatrix4fv(r.lu.proj, 1, false, &proj[0])
	wireColor := rgb32(f.Wire.Color)
	gl.Uniform3fv(r.lu.color, 1, &wireColor[0])
	gl.Uniform1f(r.lu.opacity, float32(f.Wire.Opacity))
	gl.Uniform3fv(r.lu.fogColor, 1, &fogColor[0])
	gl.Uniform1f(r.lu.fogDensity, fogDensity)
	gl.BindVertexArray(r.lineVAO)
	gl.DrawElements(gl.LINES, r.edgeCount, gl.UNSIGNED_INT, glOffset(0))

	// Particles: additive.
	n := min(f.ParticleCount(), r.capacity)
	if n > 0 {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		gl.UseProgram(r.pointProg)
		spin := mat32(f.FieldModel)
		gl.UniformMatrix4fv(r.pu.model, 1, false, &spin[0])
		gl.UniformMatrix4fv(r.pu.view, 1, false, &view[0])
		gl.UniformMatrix4fv(r.pu.proj, 1, false, &proj[0])
		gl.Uniform1f(r.pu.size, float32(f.Points.Size))
		gl.Uniform1f(r.pu.scale, float32(float64(r.height)*clampPixelRatio(r.pixelRatio)*0.5))
		pointColor := rgb32(f.Points.Color)
		gl.Uniform3fv(r.pu.color, 1, &pointColor[0])
		gl.Uniform1f(r.pu.opacity, float32(f.Points.Opacity))
		gl.Uniform1f(r.pu.fogDensity, fogDensity)

		gl.BindVertexArray(r.pointVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.pointVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*3*4, gl.Ptr(f.Particles[:n*3]))
		gl.DrawArrays(gl.POINTS, 0, int32(n))
	}

	gl.DepthMask(true)
	gl.BindVertexArray(0)
}

// Dispose deletes every GL object that was created. Handles are zeroed, so a
// second call does nothing.
func (r *Renderer) Dispose() {
	for _, id := range []*uint32{&r.meshVBO, &r.meshEBO, &r.lineEBO, &r.pointVBO} {
		if *id != 0 {
			gl.DeleteBuffers(1, id)
			*id = 0
		}
	}
	for _, id := range []*uint32{&r.meshVAO, &r.lineVAO, &r.pointVAO} {
		if *id != 0 {
			gl.DeleteVertexArrays(1, id)
			*id = 0
		}
	}
	for _, id := range []*uint32{&r.meshProg, &r.lineProg, &r.pointProg} {
		if *id != 0 {
			gl.DeleteProgram(*id)
			*id = 0
		}
	}
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}
