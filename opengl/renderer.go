package opengl

import (
	"fmt"
	"sync"

	"tiny-engine/layer"
	"tiny-engine/math"
)

// MVPUniform is the mat4 uniform the renderer sets when a transform is given.
const MVPUniform = "u_mvp"

// Renderer is a layer that draws a RenderData with one shader program
// during the Update pass.
type Renderer struct {
	layer.Base

	dev     *Device
	program *Program
	data    *RenderData

	mu     sync.Mutex
	mvp    math.FMat
	hasMVP bool
}

func NewRenderer(dev *Device, data *RenderData) *Renderer {
	return &Renderer{
		Base:    layer.NewBase("Renderer", layer.Update),
		dev:     dev,
		program: dev.NewProgram(),
		data:    data,
	}
}

func (r *Renderer) SetRenderData(data *RenderData) { r.data = data }
func (r *Renderer) Program() *Program              { return r.program }

// AttachShaders replaces the program with a new one built from shaders.
func (r *Renderer) AttachShaders(shaders []*Shader) error {
	r.program.Delete()
	for _, s := range shaders {
		r.program.Attach(s)
	}
	if err := r.program.Link(); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	return nil
}

// SetMVP sets the matrix uploaded to MVPUniform before each draw. It may be
// called from any goroutine.
func (r *Renderer) SetMVP(m math.FMat) {
	r.mu.Lock()
	r.mvp, r.hasMVP = m, true
	r.mu.Unlock()
}

func (r *Renderer) Update() {
	if !r.program.Linked() || r.data == nil {
		return
	}
	r.mu.Lock()
	mvp, hasMVP := r.mvp, r.hasMVP
	r.mu.Unlock()

	r.program.Use()
	if hasMVP {
		r.program.SetMat4(MVPUniform, mvp)
	}
	r.data.Bind()
	r.dev.drv.DrawArrays(0, int32(r.data.VertexCount()))
	r.data.Unbind()
	r.program.Unuse()
}
