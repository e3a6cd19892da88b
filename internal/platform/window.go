package platform

import (
	"fmt"
	"runtime"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"tiny-engine/core"
)

func init() {
	runtime.LockOSThread()
}

// GLFWPlatform opens OpenGL core-profile windows through GLFW.
type GLFWPlatform struct {
	// CloseKey, when non-zero, requests the window to close while held.
	CloseKey Key
}

func (p GLFWPlatform) CreateWindow(config core.WindowConfig) (core.Surface, error) {
	w, err := NewWindow(config)
	if err != nil {
		return nil, err
	}
	w.closeKey = p.CloseKey
	return w, nil
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	vsync    bool
	closeKey Key
	getKey   func(glfw.Key) glfw.Action
}

func NewWindow(config core.WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: glfw init: %v", core.ErrWindowCreate, err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, config.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, config.GLMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, config.Samples)
	resizable := config.Resizable == nil || *config.Resizable
	glfw.WindowHint(glfw.Resizable, boolToInt(resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%w: %v", core.ErrWindowCreate, err)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
		vsync:  config.VSync,
		getKey: handle.GetKey,
	}

	handle.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		gl.Viewport(0, 0, int32(width), int32(height))
	})

	core.Logger().Info("window created", "title", config.Title, "width", config.Width, "height", config.Height)
	return window, nil
}

func (w *Window) MakeCurrent() {
	w.Handle.MakeContextCurrent()
	if w.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

// LoadFunctions resolves the OpenGL entry points for the current context and
// enables the default render state.
func (w *Window) LoadFunctions() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrLoadFunctions, err)
	}
	core.Logger().Info("opengl loaded", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	fbw, fbh := w.Handle.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	return nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) Clear(c core.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
	if w.closeRequested() {
		w.Handle.SetShouldClose(true)
	}
}

func (w *Window) closeRequested() bool {
	return w.closeKey != 0 && w.IsKeyPressed(w.closeKey)
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key Key) bool {
	return w.getKey(glfw.Key(key)) == glfw.Press
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

type Key int

const KeyEscape = Key(glfw.KeyEscape)
