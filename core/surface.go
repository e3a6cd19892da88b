package core

import "errors"

var (
	ErrWindowCreate  = errors.New("cannot create window")
	ErrLoadFunctions = errors.New("cannot load graphics functions")
)

// Surface is a native window with a graphics context. All methods must be
// called from the goroutine that created it.
type Surface interface {
	MakeCurrent()
	LoadFunctions() error
	ShouldClose() bool
	Clear(c Color)
	SwapBuffers()
	PollEvents()
	Destroy()
}

// Platform creates surfaces.
type Platform interface {
	CreateWindow(cfg WindowConfig) (Surface, error)
}
