package opengl

import (
	"errors"
	"fmt"
	"image"

	"tiny-engine/core"
)

var ErrFramebufferIncomplete = errors.New("framebuffer incomplete")

// Texture wraps a 2D array texture; each layer holds one RGBA8 image.
type Texture struct {
	dev     *Device
	id      uint32
	created bool

	width, height, layers int
}

func (t *Texture) Init() {
	if t.created {
		return
	}
	t.id = t.dev.drv.GenTexture()
	t.created = true
}

// Bind makes the texture current on texture unit unit.
func (t *Texture) Bind(unit uint32) {
	t.Init()
	t.dev.drv.ActiveTexture(unit)
	t.dev.drv.BindTexture2DArray(t.id)
}

func (t *Texture) Unbind() {
	t.dev.drv.BindTexture2DArray(0)
}

// SetLayers uploads images as the layers of the texture, binding it to unit
// 0. Every image must have the size of the first one.
func (t *Texture) SetLayers(images []*image.RGBA) error {
	if len(images) == 0 {
		return fmt.Errorf("texture: no layers")
	}
	w, h := images[0].Bounds().Dx(), images[0].Bounds().Dy()
	pixels := make([]byte, 0, w*h*4*len(images))
	for i, img := range images {
		b := img.Bounds()
		if b.Dx() != w || b.Dy() != h {
			return fmt.Errorf("texture layer %d is %dx%d, want %dx%d", i, b.Dx(), b.Dy(), w, h)
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := img.PixOffset(b.Min.X, y)
			pixels = append(pixels, img.Pix[off:off+w*4]...)
		}
	}

	t.Bind(0)
	t.dev.drv.TexImage2DArray(int32(w), int32(h), int32(len(images)), pixels)
	t.width, t.height, t.layers = w, h, len(images)
	core.Logger().Debug("texture uploaded", "id", t.id, "width", w, "height", h, "layers", len(images))
	return nil
}

// SetFilter sets the minification and magnification filters. The texture
// is bound to the active unit.
func (t *Texture) SetFilter(minFilter, magFilter int32) {
	t.Init()
	t.dev.drv.BindTexture2DArray(t.id)
	t.dev.drv.TexFilter2DArray(minFilter, magFilter)
}

func (t *Texture) ID() uint32    { return t.id }
func (t *Texture) Created() bool { return t.created }
func (t *Texture) Width() int    { return t.width }
func (t *Texture) Height() int   { return t.height }
func (t *Texture) Layers() int   { return t.layers }

func (t *Texture) Delete() {
	if !t.created {
		return
	}
	t.dev.drv.DeleteTexture(t.id)
	t.id, t.created = 0, false
	t.width, t.height, t.layers = 0, 0, 0
}

// Framebuffer wraps a framebuffer object with an optional depth
// renderbuffer that it owns.
type Framebuffer struct {
	dev     *Device
	id      uint32
	created bool
	depth   uint32
}

func (f *Framebuffer) Init() {
	if f.created {
		return
	}
	f.id = f.dev.drv.GenFramebuffer()
	f.created = true
}

func (f *Framebuffer) Bind() {
	f.Init()
	f.dev.drv.BindFramebuffer(f.id)
}

// Unbind restores the default framebuffer.
func (f *Framebuffer) Unbind() {
	f.dev.drv.BindFramebuffer(0)
}

// AttachColor binds the framebuffer and attaches one layer of tex as its
// color target.
func (f *Framebuffer) AttachColor(tex *Texture, layer int) {
	f.Bind()
	tex.Init()
	f.dev.drv.FramebufferTextureLayer(tex.id, int32(layer))
}

// AttachDepth binds the framebuffer and attaches a depth renderbuffer of the
// given size, creating it on first use.
func (f *Framebuffer) AttachDepth(width, height int) {
	f.Bind()
	if f.depth == 0 {
		f.depth = f.dev.drv.GenRenderbuffer()
	}
	f.dev.drv.DepthRenderbuffer(f.depth, int32(width), int32(height))
}

// Status binds the framebuffer and reports whether it is complete.
func (f *Framebuffer) Status() error {
	f.Bind()
	if status := f.dev.drv.FramebufferStatus(); status != FramebufferComplete {
		return fmt.Errorf("%w: status=0x%X", ErrFramebufferIncomplete, status)
	}
	return nil
}

func (f *Framebuffer) ID() uint32    { return f.id }
func (f *Framebuffer) Created() bool { return f.created }

func (f *Framebuffer) Delete() {
	if f.depth != 0 {
		f.dev.drv.DeleteRenderbuffer(f.depth)
		f.depth = 0
	}
	if !f.created {
		return
	}
	f.dev.drv.DeleteFramebuffer(f.id)
	f.id, f.created = 0, false
}
