package opengl

import (
	"tiny-engine/core"
	"tiny-engine/layer"
)

type resource interface {
	Delete()
}

// Device owns every handle created through it and releases them together.
type Device struct {
	drv   Driver
	owned []resource
}

func NewDevice(drv Driver) *Device {
	return &Device{drv: drv}
}

func (d *Device) Driver() Driver { return d.drv }

func (d *Device) own(r resource) { d.owned = append(d.owned, r) }

func (d *Device) NewShader() *Shader {
	s := &Shader{dev: d}
	d.own(s)
	return s
}

func (d *Device) NewProgram() *Program {
	p := &Program{dev: d}
	d.own(p)
	return p
}

func (d *Device) NewVertexArray() *VertexArray {
	a := &VertexArray{dev: d}
	d.own(a)
	return a
}

func (d *Device) NewBuffer() *Buffer {
	b := &Buffer{dev: d}
	d.own(b)
	return b
}

func (d *Device) NewTexture() *Texture {
	t := &Texture{dev: d}
	d.own(t)
	return t
}

func (d *Device) NewFramebuffer() *Framebuffer {
	f := &Framebuffer{dev: d}
	d.own(f)
	return f
}

// Release deletes every handle the device created, newest first. Handles
// already deleted are skipped. The device stays usable afterwards and keeps
// ownership, so a handle re-created after Release is deleted by the next one.
func (d *Device) Release() {
	n := len(d.owned)
	for i := n - 1; i >= 0; i-- {
		d.owned[i].Delete()
	}
	core.Logger().Debug("device released", "handles", n)
}

type releaseLayer struct {
	layer.Base
	dev *Device
}

func (r *releaseLayer) End() { r.dev.Release() }

// ReleaseOnEnd returns a layer that releases dev during the End pass, while
// the context is still current.
func ReleaseOnEnd(dev *Device) layer.Layer {
	l := &releaseLayer{Base: layer.NewBase("DeviceRelease", layer.End), dev: dev}
	l.SetTag("opengl")
	return l
}
