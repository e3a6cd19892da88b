package opengl

// VertexArray wraps a vertex array object.
type VertexArray struct {
	dev     *Device
	id      uint32
	created bool
}

func (a *VertexArray) Init() {
	if a.created {
		return
	}
	a.id = a.dev.drv.GenVertexArray()
	a.created = true
}

func (a *VertexArray) Bind() {
	a.Init()
	a.dev.drv.BindVertexArray(a.id)
}

func (a *VertexArray) Unbind() {
	a.dev.drv.BindVertexArray(0)
}

func (a *VertexArray) ID() uint32    { return a.id }
func (a *VertexArray) Created() bool { return a.created }

func (a *VertexArray) Delete() {
	if !a.created {
		return
	}
	a.dev.drv.DeleteVertexArray(a.id)
	a.id, a.created = 0, false
}

// AttribPointer describes one vertex attribute inside a bound buffer.
// Stride and Offset are in bytes. A zero Type means TypeFloat.
type AttribPointer struct {
	Index  uint32
	Size   int32
	Type   uint32
	Stride int32
	Offset int
}

// Buffer wraps an array buffer holding float32 vertex data.
type Buffer struct {
	dev     *Device
	id      uint32
	created bool
}

func (b *Buffer) Init() {
	if b.created {
		return
	}
	b.id = b.dev.drv.GenBuffer()
	b.created = true
}

func (b *Buffer) Bind() {
	b.Init()
	b.dev.drv.BindArrayBuffer(b.id)
}

func (b *Buffer) Unbind() {
	b.dev.drv.BindArrayBuffer(0)
}

// BindPlace binds the buffer and points attribute index at tightly packed
// float vectors of dim components.
func (b *Buffer) BindPlace(index uint32, dim int32) {
	b.Bind()
	b.dev.drv.VertexAttribPointer(index, dim, TypeFloat, 0, 0)
	b.dev.drv.EnableVertexAttribArray(index)
}

// BindData binds the buffer and uploads data.
func (b *Buffer) BindData(data []float32) {
	b.Bind()
	b.dev.drv.BufferData(data)
}

// BindPtr binds the buffer, then configures and enables each attribute.
func (b *Buffer) BindPtr(ptrs []AttribPointer) {
	b.Bind()
	for _, p := range ptrs {
		xtype := p.Type
		if xtype == 0 {
			xtype = TypeFloat
		}
		b.dev.drv.VertexAttribPointer(p.Index, p.Size, xtype, p.Stride, p.Offset)
		b.dev.drv.EnableVertexAttribArray(p.Index)
	}
}

func (b *Buffer) ID() uint32    { return b.id }
func (b *Buffer) Created() bool { return b.created }

func (b *Buffer) Delete() {
	if !b.created {
		return
	}
	b.dev.drv.DeleteBuffer(b.id)
	b.id, b.created = 0, false
}
