package opengl

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeDriver records every call and tracks live objects per kind so tests
// can check that each handle is released exactly once.
type fakeDriver struct {
	t      *testing.T
	nextID uint32
	calls  []string
	live   map[string]map[uint32]bool

	compileErr error
	linkErr    error
	status     uint32

	uploaded []float32
	pixels   []byte
	matrix   [16]float32
	uniforms map[string]int32
}

func newFakeDriver(t *testing.T) *fakeDriver {
	return &fakeDriver{
		t:        t,
		live:     make(map[string]map[uint32]bool),
		status:   FramebufferComplete,
		uniforms: map[string]int32{MVPUniform: 3},
	}
}

func (f *fakeDriver) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) gen(kind string) uint32 {
	f.nextID++
	if f.live[kind] == nil {
		f.live[kind] = make(map[uint32]bool)
	}
	f.live[kind][f.nextID] = true
	f.record("gen %s %d", kind, f.nextID)
	return f.nextID
}

func (f *fakeDriver) del(kind string, id uint32) {
	if !f.live[kind][id] {
		f.t.Errorf("delete of %s %d which is not live", kind, id)
	}
	delete(f.live[kind], id)
	f.record("delete %s %d", kind, id)
}

func (f *fakeDriver) liveCount() int {
	n := 0
	for _, ids := range f.live {
		n += len(ids)
	}
	return n
}

// has reports whether a call starting with prefix was recorded.
func (f *fakeDriver) has(prefix string) bool {
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (f *fakeDriver) CreateShader(stage Stage) uint32 { return f.gen("shader") }

func (f *fakeDriver) CompileShader(shader uint32, src string) error {
	f.record("compile %d", shader)
	return f.compileErr
}

func (f *fakeDriver) DeleteShader(shader uint32) { f.del("shader", shader) }
func (f *fakeDriver) CreateProgram() uint32      { return f.gen("program") }

func (f *fakeDriver) AttachShader(program, shader uint32) {
	f.record("attach %d %d", program, shader)
}

func (f *fakeDriver) LinkProgram(program uint32) error {
	f.record("link %d", program)
	return f.linkErr
}

func (f *fakeDriver) UseProgram(program uint32)    { f.record("use %d", program) }
func (f *fakeDriver) DeleteProgram(program uint32) { f.del("program", program) }

func (f *fakeDriver) UniformLocation(program uint32, name string) int32 {
	f.record("uniform location %s", name)
	if loc, ok := f.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (f *fakeDriver) UniformMatrix4(location int32, transpose bool, m *[16]float32) {
	f.record("uniform mat4 %d transpose=%v", location, transpose)
	f.matrix = *m
}

func (f *fakeDriver) Uniform1i(location int32, v int32)   { f.record("uniform1i %d %d", location, v) }
func (f *fakeDriver) Uniform1f(location int32, v float32) { f.record("uniform1f %d %v", location, v) }

func (f *fakeDriver) Uniform4f(location int32, x, y, z, w float32) {
	f.record("uniform4f %d %v %v %v %v", location, x, y, z, w)
}

func (f *fakeDriver) GenVertexArray() uint32           { return f.gen("array") }
func (f *fakeDriver) BindVertexArray(array uint32)     { f.record("bind array %d", array) }
func (f *fakeDriver) DeleteVertexArray(array uint32)   { f.del("array", array) }
func (f *fakeDriver) GenBuffer() uint32                { return f.gen("buffer") }
func (f *fakeDriver) BindArrayBuffer(buffer uint32)    { f.record("bind buffer %d", buffer) }
func (f *fakeDriver) DeleteBuffer(buffer uint32)       { f.del("buffer", buffer) }
func (f *fakeDriver) EnableVertexAttribArray(i uint32) { f.record("enable %d", i) }

func (f *fakeDriver) BufferData(data []float32) {
	f.record("buffer data %d", len(data))
	f.uploaded = append([]float32(nil), data...)
}

func (f *fakeDriver) VertexAttribPointer(index uint32, size int32, xtype uint32, stride int32, offset int) {
	f.record("attrib %d size=%d type=0x%X stride=%d offset=%d", index, size, xtype, stride, offset)
}

func (f *fakeDriver) GenTexture() uint32                { return f.gen("texture") }
func (f *fakeDriver) ActiveTexture(unit uint32)         { f.record("active texture %d", unit) }
func (f *fakeDriver) BindTexture2DArray(texture uint32) { f.record("bind texture %d", texture) }
func (f *fakeDriver) DeleteTexture(texture uint32)      { f.del("texture", texture) }

func (f *fakeDriver) TexImage2DArray(width, height, layers int32, pixels []byte) {
	f.record("teximage %dx%dx%d", width, height, layers)
	f.pixels = pixels
}

func (f *fakeDriver) TexFilter2DArray(minFilter, magFilter int32) {
	f.record("filter 0x%X 0x%X", minFilter, magFilter)
}

func (f *fakeDriver) GenFramebuffer() uint32             { return f.gen("framebuffer") }
func (f *fakeDriver) BindFramebuffer(framebuffer uint32) { f.record("bind framebuffer %d", framebuffer) }
func (f *fakeDriver) FramebufferStatus() uint32          { return f.status }
func (f *fakeDriver) DeleteFramebuffer(framebuffer uint32) {
	f.del("framebuffer", framebuffer)
}
func (f *fakeDriver) GenRenderbuffer() uint32 { return f.gen("renderbuffer") }

func (f *fakeDriver) FramebufferTextureLayer(texture uint32, layer int32) {
	f.record("framebuffer layer %d %d", texture, layer)
}

func (f *fakeDriver) DepthRenderbuffer(renderbuffer uint32, width, height int32) {
	f.record("depth %d %dx%d", renderbuffer, width, height)
}

func (f *fakeDriver) DeleteRenderbuffer(renderbuffer uint32) { f.del("renderbuffer", renderbuffer) }

func (f *fakeDriver) DrawArrays(first, count int32) { f.record("draw %d %d", first, count) }

var errFake = errors.New("fake failure")
