// Package opengl wraps graphics-API objects (shaders, programs, vertex
// arrays, buffers, textures, framebuffers) in lazily created handles owned
// by a Device.
//
// All calls must be made from the goroutine that owns the current context.
// Binding a handle changes global context state and nothing is restored
// afterwards; call order across handles is the caller's responsibility.
package opengl

// Enum values shared with the OpenGL API, so a driver can pass them through.
const (
	TypeFloat uint32 = 0x1406

	FilterNearest int32 = 0x2600
	FilterLinear  int32 = 0x2601

	FramebufferComplete uint32 = 0x8CD5
)

// Driver issues the native calls. The production driver talks to OpenGL
// through go-gl; tests use a recording fake.
type Driver interface {
	CreateShader(stage Stage) uint32
	// CompileShader uploads src and compiles it. A failed compile returns
	// an error carrying the info log.
	CompileShader(shader uint32, src string) error
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	// LinkProgram links and returns an error carrying the info log on failure.
	LinkProgram(program uint32) error
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	UniformMatrix4(location int32, transpose bool, m *[16]float32)
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform4f(location int32, x, y, z, w float32)

	GenVertexArray() uint32
	BindVertexArray(array uint32)
	DeleteVertexArray(array uint32)

	GenBuffer() uint32
	BindArrayBuffer(buffer uint32)
	BufferData(data []float32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, stride int32, offset int)
	EnableVertexAttribArray(index uint32)
	DeleteBuffer(buffer uint32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture2DArray(texture uint32)
	TexImage2DArray(width, height, layers int32, pixels []byte)
	TexFilter2DArray(minFilter, magFilter int32)
	DeleteTexture(texture uint32)

	GenFramebuffer() uint32
	BindFramebuffer(framebuffer uint32)
	FramebufferTextureLayer(texture uint32, layer int32)
	FramebufferStatus() uint32
	DeleteFramebuffer(framebuffer uint32)
	GenRenderbuffer() uint32
	// DepthRenderbuffer allocates depth storage for renderbuffer and attaches
	// it to the bound framebuffer.
	DepthRenderbuffer(renderbuffer uint32, width, height int32)
	DeleteRenderbuffer(renderbuffer uint32)

	DrawArrays(first, count int32)
}
