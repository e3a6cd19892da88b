// Package opengl implements the engine's graphics driver on OpenGL 4.1 core
// through go-gl. Function pointers must be loaded (gl.Init) on the goroutine
// owning the context before any call.
package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	gfx "tiny-engine/opengl"
)

// Driver forwards every call to the current OpenGL context.
type Driver struct{}

var _ gfx.Driver = Driver{}

func (Driver) CreateShader(stage gfx.Stage) uint32 { return gl.CreateShader(uint32(stage)) }

func (Driver) CompileShader(shader uint32, src string) error {
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return fmt.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return nil
}

func (Driver) DeleteShader(shader uint32)          { gl.DeleteShader(shader) }
func (Driver) CreateProgram() uint32               { return gl.CreateProgram() }
func (Driver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (Driver) LinkProgram(program uint32) error {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		return fmt.Errorf("link failed: %s", strings.TrimRight(log, "\x00"))
	}
	return nil
}

func (Driver) UseProgram(program uint32)    { gl.UseProgram(program) }
func (Driver) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (Driver) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Driver) UniformMatrix4(location int32, transpose bool, m *[16]float32) {
	gl.UniformMatrix4fv(location, 1, transpose, &m[0])
}

func (Driver) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (Driver) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (Driver) Uniform4f(location int32, x, y, z, w float32) { gl.Uniform4f(location, x, y, z, w) }

func (Driver) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (Driver) BindVertexArray(array uint32)   { gl.BindVertexArray(array) }
func (Driver) DeleteVertexArray(array uint32) { gl.DeleteVertexArrays(1, &array) }

func (Driver) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (Driver) BindArrayBuffer(buffer uint32) { gl.BindBuffer(gl.ARRAY_BUFFER, buffer) }

func (Driver) BufferData(data []float32) {
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (Driver) VertexAttribPointer(index uint32, size int32, xtype uint32, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, xtype, false, stride, gl.PtrOffset(offset))
}

func (Driver) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }
func (Driver) DeleteBuffer(buffer uint32)           { gl.DeleteBuffers(1, &buffer) }

func (Driver) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (Driver) ActiveTexture(unit uint32)         { gl.ActiveTexture(gl.TEXTURE0 + unit) }
func (Driver) BindTexture2DArray(texture uint32) { gl.BindTexture(gl.TEXTURE_2D_ARRAY, texture) }

func (Driver) TexImage2DArray(width, height, layers int32, pixels []byte) {
	if len(pixels) == 0 {
		gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.RGBA8, width, height, layers, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
		return
	}
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.RGBA8, width, height, layers, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
}

func (Driver) TexFilter2DArray(minFilter, magFilter int32) {
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, magFilter)
}

func (Driver) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (Driver) GenFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (Driver) BindFramebuffer(framebuffer uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, framebuffer) }

func (Driver) FramebufferTextureLayer(texture uint32, layer int32) {
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, texture, 0, layer)
}

func (Driver) FramebufferStatus() uint32 { return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) }

func (Driver) DeleteFramebuffer(framebuffer uint32) { gl.DeleteFramebuffers(1, &framebuffer) }

func (Driver) GenRenderbuffer() uint32 {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return id
}

func (Driver) DepthRenderbuffer(renderbuffer uint32, width, height int32) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, renderbuffer)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, renderbuffer)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

func (Driver) DeleteRenderbuffer(renderbuffer uint32) { gl.DeleteRenderbuffers(1, &renderbuffer) }

func (Driver) DrawArrays(first, count int32) { gl.DrawArrays(gl.TRIANGLES, first, count) }
