package math

import "github.com/go-gl/mathgl/mgl32"

// PerspectiveFOV builds a symmetric perspective projection. fov is the
// vertical field of view in radians; width and height give the aspect ratio.
func PerspectiveFOV[T Float](fov, width, height, near, far T) Mat4[T] {
	f := 1 / tan(fov/2)
	var m Mat4[T]
	m[0] = f * (height / width)
	m[5] = f
	m[10] = -(far + near) / (far - near)
	m[11] = -(2 * far * near) / (far - near)
	m[14] = -1
	return m
}

// Perspective builds an off-axis (asymmetric) frustum projection.
func Perspective[T Float](right, left, top, bottom, near, far T) Mat4[T] {
	var m Mat4[T]
	m[0] = (2 * near) / (right - left)
	m[2] = (right + left) / (right - left)
	m[5] = (2 * near) / (top - bottom)
	m[6] = (top + bottom) / (top - bottom)
	m[10] = -(far + near) / (far - near)
	m[11] = (-2 * far * near) / (far - near)
	m[14] = -1
	return m
}

func PerspectiveSymmetric[T Float](right, top, near, far T) Mat4[T] {
	var m Mat4[T]
	m[0] = near / right
	m[5] = near / top
	m[10] = -(far + near) / (far - near)
	m[11] = (-2 * far * near) / (far - near)
	m[14] = -1
	return m
}

func Orthographic[T Float](right, left, top, bottom, near, far T) Mat4[T] {
	var m Mat4[T]
	m[0] = 2 / (right - left)
	m[3] = -((right + left) / (right - left))
	m[5] = 2 / (top - bottom)
	m[7] = -((top + bottom) / (top - bottom))
	m[10] = -2 / (far - near)
	m[11] = -((far + near) / (far - near))
	m[15] = 1
	return m
}

func OrthographicSymmetric[T Float](right, top, near, far T) Mat4[T] {
	var m Mat4[T]
	m[0] = 1 / right
	m[5] = 1 / top
	m[10] = -2 / (far - near)
	m[11] = -((far + near) / (far - near))
	m[15] = 1
	return m
}

// LookAt builds a right-handed view matrix looking from eye towards at.
// When up is parallel to the view direction the basis degenerates and the
// result contains NaN; no guard is applied.
func LookAt[T Float](eye, at, up Vector[T]) Mat4[T] {
	eye.W, at.W, up.W = 0, 0, 0
	z := eye.Sub(at).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return Mat4[T]{
		x.X, x.Y, x.Z, -x.Dot(eye),
		y.X, y.Y, y.Z, -y.Dot(eye),
		z.X, z.Y, z.Z, -z.Dot(eye),
		0, 0, 0, 1,
	}
}

// Mgl32 converts m to the column-major mgl32 layout.
func (m Mat4[T]) Mgl32() mgl32.Mat4 {
	var r mgl32.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r[col*4+row] = float32(m[row*4+col])
		}
	}
	return r
}

func Mat4FromMgl32(src mgl32.Mat4) FMat {
	var m FMat
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[row*4+col] = src[col*4+row]
		}
	}
	return m
}
