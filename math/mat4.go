package math

import "fmt"

// Mat4 is a row-major 4x4 matrix. Vectors are treated as columns, so a
// translation lives in elements 3, 7 and 11 and M.MulVec(v) computes M·v.
type Mat4[T Float] [16]T

type (
	FMat = Mat4[float32]
	DMat = Mat4[float64]
)

func Mat4Fill[T Float](v T) Mat4[T] {
	var m Mat4[T]
	for i := range m {
		m[i] = v
	}
	return m
}

func Mat4Zero[T Float]() Mat4[T] { return Mat4[T]{} }
func Mat4One[T Float]() Mat4[T]  { return Mat4Fill[T](1) }

func Mat4Identity[T Float]() Mat4[T] {
	return Mat4[T]{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateX returns a rotation about the X axis; angle is in radians.
func RotateX[T Float](angle T) Mat4[T] {
	c, s := cos(angle), sin(angle)
	m := Mat4Identity[T]()
	m[5], m[6] = c, -s
	m[9], m[10] = s, c
	return m
}

// RotateY returns a rotation about the Y axis; angle is in radians.
func RotateY[T Float](angle T) Mat4[T] {
	c, s := cos(angle), sin(angle)
	m := Mat4Identity[T]()
	m[0], m[2] = c, s
	m[8], m[10] = -s, c
	return m
}

// RotateZ returns a rotation about the Z axis; angle is in radians.
func RotateZ[T Float](angle T) Mat4[T] {
	c, s := cos(angle), sin(angle)
	m := Mat4Identity[T]()
	m[0], m[1] = c, -s
	m[4], m[5] = s, c
	return m
}

func Translate[T Float](pos Vector[T]) Mat4[T] {
	m := Mat4Identity[T]()
	m[3], m[7], m[11] = pos.X, pos.Y, pos.Z
	return m
}

func Scale[T Float](s Vector[T]) Mat4[T] {
	m := Mat4Identity[T]()
	m[0], m[5], m[10] = s.X, s.Y, s.Z
	return m
}

func (m Mat4[T]) At(row, col int) T { return m[row*4+col] }

func (m Mat4[T]) XAxis() Vector[T] { return Vector[T]{m[0], m[4], m[8], m[12]} }
func (m Mat4[T]) YAxis() Vector[T] { return Vector[T]{m[1], m[5], m[9], m[13]} }
func (m Mat4[T]) ZAxis() Vector[T] { return Vector[T]{m[2], m[6], m[10], m[14]} }
func (m Mat4[T]) WAxis() Vector[T] { return Vector[T]{m[3], m[7], m[11], m[15]} }

// Row returns row i (0..3).
func (m Mat4[T]) Row(i int) Vector[T] {
	return Vector[T]{m[i*4], m[i*4+1], m[i*4+2], m[i*4+3]}
}

func (m Mat4[T]) Translation() Vector[T] { return m.WAxis() }

// ScaleDiagonal returns the main diagonal, which holds the scale factors of
// an unrotated transform.
func (m Mat4[T]) ScaleDiagonal() Vector[T] { return Vector[T]{m[0], m[5], m[10], m[15]} }

func (m Mat4[T]) Transpose() Mat4[T] {
	return Mat4[T]{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

func (m Mat4[T]) Add(o Mat4[T]) Mat4[T] {
	for i := range m {
		m[i] += o[i]
	}
	return m
}

func (m Mat4[T]) Sub(o Mat4[T]) Mat4[T] {
	for i := range m {
		m[i] -= o[i]
	}
	return m
}

func (m Mat4[T]) MulScalar(s T) Mat4[T] {
	for i := range m {
		m[i] *= s
	}
	return m
}

func (m Mat4[T]) DivScalar(s T) Mat4[T] {
	return m.MulScalar(1 / s)
}

// Mul returns the matrix product m·o.
func (m Mat4[T]) Mul(o Mat4[T]) Mat4[T] {
	var r Mat4[T]
	for i := 0; i < 4; i++ {
		row := m.Row(i)
		r[i*4+0] = row.Dot(o.XAxis())
		r[i*4+1] = row.Dot(o.YAxis())
		r[i*4+2] = row.Dot(o.ZAxis())
		r[i*4+3] = row.Dot(o.WAxis())
	}
	return r
}

// MulVec returns m·v.
func (m Mat4[T]) MulVec(v Vector[T]) Vector[T] {
	return Vector[T]{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v), m.Row(3).Dot(v)}
}

// TransformPoint applies m to the point (v.X, v.Y, v.Z, 1) and divides by
// the resulting w. The returned W is 1.
func (m Mat4[T]) TransformPoint(v Vector[T]) Vector[T] {
	p := m.MulVec(Vector[T]{v.X, v.Y, v.Z, 1})
	return Vector[T]{p.X / p.W, p.Y / p.W, p.Z / p.W, 1}
}

// TransformDirection applies the upper 3x3 of m; translation is ignored.
func (m Mat4[T]) TransformDirection(v Vector[T]) Vector[T] {
	return Vector[T]{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

func (m Mat4[T]) cofactors() Mat4[T] {
	var inv Mat4[T]
	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]
	return inv
}

func (m Mat4[T]) Det() T {
	inv := m.cofactors()
	return m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
}

// Inverse computes the inverse by cofactor expansion. There is no
// singularity check: a zero determinant produces Inf/NaN entries.
func (m Mat4[T]) Inverse() Mat4[T] {
	inv := m.cofactors()
	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	return inv.DivScalar(det)
}

func (m Mat4[T]) TryInverse() (Mat4[T], error) {
	inv := m.cofactors()
	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if det == 0 {
		return Mat4[T]{}, ErrSingular
	}
	return inv.DivScalar(det), nil
}

// ApproxEqual compares elementwise within eps.
func (m Mat4[T]) ApproxEqual(o Mat4[T], eps T) bool {
	for i := range m {
		if abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

func (m Mat4[T]) String() string {
	return fmt.Sprintf("%v, %v, %v, %v\n%v, %v, %v, %v\n%v, %v, %v, %v\n%v, %v, %v, %v",
		m[0], m[1], m[2], m[3],
		m[4], m[5], m[6], m[7],
		m[8], m[9], m[10], m[11],
		m[12], m[13], m[14], m[15])
}
