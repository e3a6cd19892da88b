package math

import (
	"errors"
	"fmt"
)

// ErrSingular is returned by TryInverse when the determinant is zero.
var ErrSingular = errors.New("math: singular matrix")

// Mat3 is a row-major 3x3 matrix:
//
//	| 0 1 2 |
//	| 3 4 5 |
//	| 6 7 8 |
type Mat3[T Float] [9]T

func Mat3Fill[T Float](v T) Mat3[T] {
	var m Mat3[T]
	for i := range m {
		m[i] = v
	}
	return m
}

func Mat3Identity[T Float]() Mat3[T] {
	return Mat3[T]{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func (m Mat3[T]) At(row, col int) T { return m[row*3+col] }

func (m Mat3[T]) Add(o Mat3[T]) Mat3[T] {
	for i := range m {
		m[i] += o[i]
	}
	return m
}

func (m Mat3[T]) Sub(o Mat3[T]) Mat3[T] {
	for i := range m {
		m[i] -= o[i]
	}
	return m
}

func (m Mat3[T]) Mul(o Mat3[T]) Mat3[T] {
	var r Mat3[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i*3+j] = m[i*3]*o[j] + m[i*3+1]*o[3+j] + m[i*3+2]*o[6+j]
		}
	}
	return r
}

func (m Mat3[T]) MulScalar(s T) Mat3[T] {
	for i := range m {
		m[i] *= s
	}
	return m
}

func (m Mat3[T]) DivScalar(s T) Mat3[T] {
	for i := range m {
		m[i] /= s
	}
	return m
}

func (m Mat3[T]) Transpose() Mat3[T] {
	return Mat3[T]{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

func (m Mat3[T]) Det() T {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Inverse returns adj(m)/det(m). No singularity check is made: a zero
// determinant yields Inf/NaN entries. Use TryInverse to detect it.
func (m Mat3[T]) Inverse() Mat3[T] {
	adj := Mat3[T]{
		m[4]*m[8] - m[5]*m[7], m[2]*m[7] - m[1]*m[8], m[1]*m[5] - m[2]*m[4],
		m[5]*m[6] - m[3]*m[8], m[0]*m[8] - m[2]*m[6], m[2]*m[3] - m[0]*m[5],
		m[3]*m[7] - m[4]*m[6], m[1]*m[6] - m[0]*m[7], m[0]*m[4] - m[1]*m[3],
	}
	det := m[0]*adj[0] + m[1]*adj[3] + m[2]*adj[6]
	return adj.DivScalar(det)
}

func (m Mat3[T]) TryInverse() (Mat3[T], error) {
	if m.Det() == 0 {
		return Mat3[T]{}, ErrSingular
	}
	return m.Inverse(), nil
}

func (m Mat3[T]) String() string {
	return fmt.Sprintf("%v, %v, %v\n%v, %v, %v\n%v, %v, %v",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}
