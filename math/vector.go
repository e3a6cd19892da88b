package math

import "fmt"

// Vector is a four-component tuple. Geometric helpers (Cross, PlaneNormal)
// treat it as a 3D vector and leave W at zero.
type Vector[T Float] struct {
	X, Y, Z, W T
}

type (
	FVec = Vector[float32]
	DVec = Vector[float64]
)

func Vec[T Float](x, y, z, w T) Vector[T] {
	return Vector[T]{X: x, Y: y, Z: z, W: w}
}

func Vec3[T Float](x, y, z T) Vector[T] {
	return Vector[T]{X: x, Y: y, Z: z}
}

// Splat returns a vector with every component set to v.
func Splat[T Float](v T) Vector[T] {
	return Vector[T]{X: v, Y: v, Z: v, W: v}
}

func (v Vector[T]) AddScalar(s T) Vector[T] {
	return Vector[T]{v.X + s, v.Y + s, v.Z + s, v.W + s}
}

func (v Vector[T]) SubScalar(s T) Vector[T] {
	return Vector[T]{v.X - s, v.Y - s, v.Z - s, v.W - s}
}

func (v Vector[T]) MulScalar(s T) Vector[T] {
	return Vector[T]{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

func (v Vector[T]) DivScalar(s T) Vector[T] {
	return Vector[T]{v.X / s, v.Y / s, v.Z / s, v.W / s}
}

func (v Vector[T]) Add(o Vector[T]) Vector[T] {
	return Vector[T]{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W}
}

func (v Vector[T]) Sub(o Vector[T]) Vector[T] {
	return Vector[T]{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W}
}

// Mul is the componentwise (Hadamard) product.
func (v Vector[T]) Mul(o Vector[T]) Vector[T] {
	return Vector[T]{v.X * o.X, v.Y * o.Y, v.Z * o.Z, v.W * o.W}
}

func (v Vector[T]) Div(o Vector[T]) Vector[T] {
	return Vector[T]{v.X / o.X, v.Y / o.Y, v.Z / o.Z, v.W / o.W}
}

func (v *Vector[T]) AddAssign(o Vector[T]) { *v = v.Add(o) }
func (v *Vector[T]) SubAssign(o Vector[T]) { *v = v.Sub(o) }
func (v *Vector[T]) MulAssign(o Vector[T]) { *v = v.Mul(o) }
func (v *Vector[T]) DivAssign(o Vector[T]) { *v = v.Div(o) }
func (v *Vector[T]) AddScalarAssign(s T)   { *v = v.AddScalar(s) }
func (v *Vector[T]) SubScalarAssign(s T)   { *v = v.SubScalar(s) }
func (v *Vector[T]) MulScalarAssign(s T)   { *v = v.MulScalar(s) }
func (v *Vector[T]) DivScalarAssign(s T)   { *v = v.DivScalar(s) }

// Dot sums the products of all four components.
func (v Vector[T]) Dot(o Vector[T]) T {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W
}

func (v Vector[T]) Cross(o Vector[T]) Vector[T] {
	return Vector[T]{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector[T]) Length() T {
	return sqrt(v.Dot(v))
}

func (v Vector[T]) Distance(o Vector[T]) T {
	return v.Sub(o).Length()
}

// Normalize scales v to unit length. The zero vector has no direction and
// normalizes to NaN components.
func (v Vector[T]) Normalize() Vector[T] {
	return v.MulScalar(1 / v.Length())
}

func (v Vector[T]) ToDeg() Vector[T] { return v.MulScalar(T(degPerRad)) }
func (v Vector[T]) ToRad() Vector[T] { return v.MulScalar(T(radPerDeg)) }

// PlaneNormal returns the unit normal of the plane through a, b and c,
// wound counter-clockwise.
func PlaneNormal[T Float](a, b, c Vector[T]) Vector[T] {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

func (v Vector[T]) Abs() Vector[T] {
	return Vector[T]{abs(v.X), abs(v.Y), abs(v.Z), abs(v.W)}
}

func (v Vector[T]) Negate() Vector[T] {
	return Vector[T]{-v.X, -v.Y, -v.Z, -v.W}
}

func (v Vector[T]) Clamp(lo, hi T) Vector[T] {
	return Vector[T]{clamp(v.X, lo, hi), clamp(v.Y, lo, hi), clamp(v.Z, lo, hi), clamp(v.W, lo, hi)}
}

// AnyGreater reports whether any of X, Y, Z exceeds the matching component of o.
func (v Vector[T]) AnyGreater(o Vector[T]) bool {
	return v.X > o.X || v.Y > o.Y || v.Z > o.Z
}

// AnyLess reports whether any of X, Y, Z is below the matching component of o.
func (v Vector[T]) AnyLess(o Vector[T]) bool {
	return v.X < o.X || v.Y < o.Y || v.Z < o.Z
}

func (v Vector[T]) Equal(o Vector[T]) bool {
	return v == o
}

// ApproxEqual compares componentwise within eps.
func (v Vector[T]) ApproxEqual(o Vector[T], eps T) bool {
	d := v.Sub(o).Abs()
	return d.X <= eps && d.Y <= eps && d.Z <= eps && d.W <= eps
}

func (v Vector[T]) String() string {
	return fmt.Sprintf("X: %v Y: %v Z: %v W: %v", v.X, v.Y, v.Z, v.W)
}
