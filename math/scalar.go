package math

import "math"

// Float is the numeric field the vector and matrix types are defined over.
type Float interface {
	~float32 | ~float64
}

const (
	Pi        = math.Pi
	degPerRad = 180.0 / math.Pi
	radPerDeg = math.Pi / 180.0
)

func ToDegrees[T Float](radians T) T { return radians * T(degPerRad) }
func ToRadians[T Float](degrees T) T { return degrees * T(radPerDeg) }

// RSqrt32 approximates 1/sqrt(x) with the bit-level magic-constant estimate
// refined by two Newton-Raphson iterations.
func RSqrt32(x float32) float32 {
	y := x * 0.5
	i := math.Float32bits(x)
	i = 0x5F375A86 - (i >> 1)
	r := math.Float32frombits(i)
	r *= 1.5 - r*r*y
	r *= 1.5 - r*r*y
	return r
}

// RSqrt64 is the float64 counterpart of RSqrt32.
func RSqrt64(x float64) float64 {
	y := x * 0.5
	i := math.Float64bits(x)
	i = 0x5FE6EB50C7B537A9 - (i >> 1)
	r := math.Float64frombits(i)
	r *= 1.5 - r*r*y
	r *= 1.5 - r*r*y
	return r
}

func Sqrt32(x float32) float32 { return x * RSqrt32(x) }
func Sqrt64(x float64) float64 { return x * RSqrt64(x) }

func sqrt[T Float](x T) T { return T(math.Sqrt(float64(x))) }
func sin[T Float](x T) T  { return T(math.Sin(float64(x))) }
func cos[T Float](x T) T  { return T(math.Cos(float64(x))) }
func tan[T Float](x T) T  { return T(math.Tan(float64(x))) }
func abs[T Float](x T) T  { return T(math.Abs(float64(x))) }

func clamp[T Float](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
