package scene

import (
	stdmath "math"
	"testing"

	"tiny-engine/math"
)

func near(a, b float32) bool { return stdmath.Abs(float64(a-b)) < 1e-4 }

func TestCameraViewProjection(t *testing.T) {
	c := NewCamera(math.ToRadians[float32](60), 16.0/9, 0.1, 100)
	c.SetPosition(math.Vec3[float32](0, 0, 5))
	c.LookAt(math.Vec3[float32](0, 0, 0), math.Vec3[float32](0, 1, 0))

	if !c.ViewProjection().ApproxEqual(c.Projection().Mul(c.View()), 1e-5) {
		t.Error("ViewProjection != Projection * View")
	}

	// The target sits 5 units down the view axis.
	p := c.View().TransformPoint(math.Vec3[float32](0, 0, 0))
	if !near(p.X, 0) || !near(p.Y, 0) || !near(p.Z, -5) {
		t.Errorf("target in view space = %v, want (0, 0, -5)", p)
	}
	if f := c.Forward(); !near(f.Z, -1) {
		t.Errorf("Forward = %v, want -Z", f)
	}
}

func TestCameraRebuildsAfterChange(t *testing.T) {
	c := NewCamera(1, 1, 0.1, 100)
	c.LookAt(math.Vec3[float32](0, 0, 0), math.Vec3[float32](0, 1, 0))
	before := c.Projection()

	c.UpdateAspectRatio(800, 0)
	if c.Projection() != before {
		t.Error("zero height changed the projection")
	}
	c.UpdateAspectRatio(800, 400)
	if got := c.Projection(); near(got[0], before[0]) {
		t.Error("projection not rebuilt after aspect change")
	}
}

func TestOrbitCameraClamps(t *testing.T) {
	c := NewOrbitCamera(math.Vec3[float32](1, 0, 0), 2, 1, 1)
	if got := c.Position().Sub(c.Target()).Length(); !near(got, 2) {
		t.Errorf("distance to target = %v, want 2", got)
	}

	c.Orbit(0, 10)
	if c.Pitch != maxOrbitPitch {
		t.Errorf("Pitch = %v, want clamped to %v", c.Pitch, maxOrbitPitch)
	}
	c.Zoom(-10)
	if c.Distance != minOrbitDistance {
		t.Errorf("Distance = %v, want clamped to %v", c.Distance, minOrbitDistance)
	}
	if got := c.Position().Sub(c.Target()).Length(); !near(got, minOrbitDistance) {
		t.Errorf("distance to target = %v, want %v", got, minOrbitDistance)
	}
}
