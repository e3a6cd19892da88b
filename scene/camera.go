package scene

import (
	stdmath "math"

	"tiny-engine/math"
)

// Camera is a perspective look-at camera. Matrices are rebuilt lazily after
// any change.
type Camera struct {
	position math.FVec
	target   math.FVec
	up       math.FVec

	fov         float32 // vertical, radians
	aspectRatio float32
	near, far   float32

	view     math.FMat
	proj     math.FMat
	viewProj math.FMat
	dirty    bool
}

func NewCamera(fov, aspectRatio, near, far float32) *Camera {
	return &Camera{
		position:    math.Vec3[float32](0, 0, 1),
		up:          math.Vec3[float32](0, 1, 0),
		fov:         fov,
		aspectRatio: aspectRatio,
		near:        near,
		far:         far,
		dirty:       true,
	}
}

// UpdateAspectRatio sets the aspect from a framebuffer size. A zero height
// is ignored.
func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.aspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos math.FVec) {
	c.position = pos
	c.dirty = true
}

// LookAt points the camera at target with the given up direction.
func (c *Camera) LookAt(target, up math.FVec) {
	c.target, c.up = target, up
	c.dirty = true
}

func (c *Camera) Position() math.FVec { return c.position }
func (c *Camera) Target() math.FVec   { return c.target }

func (c *Camera) Forward() math.FVec {
	f := c.target.Sub(c.position)
	f.W = 0
	return f.Normalize()
}

func (c *Camera) View() math.FMat {
	c.update()
	return c.view
}

func (c *Camera) Projection() math.FMat {
	c.update()
	return c.proj
}

// ViewProjection is Projection * View.
func (c *Camera) ViewProjection() math.FMat {
	c.update()
	return c.viewProj
}

func (c *Camera) update() {
	if !c.dirty {
		return
	}
	c.view = math.LookAt(c.position, c.target, c.up)
	c.proj = math.PerspectiveFOV(c.fov, c.aspectRatio, 1, c.near, c.far)
	c.viewProj = c.proj.Mul(c.view)
	c.dirty = false
}

// OrbitCamera circles a target at a distance, driven by yaw and pitch.
type OrbitCamera struct {
	Camera
	Distance float32
	Yaw      float32
	Pitch    float32
}

const (
	maxOrbitPitch    = 1.5
	minOrbitDistance = 0.1
)

func NewOrbitCamera(target math.FVec, distance, fov, aspectRatio float32) *OrbitCamera {
	c := &OrbitCamera{
		Camera:   *NewCamera(fov, aspectRatio, 0.1, 1000),
		Distance: distance,
		Pitch:    0.3,
	}
	c.target = target
	c.UpdatePosition()
	return c
}

// UpdatePosition places the camera on its orbit, clamping pitch and
// distance first.
func (c *OrbitCamera) UpdatePosition() {
	c.Pitch = max(-maxOrbitPitch, min(maxOrbitPitch, c.Pitch))
	c.Distance = max(minOrbitDistance, c.Distance)

	cosPitch := float32(stdmath.Cos(float64(c.Pitch)))
	sinPitch := float32(stdmath.Sin(float64(c.Pitch)))
	cosYaw := float32(stdmath.Cos(float64(c.Yaw)))
	sinYaw := float32(stdmath.Sin(float64(c.Yaw)))

	offset := math.Vec3(
		c.Distance*cosPitch*sinYaw,
		c.Distance*sinPitch,
		c.Distance*cosPitch*cosYaw,
	)
	c.SetPosition(c.target.Add(offset))
	c.LookAt(c.target, math.Vec3[float32](0, 1, 0))
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.UpdatePosition()
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	c.UpdatePosition()
}
