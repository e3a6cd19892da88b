package math

// Transform holds a position, scale and Euler rotation (radians) together
// with the composite matrix Scale * Translate * RotateX * RotateY * RotateZ.
// The matrix is rebuilt on every setter call.
type Transform struct {
	position FVec
	scale    FVec
	rotation FVec
	matrix   FMat
}

func NewTransform() Transform {
	t := Transform{scale: Vec3[float32](1, 1, 1)}
	t.recalculate()
	return t
}

func (t *Transform) recalculate() {
	t.matrix = Scale(t.scale).
		Mul(Translate(t.position)).
		Mul(RotateX(t.rotation.X)).
		Mul(RotateY(t.rotation.Y)).
		Mul(RotateZ(t.rotation.Z))
}

func (t *Transform) SetPosition(v FVec) {
	t.position = v
	t.recalculate()
}

func (t *Transform) SetScale(v FVec) {
	t.scale = v
	t.recalculate()
}

func (t *Transform) SetRotation(v FVec) {
	t.rotation = v
	t.recalculate()
}

func (t *Transform) Position() FVec { return t.position }
func (t *Transform) Scale() FVec    { return t.scale }
func (t *Transform) Rotation() FVec { return t.rotation }
func (t *Transform) Matrix() FMat   { return t.matrix }
