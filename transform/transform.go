// Package transform implements a translation/rotation/scale hierarchy. Every
// node owns its children; the parent link is a plain back-reference that is
// maintained by AddChild, RemoveChild and Destroy.
package transform

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNilChild      = errors.New("transform: child is nil")
	ErrCycle         = errors.New("transform: child is an ancestor of the parent")
	ErrChildNotFound = errors.New("transform: child does not exist")
)

// Transform is a node in the transform tree.
type Transform struct {
	parent   *Transform
	children []*Transform

	translation mgl64.Vec3
	rotation    mgl64.Quat
	scale       mgl64.Vec3
}

// New returns an identity transform with no parent and no children.
func New() *Transform {
	t := &Transform{}
	t.reset()
	return t
}

func (t *Transform) reset() {
	t.translation = mgl64.Vec3{}
	t.rotation = mgl64.QuatIdent()
	t.scale = mgl64.Vec3{1, 1, 1}
}

// Equal reports whether both transforms hold the same local translation,
// rotation and scale. Tree position is ignored.
func (t *Transform) Equal(other *Transform) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.translation == other.translation &&
		t.rotation == other.rotation &&
		t.scale == other.scale
}

// --- Tree ---

// Parent returns the parent transform, or nil for a root.
func (t *Transform) Parent() *Transform {
	return t.parent
}

// Children returns a copy of the child list in insertion order.
func (t *Transform) Children() []*Transform {
	out := make([]*Transform, len(t.children))
	copy(out, t.children)
	return out
}

// AddChild makes child a child of t. A child that already has a parent is
// detached from it first, so a node never appears in two child lists.
func (t *Transform) AddChild(child *Transform) error {
	if child == nil {
		return ErrNilChild
	}
	for p := t; p != nil; p = p.parent {
		if p == child {
			return ErrCycle
		}
	}
	if child.parent == t {
		return nil
	}
	if child.parent != nil {
		child.parent.detach(child)
	}
	child.parent = t
	t.children = append(t.children, child)
	return nil
}

// RemoveChild detaches child from t. It returns ErrChildNotFound and leaves
// both nodes untouched when child is not one of t's children.
func (t *Transform) RemoveChild(child *Transform) error {
	if child == nil || child.parent != t || !t.detach(child) {
		return ErrChildNotFound
	}
	child.parent = nil
	return nil
}

// detach removes child from the children slice without touching child.parent.
func (t *Transform) detach(child *Transform) bool {
	for i, c := range t.children {
		if c == child {
			copy(t.children[i:], t.children[i+1:])
			t.children[len(t.children)-1] = nil
			t.children = t.children[:len(t.children)-1]
			return true
		}
	}
	return false
}

// TreeSize returns the number of nodes in the subtree rooted at t.
func (t *Transform) TreeSize() int {
	size := 1
	for _, c := range t.children {
		size += c.TreeSize()
	}
	return size
}

// Destroy detaches t from its parent, resets it to identity and destroys
// every descendant the same way. Calling it again is a no-op.
func (t *Transform) Destroy() {
	if t.parent != nil {
		t.parent.detach(t)
		t.parent = nil
	}
	t.reset()

	children := t.children
	t.children = nil
	for _, c := range children {
		// already removed from our list; only clear the back-reference
		c.parent = nil
		c.Destroy()
	}
}

// --- Translation ---

// Translate adds v to the local translation.
func (t *Transform) Translate(v mgl64.Vec3) {
	t.translation = t.translation.Add(v)
}

// Translate2D adds v to the local translation with a zero z component.
func (t *Transform) Translate2D(v mgl64.Vec2) {
	t.Translate(v.Vec3(0))
}

// LocalTranslation returns the node's own translation.
func (t *Transform) LocalTranslation() mgl64.Vec3 {
	return t.translation
}

// AbsoluteTranslation returns the local translation plus every ancestor's.
func (t *Transform) AbsoluteTranslation() mgl64.Vec3 {
	if t.parent == nil {
		return t.translation
	}
	return t.translation.Add(t.parent.AbsoluteTranslation())
}

// --- Rotation ---

// Rotate applies a rotation of angle radians about axis. A zero axis is
// ignored.
func (t *Transform) Rotate(angle float64, axis mgl64.Vec3) {
	if axis.Len() == 0 {
		return
	}
	t.RotateQuat(mgl64.QuatRotate(angle, axis.Normalize()))
}

// RotateEuler applies a rotation given as pitch (x), yaw (y) and roll (z)
// radians. The composed rotation is roll * yaw * pitch.
func (t *Transform) RotateEuler(angles mgl64.Vec3) {
	t.RotateQuat(EulerToQuat(angles))
}

// RotateQuat left-multiplies q onto the local rotation.
func (t *Transform) RotateQuat(q mgl64.Quat) {
	t.rotation = q.Mul(t.rotation)
}

// LocalRotation returns the node's own rotation.
func (t *Transform) LocalRotation() mgl64.Quat {
	return t.rotation
}

// AbsoluteRotation returns the parent's absolute rotation composed with the
// local rotation.
func (t *Transform) AbsoluteRotation() mgl64.Quat {
	if t.parent == nil {
		return t.rotation
	}
	return t.parent.AbsoluteRotation().Mul(t.rotation)
}

func (t *Transform) LocalRotationAngle() float64      { return QuatAngle(t.rotation) }
func (t *Transform) LocalRotationAxis() mgl64.Vec3    { return QuatAxis(t.rotation) }
func (t *Transform) LocalEulerAngles() mgl64.Vec3     { return QuatToEuler(t.rotation) }
func (t *Transform) AbsoluteRotationAngle() float64   { return QuatAngle(t.AbsoluteRotation()) }
func (t *Transform) AbsoluteRotationAxis() mgl64.Vec3 { return QuatAxis(t.AbsoluteRotation()) }
func (t *Transform) AbsoluteEulerAngles() mgl64.Vec3  { return QuatToEuler(t.AbsoluteRotation()) }

// --- Scale ---

// Scale multiplies the local scale component-wise by s.
func (t *Transform) Scale(s mgl64.Vec3) {
	t.scale = mulElem(t.scale, s)
}

// Scale2D multiplies x and y by s, leaving z unchanged.
func (t *Transform) Scale2D(s mgl64.Vec2) {
	t.Scale(s.Vec3(1))
}

// ScaleUniform multiplies every axis by s.
func (t *Transform) ScaleUniform(s float64) {
	t.Scale(mgl64.Vec3{s, s, s})
}

// LocalScale returns the node's own scale.
func (t *Transform) LocalScale() mgl64.Vec3 {
	return t.scale
}

// AbsoluteScale returns the local scale multiplied by every ancestor's.
func (t *Transform) AbsoluteScale() mgl64.Vec3 {
	if t.parent == nil {
		return t.scale
	}
	return mulElem(t.scale, t.parent.AbsoluteScale())
}

// --- Matrices ---

// LocalMatrix returns translate * rotate * scale for this node.
func (t *Transform) LocalMatrix() mgl64.Mat4 {
	tr := mgl64.Translate3D(t.translation[0], t.translation[1], t.translation[2])
	sc := mgl64.Scale3D(t.scale[0], t.scale[1], t.scale[2])
	return tr.Mul4(t.rotation.Mat4()).Mul4(sc)
}

// AbsoluteMatrix returns the parent's absolute matrix times the local one.
//
// Absolute values are recomputed from the root on every call, which costs
// O(depth) per query but can never be stale.
func (t *Transform) AbsoluteMatrix() mgl64.Mat4 {
	if t.parent == nil {
		return t.LocalMatrix()
	}
	return t.parent.AbsoluteMatrix().Mul4(t.LocalMatrix())
}

// --- Quaternion helpers ---

// EulerToQuat converts pitch/yaw/roll radians to a quaternion.
func EulerToQuat(angles mgl64.Vec3) mgl64.Quat {
	qx := mgl64.QuatRotate(angles[0], mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(angles[1], mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(angles[2], mgl64.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx)
}

// QuatToEuler returns the pitch, yaw and roll of q in radians.
func QuatToEuler(q mgl64.Quat) mgl64.Vec3 {
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]
	pitch := math.Atan2(2*(y*z+w*x), w*w-x*x-y*y+z*z)
	yaw := math.Asin(clamp(-2*(x*z-w*y), -1, 1))
	roll := math.Atan2(2*(x*y+w*z), w*w+x*x-y*y-z*z)
	return mgl64.Vec3{pitch, yaw, roll}
}

// QuatAngle returns the rotation angle of a unit quaternion.
func QuatAngle(q mgl64.Quat) float64 {
	return 2 * math.Acos(clamp(q.W, -1, 1))
}

// QuatAxis returns the rotation axis of a unit quaternion, or +z when the
// rotation is the identity.
func QuatAxis(q mgl64.Quat) mgl64.Vec3 {
	tmp := 1 - q.W*q.W
	if tmp <= 0 {
		return mgl64.Vec3{0, 0, 1}
	}
	return q.V.Mul(1 / math.Sqrt(tmp))
}

func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
