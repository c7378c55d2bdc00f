package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestTreeSize(t *testing.T) {
	cases := []struct {
		name     string
		children int
	}{
		{"no_children", 0},
		{"one_child", 1},
		{"two_children", 2},
		{"hundred_and_one", 101},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			root := New()
			for i := 0; i < c.children; i++ {
				if err := root.AddChild(New()); err != nil {
					t.Fatalf("AddChild: %v", err)
				}
			}
			if got := root.TreeSize(); got != c.children+1 {
				t.Fatalf("expected tree size %d, got %d", c.children+1, got)
			}
		})
	}

	t.Run("nested", func(t *testing.T) {
		root := New()
		mid := New()
		_ = mid.AddChild(New())
		_ = mid.AddChild(New())
		_ = root.AddChild(mid)
		if got := root.TreeSize(); got != 4 {
			t.Fatalf("expected tree size 4, got %d", got)
		}
	})
}

func TestTransformsPropagateToChildren(t *testing.T) {
	const n = 100

	build := func() (*Transform, []*Transform) {
		root := New()
		children := make([]*Transform, 0, n)
		for i := 0; i < n; i++ {
			c := New()
			children = append(children, c)
			_ = root.AddChild(c)
		}
		return root, children
	}

	t.Run("translate", func(t *testing.T) {
		root, children := build()
		root.Translate(mgl64.Vec3{1, 0, 1})
		for _, c := range children {
			if got := c.AbsoluteTranslation(); got != (mgl64.Vec3{1, 0, 1}) {
				t.Fatalf("expected child translation (1,0,1), got %v", got)
			}
		}
	})

	t.Run("translate_adds_to_existing_descendant_offset", func(t *testing.T) {
		root := New()
		child := New()
		grandchild := New()
		_ = root.AddChild(child)
		_ = child.AddChild(grandchild)
		child.Translate(mgl64.Vec3{2, 3, 0})
		grandchild.Translate2D(mgl64.Vec2{-1, 1})

		before := grandchild.AbsoluteTranslation()
		root.Translate(mgl64.Vec3{5, -2, 1})
		after := grandchild.AbsoluteTranslation()

		if diff := after.Sub(before); !diff.ApproxEqual(mgl64.Vec3{5, -2, 1}) {
			t.Fatalf("expected descendant to move by (5,-2,1), moved by %v", diff)
		}
	})

	t.Run("rotate", func(t *testing.T) {
		root, children := build()
		axis := mgl64.Vec3{1, 1, 0}
		root.Rotate(44, axis)
		want := mgl64.QuatRotate(44, axis.Normalize())
		for _, c := range children {
			if got := c.AbsoluteRotation(); !got.ApproxEqual(want) {
				t.Fatalf("expected child rotation %v, got %v", want, got)
			}
		}
	})

	t.Run("scale", func(t *testing.T) {
		root, children := build()
		root.Scale(mgl64.Vec3{1, 3.4, 0.3})
		for _, c := range children {
			if got := c.AbsoluteScale(); !got.ApproxEqual(mgl64.Vec3{1, 3.4, 0.3}) {
				t.Fatalf("expected child scale (1,3.4,0.3), got %v", got)
			}
		}
	})

	t.Run("scale_composes_componentwise", func(t *testing.T) {
		root := New()
		child := New()
		_ = root.AddChild(child)
		root.ScaleUniform(2)
		child.Scale2D(mgl64.Vec2{3, 0.5})
		if got := child.AbsoluteScale(); !got.ApproxEqual(mgl64.Vec3{6, 1, 2}) {
			t.Fatalf("expected (6,1,2), got %v", got)
		}
	})
}

func TestChildDoesNotPropagateToParent(t *testing.T) {
	ops := []struct {
		name  string
		apply func(*Transform)
	}{
		{"translate", func(c *Transform) { c.Translate(mgl64.Vec3{10, 0, -0.5}) }},
		{"rotate", func(c *Transform) { c.Rotate(1.2, mgl64.Vec3{0, 0, 1}) }},
		{"scale", func(c *Transform) { c.Scale(mgl64.Vec3{4, 4, 4}) }},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			root := New()
			root.Translate(mgl64.Vec3{1, 2, 3})
			child := New()
			_ = root.AddChild(child)

			before := root.AbsoluteMatrix()
			op.apply(child)
			if after := root.AbsoluteMatrix(); after != before {
				t.Fatalf("parent matrix changed: before %v after %v", before, after)
			}
		})
	}
}

func TestAbsoluteMatrixComposesParentThenLocal(t *testing.T) {
	root := New()
	root.Translate(mgl64.Vec3{10, 0, 0})
	root.Rotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	child := New()
	child.Translate(mgl64.Vec3{1, 0, 0})
	_ = root.AddChild(child)

	want := root.LocalMatrix().Mul4(child.LocalMatrix())
	if got := child.AbsoluteMatrix(); !got.ApproxEqual(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// the child's origin lands 1 unit along the parent's rotated x axis
	origin := child.AbsoluteMatrix().Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	if !origin.Vec3().ApproxEqualThreshold(mgl64.Vec3{10, 1, 0}, 1e-9) {
		t.Fatalf("expected child origin at (10,1,0), got %v", origin)
	}
}

func TestLocalMatrixOrder(t *testing.T) {
	tr := New()
	tr.Translate(mgl64.Vec3{1, 2, 3})
	tr.Rotate(0.5, mgl64.Vec3{0, 1, 0})
	tr.Scale(mgl64.Vec3{2, 3, 4})

	want := mgl64.Translate3D(1, 2, 3).
		Mul4(mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0}).Mat4()).
		Mul4(mgl64.Scale3D(2, 3, 4))
	if got := tr.LocalMatrix(); !got.ApproxEqual(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRotateLeftMultiplies(t *testing.T) {
	a := mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0})
	b := mgl64.QuatRotate(0.7, mgl64.Vec3{0, 1, 0})

	tr := New()
	tr.RotateQuat(a)
	tr.RotateQuat(b)
	if got, want := tr.LocalRotation(), b.Mul(a); !got.ApproxEqual(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	t.Run("euler_roundtrip", func(t *testing.T) {
		angles := mgl64.Vec3{0.1, 0.2, 0.3}
		e := New()
		e.RotateEuler(angles)
		if got := e.LocalEulerAngles(); !got.ApproxEqualThreshold(angles, 1e-9) {
			t.Fatalf("expected %v, got %v", angles, got)
		}
	})

	t.Run("angle_axis", func(t *testing.T) {
		r := New()
		r.Rotate(1.1, mgl64.Vec3{0, 0, 2})
		if got := r.LocalRotationAngle(); math.Abs(got-1.1) > 1e-9 {
			t.Fatalf("expected angle 1.1, got %v", got)
		}
		if got := r.LocalRotationAxis(); !got.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-9) {
			t.Fatalf("expected axis +z, got %v", got)
		}
	})

	t.Run("zero_axis_ignored", func(t *testing.T) {
		r := New()
		r.Rotate(1, mgl64.Vec3{})
		if !r.Equal(New()) {
			t.Fatalf("rotation about zero axis should be a no-op")
		}
	})
}

func TestDestroy(t *testing.T) {
	t.Run("fresh", func(t *testing.T) {
		tr := New()
		tr.Destroy()
		if !tr.Equal(New()) {
			t.Fatalf("destroyed transform should equal a new one")
		}
	})

	t.Run("transformed", func(t *testing.T) {
		tr := New()
		tr.Translate(mgl64.Vec3{1, 0, 3})
		tr.Rotate(90, mgl64.Vec3{0, 0, 1})
		tr.Scale(mgl64.Vec3{1, 0.4, 10.3})
		tr.Destroy()
		if !tr.Equal(New()) {
			t.Fatalf("destroyed transform should equal a new one")
		}
	})

	t.Run("cascades_to_descendants", func(t *testing.T) {
		root := New()
		child := New()
		grandchild := New()
		_ = root.AddChild(child)
		_ = child.AddChild(grandchild)
		child.Translate(mgl64.Vec3{1, 1, 1})
		grandchild.ScaleUniform(3)

		root.Destroy()
		for i, n := range []*Transform{root, child, grandchild} {
			if !n.Equal(New()) || n.Parent() != nil || len(n.Children()) != 0 {
				t.Fatalf("node %d not reset after cascading destroy", i)
			}
		}
	})

	t.Run("child_leaves_siblings_intact", func(t *testing.T) {
		root := New()
		a, b, c := New(), New(), New()
		_ = root.AddChild(a)
		_ = root.AddChild(b)
		_ = root.AddChild(c)

		b.Destroy()
		children := root.Children()
		if len(children) != 2 || children[0] != a || children[1] != c {
			t.Fatalf("expected [a c], got %v", children)
		}
		for _, ch := range children {
			if ch == nil {
				t.Fatalf("nil entry left in children")
			}
		}
		if b.Parent() != nil {
			t.Fatalf("destroyed child should have no parent")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		root := New()
		child := New()
		_ = root.AddChild(child)
		child.Destroy()
		child.Destroy()
		if root.TreeSize() != 1 || !child.Equal(New()) {
			t.Fatalf("second destroy should be a no-op")
		}
	})
}

func TestEqualIgnoresTreePosition(t *testing.T) {
	apply := func(tr *Transform) {
		tr.Translate(mgl64.Vec3{1, 2, 3})
		tr.Rotate(0.25, mgl64.Vec3{0, 1, 0})
		tr.Scale(mgl64.Vec3{2, 2, 1})
	}

	parent := New()
	a := New()
	_ = parent.AddChild(a)
	_ = a.AddChild(New())
	apply(a)

	b := New()
	apply(b)

	if !a.Equal(b) {
		t.Fatalf("transforms with identical local state should be equal")
	}

	b.Translate2D(mgl64.Vec2{0, 1})
	if a.Equal(b) {
		t.Fatalf("transforms with different local state should differ")
	}
}

func TestAddChildReparents(t *testing.T) {
	oldParent := New()
	newParent := New()
	child := New()
	_ = oldParent.AddChild(child)

	if err := newParent.AddChild(child); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if child.Parent() != newParent {
		t.Fatalf("child parent not updated")
	}
	if oldParent.TreeSize() != 1 {
		t.Fatalf("child should be detached from old parent")
	}
	if newParent.TreeSize() != 2 {
		t.Fatalf("child should appear once under new parent")
	}

	t.Run("same_parent_twice", func(t *testing.T) {
		if err := newParent.AddChild(child); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
		if newParent.TreeSize() != 2 {
			t.Fatalf("re-adding to the same parent should not duplicate")
		}
	})
}

func TestAddChildErrors(t *testing.T) {
	root := New()
	child := New()
	grandchild := New()
	_ = root.AddChild(child)
	_ = child.AddChild(grandchild)

	cases := []struct {
		name   string
		parent *Transform
		child  *Transform
		want   error
	}{
		{"nil", root, nil, ErrNilChild},
		{"self", root, root, ErrCycle},
		{"ancestor", grandchild, root, ErrCycle},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.parent.AddChild(c.child); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
	if root.TreeSize() != 3 {
		t.Fatalf("failed AddChild calls must not mutate the tree")
	}
}

func TestRemoveChild(t *testing.T) {
	root := New()
	root.Translate(mgl64.Vec3{3, 0, 0})
	child := New()
	_ = root.AddChild(child)

	if err := root.RemoveChild(child); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if child.Parent() != nil || root.TreeSize() != 1 {
		t.Fatalf("child not removed")
	}
	if got := child.AbsoluteTranslation(); got != (mgl64.Vec3{}) {
		t.Fatalf("removed child should no longer inherit translation, got %v", got)
	}

	t.Run("not_a_member", func(t *testing.T) {
		other := New()
		stranger := New()
		_ = other.AddChild(stranger)
		if err := root.RemoveChild(stranger); !errors.Is(err, ErrChildNotFound) {
			t.Fatalf("expected ErrChildNotFound, got %v", err)
		}
		if stranger.Parent() != other {
			t.Fatalf("failed RemoveChild must not clear the real parent")
		}
	})
}
