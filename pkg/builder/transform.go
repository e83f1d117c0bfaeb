package builder

import (
	"github.com/Faultbox/rwxforge/pkg/math"
)

// BeginTransform saves the active transform.
func (b *Builder) BeginTransform() error {
	if err := b.ready(); err != nil {
		return err
	}
	b.transforms = append(b.transforms, b.transform)
	return nil
}

// EndTransform restores the transform saved by the matching BeginTransform.
func (b *Builder) EndTransform() error {
	if err := b.ready(); err != nil {
		return err
	}
	floor, _ := b.frameDepths()
	if len(b.transforms) <= floor {
		return b.fail("transformend without transformbegin")
	}
	n := len(b.transforms) - 1
	b.transform = b.transforms[n]
	b.transforms = b.transforms[:n]
	return nil
}

// SetIdentityTransform resets the active transform.
func (b *Builder) SetIdentityTransform() error {
	return b.setTransform(math.Identity())
}

// SetTransformMatrix replaces the active transform. The homogeneous row is
// forced to 0, 0, 0, 1.
func (b *Builder) SetTransformMatrix(m math.Mat4) error {
	return b.setTransform(m.Affine())
}

// AddTranslate composes a translation onto the active transform.
func (b *Builder) AddTranslate(x, y, z float64) error {
	return b.setTransform(b.transform.Translate(x, y, z))
}

// AddRotate composes a rotation of degrees about the axis (x, y, z).
func (b *Builder) AddRotate(x, y, z, degrees float64) error {
	return b.setTransform(b.transform.Rotate(math.Vec3{X: x, Y: y, Z: z}, degrees))
}

// AddScale composes a scale onto the active transform.
func (b *Builder) AddScale(x, y, z float64) error {
	return b.setTransform(b.transform.Scale(x, y, z))
}

func (b *Builder) setTransform(m math.Mat4) error {
	if err := b.ready(); err != nil {
		return err
	}
	b.transform = m
	return nil
}
