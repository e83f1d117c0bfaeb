package builder

import (
	"go.uber.org/zap"

	"github.com/Faultbox/rwxforge/pkg/math"
	"github.com/Faultbox/rwxforge/pkg/model"
)

// BeginClump opens a clump placed at the active transform. The active
// transform is then reset to identity for the clump's contents.
func (b *Builder) BeginClump() error {
	if err := b.ready(); err != nil {
		return err
	}
	if b.model.Clump != nil && len(b.clumps) == 0 {
		return b.fail("model already has a root clump")
	}

	clump := model.NewClump(b.transform)
	b.pushAll()
	b.transform = math.Identity()
	b.prelight = model.Color{}
	b.clumps = append(b.clumps, clumpFrame{
		clump:      clump,
		transforms: len(b.transforms),
		materials:  len(b.materials),
	})
	b.target = &clump.Mesh
	return nil
}

// EndClump closes the innermost clump, computes its normals and attaches it
// to its parent clump, the open prototype, or the model as root clump.
func (b *Builder) EndClump() error {
	if err := b.ready(); err != nil {
		return err
	}
	n := len(b.clumps)
	if n == 0 || (b.proto != nil && n <= b.proto.clumps) {
		return b.fail("clumpend without clumpbegin")
	}
	frame := b.clumps[n-1]
	if len(b.transforms) != frame.transforms || len(b.materials) != frame.materials {
		return b.fail("clumpend with unbalanced transform or material stack")
	}

	clump := frame.clump
	clump.ComputeNormals()
	b.clumps = b.clumps[:n-1]

	switch {
	case len(b.clumps) > 0 && (b.proto == nil || len(b.clumps) > b.proto.clumps):
		parent := b.clumps[len(b.clumps)-1].clump
		parent.Children = append(parent.Children, clump)
		b.target = &parent.Mesh
	case b.proto != nil:
		b.proto.proto.Children = append(b.proto.proto.Children, clump)
		b.target = &b.proto.proto.Mesh
	default:
		b.model.Clump = clump
		b.target = nil
	}
	b.popAll()

	b.log.Debug("clump finished",
		zap.Int("depth", len(b.clumps)),
		zap.Int("vertices", len(clump.Vertices)),
		zap.Int("faces", len(clump.Faces)),
		zap.Int("children", len(clump.Children)),
		zap.Int("primitives", len(clump.Primitives)))
	return nil
}

// BeginPrototype opens a named prototype. Prototypes do not nest and names
// are unique within a model.
func (b *Builder) BeginPrototype(name string) error {
	if err := b.ready(); err != nil {
		return err
	}
	if b.proto != nil {
		return b.fail("prototype %q cannot be nested inside %q", name, b.proto.proto.Name)
	}
	if _, exists := b.model.Prototype(name); exists {
		return contractError("prototype %q already defined", name)
	}

	proto := &model.Prototype{Name: name}
	b.pushAll()
	b.prelight = model.Color{}
	b.proto = &protoFrame{
		proto:      proto,
		clumps:     len(b.clumps),
		transforms: len(b.transforms),
		materials:  len(b.materials),
	}
	b.target = &proto.Mesh
	return nil
}

// EndPrototype closes the open prototype, computes its normals and adds it
// to the model.
func (b *Builder) EndPrototype() error {
	if err := b.ready(); err != nil {
		return err
	}
	if b.proto == nil {
		return b.fail("protoend without protobegin")
	}
	if len(b.clumps) > b.proto.clumps {
		return b.fail("protoend with %d clump(s) still open", len(b.clumps)-b.proto.clumps)
	}
	if len(b.transforms) != b.proto.transforms || len(b.materials) != b.proto.materials {
		return b.fail("protoend with unbalanced transform or material stack")
	}

	proto := b.proto.proto
	proto.ComputeNormals()
	b.model.Prototypes = append(b.model.Prototypes, proto)
	b.proto = nil
	b.target = nil
	if n := len(b.clumps); n > 0 {
		b.target = &b.clumps[n-1].clump.Mesh
	}
	b.popAll()

	b.log.Debug("prototype finished",
		zap.String("name", proto.Name),
		zap.Int("vertices", len(proto.Vertices)),
		zap.Int("faces", len(proto.Faces)),
		zap.Int("instances", len(proto.Instances)))
	return nil
}

// AddProtoInstance places the named prototype at the active transform.
// The name is resolved later, so forward references are allowed.
func (b *Builder) AddProtoInstance(name string) error {
	if err := b.requireTarget("protoinstance"); err != nil {
		return err
	}
	b.target.Instances = append(b.target.Instances, model.PrototypeInstance{
		Name:      name,
		Transform: b.transform,
	})
	return nil
}

// AddProtoInstanceGeometry places the named prototype at the active
// transform and overrides its material with the active material.
func (b *Builder) AddProtoInstanceGeometry(name string) error {
	if err := b.requireTarget("protoinstancegeometry"); err != nil {
		return err
	}
	id := b.model.AddMaterial(b.material)
	b.target.Instances = append(b.target.Instances, model.PrototypeInstance{
		Name:       name,
		Transform:  b.transform,
		MaterialID: &id,
	})
	return nil
}

// SetClumpTag sets the tag of the innermost open clump.
func (b *Builder) SetClumpTag(tag int) error {
	c, err := b.currentClump("tag")
	if err != nil {
		return err
	}
	c.Tag = &tag
	return nil
}

// SetCollision sets whether the innermost open clump is collidable.
func (b *Builder) SetCollision(enabled bool) error {
	c, err := b.currentClump("collision")
	if err != nil {
		return err
	}
	c.Collidable = &enabled
	return nil
}

func (b *Builder) currentClump(directive string) (*model.Clump, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	n := len(b.clumps)
	if n == 0 || (b.proto != nil && n <= b.proto.clumps) {
		return nil, b.fail("%s is only valid inside a clump", directive)
	}
	return b.clumps[n-1].clump, nil
}
