package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/rwxforge/pkg/math"
)

func TestAddMaterialDeduplicates(t *testing.T) {
	m := New()
	a := DefaultMaterial().With(WithColor(Color{R: 0.5}))
	b := DefaultMaterial().With(WithColor(Color{R: 0.5}))

	id1 := m.AddMaterial(a)
	id2 := m.AddMaterial(b)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, m.MaterialCount())
}

func TestAddMaterialDistinctFields(t *testing.T) {
	base := DefaultMaterial()
	variants := []Material{
		base,
		base.With(WithColor(Color{B: 1})),
		base.With(WithOpacity(0.3)),
		base.With(WithAmbient(0.2)),
		base.With(WithDiffuse(0.7)),
		base.With(WithSpecular(0.1)),
		base.With(WithTexture("t", "", "")),
		base.With(WithTexture("", "m", "")),
		base.With(WithTexture("", "", "b")),
		base.With(AddTextureMode(TextureModeFilter)),
		base.With(WithTextureAddressMode(TextureAddressMirror)),
		base.With(WithTextureMipmap(true)),
		base.With(WithLightSampling(LightVertex)),
		base.With(WithGeometrySampling(GeometryPointcloud)),
		base.With(WithMaterialMode(MaterialModeDouble)),
	}

	m := New()
	seen := map[int]bool{}
	for _, v := range variants {
		seen[m.AddMaterial(v)] = true
	}
	assert.Len(t, seen, len(variants))
}

func TestGetMaterial(t *testing.T) {
	m := New()
	id := m.AddMaterial(DefaultMaterial())

	got, err := m.GetMaterial(id)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaterial(), got)

	_, err = m.GetMaterial(1)
	assert.True(t, errors.Is(err, ErrMaterialRange))
	_, err = m.GetMaterial(-1)
	assert.True(t, errors.Is(err, ErrMaterialRange))

	_, ok := m.TryGetMaterial(5)
	assert.False(t, ok)
	_, ok = m.TryGetMaterial(0)
	assert.True(t, ok)
}

func TestMaterialsReturnsCopy(t *testing.T) {
	m := New()
	m.AddMaterial(DefaultMaterial())
	mats := m.Materials()
	mats[0].Opacity = 0

	got, _ := m.GetMaterial(0)
	assert.Equal(t, 1.0, got.Opacity)
}

func TestResolveInstances(t *testing.T) {
	m := New()
	m.Prototypes = []*Prototype{{Name: "chair"}}
	root := NewClump(math.Identity())
	root.Instances = []PrototypeInstance{{Name: "chair", Transform: math.Identity()}}
	child := NewClump(math.Identity())
	child.Instances = []PrototypeInstance{{Name: "table"}, {Name: "lamp"}}
	root.Children = []*Clump{child}
	m.Clump = root

	err := m.ResolveInstances()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPrototype))
	assert.Contains(t, err.Error(), "table")
	assert.Contains(t, err.Error(), "lamp")

	m.Prototypes = append(m.Prototypes, &Prototype{Name: "table"}, &Prototype{Name: "lamp"})
	assert.NoError(t, m.ResolveInstances())
}

func TestWalkAccumulatesTransforms(t *testing.T) {
	root := NewClump(math.Translation(1, 0, 0))
	child := NewClump(math.Translation(0, 2, 0))
	child.Primitives = []*Primitive{NewPrimitive(Block{1, 1, 1}, 0, math.Translation(0, 0, 3))}
	root.Children = []*Clump{child}

	m := New()
	m.Clump = root

	var kinds []Kind
	var last math.Mat4
	m.Walk(func(n Node, world math.Mat4) bool {
		kinds = append(kinds, n.Kind())
		last = world
		return true
	})

	assert.Equal(t, []Kind{KindClump, KindClump, KindBlock}, kinds)
	p := last.TransformPoint(math.Vec3{})
	assert.InDelta(t, 1, p.X, 1e-12)
	assert.InDelta(t, 2, p.Y, 1e-12)
	assert.InDelta(t, 3, p.Z, 1e-12)
}

func TestStats(t *testing.T) {
	m := New()
	m.AddMaterial(DefaultMaterial())
	root := NewClump(math.Identity())
	root.Primitives = []*Primitive{NewPrimitive(Block{1, 1, 1}, 0, math.Identity())}
	root.Instances = []PrototypeInstance{{Name: "p"}}
	m.Clump = root
	m.Prototypes = []*Prototype{{Name: "p"}}

	st := m.Stats()
	assert.Equal(t, 1, st.Materials)
	assert.Equal(t, 1, st.Clumps)
	assert.Equal(t, 1, st.Prototypes)
	assert.Equal(t, 1, st.Primitives)
	assert.Equal(t, 1, st.Instances)
	assert.Equal(t, 8, st.Vertices)
	assert.Equal(t, 6, st.Faces)
	assert.Equal(t, 12, st.Triangles)
}
