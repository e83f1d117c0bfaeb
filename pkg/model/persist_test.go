package model

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/rwxforge/pkg/math"
)

func sampleModel() *Model {
	m := New()
	red := m.AddMaterial(DefaultMaterial().With(WithColor(Color{R: 1}), WithTexture("brick", "brickm", "")))
	glass := m.AddMaterial(DefaultMaterial().With(WithOpacity(0.4), AddMaterialMode(MaterialModeDouble)))

	tag := 3
	quad := flatQuad()
	quad.Faces[0].MaterialID = red
	quad.Faces[0].Tag = &tag
	quad.Vertices[0].UV = &UV{U: 0.5, V: 1}
	quad.ComputeNormals()

	collidable := false
	root := NewClump(math.Translation(1, 2, 3))
	root.Surface = quad
	root.Collidable = &collidable
	root.Primitives = []*Primitive{
		NewPrimitive(Cylinder{Height: 2, BottomRadius: 1, TopRadius: 0.5, Sides: 6}, glass, math.Scaling(2, 2, 2)),
	}
	root.Instances = []PrototypeInstance{{Name: "window", Transform: math.Identity(), MaterialID: &glass}}
	root.Children = []*Clump{NewClump(math.Identity())}
	m.Clump = root

	proto := &Prototype{Name: "window"}
	proto.Primitives = []*Primitive{NewPrimitive(Block{Width: 1, Height: 2, Depth: 0.1}, glass, math.Identity())}
	m.Prototypes = []*Prototype{proto}

	m.AxisAlignment = AxisAlignmentZOrientY
	m.Seamless = true
	return m
}

func TestSaveLoadPreservesModel(t *testing.T) {
	orig := sampleModel()

	var buf bytes.Buffer
	require.NoError(t, orig.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, orig.Materials(), loaded.Materials())
	assert.Equal(t, AxisAlignmentZOrientY, loaded.AxisAlignment)
	assert.True(t, loaded.Seamless)
	assert.False(t, loaded.OpacityFix)

	require.NotNil(t, loaded.Clump)
	assert.Equal(t, orig.Clump.Transform, loaded.Clump.Transform)
	assert.Equal(t, orig.Clump.Vertices, loaded.Clump.Vertices)
	assert.Equal(t, orig.Clump.Faces, loaded.Clump.Faces)
	assert.Equal(t, orig.Clump.Instances, loaded.Clump.Instances)
	require.NotNil(t, loaded.Clump.Collidable)
	assert.False(t, *loaded.Clump.Collidable)
	assert.Len(t, loaded.Clump.Children, 1)
	assert.True(t, loaded.Clump.Children[0].Transform.IsIdentity())

	require.Len(t, loaded.Clump.Primitives, 1)
	prim := loaded.Clump.Primitives[0]
	assert.Equal(t, orig.Clump.Primitives[0].Shape, prim.Shape)
	assert.Equal(t, 1, prim.MaterialID())
	assert.False(t, prim.IsMaterialized())
	assert.Equal(t, 12, prim.Materialize().TriangleCount())

	p, ok := loaded.Prototype("window")
	require.True(t, ok)
	assert.Equal(t, KindBlock, p.Primitives[0].Kind())

	// Deduplication keeps working on a loaded table.
	assert.Equal(t, 1, loaded.AddMaterial(DefaultMaterial().With(WithOpacity(0.4), AddMaterialMode(MaterialModeDouble))))
}

func TestSaveFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "model.yaml")
	require.NoError(t, sampleModel().SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.MaterialCount())
}

func TestLoadRejectsBadMaterialID(t *testing.T) {
	doc := `
materials:
  - opacity: 1
clump:
  transform: [1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1]
  faces:
    - indices: [0, 1, 2]
      material: 3
      triangles: []
`
	_, err := Load(strings.NewReader(doc))
	assert.True(t, errors.Is(err, ErrMaterialRange), "got %v", err)
}

func TestLoadRejectsBadVertexIndex(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "face index",
			doc: `
materials:
  - opacity: 1
clump:
  vertices:
    - position: {x: 0, y: 0, z: 0}
  faces:
    - indices: [0, 1, 7]
      material: 0
      triangles: []
`,
		},
		{
			name: "triangle index",
			doc: `
materials:
  - opacity: 1
prototypes:
  - name: p
    vertices:
      - position: {x: 0, y: 0, z: 0}
      - position: {x: 1, y: 0, z: 0}
      - position: {x: 0, y: 1, z: 0}
    faces:
      - indices: [0, 1, 2]
        material: 0
        triangles:
          - indices: [0, 1, -1]
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			assert.True(t, errors.Is(err, ErrVertexRange), "got %v", err)
		})
	}
}

func TestLoadRejectsUnknownPrimitive(t *testing.T) {
	doc := `
materials:
  - opacity: 1
clump:
  primitives:
    - kind: torus
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "torus")
}

func TestLoadFixesTransforms(t *testing.T) {
	doc := `
materials: []
clump:
  transform: [2, 0, 0, 5, 0, 2, 0, 5, 0, 0, 2, 5, 0, 0, 0, 5]
`
	m, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.Clump.Transform.At(3, 3))
	assert.Equal(t, 0.0, m.Clump.Transform.At(3, 0))
	assert.Equal(t, 2.0, m.Clump.Transform.At(0, 0))
}

func TestLoadEmpty(t *testing.T) {
	m, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, m.Clump)
	assert.Equal(t, 0, m.MaterialCount())
}
