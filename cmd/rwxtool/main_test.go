package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/rwxforge/internal/config"
	"github.com/Faultbox/rwxforge/pkg/model"
)

const chairRWX = `modelbegin
protobegin leg
  cylinder 1 0.05 0.05 6
protoend
clumpbegin
  vertex 0 1 0 uv 0 1
  vertex 1 1 0 uv 1 1
  vertex 1 1 1 uv 1 0
  vertex 0 1 1 uv 0 0
  quad 4 3 2 1
  protoinstance leg
clumpend
modelend
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadModel(t *testing.T) {
	cfg := config.Default()
	path := writeFile(t, "chair.rwx", chairRWX)

	m, err := loadModel(path, cfg)
	require.NoError(t, err)
	require.NotNil(t, m.Clump)
	assert.Len(t, m.Prototypes, 1)

	// YAML round trip through convert's output format.
	yamlPath := filepath.Join(t.TempDir(), "chair.yaml")
	require.NoError(t, m.SaveFile(yamlPath))
	loaded, err := loadModel(yamlPath, cfg)
	require.NoError(t, err)
	assert.Equal(t, m.Stats(), loaded.Stats())
}

func TestValidate(t *testing.T) {
	cfg := config.Default()

	good := writeFile(t, "good.rwx", chairRWX)
	assert.NoError(t, validate(good, cfg))

	dangling := writeFile(t, "dangling.rwx", "clumpbegin\nprotoinstance missing\nclumpend\n")
	err := validate(dangling, cfg)
	assert.True(t, errors.Is(err, model.ErrUnknownPrototype))

	cfg.Build.StrictPrototypes = false
	assert.NoError(t, validate(dangling, cfg))

	broken := writeFile(t, "broken.rwx", "clumpend\n")
	assert.Error(t, validate(broken, cfg))
}

func TestPrintInfo(t *testing.T) {
	m, err := loadModel(writeFile(t, "chair.rwx", chairRWX), config.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	printInfo(&buf, "chair.rwx", m)
	out := buf.String()
	assert.Contains(t, out, "Model:      chair.rwx")
	assert.Contains(t, out, "Instances:  1")
	assert.Contains(t, out, "leg")
}

func TestLoadModelRejectsBadVertexIndex(t *testing.T) {
	path := writeFile(t, "broken.yaml", `materials:
  - opacity: 1
clump:
  vertices:
    - position: {x: 0, y: 0, z: 0}
  faces:
    - indices: [0, 1, 7]
      material: 0
      triangles: []
`)
	_, err := loadModel(path, config.Default())
	assert.True(t, errors.Is(err, model.ErrVertexRange), "got %v", err)
}
