// Package export converts finished models to glTF 2.0.
package export

import (
	"errors"
	"fmt"
	"io"
	gomath "math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/rwxforge/pkg/math"
	"github.com/Faultbox/rwxforge/pkg/model"
)

var (
	// ErrInvalidNormal is returned when a triangle vertex has a NaN normal.
	ErrInvalidNormal = errors.New("invalid normal")
	// ErrRecursivePrototype is returned when a prototype instances itself.
	ErrRecursivePrototype = errors.New("recursive prototype")
)

// Options controls glTF conversion.
type Options struct {
	// Binary selects GLB output in Write.
	Binary bool
	// IncludePrototypes also writes every prototype as an unattached node.
	IncludePrototypes bool
	// Logger receives debug output. Nil discards it.
	Logger *zap.Logger
}

type meshKey struct {
	surface  *model.Surface
	material int
}

type exporter struct {
	m        *model.Model
	doc      *gltf.Document
	opts     Options
	log      *zap.Logger
	meshes   map[meshKey]*int
	samplers map[model.TextureAddressMode]int
	images   map[string]int
	visiting map[string]bool
}

// ToGLTF converts m into a glTF document. Clumps, primitives and prototype
// instances become nodes carrying their local matrices; each surface becomes
// one mesh with a primitive per material.
func ToGLTF(m *model.Model, opts Options) (*gltf.Document, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	e := &exporter{
		m:        m,
		doc:      gltf.NewDocument(),
		opts:     opts,
		log:      log,
		meshes:   make(map[meshKey]*int),
		samplers: make(map[model.TextureAddressMode]int),
		images:   make(map[string]int),
		visiting: make(map[string]bool),
	}

	for i, mat := range m.Materials() {
		e.addMaterial(i, mat)
	}

	scene := e.doc.Scenes[0]
	scene.Extras = map[string]any{
		"axisAlignment": m.AxisAlignment.String(),
		"opacityFix":    m.OpacityFix,
		"randomUVs":     m.RandomUVs,
		"seamless":      m.Seamless,
	}
	if m.Clump != nil {
		root, err := e.clumpNode(m.Clump, "root", -1)
		if err != nil {
			return nil, err
		}
		scene.Nodes = append(scene.Nodes, root)
	}

	if opts.IncludePrototypes {
		for _, p := range m.Prototypes {
			if _, err := e.prototypeNode(p, math.Identity(), -1); err != nil {
				return nil, err
			}
		}
	}

	log.Debug("glTF document built",
		zap.Int("nodes", len(e.doc.Nodes)),
		zap.Int("meshes", len(e.doc.Meshes)),
		zap.Int("materials", len(e.doc.Materials)))
	return e.doc, nil
}

// Write encodes doc as GLB or as glTF JSON with an embedded buffer.
func Write(w io.Writer, doc *gltf.Document, binary bool) error {
	if !binary {
		for _, b := range doc.Buffers {
			if b.URI == "" && len(b.Data) > 0 {
				b.EmbeddedResource()
			}
		}
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode glTF: %w", err)
	}
	return nil
}

// WriteGLTF converts m and writes it to w.
func WriteGLTF(w io.Writer, m *model.Model, opts Options) error {
	doc, err := ToGLTF(m, opts)
	if err != nil {
		return err
	}
	return Write(w, doc, opts.Binary)
}

// WriteFile converts m and writes it to path, creating parent directories.
func WriteFile(path string, m *model.Model, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteGLTF(f, m, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (e *exporter) addNode(n *gltf.Node) int {
	e.doc.Nodes = append(e.doc.Nodes, n)
	return len(e.doc.Nodes) - 1
}

// clumpNode adds a clump subtree and returns its node index. A material
// override >= 0 replaces every material id below the clump.
func (e *exporter) clumpNode(c *model.Clump, name string, override int) (int, error) {
	node := &gltf.Node{Name: name, Matrix: c.Transform}
	extras := map[string]any{}
	if c.Tag != nil {
		extras["tag"] = *c.Tag
	}
	if c.Collidable != nil {
		extras["collidable"] = *c.Collidable
	}
	if len(extras) > 0 {
		node.Extras = extras
	}

	children, mesh, err := e.meshContent(&c.Mesh, name, override)
	if err != nil {
		return 0, err
	}
	node.Mesh = mesh
	node.Children = children
	return e.addNode(node), nil
}

// prototypeNode adds a node placing prototype p at transform.
func (e *exporter) prototypeNode(p *model.Prototype, transform math.Mat4, override int) (int, error) {
	if e.visiting[p.Name] {
		return 0, fmt.Errorf("%w: %q", ErrRecursivePrototype, p.Name)
	}
	e.visiting[p.Name] = true
	defer delete(e.visiting, p.Name)

	name := "proto:" + p.Name
	children, mesh, err := e.meshContent(&p.Mesh, name, override)
	if err != nil {
		return 0, err
	}
	return e.addNode(&gltf.Node{
		Name:     name,
		Matrix:   transform,
		Mesh:     mesh,
		Children: children,
	}), nil
}

// meshContent exports a clump or prototype body: its own surface as a mesh,
// plus child nodes for primitives, child clumps and prototype instances.
func (e *exporter) meshContent(body *model.Mesh, name string, override int) ([]int, *int, error) {
	mesh, err := e.mesh(&body.Surface, body.IsPrelit, name, override)
	if err != nil {
		return nil, nil, err
	}

	var children []int
	for i, p := range body.Primitives {
		primName := fmt.Sprintf("%s/%s.%d", name, p.Kind(), i)
		pm, err := e.mesh(p.Materialize(), false, primName, override)
		if err != nil {
			return nil, nil, err
		}
		children = append(children, e.addNode(&gltf.Node{Name: primName, Matrix: p.Transform, Mesh: pm}))
	}
	for i, child := range body.Children {
		idx, err := e.clumpNode(child, fmt.Sprintf("%s/%d", name, i), override)
		if err != nil {
			return nil, nil, err
		}
		children = append(children, idx)
	}
	for _, inst := range body.Instances {
		proto, ok := e.m.Prototype(inst.Name)
		if !ok {
			return nil, nil, fmt.Errorf("%s: %w: %q", name, model.ErrUnknownPrototype, inst.Name)
		}
		instOverride := override
		if inst.MaterialID != nil && override < 0 {
			instOverride = *inst.MaterialID
		}
		idx, err := e.prototypeNode(proto, inst.Transform, instOverride)
		if err != nil {
			return nil, nil, err
		}
		children = append(children, idx)
	}
	return children, mesh, nil
}

// mesh writes s as a glTF mesh and returns its index, or nil when s has no
// triangles. Meshes are shared between nodes exporting the same surface.
func (e *exporter) mesh(s *model.Surface, prelit bool, name string, override int) (*int, error) {
	if s.TriangleCount() == 0 {
		return nil, nil
	}
	key := meshKey{surface: s, material: override}
	if idx, ok := e.meshes[key]; ok {
		return idx, nil
	}

	groups, order := groupByMaterial(s, override)
	mesh := &gltf.Mesh{Name: name}
	for _, materialID := range order {
		prim, err := e.primitive(s, groups[materialID], prelit, name)
		if err != nil {
			return nil, err
		}
		if e.m.HasMaterial(materialID) {
			prim.Material = gltf.Index(materialID)
		}
		mesh.Primitives = append(mesh.Primitives, prim)
	}

	e.doc.Meshes = append(e.doc.Meshes, mesh)
	idx := gltf.Index(len(e.doc.Meshes) - 1)
	e.meshes[key] = idx
	return idx, nil
}

// groupByMaterial collects triangles per material id, keeping first-use order.
func groupByMaterial(s *model.Surface, override int) (map[int][][3]int, []int) {
	groups := make(map[int][][3]int)
	var order []int
	for _, f := range s.Faces {
		id := f.MaterialID
		if override >= 0 {
			id = override
		}
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		for _, tri := range f.Triangles {
			groups[id] = append(groups[id], tri.Indices)
		}
	}
	return groups, order
}

// primitive writes the vertices referenced by triangles as compact
// attribute arrays.
func (e *exporter) primitive(s *model.Surface, triangles [][3]int, prelit bool, name string) (*gltf.Primitive, error) {
	remap := make(map[int]uint32)
	var (
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
		colors    [][4]uint8
		indices   []uint32
		hasUV     bool
	)

	for _, tri := range triangles {
		for _, vi := range tri {
			if idx, ok := remap[vi]; ok {
				indices = append(indices, idx)
				continue
			}
			v := s.Vertices[vi]
			if v.Normal.IsNaN() {
				return nil, fmt.Errorf("%w: %s vertex %d", ErrInvalidNormal, name, vi)
			}
			idx := uint32(len(positions))
			remap[vi] = idx
			indices = append(indices, idx)

			positions = append(positions, vec3f(v.Position))
			normals = append(normals, vec3f(v.Normal))
			var uv [2]float32
			if v.UV != nil {
				hasUV = true
				uv = [2]float32{float32(v.UV.U), float32(v.UV.V)}
			}
			uvs = append(uvs, uv)
			colors = append(colors, color8(v.Prelight))
		}
	}

	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(e.doc, positions),
		gltf.NORMAL:   modeler.WriteNormal(e.doc, normals),
	}
	if hasUV {
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(e.doc, uvs)
	}
	if prelit {
		attrs[gltf.COLOR_0] = modeler.WriteColor(e.doc, colors)
	}

	prim := &gltf.Primitive{
		Indices: gltf.Index(modeler.WriteIndices(e.doc, indices)),
		Mode:    gltf.PrimitiveTriangles,
	}
	prim.Attributes = attrs
	return prim, nil
}

func (e *exporter) addMaterial(id int, mat model.Material) {
	alpha := clamp01(mat.Opacity)
	out := &gltf.Material{
		Name:        fmt.Sprintf("material.%d", id),
		DoubleSided: mat.IsDoubleSided(),
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{clamp01(mat.Color.R), clamp01(mat.Color.G), clamp01(mat.Color.B), alpha},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1 - clamp01(mat.Specular)),
		},
	}
	switch {
	case alpha < 1:
		out.AlphaMode = gltf.AlphaBlend
	case mat.Mask != "":
		out.AlphaMode = gltf.AlphaMask
	default:
		out.AlphaMode = gltf.AlphaOpaque
	}
	if mat.Texture != "" {
		out.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: e.texture(mat.Texture, mat.TextureAddressMode)}
	}
	e.doc.Materials = append(e.doc.Materials, out)
}

func (e *exporter) texture(name string, mode model.TextureAddressMode) int {
	image, ok := e.images[name]
	if !ok {
		e.doc.Images = append(e.doc.Images, &gltf.Image{Name: name, URI: name})
		image = len(e.doc.Images) - 1
		e.images[name] = image
	}
	sampler, ok := e.samplers[mode]
	if !ok {
		wrap := gltf.WrapRepeat
		switch mode {
		case model.TextureAddressMirror:
			wrap = gltf.WrapMirroredRepeat
		case model.TextureAddressClamp:
			wrap = gltf.WrapClampToEdge
		}
		e.doc.Samplers = append(e.doc.Samplers, &gltf.Sampler{WrapS: wrap, WrapT: wrap})
		sampler = len(e.doc.Samplers) - 1
		e.samplers[mode] = sampler
	}
	e.doc.Textures = append(e.doc.Textures, &gltf.Texture{Source: gltf.Index(image), Sampler: gltf.Index(sampler)})
	return len(e.doc.Textures) - 1
}

func vec3f(v math.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func color8(c model.Color) [4]uint8 {
	return [4]uint8{
		uint8(gomath.Round(clamp01(c.R) * 255)),
		uint8(gomath.Round(clamp01(c.G) * 255)),
		uint8(gomath.Round(clamp01(c.B) * 255)),
		255,
	}
}

func clamp01(v float64) float64 {
	return gomath.Max(0, gomath.Min(1, v))
}
