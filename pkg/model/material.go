// Package model defines the renderer-agnostic scene description produced by
// the builder: materials, clumps, prototypes, primitive shapes and the
// derived face, triangle and normal data.
package model

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	gomath "math"
	"strings"
)

// Color is an RGB color with components in [0, 1].
type Color struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
}

// UV is a texture coordinate.
type UV struct {
	U float64 `yaml:"u"`
	V float64 `yaml:"v"`
}

// TextureMode is a set of texture rendering flags.
type TextureMode int

// Texture mode flags.
const (
	TextureModeNull        TextureMode = 0x00
	TextureModeLit         TextureMode = 0x01
	TextureModeForeshorten TextureMode = 0x02
	TextureModeFilter      TextureMode = 0x04
)

var textureModeNames = []struct {
	mode TextureMode
	name string
}{
	{TextureModeLit, "lit"},
	{TextureModeForeshorten, "foreshorten"},
	{TextureModeFilter, "filter"},
}

// String returns the flags joined with '|', or "null".
func (m TextureMode) String() string {
	var parts []string
	for _, n := range textureModeNames {
		if m&n.mode != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "null"
	}
	return strings.Join(parts, "|")
}

// ParseTextureMode parses a single flag name.
func ParseTextureMode(s string) (TextureMode, error) {
	s = strings.ToLower(s)
	if s == "null" || s == "none" {
		return TextureModeNull, nil
	}
	for _, n := range textureModeNames {
		if n.name == s {
			return n.mode, nil
		}
	}
	return 0, fmt.Errorf("unknown texture mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m TextureMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TextureMode) UnmarshalText(text []byte) error {
	var mode TextureMode
	for _, part := range strings.Split(string(text), "|") {
		flag, err := ParseTextureMode(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		mode |= flag
	}
	*m = mode
	return nil
}

// TextureAddressMode controls how texture coordinates outside [0, 1] wrap.
type TextureAddressMode int

// Texture address modes.
const (
	TextureAddressWrap TextureAddressMode = iota
	TextureAddressMirror
	TextureAddressClamp
)

var textureAddressNames = []string{"wrap", "mirror", "clamp"}

func (m TextureAddressMode) String() string { return enumName(textureAddressNames, int(m)) }

// MarshalText implements encoding.TextMarshaler.
func (m TextureAddressMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TextureAddressMode) UnmarshalText(text []byte) error {
	v, err := parseEnum("texture address mode", textureAddressNames, string(text))
	*m = TextureAddressMode(v)
	return err
}

// GeometrySampling selects how faces are rasterized.
type GeometrySampling int

// Geometry sampling modes.
const (
	GeometrySolid GeometrySampling = iota
	GeometryWireframe
	GeometryPointcloud
)

var geometrySamplingNames = []string{"solid", "wireframe", "pointcloud"}

func (s GeometrySampling) String() string { return enumName(geometrySamplingNames, int(s)) }

// MarshalText implements encoding.TextMarshaler.
func (s GeometrySampling) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *GeometrySampling) UnmarshalText(text []byte) error {
	v, err := parseEnum("geometry sampling", geometrySamplingNames, string(text))
	*s = GeometrySampling(v)
	return err
}

// LightSampling selects per-facet or per-vertex lighting.
type LightSampling int

// Light sampling modes.
const (
	LightFacet LightSampling = iota
	LightVertex
)

var lightSamplingNames = []string{"facet", "vertex"}

func (s LightSampling) String() string { return enumName(lightSamplingNames, int(s)) }

// MarshalText implements encoding.TextMarshaler.
func (s LightSampling) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *LightSampling) UnmarshalText(text []byte) error {
	v, err := parseEnum("light sampling", lightSamplingNames, string(text))
	*s = LightSampling(v)
	return err
}

// MaterialMode controls face sidedness.
type MaterialMode int

// Material modes.
const (
	MaterialModeNull   MaterialMode = 0
	MaterialModeDouble MaterialMode = 1
)

var materialModeNames = []string{"null", "double"}

func (m MaterialMode) String() string { return enumName(materialModeNames, int(m)) }

// MarshalText implements encoding.TextMarshaler.
func (m MaterialMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MaterialMode) UnmarshalText(text []byte) error {
	if strings.EqualFold(string(text), "none") {
		*m = MaterialModeNull
		return nil
	}
	v, err := parseEnum("material mode", materialModeNames, string(text))
	*m = MaterialMode(v)
	return err
}

// Material is an immutable surface description. Values are compared
// field by field; use With to derive a changed copy.
type Material struct {
	Color              Color              `yaml:"color"`
	Opacity            float64            `yaml:"opacity"`
	Ambient            float64            `yaml:"ambient"`
	Diffuse            float64            `yaml:"diffuse"`
	Specular           float64            `yaml:"specular"`
	Texture            string             `yaml:"texture,omitempty"`
	Mask               string             `yaml:"mask,omitempty"`
	Bump               string             `yaml:"bump,omitempty"`
	TextureMode        TextureMode        `yaml:"texture_mode"`
	TextureAddressMode TextureAddressMode `yaml:"texture_address_mode"`
	TextureMipmap      bool               `yaml:"texture_mipmap"`
	LightSampling      LightSampling      `yaml:"light_sampling"`
	GeometrySampling   GeometrySampling   `yaml:"geometry_sampling"`
	MaterialMode       MaterialMode       `yaml:"material_mode"`
}

// DefaultMaterial returns the material active before any material directive:
// black, opaque and lit.
func DefaultMaterial() Material {
	return Material{
		Opacity:     1,
		TextureMode: TextureModeLit,
	}
}

// MaterialPatch changes one aspect of a material copy.
type MaterialPatch func(*Material)

// With returns a copy of m with every patch applied in order.
func (m Material) With(patches ...MaterialPatch) Material {
	for _, p := range patches {
		p(&m)
	}
	return m
}

// Equal reports whether every field of m and other matches.
func (m Material) Equal(other Material) bool {
	return m == other
}

// Hash is a cheap, weak hash over ambient, diffuse and texture name.
// Materials with equal hashes still need Equal.
func (m Material) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], gomath.Float64bits(m.Ambient))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], gomath.Float64bits(m.Diffuse))
	h.Write(buf[:])
	h.Write([]byte(m.Texture))
	return h.Sum64()
}

// IsDoubleSided reports whether faces using m render both windings.
func (m Material) IsDoubleSided() bool {
	return m.MaterialMode&MaterialModeDouble != 0
}

// WithColor sets the base color.
func WithColor(c Color) MaterialPatch {
	return func(m *Material) { m.Color = c }
}

// WithOpacity sets the opacity.
func WithOpacity(opacity float64) MaterialPatch {
	return func(m *Material) { m.Opacity = opacity }
}

// WithAmbient sets the ambient coefficient.
func WithAmbient(v float64) MaterialPatch {
	return func(m *Material) { m.Ambient = v }
}

// WithDiffuse sets the diffuse coefficient.
func WithDiffuse(v float64) MaterialPatch {
	return func(m *Material) { m.Diffuse = v }
}

// WithSpecular sets the specular coefficient.
func WithSpecular(v float64) MaterialPatch {
	return func(m *Material) { m.Specular = v }
}

// WithSurface sets ambient, diffuse and specular at once.
func WithSurface(ambient, diffuse, specular float64) MaterialPatch {
	return func(m *Material) {
		m.Ambient = ambient
		m.Diffuse = diffuse
		m.Specular = specular
	}
}

// WithTexture sets the texture, mask and bump map names. Empty means none.
func WithTexture(texture, mask, bump string) MaterialPatch {
	return func(m *Material) {
		m.Texture = texture
		m.Mask = mask
		m.Bump = bump
	}
}

// WithTextureMode replaces the texture mode flags.
func WithTextureMode(mode TextureMode) MaterialPatch {
	return func(m *Material) { m.TextureMode = mode }
}

// AddTextureMode sets additional texture mode flags.
func AddTextureMode(mode TextureMode) MaterialPatch {
	return func(m *Material) { m.TextureMode |= mode }
}

// RemoveTextureMode clears texture mode flags.
func RemoveTextureMode(mode TextureMode) MaterialPatch {
	return func(m *Material) { m.TextureMode &^= mode }
}

// WithMaterialMode replaces the material mode.
func WithMaterialMode(mode MaterialMode) MaterialPatch {
	return func(m *Material) { m.MaterialMode = mode }
}

// AddMaterialMode sets material mode bits.
func AddMaterialMode(mode MaterialMode) MaterialPatch {
	return func(m *Material) { m.MaterialMode |= mode }
}

// RemoveMaterialMode clears material mode bits.
func RemoveMaterialMode(mode MaterialMode) MaterialPatch {
	return func(m *Material) { m.MaterialMode &^= mode }
}

// WithGeometrySampling sets the geometry sampling.
func WithGeometrySampling(s GeometrySampling) MaterialPatch {
	return func(m *Material) { m.GeometrySampling = s }
}

// WithLightSampling sets the light sampling.
func WithLightSampling(s LightSampling) MaterialPatch {
	return func(m *Material) { m.LightSampling = s }
}

// WithTextureAddressMode sets the texture address mode.
func WithTextureAddressMode(mode TextureAddressMode) MaterialPatch {
	return func(m *Material) { m.TextureAddressMode = mode }
}

// WithTextureMipmap enables or disables texture mipmaps.
func WithTextureMipmap(enabled bool) MaterialPatch {
	return func(m *Material) { m.TextureMipmap = enabled }
}

func enumName(names []string, v int) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("unknown(%d)", v)
}

func parseEnum(what string, names []string, s string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}
