package builder

import (
	"strings"

	"github.com/Faultbox/rwxforge/pkg/model"
)

// BeginMaterial saves the active material.
func (b *Builder) BeginMaterial() error {
	if err := b.ready(); err != nil {
		return err
	}
	b.materials = append(b.materials, b.material)
	return nil
}

// EndMaterial restores the material saved by the matching BeginMaterial.
func (b *Builder) EndMaterial() error {
	if err := b.ready(); err != nil {
		return err
	}
	_, floor := b.frameDepths()
	if len(b.materials) <= floor {
		return b.fail("materialend without materialbegin")
	}
	n := len(b.materials) - 1
	b.material = b.materials[n]
	b.materials = b.materials[:n]
	return nil
}

// patch replaces the active material with a patched copy.
func (b *Builder) patch(patches ...model.MaterialPatch) error {
	if err := b.ready(); err != nil {
		return err
	}
	b.material = b.material.With(patches...)
	return nil
}

// SetColor sets the active color.
func (b *Builder) SetColor(r, g, bl float64) error {
	return b.patch(model.WithColor(model.Color{R: r, G: g, B: bl}))
}

// SetOpacity sets the active opacity.
func (b *Builder) SetOpacity(opacity float64) error {
	return b.patch(model.WithOpacity(opacity))
}

// SetAmbient sets the active ambient coefficient.
func (b *Builder) SetAmbient(v float64) error {
	return b.patch(model.WithAmbient(v))
}

// SetDiffuse sets the active diffuse coefficient.
func (b *Builder) SetDiffuse(v float64) error {
	return b.patch(model.WithDiffuse(v))
}

// SetSpecular sets the active specular coefficient.
func (b *Builder) SetSpecular(v float64) error {
	return b.patch(model.WithSpecular(v))
}

// SetSurface sets ambient, diffuse and specular.
func (b *Builder) SetSurface(ambient, diffuse, specular float64) error {
	return b.patch(model.WithSurface(ambient, diffuse, specular))
}

// SetTexture sets the texture, mask and bump names. The name "null" (any
// case) or an empty string clears a slot.
func (b *Builder) SetTexture(texture, mask, bump string) error {
	return b.patch(model.WithTexture(textureName(texture), textureName(mask), textureName(bump)))
}

func textureName(name string) string {
	if strings.EqualFold(name, "null") {
		return ""
	}
	return name
}

// SetTextureMode replaces the texture mode flags.
func (b *Builder) SetTextureMode(mode model.TextureMode) error {
	return b.patch(model.WithTextureMode(mode))
}

// AddTextureMode sets texture mode flags.
func (b *Builder) AddTextureMode(mode model.TextureMode) error {
	return b.patch(model.AddTextureMode(mode))
}

// RemoveTextureMode clears texture mode flags.
func (b *Builder) RemoveTextureMode(mode model.TextureMode) error {
	return b.patch(model.RemoveTextureMode(mode))
}

// SetMaterialMode replaces the material mode.
func (b *Builder) SetMaterialMode(mode model.MaterialMode) error {
	return b.patch(model.WithMaterialMode(mode))
}

// AddMaterialMode sets material mode bits.
func (b *Builder) AddMaterialMode(mode model.MaterialMode) error {
	return b.patch(model.AddMaterialMode(mode))
}

// RemoveMaterialMode clears material mode bits.
func (b *Builder) RemoveMaterialMode(mode model.MaterialMode) error {
	return b.patch(model.RemoveMaterialMode(mode))
}

// SetGeometrySampling sets the geometry sampling.
func (b *Builder) SetGeometrySampling(s model.GeometrySampling) error {
	return b.patch(model.WithGeometrySampling(s))
}

// SetLightSampling sets the light sampling.
func (b *Builder) SetLightSampling(s model.LightSampling) error {
	return b.patch(model.WithLightSampling(s))
}

// SetTextureAddressMode sets the texture address mode.
func (b *Builder) SetTextureAddressMode(mode model.TextureAddressMode) error {
	return b.patch(model.WithTextureAddressMode(mode))
}

// SetTextureMipmap enables or disables texture mipmaps.
func (b *Builder) SetTextureMipmap(enabled bool) error {
	return b.patch(model.WithTextureMipmap(enabled))
}
