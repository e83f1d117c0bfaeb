package builder

import (
	"github.com/Faultbox/rwxforge/pkg/model"
)

// SetAxisAlignment sets the model's axis alignment.
func (b *Builder) SetAxisAlignment(mode model.AxisAlignment) error {
	if err := b.ready(); err != nil {
		return err
	}
	b.model.AxisAlignment = mode
	return nil
}

// SetOpacityFix sets the model's opacity fix flag.
func (b *Builder) SetOpacityFix(enabled bool) error {
	if err := b.ready(); err != nil {
		return err
	}
	b.model.OpacityFix = enabled
	return nil
}

// SetRandomUVs sets the model's random UV flag.
func (b *Builder) SetRandomUVs(enabled bool) error {
	if err := b.ready(); err != nil {
		return err
	}
	b.model.RandomUVs = enabled
	return nil
}

// SetSeamless sets the model's seamless flag.
func (b *Builder) SetSeamless(enabled bool) error {
	if err := b.ready(); err != nil {
		return err
	}
	b.model.Seamless = enabled
	return nil
}
