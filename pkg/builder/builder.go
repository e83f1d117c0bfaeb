// Package builder turns a sequence of modeling directives into a model.Model.
//
// A Builder is a small interpreter: clump, prototype, transform and material
// directives push and pop explicit stacks, while vertex, face and primitive
// directives append to whichever clump or prototype is currently open. The
// finished model is taken with Finish.
//
// A Builder is not safe for concurrent use.
package builder

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rwxforge/pkg/math"
	"github.com/Faultbox/rwxforge/pkg/model"
)

var (
	// ErrState is returned when a directive is not allowed in the current
	// builder state. It is sticky: every later directive returns it until
	// Reset is called.
	ErrState = errors.New("invalid builder state")
	// ErrContract is returned when a directive's own arguments are
	// inconsistent. Only the failing directive is affected.
	ErrContract = errors.New("invalid directive arguments")
)

// vertexPrecision is the number of decimal places kept on vertex positions.
const vertexPrecision = 10

// clumpFrame is an open clump with the stack depths recorded when it began.
type clumpFrame struct {
	clump      *model.Clump
	transforms int
	materials  int
}

// protoFrame is the open prototype. clumps is the clump stack depth at
// protobegin; clumps opened inside the prototype sit above it.
type protoFrame struct {
	proto      *model.Prototype
	clumps     int
	transforms int
	materials  int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithFlipTextureV stores texture coordinates as (u, 1-v).
func WithFlipTextureV(flip bool) Option {
	return func(b *Builder) { b.flipV = flip }
}

// Builder assembles a model from directives.
type Builder struct {
	log   *zap.Logger
	flipV bool

	model     *model.Model
	err       error
	target    *model.Mesh
	proto     *protoFrame
	prelight  model.Color
	transform math.Mat4
	material  model.Material

	clumps     []clumpFrame
	transforms []math.Mat4
	materials  []model.Material
}

// New returns a builder ready for the first directive.
func New(opts ...Option) *Builder {
	b := &Builder{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset()
	return b
}

// Logger returns the builder's logger.
func (b *Builder) Logger() *zap.Logger {
	return b.log
}

// Reset discards all state, including a sticky error, and starts a new model.
func (b *Builder) Reset() {
	if b.log == nil {
		b.log = zap.NewNop()
	}
	b.model = model.New()
	b.err = nil
	b.target = nil
	b.proto = nil
	b.prelight = model.Color{}
	b.transform = math.Identity()
	b.material = model.DefaultMaterial()
	b.clumps = b.clumps[:0]
	b.transforms = b.transforms[:0]
	b.materials = b.materials[:0]
}

// Err returns the sticky state error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Finish returns the built model. Every clump, prototype, transform and
// material begun must have been ended.
func (b *Builder) Finish() (*model.Model, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	switch {
	case len(b.clumps) > 0:
		return nil, b.fail("%d clump(s) not ended", len(b.clumps))
	case b.proto != nil:
		return nil, b.fail("prototype %q not ended", b.proto.proto.Name)
	case len(b.transforms) > 0:
		return nil, b.fail("%d transform(s) not ended", len(b.transforms))
	case len(b.materials) > 0:
		return nil, b.fail("%d material(s) not ended", len(b.materials))
	}
	return b.model, nil
}

// Transform returns the active transform.
func (b *Builder) Transform() math.Mat4 {
	return b.transform
}

// Material returns the active material.
func (b *Builder) Material() model.Material {
	return b.material
}

// ready returns the sticky error, or ErrState for a builder that was never
// initialized.
func (b *Builder) ready() error {
	if b.err != nil {
		return b.err
	}
	if b.model == nil {
		return fmt.Errorf("%w: builder not initialized", ErrState)
	}
	return nil
}

// fail records a sticky state error.
func (b *Builder) fail(format string, args ...any) error {
	b.err = fmt.Errorf("%w: %s", ErrState, fmt.Sprintf(format, args...))
	return b.err
}

func contractError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrContract, fmt.Sprintf(format, args...))
}

// requireTarget fails unless a clump or prototype is open.
func (b *Builder) requireTarget(directive string) error {
	if err := b.ready(); err != nil {
		return err
	}
	if b.target == nil {
		return b.fail("%s is only valid inside a clump or prototype", directive)
	}
	return nil
}

func (b *Builder) pushAll() {
	b.transforms = append(b.transforms, b.transform)
	b.materials = append(b.materials, b.material)
}

func (b *Builder) popAll() {
	n := len(b.transforms) - 1
	b.transform = b.transforms[n]
	b.transforms = b.transforms[:n]

	n = len(b.materials) - 1
	b.material = b.materials[n]
	b.materials = b.materials[:n]
}

// frameDepths returns the transform and material stack depths owned by the
// innermost open clump or prototype.
func (b *Builder) frameDepths() (transforms, materials int) {
	if n := len(b.clumps); n > 0 && (b.proto == nil || n > b.proto.clumps) {
		f := b.clumps[n-1]
		return f.transforms, f.materials
	}
	if b.proto != nil {
		return b.proto.transforms, b.proto.materials
	}
	return 0, 0
}
