// Package formats reads RWX model scripts into models.
//
// RWX is a line-oriented text format: one case-insensitive directive per
// line, followed by whitespace-separated arguments. '#' starts a comment,
// except for the "#!prelight r g b" vertex extension. Vertex indices are
// 1-based.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/rwxforge/pkg/builder"
	"github.com/Faultbox/rwxforge/pkg/encoding"
	"github.com/Faultbox/rwxforge/pkg/model"
)

// RWX format errors.
var (
	ErrSyntax = errors.New("rwx syntax error")
)

// maxLineSize bounds a single directive line.
const maxLineSize = 1 << 20

type directive func(r *RWXReader, args []string) error

var directives = map[string]directive{
	"modelbegin": noop,
	"modelend":   noop,

	"clumpbegin":            call0((*builder.Builder).BeginClump),
	"clumpend":              call0((*builder.Builder).EndClump),
	"protobegin":            protoBegin,
	"protoend":              call0((*builder.Builder).EndPrototype),
	"protoinstance":         protoInstance,
	"protoinstancegeometry": protoInstanceGeometry,
	"transformbegin":        call0((*builder.Builder).BeginTransform),
	"transformend":          call0((*builder.Builder).EndTransform),
	"materialbegin":         call0((*builder.Builder).BeginMaterial),
	"materialend":           call0((*builder.Builder).EndMaterial),

	"identity":  call0((*builder.Builder).SetIdentityTransform),
	"translate": call3((*builder.Builder).AddTranslate),
	"scale":     call3((*builder.Builder).AddScale),
	"rotate":    rotate,
	"transform": transform,

	"vertex":      vertex,
	"vertexext":   vertex,
	"triangle":    triangle,
	"triangleext": triangle,
	"quad":        quad,
	"quadext":     quad,
	"polygon":     polygon,
	"polygonext":  polygon,

	"block":      block,
	"cone":       cone,
	"cylinder":   cylinder,
	"disc":       disc,
	"hemisphere": hemisphere,
	"sphere":     sphere,

	"color":    call3((*builder.Builder).SetColor),
	"opacity":  call1((*builder.Builder).SetOpacity),
	"ambient":  call1((*builder.Builder).SetAmbient),
	"diffuse":  call1((*builder.Builder).SetDiffuse),
	"specular": call1((*builder.Builder).SetSpecular),
	"surface":  call3((*builder.Builder).SetSurface),
	"texture":  texture,

	"texturemode":        textureMode((*builder.Builder).SetTextureMode),
	"addtexturemode":     textureMode((*builder.Builder).AddTextureMode),
	"removetexturemode":  textureMode((*builder.Builder).RemoveTextureMode),
	"materialmode":       materialMode((*builder.Builder).SetMaterialMode),
	"addmaterialmode":    materialMode((*builder.Builder).AddMaterialMode),
	"removematerialmode": materialMode((*builder.Builder).RemoveMaterialMode),
	"geometrysampling":   geometrySampling,
	"lightsampling":      lightSampling,
	"textureaddressmode": textureAddressMode,
	"texturemipmapstate": callBool((*builder.Builder).SetTextureMipmap),

	"tag":           clumpTag,
	"collision":     callBool((*builder.Builder).SetCollision),
	"axisalignment": axisAlignment,
	"opacityfix":    callBool((*builder.Builder).SetOpacityFix),
	"randomuvs":     callBool((*builder.Builder).SetRandomUVs),
	"seamless":      callBool((*builder.Builder).SetSeamless),
}

// RWXReader feeds RWX directives into a builder.
type RWXReader struct {
	b    *builder.Builder
	log  *zap.Logger
	line int
}

// NewRWXReader returns a reader driving b. A nil logger discards output.
func NewRWXReader(b *builder.Builder, log *zap.Logger) *RWXReader {
	if log == nil {
		log = zap.NewNop()
	}
	return &RWXReader{b: b, log: log}
}

// Read executes every directive in src and stops at the first error.
// Unknown directives are logged and skipped.
func (r *RWXReader) Read(src io.Reader) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	r.line = 0
	for scanner.Scan() {
		r.line++
		fields := tokenize(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		name := strings.ToLower(fields[0])
		handler, ok := directives[name]
		if !ok {
			r.log.Warn("unknown RWX directive",
				zap.String("directive", fields[0]),
				zap.Int("line", r.line))
			continue
		}
		if err := handler(r, fields[1:]); err != nil {
			if errors.Is(err, ErrSyntax) {
				return err
			}
			return fmt.Errorf("line %d: %s: %w", r.line, name, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read RWX: %w", err)
	}
	return nil
}

// ParseRWX builds a model from RWX source. Legacy Windows-1252 text is
// converted to UTF-8 first. The reader logs through the builder's logger.
func ParseRWX(data []byte, opts ...builder.Option) (*model.Model, error) {
	b := builder.New(opts...)
	if err := NewRWXReader(b, b.Logger()).Read(bytes.NewReader(encoding.DecodeText(data))); err != nil {
		return nil, err
	}
	return b.Finish()
}

// ParseRWXFile reads and builds an RWX file.
func ParseRWXFile(path string, opts ...builder.Option) (*model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseRWX(data, opts...)
}

// tokenize splits a line into fields, dropping comments but keeping the
// "#!prelight" extension as a regular token.
func tokenize(line string) []string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		rest := line[i:]
		if len(rest) >= 10 && strings.EqualFold(rest[:10], "#!prelight") {
			line = line[:i] + " prelight " + rest[10:]
		} else {
			line = line[:i]
		}
	}
	return strings.Fields(line)
}

func (r *RWXReader) syntax(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, r.line, fmt.Sprintf(format, args...))
}

func (r *RWXReader) floats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, r.syntax("expected %d numbers, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, r.syntax("invalid number %q", args[i])
		}
		out[i] = v
	}
	return out, nil
}

func (r *RWXReader) ints(args []string, n int) ([]int, error) {
	if len(args) < n {
		return nil, r.syntax("expected %d integers, got %d", n, len(args))
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, r.syntax("invalid integer %q", args[i])
		}
		out[i] = v
	}
	return out, nil
}

// indices converts 1-based vertex indices to 0-based.
func (r *RWXReader) indices(args []string, n int) ([]int, error) {
	idx, err := r.ints(args, n)
	if err != nil {
		return nil, err
	}
	for i := range idx {
		idx[i]--
	}
	return idx, nil
}

// tag parses an optional trailing "tag n".
func (r *RWXReader) tag(args []string) (*int, error) {
	if len(args) == 0 {
		return nil, nil
	}
	if len(args) < 2 || !strings.EqualFold(args[0], "tag") {
		return nil, r.syntax("unexpected arguments %v", args)
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, r.syntax("invalid tag %q", args[1])
	}
	return &v, nil
}

func (r *RWXReader) onOff(args []string) (bool, error) {
	if len(args) < 1 {
		return false, r.syntax("expected on or off")
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, r.syntax("expected on or off, got %q", args[0])
}

func (r *RWXReader) name(args []string) (string, error) {
	if len(args) < 1 {
		return "", r.syntax("expected a name")
	}
	return args[0], nil
}
