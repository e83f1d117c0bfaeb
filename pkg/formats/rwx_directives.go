package formats

import (
	"strings"

	"github.com/Faultbox/rwxforge/pkg/builder"
	"github.com/Faultbox/rwxforge/pkg/math"
	"github.com/Faultbox/rwxforge/pkg/model"
)

func noop(*RWXReader, []string) error { return nil }

func call0(fn func(*builder.Builder) error) directive {
	return func(r *RWXReader, _ []string) error { return fn(r.b) }
}

func call1(fn func(*builder.Builder, float64) error) directive {
	return func(r *RWXReader, args []string) error {
		v, err := r.floats(args, 1)
		if err != nil {
			return err
		}
		return fn(r.b, v[0])
	}
}

func call3(fn func(*builder.Builder, float64, float64, float64) error) directive {
	return func(r *RWXReader, args []string) error {
		v, err := r.floats(args, 3)
		if err != nil {
			return err
		}
		return fn(r.b, v[0], v[1], v[2])
	}
}

func callBool(fn func(*builder.Builder, bool) error) directive {
	return func(r *RWXReader, args []string) error {
		v, err := r.onOff(args)
		if err != nil {
			return err
		}
		return fn(r.b, v)
	}
}

func protoBegin(r *RWXReader, args []string) error {
	name, err := r.name(args)
	if err != nil {
		return err
	}
	return r.b.BeginPrototype(name)
}

func protoInstance(r *RWXReader, args []string) error {
	name, err := r.name(args)
	if err != nil {
		return err
	}
	return r.b.AddProtoInstance(name)
}

func protoInstanceGeometry(r *RWXReader, args []string) error {
	name, err := r.name(args)
	if err != nil {
		return err
	}
	return r.b.AddProtoInstanceGeometry(name)
}

func rotate(r *RWXReader, args []string) error {
	v, err := r.floats(args, 4)
	if err != nil {
		return err
	}
	return r.b.AddRotate(v[0], v[1], v[2], v[3])
}

// transform replaces the active transform with 16 values listed in RWX
// order, which is the column-major layout of the column-vector matrix.
func transform(r *RWXReader, args []string) error {
	v, err := r.floats(args, 16)
	if err != nil {
		return err
	}
	var values [16]float64
	copy(values[:], v)
	return r.b.SetTransformMatrix(math.FromArray(values))
}

// vertex handles "vertex x y z [uv u v] [prelight r g b]".
func vertex(r *RWXReader, args []string) error {
	pos, err := r.floats(args, 3)
	if err != nil {
		return err
	}

	var uv *model.UV
	var prelight *model.Color
	rest := args[3:]
	for len(rest) > 0 {
		switch strings.ToLower(rest[0]) {
		case "uv":
			v, err := r.floats(rest[1:], 2)
			if err != nil {
				return err
			}
			uv = &model.UV{U: v[0], V: v[1]}
			rest = rest[3:]
		case "prelight":
			v, err := r.floats(rest[1:], 3)
			if err != nil {
				return err
			}
			prelight = &model.Color{R: v[0], G: v[1], B: v[2]}
			rest = rest[4:]
		default:
			return r.syntax("unexpected vertex argument %q", rest[0])
		}
	}
	return r.b.AddVertex(math.Vec3{X: pos[0], Y: pos[1], Z: pos[2]}, uv, prelight)
}

func triangle(r *RWXReader, args []string) error {
	idx, err := r.indices(args, 3)
	if err != nil {
		return err
	}
	tag, err := r.tag(args[3:])
	if err != nil {
		return err
	}
	return r.b.AddTriangle(idx[0], idx[1], idx[2], tag)
}

func quad(r *RWXReader, args []string) error {
	idx, err := r.indices(args, 4)
	if err != nil {
		return err
	}
	tag, err := r.tag(args[4:])
	if err != nil {
		return err
	}
	return r.b.AddQuad(idx[0], idx[1], idx[2], idx[3], tag)
}

// polygon handles "polygon n i1 .. in [tag t]". The declared count is passed
// through so the builder can reject a mismatch.
func polygon(r *RWXReader, args []string) error {
	counts, err := r.ints(args, 1)
	if err != nil {
		return err
	}
	rest := args[1:]
	n := 0
	for n < len(rest) && !strings.EqualFold(rest[n], "tag") {
		n++
	}
	idx, err := r.indices(rest, n)
	if err != nil {
		return err
	}
	tag, err := r.tag(rest[n:])
	if err != nil {
		return err
	}
	return r.b.AddPolygon(counts[0], idx, tag)
}

func block(r *RWXReader, args []string) error {
	v, err := r.floats(args, 3)
	if err != nil {
		return err
	}
	return r.b.AddBlock(v[0], v[1], v[2])
}

func cone(r *RWXReader, args []string) error {
	v, err := r.floats(args, 2)
	if err != nil {
		return err
	}
	sides, err := r.ints(args[2:], 1)
	if err != nil {
		return err
	}
	return r.b.AddCone(v[0], v[1], sides[0])
}

func cylinder(r *RWXReader, args []string) error {
	v, err := r.floats(args, 3)
	if err != nil {
		return err
	}
	sides, err := r.ints(args[3:], 1)
	if err != nil {
		return err
	}
	return r.b.AddCylinder(v[0], v[1], v[2], sides[0])
}

func disc(r *RWXReader, args []string) error {
	v, err := r.floats(args, 2)
	if err != nil {
		return err
	}
	sides, err := r.ints(args[2:], 1)
	if err != nil {
		return err
	}
	return r.b.AddDisc(v[0], v[1], sides[0])
}

func hemisphere(r *RWXReader, args []string) error {
	v, err := r.floats(args, 1)
	if err != nil {
		return err
	}
	density, err := r.ints(args[1:], 1)
	if err != nil {
		return err
	}
	return r.b.AddHemisphere(v[0], density[0])
}

func sphere(r *RWXReader, args []string) error {
	v, err := r.floats(args, 1)
	if err != nil {
		return err
	}
	density, err := r.ints(args[1:], 1)
	if err != nil {
		return err
	}
	return r.b.AddSphere(v[0], density[0])
}

// texture handles "texture name [mask m] [bump b]".
func texture(r *RWXReader, args []string) error {
	name, err := r.name(args)
	if err != nil {
		return err
	}
	var mask, bump string
	rest := args[1:]
	for len(rest) > 0 {
		if len(rest) < 2 {
			return r.syntax("missing value for %q", rest[0])
		}
		switch strings.ToLower(rest[0]) {
		case "mask":
			mask = rest[1]
		case "bump":
			bump = rest[1]
		default:
			return r.syntax("unexpected texture argument %q", rest[0])
		}
		rest = rest[2:]
	}
	return r.b.SetTexture(name, mask, bump)
}

func textureMode(fn func(*builder.Builder, model.TextureMode) error) directive {
	return func(r *RWXReader, args []string) error {
		if len(args) == 0 {
			return r.syntax("expected a texture mode")
		}
		var mode model.TextureMode
		for _, a := range args {
			m, err := model.ParseTextureMode(a)
			if err != nil {
				return r.syntax("%v", err)
			}
			mode |= m
		}
		return fn(r.b, mode)
	}
}

func materialMode(fn func(*builder.Builder, model.MaterialMode) error) directive {
	return func(r *RWXReader, args []string) error {
		name, err := r.name(args)
		if err != nil {
			return err
		}
		var mode model.MaterialMode
		if err := mode.UnmarshalText([]byte(name)); err != nil {
			return r.syntax("%v", err)
		}
		return fn(r.b, mode)
	}
}

func geometrySampling(r *RWXReader, args []string) error {
	name, err := r.name(args)
	if err != nil {
		return err
	}
	var s model.GeometrySampling
	if err := s.UnmarshalText([]byte(name)); err != nil {
		return r.syntax("%v", err)
	}
	return r.b.SetGeometrySampling(s)
}

func lightSampling(r *RWXReader, args []string) error {
	name, err := r.name(args)
	if err != nil {
		return err
	}
	var s model.LightSampling
	if err := s.UnmarshalText([]byte(name)); err != nil {
		return r.syntax("%v", err)
	}
	return r.b.SetLightSampling(s)
}

func textureAddressMode(r *RWXReader, args []string) error {
	name, err := r.name(args)
	if err != nil {
		return err
	}
	var m model.TextureAddressMode
	if err := m.UnmarshalText([]byte(name)); err != nil {
		return r.syntax("%v", err)
	}
	return r.b.SetTextureAddressMode(m)
}

func axisAlignment(r *RWXReader, args []string) error {
	name, err := r.name(args)
	if err != nil {
		return err
	}
	var a model.AxisAlignment
	if err := a.UnmarshalText([]byte(name)); err != nil {
		return r.syntax("%v", err)
	}
	return r.b.SetAxisAlignment(a)
}

func clumpTag(r *RWXReader, args []string) error {
	v, err := r.ints(args, 1)
	if err != nil {
		return err
	}
	return r.b.SetClumpTag(v[0])
}
