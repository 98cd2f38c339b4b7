package script

import (
	"fmt"
	"strings"

	"cogentcore.org/core/math32"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/param"
)

// sexpVec3 wraps a vector so it can flow between builtins.
type sexpVec3 struct {
	vec math32.Vector3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpMesh wraps a mesh handle. Scripts treat it as opaque and operate
// on it through the mesh builtins.
type sexpMesh struct {
	m *mesh.Mesh
}

func (m *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh %dv %df)", m.m.VertexCount(), m.m.FaceCount())
}
func (m *sexpMesh) Type() *zygo.RegisteredType { return nil }

// toSexp marshals a parameter value into the sandbox representation.
func toSexp(v param.Value) (zygo.Sexp, error) {
	switch v.Type {
	case param.TypeScalar:
		return &zygo.SexpFloat{Val: v.Scalar}, nil
	case param.TypeVector:
		return &sexpVec3{vec: v.Vector}, nil
	case param.TypeString, param.TypeEnum:
		return &zygo.SexpStr{S: v.Str}, nil
	case param.TypeMesh:
		m := v.Mesh
		if m == nil {
			m = mesh.New()
		}
		// The value may be a cached upstream result. Scripts get their
		// own copy, so in-place builtins never touch the original.
		return &sexpMesh{m: m.Clone()}, nil
	}
	return zygo.SexpNull, fmt.Errorf("cannot marshal %s value", v.Type)
}

// fromSexp unmarshals a script value against a declared slot type.
// Numbers splat into vectors the same way graph connections do.
func fromSexp(t param.Type, s zygo.Sexp) (param.Value, error) {
	switch t {
	case param.TypeScalar:
		f, err := toFloat64(s)
		if err != nil {
			return param.Value{}, err
		}
		return param.Scalar(f), nil
	case param.TypeVector:
		if v, ok := s.(*sexpVec3); ok {
			return param.Vector(v.vec), nil
		}
		if f, err := toFloat64(s); err == nil {
			return param.Vec3(float32(f), float32(f), float32(f)), nil
		}
		return param.Value{}, fmt.Errorf("expected vec3 or number, got %T", s)
	case param.TypeString:
		str, err := toGoString(s)
		if err != nil {
			return param.Value{}, err
		}
		return param.String(str), nil
	case param.TypeEnum:
		str, err := toGoString(s)
		if err != nil {
			return param.Value{}, err
		}
		return param.Enum(str), nil
	case param.TypeMesh:
		if m, ok := s.(*sexpMesh); ok {
			return param.Mesh(m.m), nil
		}
		return param.Value{}, fmt.Errorf("expected mesh, got %T", s)
	}
	return param.Value{}, fmt.Errorf("cannot unmarshal into %s", t)
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toGoString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toVector(s zygo.Sexp) (math32.Vector3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	if f, err := toFloat64(s); err == nil {
		return math32.Vec3(float32(f), float32(f), float32(f)), nil
	}
	return math32.Vector3{}, fmt.Errorf("expected vec3 or number, got %T", s)
}

func toMesh(s zygo.Sexp) (*mesh.Mesh, error) {
	if m, ok := s.(*sexpMesh); ok {
		return m.m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}
