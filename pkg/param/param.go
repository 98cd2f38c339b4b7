// Package param defines the typed parameter values that flow along graph
// edges: scalars, vectors, strings, enumerations, and mesh handles. It also
// defines the slot schema shared by native operators and scripted nodes.
package param

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"cogentcore.org/core/math32"

	"github.com/chazu/burl/pkg/mesh"
)

// Type enumerates the value types a slot can carry.
type Type int

const (
	TypeScalar Type = iota
	TypeVector
	TypeString
	TypeEnum
	TypeMesh
)

func (t Type) String() string {
	switch t {
	case TypeScalar:
		return "scalar"
	case TypeVector:
		return "vector"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the slot types. The zero Value is a scalar 0.
type Value struct {
	Type   Type
	Scalar float64
	Vector math32.Vector3
	Str    string // string and enum payloads
	Mesh   *mesh.Mesh
}

// Scalar wraps a float64.
func Scalar(v float64) Value { return Value{Type: TypeScalar, Scalar: v} }

// Vector wraps a 3-vector.
func Vector(v math32.Vector3) Value { return Value{Type: TypeVector, Vector: v} }

// Vec3 wraps components as a vector value.
func Vec3(x, y, z float32) Value { return Vector(math32.Vec3(x, y, z)) }

// String wraps a string.
func String(s string) Value { return Value{Type: TypeString, Str: s} }

// Enum wraps an enumeration choice.
func Enum(s string) Value { return Value{Type: TypeEnum, Str: s} }

// Mesh wraps a mesh handle. A nil mesh stands for the empty mesh.
func Mesh(m *mesh.Mesh) Value { return Value{Type: TypeMesh, Mesh: m} }

// EmptyMesh is the default for unconnected mesh slots.
func EmptyMesh() Value { return Mesh(mesh.New()) }

// AssignableTo reports whether a value of type from can feed a slot of
// type to. The only coercion is scalar-to-vector splat; everything else
// requires an exact type match, except that strings satisfy enum slots
// (choice validity is checked by the slot, not the type system).
func AssignableTo(from, to Type) bool {
	if from == to {
		return true
	}
	if from == TypeScalar && to == TypeVector {
		return true
	}
	if from == TypeString && to == TypeEnum {
		return true
	}
	return false
}

// Coerce converts v to type t under the AssignableTo rules.
func (v Value) Coerce(t Type) (Value, error) {
	if v.Type == t {
		return v, nil
	}
	switch {
	case v.Type == TypeScalar && t == TypeVector:
		f := float32(v.Scalar)
		return Vec3(f, f, f), nil
	case v.Type == TypeString && t == TypeEnum:
		return Enum(v.Str), nil
	}
	return Value{}, fmt.Errorf("cannot coerce %s to %s", v.Type, t)
}

func (v Value) String() string {
	switch v.Type {
	case TypeScalar:
		return fmt.Sprintf("%g", v.Scalar)
	case TypeVector:
		return fmt.Sprintf("(%g, %g, %g)", v.Vector.X, v.Vector.Y, v.Vector.Z)
	case TypeString, TypeEnum:
		return fmt.Sprintf("%q", v.Str)
	case TypeMesh:
		if v.Mesh == nil {
			return "mesh(empty)"
		}
		return fmt.Sprintf("mesh(%dv %df)", v.Mesh.VertexCount(), v.Mesh.FaceCount())
	default:
		return "invalid"
	}
}

// WriteHash writes a canonical byte encoding of the value to w, used for
// cache fingerprinting. Equal values always produce equal bytes; meshes
// are hashed by full content including channels in sorted name order.
func (v Value) WriteHash(w io.Writer) {
	var buf [8]byte

	putU64 := func(x uint64) {
		binary.LittleEndian.PutUint64(buf[:], x)
		w.Write(buf[:])
	}
	putF32 := func(f float32) {
		putU64(uint64(math.Float32bits(f)))
	}

	putU64(uint64(v.Type))
	switch v.Type {
	case TypeScalar:
		putU64(math.Float64bits(v.Scalar))
	case TypeVector:
		putF32(v.Vector.X)
		putF32(v.Vector.Y)
		putF32(v.Vector.Z)
	case TypeString, TypeEnum:
		putU64(uint64(len(v.Str)))
		io.WriteString(w, v.Str)
	case TypeMesh:
		m := v.Mesh
		if m == nil {
			m = mesh.New()
		}
		putU64(uint64(len(m.Positions)))
		for _, p := range m.Positions {
			putF32(p.X)
			putF32(p.Y)
			putF32(p.Z)
		}
		putU64(uint64(len(m.Faces)))
		for _, f := range m.Faces {
			putU64(uint64(len(f)))
			for _, idx := range f {
				putU64(uint64(idx))
			}
		}
		vnames := make([]string, 0, len(m.VertexChannels))
		for name := range m.VertexChannels {
			vnames = append(vnames, name)
		}
		sort.Strings(vnames)
		for _, name := range vnames {
			io.WriteString(w, name)
			for _, p := range m.VertexChannels[name] {
				putF32(p.X)
				putF32(p.Y)
				putF32(p.Z)
			}
		}
		fnames := make([]string, 0, len(m.FaceChannels))
		for name := range m.FaceChannels {
			fnames = append(fnames, name)
		}
		sort.Strings(fnames)
		for _, name := range fnames {
			io.WriteString(w, name)
			for _, x := range m.FaceChannels[name] {
				putF32(x)
			}
		}
	}
}

// Slot declares one typed input or output of an operator.
type Slot struct {
	Name    string   `json:"name"`
	Type    Type     `json:"type"`
	Default Value    `json:"default"`
	Choices []string `json:"choices,omitempty"` // enum slots only
}

// ValidChoice reports whether s is an allowed enum choice for the slot.
// Slots without declared choices accept anything.
func (s Slot) ValidChoice(choice string) bool {
	if len(s.Choices) == 0 {
		return true
	}
	for _, c := range s.Choices {
		if c == choice {
			return true
		}
	}
	return false
}
