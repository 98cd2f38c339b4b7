package param

import (
	"encoding/json"
	"fmt"

	"cogentcore.org/core/math32"

	"github.com/chazu/burl/pkg/mesh"
)

// jsonValue is the wire form of a Value. Mesh literals are serialized by
// content so a round-tripped graph evaluates to identical fingerprints.
type jsonValue struct {
	Type   string          `json:"type"`
	Scalar *float64        `json:"scalar,omitempty"`
	Vector *[3]float32     `json:"vector,omitempty"`
	Str    *string         `json:"str,omitempty"`
	Mesh   *jsonMesh       `json:"mesh,omitempty"`
}

type jsonMesh struct {
	Positions      []float32            `json:"positions"` // flat x,y,z triples
	Faces          [][]int              `json:"faces"`
	VertexChannels map[string][]float32 `json:"vertex_channels,omitempty"` // flat x,y,z triples
	FaceChannels   map[string][]float32 `json:"face_channels,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	jv := jsonValue{Type: v.Type.String()}
	switch v.Type {
	case TypeScalar:
		jv.Scalar = &v.Scalar
	case TypeVector:
		vec := [3]float32{v.Vector.X, v.Vector.Y, v.Vector.Z}
		jv.Vector = &vec
	case TypeString, TypeEnum:
		jv.Str = &v.Str
	case TypeMesh:
		m := v.Mesh
		if m == nil {
			m = mesh.New()
		}
		jm := &jsonMesh{Faces: m.Faces}
		for _, p := range m.Positions {
			jm.Positions = append(jm.Positions, p.X, p.Y, p.Z)
		}
		if len(m.VertexChannels) > 0 {
			jm.VertexChannels = make(map[string][]float32, len(m.VertexChannels))
			for name, ch := range m.VertexChannels {
				flat := make([]float32, 0, len(ch)*3)
				for _, c := range ch {
					flat = append(flat, c.X, c.Y, c.Z)
				}
				jm.VertexChannels[name] = flat
			}
		}
		if len(m.FaceChannels) > 0 {
			jm.FaceChannels = make(map[string][]float32, len(m.FaceChannels))
			for name, ch := range m.FaceChannels {
				jm.FaceChannels[name] = append([]float32(nil), ch...)
			}
		}
		jv.Mesh = jm
	default:
		return nil, fmt.Errorf("cannot marshal value of type %d", int(v.Type))
	}
	return json.Marshal(jv)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	switch jv.Type {
	case "scalar":
		var f float64
		if jv.Scalar != nil {
			f = *jv.Scalar
		}
		*v = Scalar(f)
	case "vector":
		var vec [3]float32
		if jv.Vector != nil {
			vec = *jv.Vector
		}
		*v = Vec3(vec[0], vec[1], vec[2])
	case "string", "enum":
		var s string
		if jv.Str != nil {
			s = *jv.Str
		}
		if jv.Type == "enum" {
			*v = Enum(s)
		} else {
			*v = String(s)
		}
	case "mesh":
		m := mesh.New()
		if jv.Mesh != nil {
			for i := 0; i+2 < len(jv.Mesh.Positions); i += 3 {
				m.AddVertex(math32.Vec3(jv.Mesh.Positions[i], jv.Mesh.Positions[i+1], jv.Mesh.Positions[i+2]))
			}
			for _, f := range jv.Mesh.Faces {
				if err := m.AddFace(f...); err != nil {
					return fmt.Errorf("mesh literal: %w", err)
				}
			}
			for name, flat := range jv.Mesh.VertexChannels {
				if len(flat) != 3*len(m.Positions) {
					return fmt.Errorf("mesh literal: vertex channel %q has %d components, want %d",
						name, len(flat), 3*len(m.Positions))
				}
				ch := m.VertexChannel(name)
				for i := range ch {
					ch[i] = math32.Vec3(flat[3*i], flat[3*i+1], flat[3*i+2])
				}
			}
			for name, vals := range jv.Mesh.FaceChannels {
				if len(vals) != len(m.Faces) {
					return fmt.Errorf("mesh literal: face channel %q has %d entries, want %d",
						name, len(vals), len(m.Faces))
				}
				copy(m.FaceChannel(name), vals)
			}
		}
		*v = Mesh(m)
	default:
		return fmt.Errorf("unknown value type %q", jv.Type)
	}
	return nil
}
