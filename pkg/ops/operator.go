// Package ops implements the native operator library: pure, deterministic
// functions from typed inputs to typed outputs, registered under stable
// names. The evaluation engine dispatches to operators by name; scripted
// nodes live in pkg/script and share the same slot schema.
package ops

import (
	"fmt"

	"cogentcore.org/core/math32"

	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/param"
)

// Inputs holds resolved input values keyed by slot name. The engine
// guarantees every declared slot is present with its declared type.
type Inputs map[string]param.Value

// Outputs holds produced output values keyed by slot name. An operator
// must populate every declared output slot or fail.
type Outputs map[string]param.Value

// EvalFunc is a pure operator body. Identical inputs must produce
// bit-for-bit identical outputs; any randomness must come from an
// explicit seed input.
type EvalFunc func(in Inputs) (Outputs, error)

// Operator declares one native node kind.
type Operator struct {
	Name    string
	Version int // bumped on behavior changes so cached results refresh
	Inputs  []param.Slot
	Outputs []param.Slot
	Eval    EvalFunc
}

// Scalar reads a scalar input, failing on engine-level schema drift.
func (in Inputs) Scalar(name string) (float64, error) {
	v, ok := in[name]
	if !ok || v.Type != param.TypeScalar {
		return 0, fmt.Errorf("input %q: missing or not a scalar", name)
	}
	return v.Scalar, nil
}

// Vector reads a vector input.
func (in Inputs) Vector(name string) (math32.Vector3, error) {
	v, ok := in[name]
	if !ok || v.Type != param.TypeVector {
		return math32.Vector3{}, fmt.Errorf("input %q: missing or not a vector", name)
	}
	return v.Vector, nil
}

// Str reads a string or enum input.
func (in Inputs) Str(name string) (string, error) {
	v, ok := in[name]
	if !ok || (v.Type != param.TypeString && v.Type != param.TypeEnum) {
		return "", fmt.Errorf("input %q: missing or not a string", name)
	}
	return v.Str, nil
}

// Mesh reads a mesh input. A nil handle resolves to the empty mesh.
func (in Inputs) Mesh(name string) (*mesh.Mesh, error) {
	v, ok := in[name]
	if !ok || v.Type != param.TypeMesh {
		return nil, fmt.Errorf("input %q: missing or not a mesh", name)
	}
	if v.Mesh == nil {
		return mesh.New(), nil
	}
	return v.Mesh, nil
}

// Registry is the catalog of native operators, ordered by registration.
type Registry struct {
	byName map[string]*Operator
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Operator)}
}

// Register adds an operator. Duplicate names are rejected.
func (r *Registry) Register(op *Operator) error {
	if op.Name == "" {
		return fmt.Errorf("operator name is required")
	}
	if _, exists := r.byName[op.Name]; exists {
		return fmt.Errorf("operator %q already registered", op.Name)
	}
	if op.Eval == nil {
		return fmt.Errorf("operator %q has no eval function", op.Name)
	}
	r.byName[op.Name] = op
	r.order = append(r.order, op.Name)
	return nil
}

// Lookup returns the named operator.
func (r *Registry) Lookup(name string) (*Operator, bool) {
	op, ok := r.byName[name]
	return op, ok
}

// Names returns operator names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// mustRegister is used for the builtin catalog, where duplicates are bugs.
func (r *Registry) mustRegister(op *Operator) {
	if err := r.Register(op); err != nil {
		panic("ops: " + err.Error())
	}
}
