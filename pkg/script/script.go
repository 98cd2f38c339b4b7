// Package script hosts user-defined node operators written in zygomys
// Lisp. A Definition pairs source code with its declared input and
// output slots; the Bridge runs a definition in a fresh sandbox per
// invocation so scripts cannot observe each other or the host.
package script

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"

	"github.com/chazu/burl/pkg/param"
)

// ScriptError reports a failure inside a scripted operator: a parse
// error, a runtime error, a timeout, or a bad output contract.
type ScriptError struct {
	Script  string
	Message string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %q: %s", e.Script, e.Message)
}

func scriptErr(name, format string, args ...any) *ScriptError {
	return &ScriptError{Script: name, Message: fmt.Sprintf(format, args...)}
}

// Definition is a scripted operator: named source plus the slot
// contract it exposes to the graph. SourceHash feeds node fingerprints,
// so editing a script invalidates exactly the nodes that use it.
type Definition struct {
	Name       string
	Source     string
	SourceHash [sha256.Size]byte
	Inputs     []param.Slot
	Outputs    []param.Slot
}

// NewDefinition hashes source and returns the definition.
func NewDefinition(name, source string, inputs, outputs []param.Slot) *Definition {
	return &Definition{
		Name:       name,
		Source:     source,
		SourceHash: sha256.Sum256([]byte(source)),
		Inputs:     inputs,
		Outputs:    outputs,
	}
}

// Library is the set of registered script definitions. Safe for
// concurrent use; lookups return the current definition snapshot.
type Library struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

func NewLibrary() *Library {
	return &Library{defs: make(map[string]*Definition)}
}

// Register adds a definition. Names are unique.
func (l *Library) Register(def *Definition) error {
	if def.Name == "" {
		return fmt.Errorf("script name is required")
	}
	if len(def.Outputs) == 0 {
		return fmt.Errorf("script %q declares no outputs", def.Name)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.defs[def.Name]; ok {
		return fmt.Errorf("script %q already registered", def.Name)
	}
	l.defs[def.Name] = def
	return nil
}

// Reload replaces the source of an existing definition. The slot
// contract is kept; only Source and SourceHash change, which is what
// downstream fingerprints key on.
func (l *Library) Reload(name, source string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	old, ok := l.defs[name]
	if !ok {
		return fmt.Errorf("script %q is not registered", name)
	}
	l.defs[name] = &Definition{
		Name:       old.Name,
		Source:     source,
		SourceHash: sha256.Sum256([]byte(source)),
		Inputs:     old.Inputs,
		Outputs:    old.Outputs,
	}
	return nil
}

// Lookup returns the named definition.
func (l *Library) Lookup(name string) (*Definition, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	def, ok := l.defs[name]
	return def, ok
}

// Names returns registered script names, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.defs))
	for name := range l.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
