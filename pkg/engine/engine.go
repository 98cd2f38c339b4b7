// Package engine evaluates node graphs. Every node gets a fingerprint
// covering its operator identity and everything feeding it; results are
// memoized by fingerprint, so re-evaluating an unchanged graph invokes
// nothing and editing one parameter re-invokes only the nodes whose
// fingerprints actually changed.
package engine

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/chazu/burl/pkg/graph"
	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/ops"
	"github.com/chazu/burl/pkg/param"
	"github.com/chazu/burl/pkg/script"
)

const (
	// DefaultCacheSize is the memoization capacity in node results.
	DefaultCacheSize = 512

	// DefaultWorkers is the evaluation worker count. 1 means serial.
	DefaultWorkers = 4
)

// Options configures an Engine. Zero values pick the package defaults.
type Options struct {
	CacheSize int
	Workers   int
}

// EvalStats counts what one evaluation actually did.
type EvalStats struct {
	Invoked   int // operators run
	CacheHits int // results reused by fingerprint
}

// NodeError reports the node whose operator failed. Downstream nodes
// are not evaluated and no result is produced.
type NodeError struct {
	Node graph.NodeID
	Op   string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %d (%s): %v", e.Node, e.Op, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// Result is a completed evaluation of a target node.
type Result struct {
	Target  graph.NodeID
	Outputs map[string]param.Value

	// Mesh is the first mesh-typed output of the target, if any. The
	// render surface reads this and must treat it as immutable.
	Mesh *mesh.Mesh

	Fingerprints map[graph.NodeID]Fingerprint
	Stats        EvalStats
}

// Engine evaluates graphs against an operator registry and a script
// library. Safe for concurrent use.
type Engine struct {
	registry *ops.Registry
	library  *script.Library
	bridge   *script.Bridge
	cache    *lru.Cache[Fingerprint, map[string]param.Value]
	logger   zerolog.Logger
	workers  int
}

// New creates an engine. registry is required; library may be empty if
// the graphs contain no scripted nodes.
func New(registry *ops.Registry, library *script.Library, opts Options, logger zerolog.Logger) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("nil registry")
	}
	if library == nil {
		library = script.NewLibrary()
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	cache, err := lru.New[Fingerprint, map[string]param.Value](size)
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}
	return &Engine{
		registry: registry,
		library:  library,
		bridge:   script.NewBridge(),
		cache:    cache,
		logger:   logger,
		workers:  workers,
	}, nil
}

// PurgeCache drops all memoized results. Never required for
// correctness; fingerprints already isolate stale entries.
func (e *Engine) PurgeCache() {
	e.cache.Purge()
}

// Evaluate runs target and its transitive dependencies. Failures come
// back as *NodeError naming the first failing node; in that case no
// result is produced.
func (e *Engine) Evaluate(ctx context.Context, g *graph.Graph, target graph.NodeID) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	order, err := g.TopoOrder(target)
	if err != nil {
		return nil, err
	}

	// Fingerprints are cheap; compute them all up front in topo order.
	fper := newFingerprinter(e.registry, e.library)
	fps := make(map[graph.NodeID]Fingerprint, len(order))
	for _, id := range order {
		fp, err := fper.node(g.Node(id))
		if err != nil {
			return nil, err
		}
		fps[id] = fp
	}

	run := &evalRun{
		engine:  e,
		graph:   g,
		fps:     fps,
		results: make(map[graph.NodeID]map[string]param.Value, len(order)),
	}

	if e.workers <= 1 {
		err = run.serial(ctx, order)
	} else {
		err = run.parallel(ctx, order, e.workers)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Target:       target,
		Outputs:      run.results[target],
		Fingerprints: fps,
		Stats:        run.stats,
	}
	for _, slot := range g.Node(target).Outputs {
		if slot.Type == param.TypeMesh {
			res.Mesh = res.Outputs[slot.Name].Mesh
			break
		}
	}

	e.logger.Debug().
		Uint64("target", uint64(target)).
		Int("nodes", len(order)).
		Int("invoked", run.stats.Invoked).
		Int("cache_hits", run.stats.CacheHits).
		Msg("Evaluation complete")

	return res, nil
}

// evalRun is the per-evaluation state: resolved results keyed by node
// and the counters for this run.
type evalRun struct {
	engine  *Engine
	graph   *graph.Graph
	fps     map[graph.NodeID]Fingerprint
	results map[graph.NodeID]map[string]param.Value
	stats   EvalStats
}

// probe checks the memoization cache for a node. Returns true when the
// node's outputs were reused.
func (r *evalRun) probe(id graph.NodeID) bool {
	if out, ok := r.engine.cache.Get(r.fps[id]); ok {
		r.results[id] = out
		r.stats.CacheHits++
		return true
	}
	return false
}

// resolveInputs assembles the full input map for a node from literals
// and upstream results, coercing to declared slot types.
func (r *evalRun) resolveInputs(n *graph.Node) (map[string]param.Value, error) {
	in := make(map[string]param.Value, len(n.Inputs))
	for _, slot := range n.Inputs {
		var v param.Value
		if slot.Conn != nil {
			up, ok := r.results[slot.Conn.From]
			if !ok {
				return nil, fmt.Errorf("input %q: upstream node %d has no result", slot.Slot.Name, slot.Conn.From)
			}
			uv, ok := up[slot.Conn.Output]
			if !ok {
				return nil, fmt.Errorf("input %q: upstream node %d has no output %q",
					slot.Slot.Name, slot.Conn.From, slot.Conn.Output)
			}
			v = uv
		} else {
			v = slot.Literal
		}
		coerced, err := v.Coerce(slot.Slot.Type)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", slot.Slot.Name, err)
		}
		in[slot.Slot.Name] = coerced
	}
	return in, nil
}

// invoke dispatches a node to its operator and returns the committed
// outputs. Outputs are all-or-nothing: a missing declared output fails
// the node.
func (r *evalRun) invoke(n *graph.Node, in map[string]param.Value) (map[string]param.Value, error) {
	switch n.Op.Kind {
	case graph.OpNative:
		op, ok := r.engine.registry.Lookup(n.Op.Name)
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", n.Op.Name)
		}
		out, err := op.Eval(ops.Inputs(in))
		if err != nil {
			return nil, err
		}
		for _, slot := range op.Outputs {
			if _, ok := out[slot.Name]; !ok {
				return nil, fmt.Errorf("operator %q did not produce output %q", op.Name, slot.Name)
			}
		}
		return out, nil

	case graph.OpScripted:
		def, ok := r.engine.library.Lookup(n.Op.Name)
		if !ok {
			return nil, fmt.Errorf("unknown script %q", n.Op.Name)
		}
		return r.engine.bridge.Invoke(def, in)
	}
	return nil, fmt.Errorf("unknown operator kind %v", n.Op.Kind)
}

// serial evaluates nodes in topological order on the calling goroutine.
func (r *evalRun) serial(ctx context.Context, order []graph.NodeID) error {
	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("evaluation cancelled: %w", err)
		}
		if r.probe(id) {
			continue
		}
		n := r.graph.Node(id)
		in, err := r.resolveInputs(n)
		if err != nil {
			return &NodeError{Node: id, Op: n.Op.Name, Err: err}
		}
		out, err := r.invoke(n, in)
		if err != nil {
			return &NodeError{Node: id, Op: n.Op.Name, Err: err}
		}
		r.stats.Invoked++
		r.engine.cache.Add(r.fps[id], out)
		r.results[id] = out
	}
	return nil
}

type workItem struct {
	id graph.NodeID
	n  *graph.Node
	in map[string]param.Value
}

type workDone struct {
	id  graph.NodeID
	out map[string]param.Value
	err error
}

// parallel evaluates nodes with a ready-set scheduler: a node is
// dispatched once every node feeding it has a result. Dispatch order
// within the ready set follows topological position, so runs are
// reproducible apart from interleaving.
func (r *evalRun) parallel(ctx context.Context, order []graph.NodeID, workers int) error {
	pos := make(map[graph.NodeID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	// Distinct upstream counts and reverse edges within this run.
	waiting := make(map[graph.NodeID]int, len(order))
	dependents := make(map[graph.NodeID][]graph.NodeID, len(order))
	for _, id := range order {
		seen := make(map[graph.NodeID]bool)
		for _, in := range r.graph.Node(id).Inputs {
			if in.Conn == nil || seen[in.Conn.From] {
				continue
			}
			seen[in.Conn.From] = true
			waiting[id]++
			dependents[in.Conn.From] = append(dependents[in.Conn.From], id)
		}
	}

	ready := make([]graph.NodeID, 0, len(order))
	for _, id := range order {
		if waiting[id] == 0 {
			ready = append(ready, id)
		}
	}

	workCh := make(chan workItem, workers)
	doneCh := make(chan workDone, workers)

	var wg sync.WaitGroup
	var stopOnce sync.Once
	stopWorkers := func() {
		stopOnce.Do(func() {
			close(workCh)
			wg.Wait()
		})
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				out, err := r.invoke(w.n, w.in)
				doneCh <- workDone{id: w.id, out: out, err: err}
			}
		}()
	}

	remaining := len(order)
	inFlight := 0

	// finish marks a node resolved and promotes dependents whose last
	// upstream this was.
	finish := func(id graph.NodeID) {
		remaining--
		for _, dep := range dependents[id] {
			waiting[dep]--
			if waiting[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	for remaining > 0 {
		// Dispatch everything ready, cache hits resolved inline.
		for inFlight < workers && len(ready) > 0 {
			next, at := ready[0], 0
			for i, id := range ready[1:] {
				if pos[id] < pos[next] {
					next, at = id, i+1
				}
			}
			ready = append(ready[:at], ready[at+1:]...)

			if r.probe(next) {
				finish(next)
				continue
			}
			n := r.graph.Node(next)
			in, err := r.resolveInputs(n)
			if err != nil {
				stopWorkers()
				return &NodeError{Node: next, Op: n.Op.Name, Err: err}
			}
			inFlight++
			workCh <- workItem{id: next, n: n, in: in}
		}

		if inFlight == 0 {
			if len(ready) == 0 && remaining > 0 {
				stopWorkers()
				return fmt.Errorf("no ready nodes but %d not evaluated", remaining)
			}
			continue
		}

		select {
		case <-ctx.Done():
			stopWorkers()
			return fmt.Errorf("evaluation cancelled: %w", ctx.Err())
		case d := <-doneCh:
			inFlight--
			if d.err != nil {
				stopWorkers()
				n := r.graph.Node(d.id)
				return &NodeError{Node: d.id, Op: n.Op.Name, Err: d.err}
			}
			r.stats.Invoked++
			r.engine.cache.Add(r.fps[d.id], d.out)
			r.results[d.id] = d.out
			finish(d.id)
		}
	}

	stopWorkers()
	return nil
}
