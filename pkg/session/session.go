// Package session ties one editor surface to one graph, one script
// library, and one engine. Sessions are independent: nothing is shared
// between two sessions unless the caller shares it deliberately.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chazu/burl/pkg/engine"
	"github.com/chazu/burl/pkg/graph"
	"github.com/chazu/burl/pkg/script"
)

// Update is delivered to subscribers after each evaluation request
// that is still current when it completes. Exactly one of Result and
// Err is set.
type Update struct {
	Generation uint64
	Result     *engine.Result
	Err        error
}

// Session is the explicit context object for one open document.
type Session struct {
	ID      uuid.UUID
	Graph   *graph.Graph
	Library *script.Library
	Engine  *engine.Engine

	logger zerolog.Logger

	mu         sync.Mutex
	generation uint64
	subs       []func(Update)
	wg         sync.WaitGroup

	// deliverMu serializes the staleness check with delivery, so a
	// superseded result can never surface after its successor.
	deliverMu sync.Mutex
}

// New creates a session with an empty graph.
func New(eng *engine.Engine, lib *script.Library, logger zerolog.Logger) *Session {
	id := uuid.New()
	return &Session{
		ID:      id,
		Graph:   graph.New(),
		Library: lib,
		Engine:  eng,
		logger:  logger.With().Str("session", id.String()).Logger(),
	}
}

// Subscribe registers a callback for evaluation updates. Callbacks run
// on the evaluation goroutine and must not block for long.
func (s *Session) Subscribe(fn func(Update)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// RequestEval starts an asynchronous evaluation of the graph's output
// node and returns its generation. The evaluation runs against a
// snapshot of the graph taken before RequestEval returns, so edits made
// while it is in flight do not affect it. If a newer request is made
// before this one finishes, this one's outcome is discarded and
// subscribers never see it.
func (s *Session) RequestEval(ctx context.Context) uint64 {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	snapshot := s.Graph.Clone()
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		res, err := s.Engine.Evaluate(ctx, snapshot, snapshot.Output())
		s.deliver(gen, res, err)
	}()

	return gen
}

// deliver surfaces one evaluation outcome unless a newer request was
// made in the meantime. Callbacks run here, on the evaluation
// goroutine, one delivery at a time.
func (s *Session) deliver(gen uint64, res *engine.Result, err error) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	current := s.generation
	subs := make([]func(Update), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if gen != current {
		s.logger.Debug().
			Uint64("generation", gen).
			Uint64("current", current).
			Msg("Discarding superseded evaluation")
		return
	}
	if err != nil {
		s.logger.Warn().Err(err).Uint64("generation", gen).Msg("Evaluation failed")
	}

	u := Update{Generation: gen, Result: res, Err: err}
	for _, fn := range subs {
		fn(u)
	}
}

// Wait blocks until all in-flight evaluations have finished. Discarded
// generations count as finished.
func (s *Session) Wait() {
	s.wg.Wait()
}
