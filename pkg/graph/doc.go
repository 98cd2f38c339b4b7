// Package graph defines the Burl node graph: an arena of operator nodes
// addressed by stable handles, typed input/output slots, and directed
// edges kept acyclic at edit time. The graph never evaluates anything
// itself; it exposes the topological ordering the evaluation engine needs.
package graph
