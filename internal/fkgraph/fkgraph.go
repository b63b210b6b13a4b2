// Package fkgraph builds a directed graph of the foreign_key references
// declared between a database's tables and answers "who depends on this
// table" queries for the status reports (objdb status and the MCP
// objdb_status tool). delete_table's cascade warning does not use it;
// objdb.Database computes that list itself. The
// original's CellDef.foreign_key is parsed metadata with no behavior
// attached (spec.md §4.1, §9); referential-integrity enforcement stays a
// non-goal, this is read-only reporting. Grounded on the teacher's
// internal/graph package, which builds a directed symbol-reference graph
// with the same dominikbraun/graph library.
package fkgraph

import (
	"fmt"

	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/dominikbraun/graph"
)

// Graph is a directed graph with one vertex per table and one edge per
// declared foreign key, pointing from the referencing table to the table it
// references.
type Graph struct {
	g graph.Graph[string, string]
}

// Build constructs the reference graph for every table currently in db.
func Build(db *objdb.Database) (*Graph, error) {
	g := graph.New(graph.StringHash, graph.Directed())
	for name := range db.Tables {
		if err := g.AddVertex(name); err != nil {
			return nil, fmt.Errorf("objdb: fkgraph: adding vertex %q: %w", name, err)
		}
	}
	for name, table := range db.Tables {
		for _, fk := range table.ForeignKeys() {
			target := fk.ForeignKey.Table
			if _, err := g.Vertex(target); err != nil {
				// References a table that doesn't exist (yet, or anymore) —
				// the original never validates foreign_key targets, so this
				// is silently skipped rather than treated as an error.
				continue
			}
			if err := g.AddEdge(name, target); err != nil && err != graph.ErrEdgeAlreadyExists {
				return nil, fmt.Errorf("objdb: fkgraph: adding edge %q->%q: %w", name, target, err)
			}
		}
	}
	return &Graph{g: g}, nil
}

// Dependents returns every table with a foreign key pointing at target, in
// no particular order (it is read out of a map), for the status reports'
// dependents column.
func (fg *Graph) Dependents(target string) ([]string, error) {
	preds, err := graph.PredecessorMap(fg.g)
	if err != nil {
		return nil, fmt.Errorf("objdb: fkgraph: computing predecessors: %w", err)
	}
	edges, ok := preds[target]
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(edges))
	for source := range edges {
		out = append(out, source)
	}
	return out, nil
}
