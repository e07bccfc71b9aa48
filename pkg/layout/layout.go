// Package layout turns an unpositioned diagram into a laid-out one.
//
// Nodes are assigned to levels (rows) by a breadth-first traversal from the
// graph's roots, then rows are packed horizontally around a fixed anchor.
// The traversal is a deliberate heuristic, not a longest-path layering: a
// node's level is fixed the first time it is dequeued, from the parents
// that have already settled at that moment. For general DAGs with
// converging paths of different lengths this can differ from a
// topologically consistent layering; the exact behavior is part of the
// observable contract and must not be "fixed".
//
// Given identical node and edge input order, the output is bit-identical
// on every call. All intermediate containers preserve insertion order.
package layout

import (
	"sort"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/geometry"
)

// Placement constants, in canvas units.
const (
	// StartX is the anchor every row is horizontally centered on.
	StartX = 100.0

	// StartY is the vertical position of level 0.
	StartY = 100.0

	// NodeSpacing is the horizontal gap between adjacent nodes in a row.
	NodeSpacing = 60.0

	// LevelSpacing is the vertical distance between consecutive levels.
	LevelSpacing = 180.0
)

// Apply computes positions for every node in doc and returns a new document
// with those positions assigned. Node and edge identities are unchanged;
// edges are untouched structurally. Existing positions are overwritten.
//
// An empty node list is a no-op: the input document is returned unchanged.
func Apply(doc *diagram.Document) *diagram.Document {
	if len(doc.Nodes) == 0 {
		return doc
	}

	levels, visitOrder := assignLevels(doc)

	// Group nodes by level, preserving breadth-first visit order within
	// each row.
	rows := make(map[int][]diagram.Node)
	for _, id := range visitOrder {
		n, _ := doc.Node(id)
		lvl := levels[id]
		rows[lvl] = append(rows[lvl], n)
	}

	lvls := make([]int, 0, len(rows))
	for lvl := range rows {
		lvls = append(lvls, lvl)
	}
	sort.Ints(lvls)

	positions := make(map[string]geometry.Position, len(doc.Nodes))
	for _, lvl := range lvls {
		row := rows[lvl]

		total := float64(len(row)-1) * NodeSpacing
		for _, n := range row {
			total += n.Dimensions.Width
		}

		x := StartX - total/2
		y := StartY + float64(lvl)*LevelSpacing
		for _, n := range row {
			positions[n.ID] = geometry.Position{X: x, Y: y}
			x += n.Dimensions.Width + NodeSpacing
		}
	}

	return doc.WithPositions(positions)
}

// assignLevels runs the breadth-first level assignment and returns the
// level of each node together with the order nodes were settled in.
func assignLevels(doc *diagram.Document) (map[string]int, []string) {
	known := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		known[n.ID] = true
	}

	parents := make(map[string][]string)
	children := make(map[string][]string)
	hasParent := make(map[string]bool)
	for _, e := range doc.Edges {
		// An endpoint that is not a document node would otherwise enter
		// the traversal as a phantom row entry and shift the centering
		// of real nodes.
		if !known[e.From] || !known[e.To] {
			continue
		}
		children[e.From] = append(children[e.From], e.To)
		parents[e.To] = append(parents[e.To], e.From)
		hasParent[e.To] = true
	}

	// Roots are nodes with no incoming edge. A fully cyclic graph has
	// none; fall back to the first node in input order.
	var queue []string
	isRoot := make(map[string]bool)
	for _, n := range doc.Nodes {
		if !hasParent[n.ID] {
			isRoot[n.ID] = true
			queue = append(queue, n.ID)
		}
	}
	if len(queue) == 0 {
		first := doc.Nodes[0].ID
		isRoot[first] = true
		queue = append(queue, first)
	}

	levels := make(map[string]int, len(doc.Nodes))
	visited := make(map[string]bool, len(doc.Nodes))
	var order []string

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}

		// Level from already-settled parents only; the node itself is
		// marked visited after, so a self-loop never counts.
		if !isRoot[id] {
			lvl := 0
			for _, p := range parents[id] {
				if visited[p] && levels[p]+1 > lvl {
					lvl = levels[p] + 1
				}
			}
			levels[id] = lvl
		}

		visited[id] = true
		order = append(order, id)

		for _, c := range children[id] {
			if !visited[c] {
				queue = append(queue, c)
			}
		}
	}

	// Nodes unreachable from any root (disconnected cycles alongside a
	// rooted component) settle at level 0 in input order.
	for _, n := range doc.Nodes {
		if !visited[n.ID] {
			visited[n.ID] = true
			order = append(order, n.ID)
		}
	}

	return levels, order
}
