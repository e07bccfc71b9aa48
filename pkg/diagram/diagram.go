// Package diagram defines the diagram document: nodes, edges, and freehand
// paths, together with the invariants that make a document valid for
// rendering.
//
// # Invariants
//
// Node ids are unique, edge ids are unique, and every edge's endpoints
// resolve to nodes in the same document. Any mutation that removes a node
// also removes every edge touching it (cascading delete), so a document
// never carries dangling edges.
//
// # Immutability
//
// A Document is never mutated in place once it has been handed to the
// history buffers. Every mutation helper returns a new Document value built
// by structural copy; callers commit the new value and drop the old one.
package diagram

import (
	"github.com/google/uuid"

	"github.com/matzehuels/sketchgraph/pkg/geometry"
)

// Node types.
const (
	NodeRectangle = "rectangle"
	NodeEllipse   = "ellipse"
	NodeDiamond   = "diamond"
	NodeImage     = "image"
)

// Default dimensions for nodes created without explicit sizing.
const (
	DefaultNodeWidth  = 180.0
	DefaultNodeHeight = 80.0
)

// MinPathPoints is the number of points a freehand path must exceed to be
// persisted. Shorter strokes are discarded as accidental clicks.
const MinPathPoints = 2

// Node is a placed shape or image with text and geometry.
type Node struct {
	ID         string              `json:"id" bson:"id"`
	Type       string              `json:"type" bson:"type"`
	Text       string              `json:"text" bson:"text"`
	Position   geometry.Position   `json:"position" bson:"position"`
	Dimensions geometry.Dimensions `json:"dimensions" bson:"dimensions"`
	ImageURL   string              `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
}

// Center returns the center point of the node's bounding box.
func (n Node) Center() geometry.Position {
	return geometry.Position{
		X: n.Position.X + n.Dimensions.Width/2,
		Y: n.Position.Y + n.Dimensions.Height/2,
	}
}

// Edge is a directed labeled connection between two node ids.
type Edge struct {
	ID    string `json:"id" bson:"id"`
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
}

// Path is a freehand ink stroke.
type Path struct {
	ID     string              `json:"id" bson:"id"`
	Points []geometry.Position `json:"points" bson:"points"`
	Color  string              `json:"color" bson:"color"`
	Width  float64             `json:"width" bson:"width"`
}

// Document is the complete diagram state. Nodes and edges are kept in
// insertion order; order is observable through the layout engine, which
// depends on it for determinism.
type Document struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
	Paths []Path `json:"paths,omitempty" bson:"paths,omitempty"`
}

// New creates an empty document.
func New() *Document {
	return &Document{}
}

// NewID returns a fresh opaque id for an interactively created node, edge,
// or path.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of d. The copy shares no slices with the
// original, so mutating one can never corrupt history entries holding the
// other.
func (d *Document) Clone() *Document {
	out := &Document{}
	if d.Nodes != nil {
		out.Nodes = make([]Node, len(d.Nodes))
		copy(out.Nodes, d.Nodes)
	}
	if d.Edges != nil {
		out.Edges = make([]Edge, len(d.Edges))
		copy(out.Edges, d.Edges)
	}
	if d.Paths != nil {
		out.Paths = make([]Path, len(d.Paths))
		for i, p := range d.Paths {
			pts := make([]geometry.Position, len(p.Points))
			copy(pts, p.Points)
			p.Points = pts
			out.Paths[i] = p
		}
	}
	return out
}

// Node returns the node with the given id, if present.
func (d *Document) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasNode reports whether a node with the given id exists.
func (d *Document) HasNode(id string) bool {
	_, ok := d.Node(id)
	return ok
}

// NodeAt returns the topmost node whose bounding box contains p.
// Later nodes draw on top, so iteration runs back to front.
func (d *Document) NodeAt(p geometry.Position) (Node, bool) {
	for i := len(d.Nodes) - 1; i >= 0; i-- {
		n := d.Nodes[i]
		if p.X >= n.Position.X && p.X <= n.Position.X+n.Dimensions.Width &&
			p.Y >= n.Position.Y && p.Y <= n.Position.Y+n.Dimensions.Height {
			return n, true
		}
	}
	return Node{}, false
}

// WithNode returns a copy of d with n appended, or replacing the existing
// node of the same id.
func (d *Document) WithNode(n Node) *Document {
	out := d.Clone()
	for i, existing := range out.Nodes {
		if existing.ID == n.ID {
			out.Nodes[i] = n
			return out
		}
	}
	out.Nodes = append(out.Nodes, n)
	return out
}

// WithNodeText returns a copy of d with the node's text replaced. If the id
// is unknown, the copy is unchanged.
func (d *Document) WithNodeText(id, text string) *Document {
	out := d.Clone()
	for i := range out.Nodes {
		if out.Nodes[i].ID == id {
			out.Nodes[i].Text = text
			break
		}
	}
	return out
}

// WithPositions returns a copy of d with the given node positions applied.
// Ids not present in the document are ignored.
func (d *Document) WithPositions(positions map[string]geometry.Position) *Document {
	out := d.Clone()
	for i := range out.Nodes {
		if p, ok := positions[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = p
		}
	}
	return out
}

// WithEdge returns a copy of d with e appended.
func (d *Document) WithEdge(e Edge) *Document {
	out := d.Clone()
	out.Edges = append(out.Edges, e)
	return out
}

// WithPath returns a copy of d with p appended.
func (d *Document) WithPath(p Path) *Document {
	out := d.Clone()
	out.Paths = append(out.Paths, p)
	return out
}

// WithoutNodes returns a copy of d with the listed nodes removed. Every
// edge touching a removed node is removed as well (cascading delete), so
// the result never carries dangling edges.
func (d *Document) WithoutNodes(ids map[string]struct{}) *Document {
	out := &Document{}
	for _, n := range d.Nodes {
		if _, gone := ids[n.ID]; !gone {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range d.Edges {
		_, fromGone := ids[e.From]
		_, toGone := ids[e.To]
		if !fromGone && !toGone {
			out.Edges = append(out.Edges, e)
		}
	}
	if d.Paths != nil {
		out.Paths = make([]Path, len(d.Paths))
		for i, p := range d.Paths {
			pts := make([]geometry.Position, len(p.Points))
			copy(pts, p.Points)
			p.Points = pts
			out.Paths[i] = p
		}
	}
	return out
}
