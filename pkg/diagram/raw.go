package diagram

import (
	"fmt"

	"github.com/matzehuels/sketchgraph/pkg/geometry"
)

// RawGraph is the loosely-shaped graph produced by the generation
// collaborator. Most fields are optional; ToDocument fills the gaps with
// deterministic fallbacks so downstream code only ever sees a complete
// document.
type RawGraph struct {
	Nodes []RawNode `json:"nodes"`
	Edges []RawEdge `json:"edges"`
}

// RawNode is a generated node before defaults are applied.
type RawNode struct {
	ID         string               `json:"id,omitempty"`
	Type       string               `json:"type,omitempty"`
	Text       string               `json:"text"`
	Dimensions *geometry.Dimensions `json:"dimensions,omitempty"`
	Position   *geometry.Position   `json:"position,omitempty"`
}

// RawEdge is a generated edge before defaults are applied.
type RawEdge struct {
	ID    string `json:"id,omitempty"`
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// ToDocument converts a raw generated graph to a document, applying
// fallbacks for every omitted field:
//   - id: positional ("node-<index>", "edge-<index>")
//   - type: rectangle
//   - dimensions: DefaultNodeWidth × DefaultNodeHeight
//   - position: origin, meant to be overwritten by the layout engine
//
// Raw nodes that named an id keep it; positional fallbacks are indexed by
// the node's place in the input sequence, so conversion is deterministic.
//
// Edges whose from or to does not name a converted node are dropped. The
// model is asked to only reference declared nodes, but the response is
// untrusted; a dangling edge would fail Validate and poison every later
// save, export, and upload of the document.
func (g RawGraph) ToDocument() *Document {
	doc := &Document{}

	for i, rn := range g.Nodes {
		n := Node{
			ID:   rn.ID,
			Type: rn.Type,
			Text: rn.Text,
			Dimensions: geometry.Dimensions{
				Width:  DefaultNodeWidth,
				Height: DefaultNodeHeight,
			},
		}
		if n.ID == "" {
			n.ID = fmt.Sprintf("node-%d", i)
		}
		if n.Type == "" {
			n.Type = NodeRectangle
		}
		if rn.Dimensions != nil {
			n.Dimensions = *rn.Dimensions
		}
		if rn.Position != nil {
			n.Position = *rn.Position
		}
		doc.Nodes = append(doc.Nodes, n)
	}

	ids := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		ids[n.ID] = true
	}

	for i, re := range g.Edges {
		if !ids[re.From] || !ids[re.To] {
			continue
		}
		e := Edge{
			ID:    re.ID,
			From:  re.From,
			To:    re.To,
			Label: re.Label,
		}
		if e.ID == "" {
			e.ID = fmt.Sprintf("edge-%d", i)
		}
		doc.Edges = append(doc.Edges, e)
	}

	return doc
}
