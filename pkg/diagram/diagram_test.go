package diagram

import (
	"testing"

	"github.com/matzehuels/sketchgraph/pkg/geometry"
)

func rect(id string, x, y float64) Node {
	return Node{
		ID:         id,
		Type:       NodeRectangle,
		Text:       id,
		Position:   geometry.Position{X: x, Y: y},
		Dimensions: geometry.Dimensions{Width: 180, Height: 80},
	}
}

func TestCloneIndependence(t *testing.T) {
	doc := New().
		WithNode(rect("a", 100, 100)).
		WithPath(Path{ID: "p1", Points: []geometry.Position{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}, Color: "#000", Width: 2})

	clone := doc.Clone()
	clone.Nodes[0].Text = "changed"
	clone.Paths[0].Points[0] = geometry.Position{X: 99, Y: 99}

	if doc.Nodes[0].Text != "a" {
		t.Errorf("original node text mutated through clone: %q", doc.Nodes[0].Text)
	}
	if doc.Paths[0].Points[0].X != 0 {
		t.Errorf("original path points mutated through clone: %+v", doc.Paths[0].Points[0])
	}
}

func TestWithNodeReplacesById(t *testing.T) {
	doc := New().WithNode(rect("a", 100, 100))
	doc = doc.WithNode(rect("a", 200, 200))

	if len(doc.Nodes) != 1 {
		t.Fatalf("nodes = %d, want 1", len(doc.Nodes))
	}
	if doc.Nodes[0].Position.X != 200 {
		t.Errorf("node position = %v, want 200", doc.Nodes[0].Position.X)
	}
}

func TestWithoutNodesCascadesEdges(t *testing.T) {
	doc := New().
		WithNode(rect("a", 0, 0)).
		WithNode(rect("b", 300, 0)).
		WithNode(rect("c", 600, 0))
	doc = doc.WithEdge(Edge{ID: "e1", From: "a", To: "b"})
	doc = doc.WithEdge(Edge{ID: "e2", From: "b", To: "c"})
	doc = doc.WithEdge(Edge{ID: "e3", From: "a", To: "c"})

	got := doc.WithoutNodes(map[string]struct{}{"b": {}})

	if len(got.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(got.Nodes))
	}
	if len(got.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(got.Edges))
	}
	if got.Edges[0].ID != "e3" {
		t.Errorf("surviving edge = %q, want e3", got.Edges[0].ID)
	}
	// Original untouched.
	if len(doc.Nodes) != 3 || len(doc.Edges) != 3 {
		t.Errorf("original document mutated: %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
	}
}

func TestNodeAtTopmost(t *testing.T) {
	doc := New().
		WithNode(rect("under", 100, 100)).
		WithNode(rect("over", 150, 120))

	n, ok := doc.NodeAt(geometry.Position{X: 200, Y: 150})
	if !ok {
		t.Fatal("expected a hit")
	}
	if n.ID != "over" {
		t.Errorf("hit = %q, want over (later nodes draw on top)", n.ID)
	}

	if _, ok := doc.NodeAt(geometry.Position{X: 2000, Y: 2000}); ok {
		t.Error("expected a miss on empty canvas")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Document
		wantErr bool
	}{
		{
			name:  "Empty",
			build: New,
		},
		{
			name: "Valid",
			build: func() *Document {
				d := New().WithNode(rect("a", 0, 0)).WithNode(rect("b", 0, 200))
				return d.WithEdge(Edge{ID: "e1", From: "a", To: "b"})
			},
		},
		{
			name: "DuplicateNodeID",
			build: func() *Document {
				d := New()
				d.Nodes = append(d.Nodes, rect("a", 0, 0), rect("a", 10, 10))
				return d
			},
			wantErr: true,
		},
		{
			name: "DanglingEdge",
			build: func() *Document {
				d := New().WithNode(rect("a", 0, 0))
				return d.WithEdge(Edge{ID: "e1", From: "a", To: "ghost"})
			},
			wantErr: true,
		},
		{
			name: "ImageNodeWithoutURL",
			build: func() *Document {
				n := rect("img", 0, 0)
				n.Type = NodeImage
				return New().WithNode(n)
			},
			wantErr: true,
		},
		{
			name: "ShortPath",
			build: func() *Document {
				return New().WithPath(Path{ID: "p", Points: []geometry.Position{{X: 0, Y: 0}}, Width: 2})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRawGraphDefaults(t *testing.T) {
	raw := RawGraph{
		Nodes: []RawNode{
			{Text: "Start"},
			{ID: "custom", Type: NodeDiamond, Text: "Decide", Dimensions: &geometry.Dimensions{Width: 120, Height: 120}},
		},
		Edges: []RawEdge{
			{From: "node-0", To: "custom", Label: "then"},
		},
	}

	doc := raw.ToDocument()

	if doc.Nodes[0].ID != "node-0" {
		t.Errorf("fallback id = %q, want node-0", doc.Nodes[0].ID)
	}
	if doc.Nodes[0].Type != NodeRectangle {
		t.Errorf("fallback type = %q, want rectangle", doc.Nodes[0].Type)
	}
	if doc.Nodes[0].Dimensions != (geometry.Dimensions{Width: DefaultNodeWidth, Height: DefaultNodeHeight}) {
		t.Errorf("fallback dimensions = %+v", doc.Nodes[0].Dimensions)
	}
	if doc.Nodes[0].Position != (geometry.Position{}) {
		t.Errorf("fallback position = %+v, want origin", doc.Nodes[0].Position)
	}

	if doc.Nodes[1].ID != "custom" || doc.Nodes[1].Type != NodeDiamond {
		t.Errorf("explicit fields overridden: %+v", doc.Nodes[1])
	}
	if doc.Nodes[1].Dimensions.Width != 120 {
		t.Errorf("explicit dimensions overridden: %+v", doc.Nodes[1].Dimensions)
	}

	if doc.Edges[0].ID != "edge-0" {
		t.Errorf("fallback edge id = %q, want edge-0", doc.Edges[0].ID)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("converted document invalid: %v", err)
	}
}

func TestRawGraphDropsUnresolvedEdges(t *testing.T) {
	raw := RawGraph{
		Nodes: []RawNode{{Text: "a"}, {Text: "b"}},
		Edges: []RawEdge{
			{From: "node-0", To: "ghost"},
			{From: "node-0", To: "node-1", Label: "kept"},
			{From: "", To: "node-1"},
		},
	}

	doc := raw.ToDocument()

	if len(doc.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(doc.Edges))
	}
	if doc.Edges[0].Label != "kept" {
		t.Errorf("surviving edge = %+v", doc.Edges[0])
	}
	// Positional ids still count input edges, dropped ones included.
	if doc.Edges[0].ID != "edge-1" {
		t.Errorf("surviving edge id = %q, want edge-1", doc.Edges[0].ID)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("converted document invalid: %v", err)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("empty id")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
