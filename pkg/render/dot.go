package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
)

var dotShapes = map[string]string{
	diagram.NodeRectangle: "box",
	diagram.NodeEllipse:   "ellipse",
	diagram.NodeDiamond:   "diamond",
	diagram.NodeImage:     "box",
}

// ToDOT converts a document to Graphviz DOT format. Graphviz computes
// its own layout, so node positions are ignored; this is the export path
// for static renderings where an automatic layout is wanted. Freehand
// paths have no DOT equivalent and are skipped.
func ToDOT(doc *diagram.Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range doc.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", dotLabel(n)),
			fmt.Sprintf("shape=%s", dotShapes[n.Type]),
		}
		if n.Type == diagram.NodeImage {
			attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n diagram.Node) string {
	if n.Text != "" {
		return n.Text
	}
	if n.Type == diagram.NodeImage {
		return "[image]"
	}
	return n.ID
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.PNG)
}

func renderDOT(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
