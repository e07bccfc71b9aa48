package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/docio"
	"github.com/matzehuels/sketchgraph/pkg/render"
	"github.com/matzehuels/sketchgraph/pkg/store"
)

// Output formats for the render command.
const (
	formatSVG = "svg"
	formatPNG = "png"
	formatDOT = "dot"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format string
		output string
		docID  string
		input  string
		auto   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the diagram to SVG, PNG, or DOT",
		Long: `Render the diagram to SVG, PNG, or DOT.

By default the stored working document is rendered at its drawn
positions. With --auto the node positions are discarded and Graphviz
computes a fresh layout, which also enables PNG and DOT output.

Use --input to render a JSON file instead of the stored document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, format, output, docID, input, auto)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg, png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default diagram.<format>)")
	cmd.Flags().StringVar(&docID, "doc", store.DefaultDocumentID, "document id to render")
	cmd.Flags().StringVarP(&input, "input", "i", "", "render a JSON file instead of the store")
	cmd.Flags().BoolVar(&auto, "auto", false, "let Graphviz lay out the graph")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, format, output, docID, input string, auto bool) error {
	format = strings.ToLower(format)
	switch format {
	case formatSVG, formatPNG, formatDOT:
	default:
		return fmt.Errorf("unknown format %q (want svg, png, or dot)", format)
	}
	if !auto && format != formatSVG {
		return fmt.Errorf("format %q requires --auto", format)
	}

	doc, err := c.resolveDocument(cmd, docID, input)
	if err != nil {
		return err
	}
	if len(doc.Nodes) == 0 && len(doc.Paths) == 0 {
		printWarning("Document is empty, nothing to render")
		return nil
	}

	var data []byte
	switch {
	case format == formatDOT:
		data = []byte(render.ToDOT(doc))
	case auto && format == formatSVG:
		data, err = render.RenderSVG(render.ToDOT(doc))
	case auto && format == formatPNG:
		data, err = render.RenderPNG(render.ToDOT(doc))
	default:
		data = []byte(renderPlaced(doc))
	}
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if output == "" {
		output = "diagram." + format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered diagram")
	printFile(output)
	printStats(len(doc.Nodes), len(doc.Edges), len(doc.Paths))
	return nil
}

// renderPlaced draws the document at its stored positions, cropped to the
// drawn content with a margin.
func renderPlaced(doc *diagram.Document) string {
	minX, minY, maxX, maxY := contentBounds(doc)
	const margin = 40.0

	r := render.New()
	return r.Frame(render.Frame{
		Document: doc,
		Width:    maxX - minX + 2*margin,
		Height:   maxY - minY + 2*margin,
		Scale:    1,
		OffsetX:  margin - minX,
		OffsetY:  margin - minY,
	})
}

func contentBounds(doc *diagram.Document) (minX, minY, maxX, maxY float64) {
	first := true
	consider := func(x, y float64) {
		if first {
			minX, minY, maxX, maxY = x, y, x, y
			first = false
			return
		}
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}

	for _, n := range doc.Nodes {
		consider(n.Position.X, n.Position.Y)
		consider(n.Position.X+n.Dimensions.Width, n.Position.Y+n.Dimensions.Height)
	}
	for _, p := range doc.Paths {
		for _, pt := range p.Points {
			consider(pt.X, pt.Y)
		}
	}
	return
}

// resolveDocument loads the document named by --input or --doc.
func (c *CLI) resolveDocument(cmd *cobra.Command, docID, input string) (*diagram.Document, error) {
	if input != "" {
		return docio.ImportJSON(input)
	}

	ctx := cmd.Context()
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close(ctx)

	doc, err := st.Load(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return diagram.New(), nil
	}
	return doc, nil
}
