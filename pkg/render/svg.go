package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/geometry"
)

// Drawing colors.
const (
	colorBackground = "#ffffff"
	colorGrid       = "#e5e7eb"
	colorNodeFill   = "#ffffff"
	colorNodeStroke = "#111827"
	colorEdge       = "#374151"
	colorSelection  = "#2563eb"
	colorBand       = "#2563eb"
	colorText       = "#111827"
)

const (
	baseFontSize   = 13.0
	approxCharW    = 7.2 // average glyph width at baseFontSize
	lineHeight     = 16.0
	selectionPad   = 4.0
	edgeLabelPad   = 4.0
	arrowMarkerID  = "arrowhead"
	imagePlacehold = "#f3f4f6"

	// liveStrokeWidth matches the width committed paths are stored with.
	liveStrokeWidth = 2.0
)

// Rect is a rectangle in canvas coordinates.
type Rect struct {
	Position   geometry.Position
	Dimensions geometry.Dimensions
}

// Frame bundles everything one redraw needs: the document, the view
// transform, and the editor's transient state. All coordinates except
// Width and Height are canvas coordinates.
type Frame struct {
	Document *diagram.Document

	// Viewport size in screen pixels.
	Width  float64
	Height float64

	// View transform: screen = canvas*Scale + Offset.
	Scale   float64
	OffsetX float64
	OffsetY float64

	// Selected node ids, drawn with a highlight outline.
	Selection map[string]struct{}

	// Preview overrides node positions during a drag. The document is
	// never modified for previews.
	Preview map[string]geometry.Position

	// Band is the rubber-band selection rectangle, if one is active.
	Band *Rect

	// DrawRect is the shape outline being dragged out, with DrawShape
	// naming the node type it will become.
	DrawRect  *Rect
	DrawShape string

	// Stroke is the in-progress freehand stroke.
	Stroke   []geometry.Position
	PenColor string

	ShowGrid bool
}

func (f Frame) toScreen(p geometry.Position) (float64, float64) {
	return p.X*f.Scale + f.OffsetX, p.Y*f.Scale + f.OffsetY
}

// Renderer draws frames as SVG. A zero-value Renderer works; attach an
// [ImageCache] to resolve image node URLs.
type Renderer struct {
	Images *ImageCache
}

// New returns a Renderer without an image cache.
func New() *Renderer {
	return &Renderer{}
}

// Frame renders one frame as an SVG document.
func (r *Renderer) Frame(f Frame) string {
	if f.Scale == 0 {
		f.Scale = 1
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&buf,
		`<defs><marker id=%q markerWidth="10" markerHeight="8" refX="9" refY="4" orient="auto"><path d="M0,0 L10,4 L0,8 z" fill="%s"/></marker></defs>`+"\n",
		arrowMarkerID, colorEdge)
	fmt.Fprintf(&buf, `<rect width="%.0f" height="%.0f" fill="%s"/>`+"\n", f.Width, f.Height, colorBackground)

	if f.ShowGrid {
		r.grid(&buf, f)
	}
	if f.Document != nil {
		for _, p := range f.Document.Paths {
			r.path(&buf, f, p.Points, p.Color, p.Width)
		}
		for _, e := range f.Document.Edges {
			r.edge(&buf, f, e)
		}
		for _, n := range f.Document.Nodes {
			r.node(&buf, f, n)
		}
	}
	if len(f.Stroke) > 1 {
		color := f.PenColor
		if color == "" {
			color = "#000000"
		}
		r.path(&buf, f, f.Stroke, color, liveStrokeWidth)
	}
	if f.DrawRect != nil {
		r.drawOutline(&buf, f)
	}
	if f.Band != nil {
		x, y := f.toScreen(f.Band.Position)
		fmt.Fprintf(&buf,
			`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.08" stroke="%s" stroke-width="1" stroke-dasharray="4 3"/>`+"\n",
			x, y, f.Band.Dimensions.Width*f.Scale, f.Band.Dimensions.Height*f.Scale, colorBand, colorBand)
	}

	buf.WriteString("</svg>\n")
	return buf.String()
}

func (r *Renderer) grid(buf *bytes.Buffer, f Frame) {
	step := geometry.GridSize * f.Scale
	if step < 4 {
		return
	}
	for x := mod(f.OffsetX, step); x <= f.Width; x += step {
		fmt.Fprintf(buf, `<line x1="%.2f" y1="0" x2="%.2f" y2="%.0f" stroke="%s" stroke-width="1"/>`+"\n",
			x, x, f.Height, colorGrid)
	}
	for y := mod(f.OffsetY, step); y <= f.Height; y += step {
		fmt.Fprintf(buf, `<line x1="0" y1="%.2f" x2="%.0f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
			y, f.Width, y, colorGrid)
	}
}

func mod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}

func (r *Renderer) path(buf *bytes.Buffer, f Frame, points []geometry.Position, color string, width float64) {
	if len(points) < 2 {
		return
	}
	var pts strings.Builder
	for i, p := range points {
		if i > 0 {
			pts.WriteByte(' ')
		}
		x, y := f.toScreen(p)
		fmt.Fprintf(&pts, "%.2f,%.2f", x, y)
	}
	fmt.Fprintf(buf,
		`<polyline points=%q fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
		pts.String(), escape(color), width*f.Scale)
}

// effectivePosition resolves a node's position, honoring drag previews.
func (f Frame) effectivePosition(n diagram.Node) geometry.Position {
	if p, ok := f.Preview[n.ID]; ok {
		return p
	}
	return n.Position
}

func (r *Renderer) edge(buf *bytes.Buffer, f Frame, e diagram.Edge) {
	from, okFrom := f.Document.Node(e.From)
	to, okTo := f.Document.Node(e.To)
	if !okFrom || !okTo {
		return
	}

	fc := centerOf(f.effectivePosition(from), from.Dimensions)
	tc := centerOf(f.effectivePosition(to), to.Dimensions)
	x1, y1 := f.toScreen(fc)
	x2, y2 := f.toScreen(tc)

	fmt.Fprintf(buf,
		`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.5" marker-end="url(#%s)"/>`+"\n",
		x1, y1, x2, y2, colorEdge, arrowMarkerID)

	if e.Label == "" {
		return
	}
	mx, my := (x1+x2)/2, (y1+y2)/2
	fontSize := baseFontSize * f.Scale
	w := float64(len(e.Label))*approxCharW*f.Scale + 2*edgeLabelPad
	h := fontSize + 2*edgeLabelPad
	// Opaque patch so the label stays readable over the edge line.
	fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		mx-w/2, my-h/2, w, h, colorBackground)
	fmt.Fprintf(buf,
		`<text x="%.2f" y="%.2f" font-size="%.2f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		mx, my, fontSize, colorText, escape(e.Label))
}

func (r *Renderer) node(buf *bytes.Buffer, f Frame, n diagram.Node) {
	pos := f.effectivePosition(n)
	x, y := f.toScreen(pos)
	w := n.Dimensions.Width * f.Scale
	h := n.Dimensions.Height * f.Scale

	switch n.Type {
	case diagram.NodeEllipse:
		fmt.Fprintf(buf, `<ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			x+w/2, y+h/2, w/2, h/2, colorNodeFill, colorNodeStroke)
	case diagram.NodeDiamond:
		fmt.Fprintf(buf, `<polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			x+w/2, y, x+w, y+h/2, x+w/2, y+h, x, y+h/2, colorNodeFill, colorNodeStroke)
	case diagram.NodeImage:
		r.image(buf, f, n, x, y, w, h)
	default:
		fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="6" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			x, y, w, h, colorNodeFill, colorNodeStroke)
	}

	if n.Type != diagram.NodeImage && n.Text != "" {
		r.label(buf, f, n, x, y, w, h)
	}

	if _, ok := f.Selection[n.ID]; ok {
		pad := selectionPad
		fmt.Fprintf(buf,
			`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="5 3"/>`+"\n",
			x-pad, y-pad, w+2*pad, h+2*pad, colorSelection)
	}
}

func (r *Renderer) image(buf *bytes.Buffer, f Frame, n diagram.Node, x, y, w, h float64) {
	href := ""
	if r.Images != nil {
		href = r.Images.Resolve(n.ImageURL)
	}
	if href == "" {
		// Fetch pending or no cache attached: placeholder box.
		fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			x, y, w, h, imagePlacehold, colorGrid)
		return
	}
	fmt.Fprintf(buf, `<image x="%.2f" y="%.2f" width="%.2f" height="%.2f" href=%q preserveAspectRatio="xMidYMid meet"/>`+"\n",
		x, y, w, h, href)
}

func (r *Renderer) label(buf *bytes.Buffer, f Frame, n diagram.Node, x, y, w, h float64) {
	fontSize := baseFontSize * f.Scale
	lines := wrapText(n.Text, n.Dimensions.Width-2*edgeLabelPad)
	lh := lineHeight * f.Scale
	startY := y + h/2 - lh*float64(len(lines)-1)/2
	for i, line := range lines {
		fmt.Fprintf(buf,
			`<text x="%.2f" y="%.2f" font-size="%.2f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			x+w/2, startY+float64(i)*lh, fontSize, colorText, escape(line))
	}
}

func (r *Renderer) drawOutline(buf *bytes.Buffer, f Frame) {
	x, y := f.toScreen(f.DrawRect.Position)
	w := f.DrawRect.Dimensions.Width * f.Scale
	h := f.DrawRect.Dimensions.Height * f.Scale

	switch f.DrawShape {
	case diagram.NodeEllipse:
		fmt.Fprintf(buf, `<ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="5 3"/>`+"\n",
			x+w/2, y+h/2, w/2, h/2, colorSelection)
	case diagram.NodeDiamond:
		fmt.Fprintf(buf, `<polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="5 3"/>`+"\n",
			x+w/2, y, x+w, y+h/2, x+w/2, y+h, x, y+h/2, colorSelection)
	default:
		fmt.Fprintf(buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="5 3"/>`+"\n",
			x, y, w, h, colorSelection)
	}
}

func centerOf(p geometry.Position, d geometry.Dimensions) geometry.Position {
	return geometry.Position{X: p.X + d.Width/2, Y: p.Y + d.Height/2}
}

// wrapText splits text into lines that fit within width canvas units,
// breaking on spaces. A single word longer than the width stays on its
// own line rather than being split mid-word.
func wrapText(text string, width float64) []string {
	maxChars := int(width / approxCharW)
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	var current string
	curLen := 0
	for _, word := range strings.Fields(text) {
		// Measured in runes; byte length overcounts non-ASCII text and
		// would wrap it early.
		wordLen := utf8.RuneCountInString(word)
		switch {
		case current == "":
			current = word
			curLen = wordLen
		case curLen+1+wordLen <= maxChars:
			current += " " + word
			curLen += 1 + wordLen
		default:
			lines = append(lines, current)
			current = word
			curLen = wordLen
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
