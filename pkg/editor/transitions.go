package editor

import (
	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/geometry"
)

// pointerEvent carries one pointer sample in both coordinate spaces.
type pointerEvent struct {
	screenX  float64
	screenY  float64
	canvas   geometry.Position
	modifier bool
}

// transitionKey indexes the pointer-down table: which tool is active and
// which gesture phase the machine is in.
type transitionKey struct {
	tool  Tool
	phase Phase
}

// downTable maps (tool, phase) to the pointer-down action. The pan
// override (space held) is resolved before the table is consulted, so the
// table only describes per-tool behavior.
var downTable map[transitionKey]func(*Editor, pointerEvent)

func init() {
	downTable = map[transitionKey]func(*Editor, pointerEvent){
		{ToolSelect, PhaseIdle}:    (*Editor).downSelect,
		{ToolRectangle, PhaseIdle}: (*Editor).downShape,
		{ToolEllipse, PhaseIdle}:   (*Editor).downShape,
		{ToolDiamond, PhaseIdle}:   (*Editor).downShape,
		{ToolText, PhaseIdle}:      (*Editor).downText,
		{ToolPen, PhaseIdle}:       (*Editor).downPen,
	}
}

// PointerDown feeds a pointer-down event at the given screen coordinates.
// modifier reports whether the multi-select modifier (shift) is held.
func (e *Editor) PointerDown(sx, sy float64, modifier bool) {
	ev := pointerEvent{
		screenX:  sx,
		screenY:  sy,
		canvas:   e.view.ToCanvas(sx, sy),
		modifier: modifier,
	}

	if e.spaceHeld {
		e.phase = PhasePan
		e.panStartX, e.panStartY = sx, sy
		e.panOrigin = e.view
		return
	}

	if handler, ok := downTable[transitionKey{e.tool, e.phase}]; ok {
		handler(e, ev)
	}
}

// PointerMove feeds a pointer-move event. Dispatch depends only on the
// gesture phase; an idle pointer move is ignored.
func (e *Editor) PointerMove(sx, sy float64) {
	p := e.view.ToCanvas(sx, sy)

	switch e.phase {
	case PhaseDrag:
		e.moveDrag(p)
	case PhaseBand:
		e.bandCurrent = p
	case PhaseDraw:
		e.drawCurrent = p
	case PhaseStroke:
		e.stroke = append(e.stroke, p)
	case PhasePan:
		e.view.OffsetX = e.panOrigin.OffsetX + (sx - e.panStartX)
		e.view.OffsetY = e.panOrigin.OffsetY + (sy - e.panStartY)
	}
}

// PointerUp feeds a pointer-up event, completing the gesture in progress.
func (e *Editor) PointerUp(sx, sy float64) {
	p := e.view.ToCanvas(sx, sy)

	switch e.phase {
	case PhaseDrag:
		e.upDrag()
	case PhaseBand:
		e.bandCurrent = p
		e.upBand()
	case PhaseDraw:
		e.drawCurrent = p
		e.upDraw()
	case PhaseStroke:
		e.upStroke()
	case PhasePan:
		// View offsets were applied during the move; nothing to commit.
	}

	e.clearGesture()
}

// DoubleClick opens the inline text overlay pre-filled with an existing
// node's text. Only the select tool reacts; other tools treat the second
// click as an ordinary pointer-down.
func (e *Editor) DoubleClick(sx, sy float64) {
	if e.tool != ToolSelect {
		return
	}
	p := e.view.ToCanvas(sx, sy)
	node, ok := e.Document().NodeAt(p)
	if !ok {
		return
	}
	e.clearGesture()
	e.textEdit = &TextEdit{
		NodeID:  node.ID,
		Initial: node.Text,
		ScreenX: sx,
		ScreenY: sy,
	}
}

// =============================================================================
// Select tool
// =============================================================================

func (e *Editor) downSelect(ev pointerEvent) {
	node, hit := e.Document().NodeAt(ev.canvas)
	if !hit {
		e.phase = PhaseBand
		e.bandOrigin = ev.canvas
		e.bandCurrent = ev.canvas
		return
	}

	if ev.modifier {
		// Toggle the clicked node in or out of the selection. A toggle
		// that deselects does not begin a drag.
		if e.Selected(node.ID) {
			delete(e.selection, node.ID)
			return
		}
		e.selection[node.ID] = struct{}{}
	} else if !e.Selected(node.ID) {
		e.selection = map[string]struct{}{node.ID: {}}
	}

	// Drag every selected node; each remembers its offset from the
	// pointer so the grab point stays under the cursor.
	e.phase = PhaseDrag
	e.dragTargets = make(map[string]struct{}, len(e.selection))
	e.dragOffsets = make(map[string]geometry.Position, len(e.selection))
	for id := range e.selection {
		n, ok := e.Document().Node(id)
		if !ok {
			continue
		}
		e.dragTargets[id] = struct{}{}
		e.dragOffsets[id] = geometry.Position{
			X: n.Position.X - ev.canvas.X,
			Y: n.Position.Y - ev.canvas.Y,
		}
	}
}

func (e *Editor) moveDrag(p geometry.Position) {
	if e.preview == nil {
		e.preview = make(map[string]geometry.Position, len(e.dragTargets))
	}
	for id := range e.dragTargets {
		n, ok := e.Document().Node(id)
		if !ok {
			continue
		}
		off := e.dragOffsets[id]
		candidate := geometry.Position{X: p.X + off.X, Y: p.Y + off.Y}
		e.preview[id] = geometry.SnapAndClamp(candidate, n.Dimensions)
	}
}

func (e *Editor) upDrag() {
	if len(e.preview) == 0 {
		return
	}
	e.commit(e.Document().WithPositions(e.preview))
}

func (e *Editor) upBand() {
	origin, dims := normalizeRect(e.bandOrigin, e.bandCurrent)

	found := make(map[string]struct{})
	for _, n := range e.Document().Nodes {
		// Full containment only; partial overlap does not qualify.
		if n.Position.X >= origin.X && n.Position.Y >= origin.Y &&
			n.Position.X+n.Dimensions.Width <= origin.X+dims.Width &&
			n.Position.Y+n.Dimensions.Height <= origin.Y+dims.Height {
			found[n.ID] = struct{}{}
		}
	}

	// An empty result leaves the selection untouched; the rectangle is
	// simply discarded.
	if len(found) > 0 {
		e.selection = found
	}
}

// =============================================================================
// Shape tools (rectangle, ellipse, diamond)
// =============================================================================

func (e *Editor) downShape(ev pointerEvent) {
	e.phase = PhaseDraw
	e.drawOrigin = ev.canvas
	e.drawCurrent = ev.canvas
}

func (e *Editor) upDraw() {
	origin, dims := normalizeRect(e.drawOrigin, e.drawCurrent)
	if dims.Width <= MinDrawSize || dims.Height <= MinDrawSize {
		return
	}

	node := diagram.Node{
		ID:         diagram.NewID(),
		Type:       string(e.tool),
		Text:       shapeLabels[e.tool],
		Position:   geometry.SnapAndClamp(origin, dims),
		Dimensions: dims,
	}
	e.commit(e.Document().WithNode(node))
	e.tool = ToolSelect
}

// shapeLabels is the default text for nodes created by each shape tool.
var shapeLabels = map[Tool]string{
	ToolRectangle: "Rectangle",
	ToolEllipse:   "Ellipse",
	ToolDiamond:   "Diamond",
}

// =============================================================================
// Text tool
// =============================================================================

func (e *Editor) downText(ev pointerEvent) {
	if _, hit := e.Document().NodeAt(ev.canvas); hit {
		return
	}
	e.textEdit = &TextEdit{
		Position: ev.canvas,
		ScreenX:  ev.screenX,
		ScreenY:  ev.screenY,
	}
}

// =============================================================================
// Pen tool
// =============================================================================

func (e *Editor) downPen(ev pointerEvent) {
	e.phase = PhaseStroke
	e.stroke = []geometry.Position{ev.canvas}
}

func (e *Editor) upStroke() {
	if len(e.stroke) <= diagram.MinPathPoints {
		return
	}
	points := make([]geometry.Position, len(e.stroke))
	copy(points, e.stroke)
	path := diagram.Path{
		ID:     diagram.NewID(),
		Points: points,
		Color:  e.penColor,
		Width:  PenWidth,
	}
	e.commit(e.Document().WithPath(path))
}
