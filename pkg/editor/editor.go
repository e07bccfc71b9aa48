// Package editor implements the canvas interaction state machine.
//
// The editor turns a serialized stream of pointer and keyboard events into
// document mutations submitted to the history manager. It owns the active
// tool, the view transform, the selection set, and all transient gesture
// state (drag offsets, in-progress strokes and rubber-bands, pending text
// entry). It performs no drawing; renderers read its snapshot accessors.
//
// Pointer events arrive in screen coordinates; the editor converts them to
// canvas space through the current view transform. Events are processed to
// completion one at a time, so no two gestures ever mutate the document
// concurrently.
//
// Pointer handling is driven by an explicit transition table keyed on
// (tool, gesture phase): see transitions.go. This keeps the tools'
// overlapping behaviors (pan override, selection modifier, escape)
// independently testable without a rendering surface.
package editor

import (
	"strings"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/geometry"
	"github.com/matzehuels/sketchgraph/pkg/history"
)

// Tool identifies the active canvas tool.
type Tool string

// Canvas tools.
const (
	ToolSelect    Tool = "select"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolDiamond   Tool = "diamond"
	ToolText      Tool = "text"
	ToolPen       Tool = "pen"
)

// Phase is the current gesture phase of the state machine.
type Phase int

// Gesture phases.
const (
	PhaseIdle Phase = iota
	PhaseDrag
	PhaseBand
	PhaseDraw
	PhaseStroke
	PhasePan
)

// Fixed sizes and thresholds, in canvas units.
const (
	// MinDrawSize is the threshold both dimensions of a shape-draw gesture
	// must exceed for a node to be created.
	MinDrawSize = 20.0

	// TextNodeWidth and TextNodeHeight are the fixed dimensions of nodes
	// created through the text tool.
	TextNodeWidth  = 150.0
	TextNodeHeight = 60.0

	// PenWidth is the stroke width of committed freehand paths.
	PenWidth = 2.0

	// DefaultPenColor is used until the pen color is configured.
	DefaultPenColor = "#1a1a1a"
)

// TextEdit describes a pending inline text-entry overlay. NodeID is empty
// when the overlay creates a new node and set when it edits an existing
// one.
type TextEdit struct {
	NodeID   string
	Initial  string
	Position geometry.Position // canvas position for a new node
	ScreenX  float64           // where the overlay opens
	ScreenY  float64
}

// Editor is the interaction state machine. Not safe for concurrent use;
// the event loop serializes all calls.
type Editor struct {
	history   *history.History
	tool      Tool
	view      View
	selection map[string]struct{}
	penColor  string

	phase     Phase
	spaceHeld bool

	// Drag gesture: per-node offset from the pointer at drag start, and
	// the snap-and-clamped visual preview positions. The preview is not
	// committed until pointer-up.
	dragTargets map[string]struct{}
	dragOffsets map[string]geometry.Position
	preview     map[string]geometry.Position

	// Rubber-band selection rectangle, in canvas space.
	bandOrigin  geometry.Position
	bandCurrent geometry.Position

	// Shape-draw gesture.
	drawOrigin  geometry.Position
	drawCurrent geometry.Position

	// Freehand stroke in progress.
	stroke []geometry.Position

	// Pan gesture, in screen space.
	panStartX, panStartY float64
	panOrigin            View

	textEdit *TextEdit
}

// New creates an editor over the given history.
func New(h *history.History) *Editor {
	if h == nil {
		h = history.New(nil)
	}
	return &Editor{
		history:   h,
		tool:      ToolSelect,
		view:      DefaultView(),
		selection: make(map[string]struct{}),
		penColor:  DefaultPenColor,
	}
}

// Document returns the current document.
func (e *Editor) Document() *diagram.Document {
	return e.history.Present()
}

// History returns the underlying history manager.
func (e *Editor) History() *history.History {
	return e.history
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool {
	return e.tool
}

// SetTool switches the active tool and discards any gesture in progress.
func (e *Editor) SetTool(t Tool) {
	e.tool = t
	e.clearGesture()
}

// View returns the current view transform.
func (e *Editor) View() View {
	return e.view
}

// Phase returns the current gesture phase.
func (e *Editor) Phase() Phase {
	return e.phase
}

// SetPenColor sets the color used for subsequently committed strokes.
func (e *Editor) SetPenColor(color string) {
	if color != "" {
		e.penColor = color
	}
}

// PenColor returns the current pen color.
func (e *Editor) PenColor() string {
	return e.penColor
}

// Selection returns the selected node ids. The returned map is the
// editor's own; callers must not mutate it.
func (e *Editor) Selection() map[string]struct{} {
	return e.selection
}

// Selected reports whether the node id is in the selection set.
func (e *Editor) Selected(id string) bool {
	_, ok := e.selection[id]
	return ok
}

// Preview returns the live drag preview positions, keyed by node id.
// Empty outside a drag gesture.
func (e *Editor) Preview() map[string]geometry.Position {
	return e.preview
}

// Band returns the rubber-band rectangle (top-left plus dimensions) and
// whether one is in progress.
func (e *Editor) Band() (geometry.Position, geometry.Dimensions, bool) {
	if e.phase != PhaseBand {
		return geometry.Position{}, geometry.Dimensions{}, false
	}
	p, d := normalizeRect(e.bandOrigin, e.bandCurrent)
	return p, d, true
}

// DrawRect returns the shape outline being dragged out (top-left plus
// dimensions) and whether a draw gesture is in progress.
func (e *Editor) DrawRect() (geometry.Position, geometry.Dimensions, bool) {
	if e.phase != PhaseDraw {
		return geometry.Position{}, geometry.Dimensions{}, false
	}
	p, d := normalizeRect(e.drawOrigin, e.drawCurrent)
	return p, d, true
}

// Stroke returns the freehand stroke accumulated so far. Empty outside a
// pen gesture.
func (e *Editor) Stroke() []geometry.Position {
	return e.stroke
}

// PendingText returns the pending text-entry overlay, or nil.
func (e *Editor) PendingText() *TextEdit {
	return e.textEdit
}

// SpaceHeld reports whether space-pan mode is active.
func (e *Editor) SpaceHeld() bool {
	return e.spaceHeld
}

// SetSpaceHeld records whether the space bar is held. While held, any
// pointer drag pans the view instead of acting through the current tool.
func (e *Editor) SetSpaceHeld(held bool) {
	e.spaceHeld = held
}

// Wheel applies one zoom step: up multiplies the scale by 1.1, down by
// 0.9, clamped to [MinZoom, MaxZoom]. The document is unaffected.
func (e *Editor) Wheel(up bool) {
	if up {
		e.view = e.view.zoomed(1.1)
	} else {
		e.view = e.view.zoomed(0.9)
	}
}

// Escape returns the tool to select, clears the selection, and cancels any
// in-progress text entry, rubber-band, or other gesture.
func (e *Editor) Escape() {
	e.tool = ToolSelect
	e.selection = make(map[string]struct{})
	e.textEdit = nil
	e.clearGesture()
}

// Delete removes the selected nodes, cascading to every edge touching
// them. No-op while a text edit is active or the selection is empty.
func (e *Editor) Delete() {
	if e.textEdit != nil || len(e.selection) == 0 {
		return
	}
	e.commit(e.Document().WithoutNodes(e.selection))
}

// Undo steps the history back and reconciles the selection with the
// restored document. Reports whether a step was taken.
func (e *Editor) Undo() bool {
	_, ok := e.history.Undo()
	if ok {
		e.filterSelection()
	}
	return ok
}

// Redo steps the history forward and reconciles the selection. Reports
// whether a step was taken.
func (e *Editor) Redo() bool {
	_, ok := e.history.Redo()
	if ok {
		e.filterSelection()
	}
	return ok
}

// SubmitText completes the pending text entry. For a new node, non-empty
// text commits a rectangle of fixed size at the snapped and clamped
// pointer position; empty text discards the gesture. For an existing
// node, the text is replaced unless the submission is empty or
// whitespace, in which case the original text stands.
func (e *Editor) SubmitText(text string) {
	edit := e.textEdit
	if edit == nil {
		return
	}
	e.textEdit = nil

	trimmed := strings.TrimSpace(text)

	if edit.NodeID != "" {
		node, ok := e.Document().Node(edit.NodeID)
		if !ok {
			return
		}
		if trimmed == "" || trimmed == node.Text {
			return
		}
		e.commit(e.Document().WithNodeText(edit.NodeID, trimmed))
		return
	}

	if trimmed == "" {
		return
	}
	dims := geometry.Dimensions{Width: TextNodeWidth, Height: TextNodeHeight}
	node := diagram.Node{
		ID:         diagram.NewID(),
		Type:       diagram.NodeRectangle,
		Text:       trimmed,
		Position:   geometry.SnapAndClamp(edit.Position, dims),
		Dimensions: dims,
	}
	e.commit(e.Document().WithNode(node))
	e.tool = ToolSelect
}

// CancelText discards the pending text entry without committing.
func (e *Editor) CancelText() {
	e.textEdit = nil
}

// commit submits doc as a new history entry and drops selected ids that no
// longer resolve.
func (e *Editor) commit(doc *diagram.Document) {
	e.history.Commit(doc)
	e.filterSelection()
}

// filterSelection intersects the selection with the current document's
// node ids. The selection is always a subset of the present document.
func (e *Editor) filterSelection() {
	doc := e.Document()
	for id := range e.selection {
		if !doc.HasNode(id) {
			delete(e.selection, id)
		}
	}
}

// clearGesture resets all transient gesture state.
func (e *Editor) clearGesture() {
	e.phase = PhaseIdle
	e.dragTargets = nil
	e.dragOffsets = nil
	e.preview = nil
	e.stroke = nil
}

// normalizeRect returns the top-left corner and dimensions of the
// rectangle spanned by two opposite corners.
func normalizeRect(a, b geometry.Position) (geometry.Position, geometry.Dimensions) {
	p := geometry.Position{X: min(a.X, b.X), Y: min(a.Y, b.Y)}
	d := geometry.Dimensions{Width: abs(a.X - b.X), Height: abs(a.Y - b.Y)}
	return p, d
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
