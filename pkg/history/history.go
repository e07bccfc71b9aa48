// Package history implements the bounded undo/redo buffer around the
// current diagram document.
//
// The History value is the sole owner of the "current" document and of the
// past/future stacks. Every user-initiated change goes through Commit;
// programmatic replacements that must not create an undo step (initial
// load, the application of an undo/redo itself) go through ReplacePresent.
//
// The past stack is bounded at MaxPast entries. Committing past the bound
// evicts exactly the single oldest entry; the buffer is never cleared
// wholesale.
package history

import "github.com/matzehuels/sketchgraph/pkg/diagram"

// MaxPast is the maximum number of undo steps retained.
const MaxPast = 50

// History holds the current document and its bounded past/future stacks.
// It is not safe for concurrent use; all mutation entry points run on a
// single event loop by construction.
type History struct {
	past    []*diagram.Document
	present *diagram.Document
	future  []*diagram.Document
}

// New creates a history with the given initial document as present and
// empty past/future.
func New(initial *diagram.Document) *History {
	if initial == nil {
		initial = diagram.New()
	}
	return &History{present: initial}
}

// Present returns the current document.
func (h *History) Present() *diagram.Document {
	return h.present
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool {
	return len(h.past) > 0
}

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool {
	return len(h.future) > 0
}

// PastLen returns the number of retained undo steps.
func (h *History) PastLen() int {
	return len(h.past)
}

// Commit records the current present as an undo step, makes doc the new
// present, and clears the redo stack. If the past stack is full, the
// single oldest entry is evicted.
func (h *History) Commit(doc *diagram.Document) {
	h.past = append(h.past, h.present)
	if len(h.past) > MaxPast {
		h.past = h.past[1:]
	}
	h.present = doc
	h.future = nil
}

// ReplacePresent swaps the current document without touching past or
// future. Used for initial load and for mutations that are themselves the
// result of an undo/redo and must not recreate a history entry.
func (h *History) ReplacePresent(doc *diagram.Document) {
	h.present = doc
}

// Undo steps back one commit. Returns the new present and true, or the
// unchanged present and false when there is nothing to undo.
func (h *History) Undo() (*diagram.Document, bool) {
	if len(h.past) == 0 {
		return h.present, false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append([]*diagram.Document{h.present}, h.future...)
	h.present = prev
	return h.present, true
}

// Redo steps forward one undone commit. Returns the new present and true,
// or the unchanged present and false when there is nothing to redo.
func (h *History) Redo() (*diagram.Document, bool) {
	if len(h.future) == 0 {
		return h.present, false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, h.present)
	h.present = next
	return h.present, true
}

// Reset clears past and future and installs doc as the present. Used on
// session load.
func (h *History) Reset(doc *diagram.Document) {
	if doc == nil {
		doc = diagram.New()
	}
	h.past = nil
	h.future = nil
	h.present = doc
}
