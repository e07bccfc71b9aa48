package history

import (
	"fmt"
	"testing"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/geometry"
)

func docWithNode(id string) *diagram.Document {
	return diagram.New().WithNode(diagram.Node{
		ID:         id,
		Type:       diagram.NodeRectangle,
		Text:       id,
		Position:   geometry.Position{X: 100, Y: 100},
		Dimensions: geometry.Dimensions{Width: 180, Height: 80},
	})
}

func TestNewEmpty(t *testing.T) {
	h := New(nil)
	if h.Present() == nil {
		t.Fatal("present is nil")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("fresh history should have nothing to undo or redo")
	}
}

func TestCommitUndoRedoRoundTrip(t *testing.T) {
	first := docWithNode("a")
	second := docWithNode("b")

	h := New(diagram.New())
	h.Commit(first)
	h.Commit(second)

	if !h.CanUndo() {
		t.Fatal("CanUndo = false after commits")
	}

	got, ok := h.Undo()
	if !ok || got != first {
		t.Fatalf("Undo() = %v, %v; want first doc, true", got, ok)
	}
	if !h.CanRedo() {
		t.Fatal("CanRedo = false after undo")
	}

	got, ok = h.Redo()
	if !ok || got != second {
		t.Fatalf("Redo() = %v, %v; want second doc, true", got, ok)
	}
	if h.CanRedo() {
		t.Error("CanRedo = true after redo exhausted future")
	}
	if h.Present() != second {
		t.Error("redo(undo(S)) != S")
	}
}

func TestUndoEmptyIsNoop(t *testing.T) {
	initial := docWithNode("a")
	h := New(initial)

	got, ok := h.Undo()
	if ok {
		t.Error("Undo on empty past reported success")
	}
	if got != initial {
		t.Error("Undo on empty past changed present")
	}
}

func TestRedoEmptyIsNoop(t *testing.T) {
	h := New(docWithNode("a"))
	h.Commit(docWithNode("b"))

	if _, ok := h.Redo(); ok {
		t.Error("Redo with empty future reported success")
	}
}

func TestCommitClearsFuture(t *testing.T) {
	h := New(docWithNode("a"))
	h.Commit(docWithNode("b"))
	h.Undo()

	if !h.CanRedo() {
		t.Fatal("expected redo available")
	}

	h.Commit(docWithNode("c"))
	if h.CanRedo() {
		t.Error("commit should clear the redo stack")
	}
}

func TestBoundEvictsOldest(t *testing.T) {
	initial := docWithNode("initial")
	h := New(initial)

	docs := make([]*diagram.Document, 51)
	for i := range docs {
		docs[i] = docWithNode(fmt.Sprintf("n%d", i))
		h.Commit(docs[i])
	}

	if got := h.PastLen(); got != MaxPast {
		t.Fatalf("past length = %d, want %d", got, MaxPast)
	}

	// Walk all the way back: the very first committed state's predecessor
	// (the initial doc) has been evicted, so the deepest undo lands on the
	// first committed doc, not on initial.
	var last *diagram.Document
	for h.CanUndo() {
		last, _ = h.Undo()
	}
	if last != docs[0] {
		t.Errorf("deepest undo = %v, want the first committed doc (oldest entry evicted, not second-oldest)", last)
	}
}

func TestReplacePresentKeepsStacks(t *testing.T) {
	h := New(docWithNode("a"))
	h.Commit(docWithNode("b"))
	h.Undo()

	replacement := docWithNode("r")
	h.ReplacePresent(replacement)

	if h.Present() != replacement {
		t.Error("present not replaced")
	}
	if !h.CanUndo() || !h.CanRedo() {
		t.Error("ReplacePresent must not touch past or future")
	}
}

func TestReset(t *testing.T) {
	h := New(docWithNode("a"))
	h.Commit(docWithNode("b"))
	h.Undo()

	loaded := docWithNode("loaded")
	h.Reset(loaded)

	if h.Present() != loaded {
		t.Error("present not reset")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("Reset must clear both stacks")
	}
}
