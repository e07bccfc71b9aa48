package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/editor"
	"github.com/matzehuels/sketchgraph/pkg/geometry"
	"github.com/matzehuels/sketchgraph/pkg/history"
	"github.com/matzehuels/sketchgraph/pkg/store"
)

func newTestEditModel(doc *diagram.Document) editModel {
	if doc == nil {
		doc = diagram.New()
	}
	ed := editor.New(history.New(doc))
	saver := store.NewDebouncedSaver(newMemStore(), "default", time.Hour)
	return newEditModel(ed, saver)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m editModel, msg tea.Msg) editModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(editModel)
}

func TestEditToolKeys(t *testing.T) {
	tests := []struct {
		key  string
		want editor.Tool
	}{
		{"v", editor.ToolSelect},
		{"r", editor.ToolRectangle},
		{"e", editor.ToolEllipse},
		{"d", editor.ToolDiamond},
		{"t", editor.ToolText},
		{"p", editor.ToolPen},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newTestEditModel(nil)
			m = update(t, m, keyMsg(tt.key))
			if got := m.ed.Tool(); got != tt.want {
				t.Errorf("tool after %q = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestEditMouseDrawsRectangle(t *testing.T) {
	m := newTestEditModel(nil)
	m = update(t, m, keyMsg("r"))

	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	doc := m.ed.Document()
	if len(doc.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(doc.Nodes))
	}
	if doc.Nodes[0].Type != diagram.NodeRectangle {
		t.Errorf("node type = %q, want rectangle", doc.Nodes[0].Type)
	}
	// Drawing hands the tool back to select.
	if m.ed.Tool() != editor.ToolSelect {
		t.Errorf("tool = %v, want select", m.ed.Tool())
	}
}

func TestEditTextEntry(t *testing.T) {
	m := newTestEditModel(nil)
	m = update(t, m, keyMsg("t"))
	m = update(t, m, tea.MouseMsg{X: 20, Y: 8, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 20, Y: 8, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if m.ed.PendingText() == nil {
		t.Fatal("text tool click did not open text entry")
	}

	for _, r := range "hi there" {
		m = update(t, m, keyMsg(string(r)))
	}
	m = update(t, m, keyMsg("enter"))

	doc := m.ed.Document()
	if len(doc.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(doc.Nodes))
	}
	if doc.Nodes[0].Text != "hi there" {
		t.Errorf("node text = %q, want %q", doc.Nodes[0].Text, "hi there")
	}
	if m.textBuf != "" {
		t.Errorf("text buffer not cleared: %q", m.textBuf)
	}
}

func TestEditTextEntryEscapeCancels(t *testing.T) {
	m := newTestEditModel(nil)
	m = update(t, m, keyMsg("t"))
	m = update(t, m, tea.MouseMsg{X: 20, Y: 8, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	m = update(t, m, keyMsg("x"))
	m = update(t, m, keyMsg("esc"))

	if m.ed.PendingText() != nil {
		t.Error("escape did not cancel text entry")
	}
	if len(m.ed.Document().Nodes) != 0 {
		t.Error("cancelled text entry created a node")
	}
}

func TestEditUndoKey(t *testing.T) {
	m := newTestEditModel(nil)
	m = update(t, m, keyMsg("r"))
	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if len(m.ed.Document().Nodes) != 1 {
		t.Fatal("setup: node not created")
	}

	m = update(t, m, keyMsg("u"))
	if len(m.ed.Document().Nodes) != 0 {
		t.Error("undo key did not revert the draw")
	}
}

func TestEditSpaceTogglesPan(t *testing.T) {
	m := newTestEditModel(nil)
	m = update(t, m, keyMsg(" "))
	if !m.ed.SpaceHeld() {
		t.Error("space did not enable pan mode")
	}
	m = update(t, m, keyMsg(" "))
	if m.ed.SpaceHeld() {
		t.Error("space did not disable pan mode")
	}
}

func TestEditViewRendersNodes(t *testing.T) {
	doc := diagram.New().WithNode(diagram.Node{
		ID:         "a",
		Type:       diagram.NodeRectangle,
		Text:       "Box",
		Position:   geometry.Position{X: 100, Y: 100},
		Dimensions: geometry.Dimensions{Width: 200, Height: 80},
	})
	m := newTestEditModel(doc)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	if !strings.Contains(view, "Box") {
		t.Error("view missing node label")
	}
	if !strings.Contains(view, "┌") || !strings.Contains(view, "┘") {
		t.Error("view missing node border")
	}
	if !strings.Contains(view, "SELECT") {
		t.Error("status bar missing tool name")
	}
}

func TestEditChangesNotifySaver(t *testing.T) {
	m := newTestEditModel(nil)
	m = update(t, m, keyMsg("r"))
	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if status, _ := m.saver.Status(); status != store.StatusDirty {
		t.Errorf("saver status = %q, want dirty after an edit", status)
	}
}
