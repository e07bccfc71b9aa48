package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/editor"
	"github.com/matzehuels/sketchgraph/pkg/history"
	"github.com/matzehuels/sketchgraph/pkg/store"
)

// Terminal cells are taller than wide; mapping one cell to 10x20 canvas
// units keeps shapes roughly square on screen at scale 1.
const (
	cellWidth  = 10.0
	cellHeight = 20.0

	doubleClickWindow = 400 * time.Millisecond
)

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive diagram editor",
		Long: `Open the interactive diagram editor in the terminal.

Tools:
  v select    r rectangle   e ellipse
  d diamond   t text        p pen

Keys:
  u / ctrl+z  undo          ctrl+y  redo
  x           delete        esc     cancel / deselect
  space       toggle pan    + / -   zoom
  g           toggle grid   s       save now
  q           save and quit

Click and drag with the mouse to select, move, and draw. Double-click a
node to edit its text. Changes save automatically after a short pause.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd, docID)
		},
	}

	cmd.Flags().StringVar(&docID, "doc", store.DefaultDocumentID, "document id to edit")

	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, docID string) error {
	ctx := cmd.Context()
	cfg, err := c.Config()
	if err != nil {
		return err
	}

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	doc, err := st.Load(ctx, docID)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = diagram.New()
	}

	ed := editor.New(history.New(doc))
	if cfg.Editor.PenColor != "" {
		ed.SetPenColor(cfg.Editor.PenColor)
	}

	model := newEditModel(ed, store.NewDebouncedSaver(st, docID, 0))

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	// Persist whatever was pending when the editor closed.
	m := final.(editModel)
	if err := m.saver.Flush(context.Background()); err != nil {
		return fmt.Errorf("save on exit: %w", err)
	}
	printSuccess("Diagram saved")
	printStats(len(m.ed.Document().Nodes), len(m.ed.Document().Edges), len(m.ed.Document().Paths))
	return nil
}

// =============================================================================
// Model
// =============================================================================

type editModel struct {
	ed    *editor.Editor
	saver *store.DebouncedSaver

	width  int
	height int

	showGrid bool
	textBuf  string
	lastDoc  *diagram.Document

	lastClickAt   time.Time
	lastClickCell [2]int

	mouseDown bool
}

func newEditModel(ed *editor.Editor, saver *store.DebouncedSaver) editModel {
	return editModel{
		ed:       ed,
		saver:    saver,
		width:    80,
		height:   24,
		showGrid: true,
		lastDoc:  ed.Document(),
	}
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m editModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry captures everything except enter and escape.
	if m.ed.PendingText() != nil {
		switch msg.Type {
		case tea.KeyEnter:
			m.ed.SubmitText(m.textBuf)
			m.textBuf = ""
		case tea.KeyEscape:
			m.ed.CancelText()
			m.textBuf = ""
		case tea.KeyBackspace:
			if len(m.textBuf) > 0 {
				runes := []rune(m.textBuf)
				m.textBuf = string(runes[:len(runes)-1])
			}
		case tea.KeySpace:
			m.textBuf += " "
		case tea.KeyRunes:
			m.textBuf += string(msg.Runes)
		}
		return m.afterChange(), nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "v":
		m.ed.SetTool(editor.ToolSelect)
	case "r":
		m.ed.SetTool(editor.ToolRectangle)
	case "e":
		m.ed.SetTool(editor.ToolEllipse)
	case "d":
		m.ed.SetTool(editor.ToolDiamond)
	case "t":
		m.ed.SetTool(editor.ToolText)
	case "p":
		m.ed.SetTool(editor.ToolPen)
	case "u", "ctrl+z":
		m.ed.Undo()
	case "ctrl+y":
		m.ed.Redo()
	case "x", "delete", "backspace":
		m.ed.Delete()
	case "esc":
		m.ed.Escape()
	case " ":
		m.ed.SetSpaceHeld(!m.ed.SpaceHeld())
	case "+", "=":
		m.ed.Wheel(true)
	case "-":
		m.ed.Wheel(false)
	case "g":
		m.showGrid = !m.showGrid
	case "s":
		m.saver.Notify(m.ed.Document())
		m.saver.Flush(context.Background())
	}
	return m.afterChange(), nil
}

func (m editModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	sx := (float64(msg.X) + 0.5) * cellWidth
	sy := (float64(msg.Y) + 0.5) * cellHeight

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ed.Wheel(true)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.ed.Wheel(false)
		return m, nil
	}

	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionMotion {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		cell := [2]int{msg.X, msg.Y}
		if time.Since(m.lastClickAt) < doubleClickWindow && cell == m.lastClickCell {
			m.ed.DoubleClick(sx, sy)
			if te := m.ed.PendingText(); te != nil {
				m.textBuf = te.Initial
			}
			m.lastClickAt = time.Time{}
			return m.afterChange(), nil
		}
		m.lastClickAt = time.Now()
		m.lastClickCell = cell
		m.mouseDown = true
		m.ed.PointerDown(sx, sy, msg.Shift)
		if te := m.ed.PendingText(); te != nil {
			m.textBuf = te.Initial
		}
	case tea.MouseActionMotion:
		if m.mouseDown {
			m.ed.PointerMove(sx, sy)
		}
	case tea.MouseActionRelease:
		if m.mouseDown {
			m.mouseDown = false
			m.ed.PointerUp(sx, sy)
		}
	}
	return m.afterChange(), nil
}

// afterChange schedules a save when a gesture committed a new document.
func (m editModel) afterChange() editModel {
	if doc := m.ed.Document(); doc != m.lastDoc {
		m.lastDoc = doc
		m.saver.Notify(doc)
	}
	return m
}

// =============================================================================
// View
// =============================================================================

var (
	canvasNodeStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	canvasSelectedStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	canvasEdgeStyle     = lipgloss.NewStyle().Foreground(colorGray)
	canvasPathStyle     = lipgloss.NewStyle().Foreground(colorYellow)
	canvasGridStyle     = lipgloss.NewStyle().Foreground(colorDim)
	canvasBandStyle     = lipgloss.NewStyle().Foreground(colorBlue)
	statusBarStyle      = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("237"))
)

// canvasCell is one terminal cell of the rendered canvas.
type canvasCell struct {
	ch    rune
	style *lipgloss.Style
}

func (m editModel) View() string {
	rows := m.height - 1 // bottom row is the status bar
	if rows < 1 || m.width < 1 {
		return ""
	}

	grid := make([][]canvasCell, rows)
	for y := range grid {
		grid[y] = make([]canvasCell, m.width)
		for x := range grid[y] {
			grid[y][x] = canvasCell{ch: ' '}
		}
	}

	if m.showGrid {
		m.paintGrid(grid)
	}
	doc := m.ed.Document()
	for _, p := range doc.Paths {
		m.paintPath(grid, p)
	}
	for _, e := range doc.Edges {
		m.paintEdge(grid, doc, e)
	}
	for _, n := range doc.Nodes {
		m.paintNode(grid, n)
	}
	m.paintOverlays(grid)

	var b strings.Builder
	for y := range grid {
		for x := range grid[y] {
			c := grid[y][x]
			if c.style != nil {
				b.WriteString(c.style.Render(string(c.ch)))
			} else {
				b.WriteRune(c.ch)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.statusBar())
	return b.String()
}

// toCell maps a canvas position to a terminal cell.
func (m editModel) toCell(x, y float64) (int, int) {
	v := m.ed.View()
	sx := x*v.Scale + v.OffsetX
	sy := y*v.Scale + v.OffsetY
	return int(sx / cellWidth), int(sy / cellHeight)
}

func put(grid [][]canvasCell, x, y int, ch rune, style *lipgloss.Style) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = canvasCell{ch: ch, style: style}
}

func (m editModel) paintGrid(grid [][]canvasCell) {
	// One dot per canvas grid intersection, skipping most to stay quiet.
	for y := range grid {
		for x := range grid[y] {
			if x%8 == 0 && y%4 == 0 {
				put(grid, x, y, '·', &canvasGridStyle)
			}
		}
	}
}

func (m editModel) paintNode(grid [][]canvasCell, n diagram.Node) {
	pos := n.Position
	if p, ok := m.ed.Preview()[n.ID]; ok {
		pos = p
	}

	x1, y1 := m.toCell(pos.X, pos.Y)
	x2, y2 := m.toCell(pos.X+n.Dimensions.Width, pos.Y+n.Dimensions.Height)
	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}

	style := &canvasNodeStyle
	if m.ed.Selected(n.ID) {
		style = &canvasSelectedStyle
	}

	corners := nodeCorners(n.Type)
	put(grid, x1, y1, corners[0], style)
	put(grid, x2, y1, corners[1], style)
	put(grid, x1, y2, corners[2], style)
	put(grid, x2, y2, corners[3], style)
	for x := x1 + 1; x < x2; x++ {
		put(grid, x, y1, '─', style)
		put(grid, x, y2, '─', style)
	}
	for y := y1 + 1; y < y2; y++ {
		put(grid, x1, y, '│', style)
		put(grid, x2, y, '│', style)
	}

	label := n.Text
	if n.Type == diagram.NodeImage {
		label = "[image]"
	}
	if label == "" {
		return
	}
	maxLen := x2 - x1 - 1
	if maxLen < 1 {
		return
	}
	if len(label) > maxLen {
		label = label[:maxLen]
	}
	ly := (y1 + y2) / 2
	lx := x1 + 1 + (maxLen-len(label))/2
	for i, r := range label {
		put(grid, lx+i, ly, r, style)
	}
}

// nodeCorners picks corner glyphs that hint at the shape.
func nodeCorners(nodeType string) [4]rune {
	switch nodeType {
	case diagram.NodeEllipse:
		return [4]rune{'╭', '╮', '╰', '╯'}
	case diagram.NodeDiamond:
		return [4]rune{'◇', '◇', '◇', '◇'}
	default:
		return [4]rune{'┌', '┐', '└', '┘'}
	}
}

func (m editModel) paintEdge(grid [][]canvasCell, doc *diagram.Document, e diagram.Edge) {
	from, okFrom := doc.Node(e.From)
	to, okTo := doc.Node(e.To)
	if !okFrom || !okTo {
		return
	}

	fromPos := from.Position
	if p, ok := m.ed.Preview()[from.ID]; ok {
		fromPos = p
	}
	toPos := to.Position
	if p, ok := m.ed.Preview()[to.ID]; ok {
		toPos = p
	}

	x1, y1 := m.toCell(fromPos.X+from.Dimensions.Width/2, fromPos.Y+from.Dimensions.Height/2)
	x2, y2 := m.toCell(toPos.X+to.Dimensions.Width/2, toPos.Y+to.Dimensions.Height/2)
	plotLine(grid, x1, y1, x2, y2, '·', &canvasEdgeStyle)

	if e.Label != "" {
		mx, my := (x1+x2)/2, (y1+y2)/2
		for i, r := range e.Label {
			put(grid, mx-len(e.Label)/2+i, my, r, &canvasEdgeStyle)
		}
	}
}

func (m editModel) paintPath(grid [][]canvasCell, p diagram.Path) {
	for _, pt := range p.Points {
		x, y := m.toCell(pt.X, pt.Y)
		put(grid, x, y, '•', &canvasPathStyle)
	}
}

func (m editModel) paintOverlays(grid [][]canvasCell) {
	if pos, dims, ok := m.ed.Band(); ok {
		m.paintDashedRect(grid, pos.X, pos.Y, dims.Width, dims.Height, &canvasBandStyle)
	}
	if pos, dims, ok := m.ed.DrawRect(); ok {
		m.paintDashedRect(grid, pos.X, pos.Y, dims.Width, dims.Height, &canvasSelectedStyle)
	}
	for _, pt := range m.ed.Stroke() {
		x, y := m.toCell(pt.X, pt.Y)
		put(grid, x, y, '•', &canvasPathStyle)
	}
}

func (m editModel) paintDashedRect(grid [][]canvasCell, x, y, w, h float64, style *lipgloss.Style) {
	x1, y1 := m.toCell(x, y)
	x2, y2 := m.toCell(x+w, y+h)
	for cx := x1; cx <= x2; cx++ {
		put(grid, cx, y1, '╌', style)
		put(grid, cx, y2, '╌', style)
	}
	for cy := y1; cy <= y2; cy++ {
		put(grid, x1, cy, '╎', style)
		put(grid, x2, cy, '╎', style)
	}
}

// plotLine draws a straight cell line using Bresenham's algorithm.
func plotLine(grid [][]canvasCell, x1, y1, x2, y2 int, ch rune, style *lipgloss.Style) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy

	x, y := x1, y1
	for {
		put(grid, x, y, ch, style)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (m editModel) statusBar() string {
	var parts []string
	parts = append(parts, strings.ToUpper(string(m.ed.Tool())))
	parts = append(parts, fmt.Sprintf("%.0f%%", m.ed.View().Scale*100))

	if m.ed.SpaceHeld() {
		parts = append(parts, "PAN")
	}
	if te := m.ed.PendingText(); te != nil {
		parts = append(parts, "text: "+m.textBuf+"▏")
	}

	status, saveErr := m.saver.Status()
	switch {
	case saveErr != nil:
		parts = append(parts, "save failed")
	case status == store.StatusDirty:
		parts = append(parts, "unsaved")
	default:
		parts = append(parts, "saved")
	}

	bar := " " + strings.Join(parts, "  ·  ")
	if pad := m.width - lipgloss.Width(bar); pad > 0 {
		bar += strings.Repeat(" ", pad)
	}
	return statusBarStyle.Render(bar)
}
