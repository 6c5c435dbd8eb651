package grid

import tea "github.com/charmbracelet/bubbletea"

// DrawArgs is what the grid hands a renderer for one cell paint.
type DrawArgs struct {
	Canvas      *Canvas
	Theme       Theme
	Rect        Rect
	Highlighted bool
	Col, Row    int
}

type MeasureArgs struct {
	Theme Theme
}

// Editor is an overlay that edits one cell. After every Update the grid
// drains Outcome and applies it before any returned command runs, so value
// changes and closes are handled in the order the editor made them.
type Editor interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Editor, tea.Cmd)
	View() string
	Outcome() Outcome
}

// Outcome is what an editor decided while handling one message.
type Outcome struct {
	// Write, when set, is written to the edited cell.
	Write *Cell
	// Close ends the session; Move is then applied to the selection.
	Close bool
	Move  Move
}

// Session records an editor's pending outcome. Editors embed it and call
// Change, Finish or Cancel from Update.
type Session struct {
	out Outcome
}

// Change stages c to be written. A later Change in the same Update replaces it.
func (s *Session) Change(c Cell) {
	s.out.Write = &c
}

// Finish closes the editor, writing c first when it is non-nil.
func (s *Session) Finish(c *Cell, mv Move) {
	if c != nil {
		cc := *c
		s.out.Write = &cc
	}
	s.out.Close = true
	s.out.Move = mv
}

// Cancel closes the editor. Changes already staged are still written.
func (s *Session) Cancel() {
	s.out.Close = true
	s.out.Move = Move{}
}

// Outcome returns the staged outcome and resets it.
func (s *Session) Outcome() Outcome {
	out := s.out
	s.out = Outcome{}
	return out
}

// EditorContext configures a new editor session.
type EditorContext struct {
	Cell     Cell
	Col, Row int
	// Mount is the on-screen rectangle of the edited cell; the overlay is anchored to it.
	Mount Rect
	// Screen is the full drawable area the overlay may use.
	Screen Rect
	Theme  Theme
	// InitialInput is the text typed to start editing, if any.
	InitialInput string
}

type EditorSpec struct {
	New            func(ctx EditorContext) Editor
	DisablePadding bool
	// DeletedValue produces the cleared form of a cell for the delete gesture.
	DeletedValue func(Cell) Cell
}

// CustomRenderer is the contract a cell-type plugin implements.
type CustomRenderer interface {
	Kind() string
	IsMatch(c Cell) bool
	// Draw paints c into args.Rect and reports whether it fully handled the cell.
	Draw(args DrawArgs, c Cell) bool
	// Measure returns the minimum content width used for column auto-sizing.
	Measure(args MeasureArgs, c Cell) int
	ProvideEditor(c Cell) EditorSpec
	// OnPaste returns the updated cell, or false when the paste does not apply.
	OnPaste(text string, c Cell) (Cell, bool)
}

// CopyTexter is implemented by renderers that compute copy text themselves
// instead of relying on Cell.CopyData.
type CopyTexter interface {
	CopyText(c Cell) string
}

// Registry routes custom cells to their renderer.
type Registry struct {
	renderers []CustomRenderer
}

func NewRegistry(rs ...CustomRenderer) *Registry {
	return &Registry{renderers: append([]CustomRenderer(nil), rs...)}
}

func (r *Registry) Register(cr CustomRenderer) {
	r.renderers = append(r.renderers, cr)
}

// Find returns the first renderer whose IsMatch accepts c.
func (r *Registry) Find(c Cell) (CustomRenderer, bool) {
	if r == nil || c.Kind != KindCustom || c.Custom == nil {
		return nil, false
	}
	for _, cr := range r.renderers {
		if cr.Kind() != c.Custom.CustomKind() {
			continue
		}
		if cr.IsMatch(c) {
			return cr, true
		}
	}
	return nil, false
}

// Move is a selection movement applied when an editor finishes.
type Move struct {
	DX, DY int
}

// CellEditedMsg is emitted to the grid's parent after a write reached the data source.
type CellEditedMsg struct {
	Col, Row int
	Cell     Cell
}
