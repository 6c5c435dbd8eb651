package tagcell

import "tagsheet/internal/grid"

// Renderer registers tag cells with the grid.
type Renderer struct{}

var (
	_ grid.CustomRenderer = Renderer{}
	_ grid.CopyTexter     = Renderer{}
)

func New() Renderer { return Renderer{} }

func (Renderer) Kind() string { return Kind }

func (Renderer) IsMatch(c grid.Cell) bool {
	_, ok := FromCell(c)
	return ok
}

func (Renderer) ProvideEditor(grid.Cell) grid.EditorSpec {
	return grid.EditorSpec{
		New: func(ctx grid.EditorContext) grid.Editor {
			return NewEditor(ctx)
		},
		DisablePadding: true,
		DeletedValue:   DeletedValue,
	}
}

func (Renderer) OnPaste(text string, c grid.Cell) (grid.Cell, bool) {
	d, ok := FromCell(c)
	if !ok {
		return c, false
	}
	next, ok := Paste(text, d)
	if !ok {
		return c, false
	}
	return replaceData(c, next), true
}

func (Renderer) CopyText(c grid.Cell) string {
	d, ok := FromCell(c)
	if !ok {
		return c.CopyData
	}
	return CopyText(d)
}
