package tagcell

import (
	"strings"

	"tagsheet/internal/grid"
)

// Kind is the discriminator tag cells carry.
const Kind = "tag-cell"

// Data is the payload of a tag cell.
type Data struct {
	// Values is the ordered selection; order is render and edit order.
	Values          []string
	Options         OptionInputs
	AllowCreation   bool
	AllowDuplicates bool
}

func (Data) CustomKind() string { return Kind }

// withValues returns a copy of d holding values. Options are shared: they are never mutated.
func (d Data) withValues(values []string) Data {
	d.Values = append([]string{}, values...)
	return d
}

// NewCell wraps d in a grid cell with its copy text filled in.
func NewCell(d Data, readonly bool) grid.Cell {
	c := grid.CustomCell(d, CopyText(d))
	c.Readonly = readonly
	return c
}

// FromCell extracts the tag payload of c.
func FromCell(c grid.Cell) (Data, bool) {
	if c.Kind != grid.KindCustom || c.Custom == nil {
		return Data{}, false
	}
	switch d := c.Custom.(type) {
	case Data:
		return d, true
	case *Data:
		if d == nil {
			return Data{}, false
		}
		return *d, true
	default:
		return Data{}, false
	}
}

// replaceData returns a copy of c carrying d, keeping every other cell field.
func replaceData(c grid.Cell, d Data) grid.Cell {
	c.Custom = d
	c.CopyData = CopyText(d)
	return c
}

// DeletedValue is the cleared form of a tag cell: no values and no copy text.
func DeletedValue(c grid.Cell) grid.Cell {
	d, ok := FromCell(c)
	if !ok {
		return c
	}
	c.Custom = d.withValues([]string{})
	c.CopyData = ""
	return c
}

// CopyText is the clipboard form of d: raw values joined by commas.
func CopyText(d Data) string {
	return strings.Join(d.Values, ",")
}
