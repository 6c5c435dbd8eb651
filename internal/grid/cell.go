package grid

import (
	"strconv"
	"strings"
)

// CellKind discriminates the payload carried by a Cell.
type CellKind int

const (
	KindText CellKind = iota
	KindNumber
	KindCustom
)

func (k CellKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// CustomData is the payload of a KindCustom cell. Plugins define their own
// concrete types; CustomKind routes the cell to the plugin that owns it.
type CustomData interface {
	CustomKind() string
}

// Cell is the unit the grid asks its data source for.
//
// Cells are values: editors and paste handlers return a new Cell instead of
// mutating the one they were given.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Custom CustomData

	Readonly bool
	// CopyData is the plain-text form placed on the clipboard on copy.
	CopyData string
}

func TextCell(s string) Cell {
	return Cell{Kind: KindText, Text: s, CopyData: s}
}

func NumberCell(f float64) Cell {
	s := formatNumber(f)
	return Cell{Kind: KindNumber, Number: f, Text: s, CopyData: s}
}

func CustomCell(data CustomData, copyData string) Cell {
	return Cell{Kind: KindCustom, Custom: data, CopyData: copyData}
}

// DisplayText is the single-line text shown for built-in cell kinds.
func (c Cell) DisplayText() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return formatNumber(c.Number)
	case KindCustom:
		return c.CopyData
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseNumberCell parses pasted or typed text into a number cell.
func ParseNumberCell(s string) (Cell, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NumberCell(0), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Cell{}, false
	}
	return NumberCell(f), true
}
