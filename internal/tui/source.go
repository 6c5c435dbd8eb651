package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"tagsheet/internal/grid"
	"tagsheet/internal/store"
	"tagsheet/internal/tagcell"
)

// sheetSource serves a loaded sheet to the grid and writes every edit through to the store.
type sheetSource struct {
	ctx   context.Context
	db    store.Store
	sheet *store.Sheet
	log   zerolog.Logger
}

var _ grid.DataSource = (*sheetSource)(nil)

func newSheetSource(ctx context.Context, db store.Store, sh *store.Sheet, log zerolog.Logger) *sheetSource {
	return &sheetSource{ctx: ctx, db: db, sheet: sh, log: log}
}

func (s *sheetSource) Rows() int { return len(s.sheet.Rows) }

func (s *sheetSource) Cell(col, row int) grid.Cell {
	if col < 0 || col >= len(s.sheet.Columns) || row < 0 || row >= len(s.sheet.Rows) {
		return grid.TextCell("")
	}
	c := s.sheet.Columns[col]
	return cellFor(c, s.sheet.Rows[row].Cells[c.ID])
}

func (s *sheetSource) SetCell(col, row int, cell grid.Cell) error {
	if col < 0 || col >= len(s.sheet.Columns) || row < 0 || row >= len(s.sheet.Rows) {
		return fmt.Errorf("cell %d,%d out of range", col, row)
	}
	c := s.sheet.Columns[col]
	rowID := s.sheet.Rows[row].ID
	v, err := valueFor(c, cell)
	if err != nil {
		return err
	}

	if v.IsTags {
		err = s.db.SetTags(s.ctx, rowID, c.ID, v.Tags)
	} else {
		err = s.db.SetText(s.ctx, rowID, c.ID, v.Text)
	}
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", rowID, c.ID, err)
	}
	if err := s.sheet.SetValue(rowID, c.ID, v); err != nil {
		return err
	}
	s.log.Debug().Str("row", rowID).Str("col", c.ID).Str("value", v.String()).Msg("cell saved")
	return nil
}

// cellFor converts a stored value to the grid cell shown for column c.
func cellFor(c store.Column, v store.CellValue) grid.Cell {
	switch c.Kind {
	case store.ColumnTags:
		d := tagcell.Data{
			Values:          v.TagList(),
			Options:         c.Options,
			AllowCreation:   c.AllowCreation,
			AllowDuplicates: c.AllowDuplicates,
		}
		return tagcell.NewCell(d, c.Readonly)
	case store.ColumnNumber:
		cell := grid.TextCell(v.Text)
		if strings.TrimSpace(v.Text) != "" {
			if f, err := store.ParseNumber(v.Text); err == nil {
				cell = grid.NumberCell(f)
			}
		}
		cell.Readonly = c.Readonly
		return cell
	default:
		cell := grid.TextCell(v.Text)
		cell.Readonly = c.Readonly
		return cell
	}
}

// valueFor converts an edited grid cell back to the stored form for column c.
func valueFor(c store.Column, cell grid.Cell) (store.CellValue, error) {
	switch c.Kind {
	case store.ColumnTags:
		d, ok := tagcell.FromCell(cell)
		if !ok {
			return store.CellValue{}, fmt.Errorf("column %q expects tags, got %s cell", c.ID, cell.Kind)
		}
		return store.TagsValue(d.Values), nil
	case store.ColumnNumber:
		switch cell.Kind {
		case grid.KindNumber:
			return store.TextValue(strconv.FormatFloat(cell.Number, 'f', -1, 64)), nil
		case grid.KindText:
			if strings.TrimSpace(cell.Text) == "" {
				return store.TextValue(""), nil
			}
			if _, err := store.ParseNumber(cell.Text); err != nil {
				return store.CellValue{}, fmt.Errorf("column %q expects a number, got %q", c.ID, cell.Text)
			}
			return store.TextValue(strings.TrimSpace(cell.Text)), nil
		}
		return store.CellValue{}, fmt.Errorf("column %q expects a number, got %s cell", c.ID, cell.Kind)
	default:
		if cell.Kind == grid.KindCustom {
			return store.CellValue{}, fmt.Errorf("column %q expects text, got %s cell", c.ID, cell.Kind)
		}
		return store.TextValue(cell.DisplayText()), nil
	}
}

// gridColumns maps sheet columns to grid columns.
func gridColumns(sh *store.Sheet) []grid.Column {
	out := make([]grid.Column, 0, len(sh.Columns))
	for _, c := range sh.Columns {
		out = append(out, grid.Column{Title: c.Title, Width: c.Width})
	}
	return out
}
