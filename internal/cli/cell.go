package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tagsheet/internal/store"
	"tagsheet/internal/tagcell"
)

type cellOut struct {
	Row      string          `json:"row" yaml:"row"`
	Col      string          `json:"col" yaml:"col"`
	Kind     string          `json:"kind" yaml:"kind"`
	Value    store.CellValue `json:"value" yaml:"value"`
	CopyText string          `json:"copyText" yaml:"copyText"`
}

func newCellOut(sh *store.Sheet, rowID, colID string) (cellOut, error) {
	v, err := sh.Value(rowID, colID)
	if err != nil {
		return cellOut{}, err
	}
	i, _ := sh.ColumnIndex(colID)
	col := sh.Columns[i]
	if col.Kind == store.ColumnTags {
		v = store.TagsValue(v.TagList())
	}
	return cellOut{Row: rowID, Col: colID, Kind: string(col.Kind), Value: v, CopyText: v.String()}, nil
}

func newCellCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cell",
		Short: "Read and write single cells",
	}
	cmd.AddCommand(newCellGetCmd(app))
	cmd.AddCommand(newCellPasteCmd(app))
	cmd.AddCommand(newCellClearCmd(app))
	return cmd
}

func newCellGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <row-id> <col-id>",
		Short: "Show a cell value and its clipboard text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, _, err := loadSheet(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out, err := newCellOut(sh, args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newCellPasteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "paste <row-id> <col-id> <text>",
		Short: "Paste text into a cell the way the grid does",
		Long: strings.TrimSpace(`
Tag cells split the text on commas and trim each part. Duplicates are dropped
unless the column allows them, and unknown values are dropped unless it allows
creation. Blank text clears the cell. When nothing is left the cell is not changed
and the command fails.`),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rowID, colID, text := args[0], args[1], args[2]
			sh, s, err := loadSheet(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			col, cur, err := cellTarget(sh, rowID, colID)
			if err != nil {
				return writeErr(cmd, err)
			}
			next, err := applyText(col, cur, text)
			if err != nil {
				if _, ok := err.(nothingToPasteError); ok {
					err = nothingToPasteError{rowID: rowID, colID: colID, text: text}
				}
				return writeErr(cmd, err)
			}
			if err := writeCell(cmd, s, rowID, colID, next); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Str("row", rowID).Str("col", colID).Str("value", next.String()).Msg("cell pasted")
			if err := sh.SetValue(rowID, colID, next); err != nil {
				return writeErr(cmd, err)
			}
			out, err := newCellOut(sh, rowID, colID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newCellClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <row-id> <col-id>",
		Short: "Clear a cell (tag cells become an empty list)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rowID, colID := args[0], args[1]
			sh, s, err := loadSheet(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			col, _, err := cellTarget(sh, rowID, colID)
			if err != nil {
				return writeErr(cmd, err)
			}
			next := store.TextValue("")
			if col.Kind == store.ColumnTags {
				next = store.TagsValue(nil)
			}
			if err := writeCell(cmd, s, rowID, colID, next); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Str("row", rowID).Str("col", colID).Msg("cell cleared")
			if err := sh.SetValue(rowID, colID, next); err != nil {
				return writeErr(cmd, err)
			}
			out, err := newCellOut(sh, rowID, colID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, out)
		},
	}
}

// cellTarget resolves a writable cell.
func cellTarget(sh *store.Sheet, rowID, colID string) (store.Column, store.CellValue, error) {
	cur, err := sh.Value(rowID, colID)
	if err != nil {
		return store.Column{}, store.CellValue{}, err
	}
	i, _ := sh.ColumnIndex(colID)
	col := sh.Columns[i]
	if col.Readonly {
		return col, cur, errReadonly(colID)
	}
	return col, cur, nil
}

func writeCell(cmd *cobra.Command, s store.Store, rowID, colID string, v store.CellValue) error {
	if v.IsTags {
		return s.SetTags(cmd.Context(), rowID, colID, v.Tags)
	}
	return s.SetText(cmd.Context(), rowID, colID, v.Text)
}

// applyText converts pasted or flag-provided text to a value for col, following the grid's paste rules.
func applyText(col store.Column, cur store.CellValue, text string) (store.CellValue, error) {
	switch col.Kind {
	case store.ColumnTags:
		d := tagcell.Data{
			Values:          cur.TagList(),
			Options:         col.Options,
			AllowCreation:   col.AllowCreation,
			AllowDuplicates: col.AllowDuplicates,
		}
		next, ok := tagcell.Paste(text, d)
		if !ok {
			return store.CellValue{}, nothingToPasteError{colID: col.ID, text: text}
		}
		return store.TagsValue(next.Values), nil
	case store.ColumnNumber:
		s := strings.TrimSpace(text)
		if s == "" {
			return store.TextValue(""), nil
		}
		f, err := store.ParseNumber(s)
		if err != nil {
			return store.CellValue{}, invalidValueError{colID: col.ID, kind: "number", value: text}
		}
		return store.TextValue(strconv.FormatFloat(f, 'f', -1, 64)), nil
	default:
		return store.TextValue(strings.TrimRight(text, "\r\n")), nil
	}
}
