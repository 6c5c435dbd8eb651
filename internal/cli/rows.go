package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tagsheet/internal/store"
)

func newRowsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Row commands",
	}
	cmd.AddCommand(newRowsListCmd(app))
	cmd.AddCommand(newRowsAddCmd(app))
	cmd.AddCommand(newRowsDeleteCmd(app))
	return cmd
}

func newRowsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rows in sheet order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, _, err := loadSheet(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := sh.Rows
			if rows == nil {
				rows = []store.Row{}
			}
			return writeOut(cmd, app, rows)
		},
	}
}

func newRowsAddCmd(app *App) *cobra.Command {
	var id string
	var cells []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a row",
		Example: strings.TrimSpace(`
  tagsheet rows add --cell product=Tea --cell price=3.5 --cell "tags=new, organic"`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, s, err := loadSheet(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(id) == "" {
				id = "row-" + uuid.NewString()
			}
			row := store.Row{ID: strings.TrimSpace(id), Cells: map[string]store.CellValue{}}
			for _, kv := range cells {
				colID, text, ok := strings.Cut(kv, "=")
				colID = strings.TrimSpace(colID)
				if !ok || colID == "" {
					return writeErr(cmd, fmt.Errorf("invalid --cell %q (want col=value)", kv))
				}
				i, ok := sh.ColumnIndex(colID)
				if !ok {
					return writeErr(cmd, store.NotFoundError{Kind: "column", ID: colID})
				}
				col := sh.Columns[i]
				v, err := applyText(col, store.CellValue{}, text)
				if err != nil {
					if _, ok := err.(nothingToPasteError); ok {
						err = nothingToPasteError{rowID: row.ID, colID: colID, text: text}
					}
					return writeErr(cmd, err)
				}
				row.Cells[colID] = v
			}
			if err := s.AddRow(cmd.Context(), row); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Str("row", row.ID).Int("cells", len(row.Cells)).Msg("row added")
			return writeOut(cmd, app, row)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Row id (default: generated)")
	cmd.Flags().StringArrayVar(&cells, "cell", nil, "Cell value as col=value; tag columns take comma-separated values (repeatable)")
	return cmd
}

func newRowsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <row-id>",
		Short: "Delete a row and its cells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.DeleteRow(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Str("row", args[0]).Msg("row deleted")
			return writeOut(cmd, app, map[string]any{"id": args[0], "deleted": true})
		},
	}
}
