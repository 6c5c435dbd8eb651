package cli

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"tagsheet/internal/store"
)

type sheetSummary struct {
	DB      string `json:"db" yaml:"db"`
	Title   string `json:"title" yaml:"title"`
	Columns int    `json:"columns" yaml:"columns"`
	Rows    int    `json:"rows" yaml:"rows"`
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Replace the sheet with a YAML sheet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := store.ReadSheetFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(cmd.Context(), sh); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Str("file", args[0]).Int("rows", len(sh.Rows)).Msg("sheet imported")
			return writeOut(cmd, app, sheetSummary{DB: s.Path, Title: sh.Title, Columns: len(sh.Columns), Rows: len(sh.Rows)})
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the sheet as YAML (the import format)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, _, err := loadSheet(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == "" {
				return store.WriteSheetYAML(cmd.OutOrStdout(), sh)
			}
			var buf bytes.Buffer
			if err := store.WriteSheetYAML(&buf, sh); err != nil {
				return writeErr(cmd, err)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"path": out, "rows": len(sh.Rows)})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
