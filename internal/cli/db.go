package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"tagsheet/internal/store"
)

func newDBCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Select the sheet database",
	}
	cmd.AddCommand(newDBPathCmd(app))
	cmd.AddCommand(newDBUseCmd(app))
	return cmd
}

func newDBPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the database commands will use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.ResolveDBPath(app.DB, app.cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"path": p})
		},
	}
}

func newDBUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <path>",
		Short: "Make a database the default (stored as currentDb in config.json)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := filepath.Abs(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			app.cfg.CurrentDB = p
			if err := store.SaveConfig(app.cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Str("db", p).Msg("current db changed")
			return writeOut(cmd, app, map[string]any{"currentDb": p})
		},
	}
}
