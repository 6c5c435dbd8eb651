package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tagsheet/internal/format"
	"tagsheet/internal/logging"
	"tagsheet/internal/store"
	"tagsheet/internal/tui"
)

type App struct {
	DB         string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg *store.GlobalConfig
	log *logging.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tagsheet",
		Short:        "Spreadsheet grid with multi-value tag cells",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive grid
  tagsheet

  # Open a specific sheet database
  tagsheet ./pantry.sqlite

  # Scriptable commands
  tagsheet rows list
  tagsheet cell paste r1 tags "sale, new"
  tagsheet export > sheet.yaml
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := store.LoadConfig()
		if err != nil {
			return writeErr(cmd, fmt.Errorf("load config: %w", err))
		}
		app.cfg = cfg

		level := app.LogLevel
		if level == "" {
			level = cfg.LogLevel
		}
		path, err := store.LogPath()
		if err != nil {
			return writeErr(cmd, err)
		}
		l, err := logging.Open(logging.Options{Path: path, Level: level})
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = l
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.log.Close()
	}

	cmd.PersistentFlags().StringVar(&app.DB, "db", envOr("TAGSHEET_DB", ""), "Path to the sheet database (default: currentDb from config, then ~/.tagsheet/sheet.sqlite)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TAGSHEET_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TAGSHEET_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDBCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newRowsCmd(app))
	cmd.AddCommand(newCellCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log.Info().Str("db", s.Path).Msg("starting tui")
	return tui.Run(cmd.Context(), tui.Options{
		Store:  s,
		Config: app.cfg,
		Logger: logging.Component(app.log.Logger, "tui"),
	})
}

func openStore(app *App) (store.Store, error) {
	path, err := store.ResolveDBPath(app.DB, app.cfg)
	if err != nil {
		return store.Store{}, err
	}
	s := store.Store{Path: path}
	if err := s.Ensure(); err != nil {
		return store.Store{}, err
	}
	return s, nil
}

// loadSheet opens the store and loads the sheet, seeding an empty database first.
func loadSheet(ctx context.Context, app *App) (*store.Sheet, store.Store, error) {
	s, err := openStore(app)
	if err != nil {
		return nil, s, err
	}
	seeded, err := s.SeedIfEmpty(ctx)
	if err != nil {
		return nil, s, err
	}
	if seeded {
		app.log.Info().Str("db", s.Path).Msg("seeded empty sheet")
	}
	sh, err := s.Load(ctx)
	if err != nil {
		return nil, s, err
	}
	return sh, s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
