// Package tui runs the interactive sheet grid.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run loads the sheet, seeding an empty database first, and runs the grid until the user quits.
func Run(ctx context.Context, opts Options) error {
	seeded, err := opts.Store.SeedIfEmpty(ctx)
	if err != nil {
		return fmt.Errorf("seed sheet: %w", err)
	}
	if seeded {
		opts.Logger.Info().Str("db", opts.Store.Path).Msg("seeded empty sheet")
	}
	sh, err := opts.Store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load sheet: %w", err)
	}

	applyColorProfilePreference()
	m := newAppModel(ctx, opts, sh)
	if st, err := opts.Store.LoadTUIState(); err != nil {
		opts.Logger.Warn().Err(err).Msg("load tui state failed")
	} else {
		m.restoreSelection(st)
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
