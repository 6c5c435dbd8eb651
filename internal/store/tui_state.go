package store

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// TUIState stores small, user-facing UI state for restoring the grid on relaunch.
//
// It lives next to the sheet db so state is scoped per sheet. Callers should
// tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	SelectedRowID string `json:"selectedRowId,omitempty"`
	SelectedColID string `json:"selectedColId,omitempty"`
}

func (s Store) tuiStatePath() string {
	return strings.TrimSuffix(s.Path, ".sqlite") + ".tui_state.json"
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Path) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil {
		return errors.New("nil tui state")
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.tuiStatePath(), b, 0o644)
}
