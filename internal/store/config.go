package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultDBName  = "sheet.sqlite"
	defaultLogName = "tagsheet.log"
)

type GlobalConfig struct {
	// CurrentDB is the sheet database opened when --db is not given.
	CurrentDB string `json:"currentDb,omitempty"`

	// LogLevel is a zerolog level name.
	LogLevel string `json:"logLevel,omitempty"`

	// TUI holds optional user preferences for the interactive grid.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is "light", "dark" or "auto".
	Theme string `json:"theme,omitempty"`
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// RowHeight is the grid row height in lines. Tag columns wrap when it is 3 or more.
	RowHeight int `json:"rowHeight,omitempty"`
	// RoundedBubbles draws tag bubbles with powerline caps.
	RoundedBubbles bool `json:"roundedBubbles,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.tagsheet).
	if v := strings.TrimSpace(os.Getenv("TAGSHEET_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tagsheet"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultDBPath is the sheet database used when neither --db nor the config names one.
func DefaultDBPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultDBName), nil
}

// LogPath honors TAGSHEET_LOG, falling back to the config dir.
func LogPath() (string, error) {
	if v := strings.TrimSpace(os.Getenv("TAGSHEET_LOG")); v != "" {
		return v, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultLogName), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// The TUI and CLI may both write the config; rename keeps readers from seeing a partial file.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// ResolveDBPath picks the db from an explicit flag, then config, then the default.
func ResolveDBPath(flag string, cfg *GlobalConfig) (string, error) {
	if p := strings.TrimSpace(flag); p != "" {
		return p, nil
	}
	if cfg != nil {
		if p := strings.TrimSpace(cfg.CurrentDB); p != "" {
			return p, nil
		}
	}
	return DefaultDBPath()
}
