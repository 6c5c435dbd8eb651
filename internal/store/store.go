package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tagsheet/internal/tagcell"
)

// Store persists one sheet in a SQLite file.
type Store struct {
	Path string
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Path) == "" {
		return errors.New("store: empty db path")
	}
	return os.MkdirAll(filepath.Dir(s.Path), 0o755)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
	// Pragmas below are per connection.
	db.SetMaxOpenConns(1)
	// WAL lets the TUI and a CLI command share the file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sheet_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sheet_columns (
			id TEXT PRIMARY KEY,
			idx INTEGER NOT NULL,
			title TEXT NOT NULL,
			kind TEXT NOT NULL,
			width INTEGER NOT NULL,
			options_json TEXT NOT NULL,
			allow_creation INTEGER NOT NULL,
			allow_duplicates INTEGER NOT NULL,
			readonly INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sheet_rows (
			id TEXT PRIMARY KEY,
			idx INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sheet_rows_idx ON sheet_rows(idx);`,
		`CREATE TABLE IF NOT EXISTS sheet_cells (
			row_id TEXT NOT NULL REFERENCES sheet_rows(id) ON DELETE CASCADE,
			col_id TEXT NOT NULL REFERENCES sheet_columns(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			tags_json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY (row_id, col_id)
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Empty reports whether the db holds no columns yet.
func (s Store) Empty(ctx context.Context) (bool, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return false, err
	}
	defer db.Close()
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sheet_columns`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// Save replaces the stored sheet with sh in one transaction.
func (s Store) Save(ctx context.Context, sh *Sheet) error {
	if sh == nil {
		return errors.New("nil sheet")
	}
	if err := sh.Normalize(); err != nil {
		return err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range []string{"sheet_cells", "sheet_rows", "sheet_columns", "sheet_meta"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_meta(k, v) VALUES(?, ?)`, "title", sh.Title); err != nil {
		return err
	}
	for i, c := range sh.Columns {
		opts, err := json.Marshal(c.Options)
		if err != nil {
			return fmt.Errorf("column %q options: %w", c.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_columns(id, idx, title, kind, width, options_json, allow_creation, allow_duplicates, readonly) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, i, c.Title, string(c.Kind), c.Width, string(opts),
			boolToInt(c.AllowCreation), boolToInt(c.AllowDuplicates), boolToInt(c.Readonly)); err != nil {
			return err
		}
	}
	nowMs := time.Now().UTC().UnixMilli()
	for i, r := range sh.Rows {
		if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_rows(id, idx) VALUES(?, ?)`, r.ID, i); err != nil {
			return err
		}
		for colID, v := range r.Cells {
			if err := putCell(ctx, tx, r.ID, colID, v, nowMs); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Load reads the stored sheet. Missing cells read as empty text.
func (s Store) Load(ctx context.Context) (*Sheet, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	sh := &Sheet{}
	if err := db.QueryRowContext(ctx, `SELECT v FROM sheet_meta WHERE k = 'title'`).Scan(&sh.Title); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	colRows, err := db.QueryContext(ctx, `SELECT id, title, kind, width, options_json, allow_creation, allow_duplicates, readonly FROM sheet_columns ORDER BY idx`)
	if err != nil {
		return nil, err
	}
	for colRows.Next() {
		var c Column
		var kind, opts string
		var allowCreation, allowDuplicates, readonly int
		if err := colRows.Scan(&c.ID, &c.Title, &kind, &c.Width, &opts, &allowCreation, &allowDuplicates, &readonly); err != nil {
			_ = colRows.Close()
			return nil, err
		}
		c.Kind = ColumnKind(kind)
		c.AllowCreation = allowCreation != 0
		c.AllowDuplicates = allowDuplicates != 0
		c.Readonly = readonly != 0
		if opts != "" && opts != "null" {
			var in tagcell.OptionInputs
			if err := json.Unmarshal([]byte(opts), &in); err != nil {
				_ = colRows.Close()
				return nil, fmt.Errorf("column %q options: %w", c.ID, err)
			}
			c.Options = in
		}
		sh.Columns = append(sh.Columns, c)
	}
	if err := colRows.Close(); err != nil {
		return nil, err
	}

	rowRows, err := db.QueryContext(ctx, `SELECT id FROM sheet_rows ORDER BY idx`)
	if err != nil {
		return nil, err
	}
	byID := map[string]int{}
	for rowRows.Next() {
		var id string
		if err := rowRows.Scan(&id); err != nil {
			_ = rowRows.Close()
			return nil, err
		}
		byID[id] = len(sh.Rows)
		sh.Rows = append(sh.Rows, Row{ID: id, Cells: map[string]CellValue{}})
	}
	if err := rowRows.Close(); err != nil {
		return nil, err
	}

	cellRows, err := db.QueryContext(ctx, `SELECT row_id, col_id, text, tags_json FROM sheet_cells`)
	if err != nil {
		return nil, err
	}
	defer cellRows.Close()
	for cellRows.Next() {
		var rowID, colID, text, tagsJSON string
		if err := cellRows.Scan(&rowID, &colID, &text, &tagsJSON); err != nil {
			return nil, err
		}
		i, ok := byID[rowID]
		if !ok {
			continue
		}
		v, err := decodeCell(text, tagsJSON)
		if err != nil {
			return nil, fmt.Errorf("cell %s/%s: %w", rowID, colID, err)
		}
		sh.Rows[i].Cells[colID] = v
	}
	if err := cellRows.Err(); err != nil {
		return nil, err
	}
	return sh, nil
}

// SetText stores a text value at (rowID, colID).
func (s Store) SetText(ctx context.Context, rowID, colID, text string) error {
	return s.setCell(ctx, rowID, colID, TextValue(text))
}

// SetTags stores a tag list at (rowID, colID). A nil list is stored as empty.
func (s Store) SetTags(ctx context.Context, rowID, colID string, tags []string) error {
	return s.setCell(ctx, rowID, colID, TagsValue(tags))
}

func (s Store) setCell(ctx context.Context, rowID, colID string, v CellValue) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := requireExists(ctx, tx, "sheet_rows", "row", rowID); err != nil {
		return err
	}
	if err := requireExists(ctx, tx, "sheet_columns", "column", colID); err != nil {
		return err
	}
	if err := putCell(ctx, tx, rowID, colID, v, time.Now().UTC().UnixMilli()); err != nil {
		return err
	}
	return tx.Commit()
}

// AddRow appends a row. cells may be nil.
func (s Store) AddRow(ctx context.Context, r Row) error {
	r.ID = strings.TrimSpace(r.ID)
	if r.ID == "" {
		return errors.New("row id is empty")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM sheet_rows WHERE id = ?`, r.ID).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("row already exists: %s", r.ID)
	}
	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(idx) + 1, 0) FROM sheet_rows`).Scan(&next); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_rows(id, idx) VALUES(?, ?)`, r.ID, next); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	for colID, v := range r.Cells {
		if err := requireExists(ctx, tx, "sheet_columns", "column", colID); err != nil {
			return err
		}
		if err := putCell(ctx, tx, r.ID, colID, v, nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteRow removes a row and its cells.
func (s Store) DeleteRow(ctx context.Context, rowID string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, `DELETE FROM sheet_cells WHERE row_id = ?`, rowID); err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM sheet_rows WHERE id = ?`, rowID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFoundError{Kind: "row", ID: rowID}
	}
	return nil
}

// SetColumnWidth persists a column width, e.g. after auto-sizing.
func (s Store) SetColumnWidth(ctx context.Context, colID string, width int) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	res, err := db.ExecContext(ctx, `UPDATE sheet_columns SET width = ? WHERE id = ?`, max(width, 0), colID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFoundError{Kind: "column", ID: colID}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putCell(ctx context.Context, tx execer, rowID, colID string, v CellValue, nowMs int64) error {
	text, tagsJSON, err := encodeCell(v)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO sheet_cells(row_id, col_id, text, tags_json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(row_id, col_id) DO UPDATE SET text = excluded.text, tags_json = excluded.tags_json, updated_at_unixms = excluded.updated_at_unixms`,
		rowID, colID, text, tagsJSON, nowMs)
	return err
}

func requireExists(ctx context.Context, tx *sql.Tx, table, kind, id string) error {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+table+` WHERE id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

// encodeCell stores text cells with an empty tags_json and tag cells as a JSON array.
func encodeCell(v CellValue) (string, string, error) {
	if !v.IsTags {
		return v.Text, "", nil
	}
	b, err := json.Marshal(v.TagList())
	if err != nil {
		return "", "", err
	}
	return "", string(b), nil
}

func decodeCell(text, tagsJSON string) (CellValue, error) {
	if tagsJSON == "" {
		return TextValue(text), nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
		return CellValue{}, err
	}
	return TagsValue(tags), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ParseNumber reads a number cell value; blank is zero.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
