package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"tagsheet/internal/tagcell"
)

type ColumnKind string

const (
	ColumnText   ColumnKind = "text"
	ColumnNumber ColumnKind = "number"
	ColumnTags   ColumnKind = "tags"
)

func ParseColumnKind(s string) (ColumnKind, error) {
	switch k := ColumnKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ColumnText, ColumnNumber, ColumnTags:
		return k, nil
	case "":
		return ColumnText, nil
	default:
		return "", fmt.Errorf("invalid column kind %q (expected text|number|tags)", s)
	}
}

type Column struct {
	ID    string     `json:"id" yaml:"id"`
	Title string     `json:"title" yaml:"title"`
	Kind  ColumnKind `json:"kind" yaml:"kind"`
	Width int        `json:"width,omitempty" yaml:"width,omitempty"`

	// Tag column settings.
	Options         tagcell.OptionInputs `json:"options,omitempty" yaml:"options,omitempty"`
	AllowCreation   bool                 `json:"allowCreation,omitempty" yaml:"allowCreation,omitempty"`
	AllowDuplicates bool                 `json:"allowDuplicates,omitempty" yaml:"allowDuplicates,omitempty"`

	Readonly bool `json:"readonly,omitempty" yaml:"readonly,omitempty"`
}

// CellValue is either plain text or a tag list. In YAML and JSON a scalar
// is text and a sequence is tags.
type CellValue struct {
	Text   string
	Tags   []string
	IsTags bool
}

func TextValue(s string) CellValue { return CellValue{Text: s} }

func TagsValue(tags []string) CellValue {
	if tags == nil {
		tags = []string{}
	}
	return CellValue{Tags: append([]string{}, tags...), IsTags: true}
}

// TagList reads v as a tag list. A non-empty scalar is a single tag.
func (v CellValue) TagList() []string {
	if v.IsTags {
		return append([]string{}, v.Tags...)
	}
	if strings.TrimSpace(v.Text) == "" {
		return []string{}
	}
	return []string{v.Text}
}

// String is the plain-text form, tags joined with commas.
func (v CellValue) String() string {
	if v.IsTags {
		return strings.Join(v.Tags, ",")
	}
	return v.Text
}

func (v CellValue) MarshalYAML() (any, error) {
	if v.IsTags {
		return v.TagList(), nil
	}
	return v.Text, nil
}

func (v *CellValue) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			*v = CellValue{}
			return nil
		}
		*v = TextValue(n.Value)
		return nil
	case yaml.SequenceNode:
		var tags []string
		if err := n.Decode(&tags); err != nil {
			return fmt.Errorf("line %d: tags must be strings: %w", n.Line, err)
		}
		*v = TagsValue(tags)
		return nil
	default:
		return fmt.Errorf("line %d: cell must be a string or a list of tags", n.Line)
	}
}

func (v CellValue) MarshalJSON() ([]byte, error) {
	if v.IsTags {
		return json.Marshal(v.TagList())
	}
	return json.Marshal(v.Text)
}

func (v *CellValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*v = CellValue{}
		return nil
	case strings.HasPrefix(s, "["):
		var tags []string
		if err := json.Unmarshal(b, &tags); err != nil {
			return err
		}
		*v = TagsValue(tags)
		return nil
	default:
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return errors.New("cell must be a string or a list of tags")
		}
		*v = TextValue(text)
		return nil
	}
}

type Row struct {
	ID    string               `json:"id" yaml:"id"`
	Cells map[string]CellValue `json:"cells" yaml:"cells"`
}

type Sheet struct {
	Title   string   `json:"title" yaml:"title"`
	Columns []Column `json:"columns" yaml:"columns"`
	Rows    []Row    `json:"rows" yaml:"rows"`
}

func (s *Sheet) ColumnIndex(id string) (int, bool) {
	for i, c := range s.Columns {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Sheet) RowIndex(id string) (int, bool) {
	for i, r := range s.Rows {
		if r.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Value returns the cell at (rowID, colID). Missing cells read as empty text.
func (s *Sheet) Value(rowID, colID string) (CellValue, error) {
	ri, ok := s.RowIndex(rowID)
	if !ok {
		return CellValue{}, NotFoundError{Kind: "row", ID: rowID}
	}
	if _, ok := s.ColumnIndex(colID); !ok {
		return CellValue{}, NotFoundError{Kind: "column", ID: colID}
	}
	return s.Rows[ri].Cells[colID], nil
}

// SetValue replaces the cell at (rowID, colID) in memory.
func (s *Sheet) SetValue(rowID, colID string, v CellValue) error {
	ri, ok := s.RowIndex(rowID)
	if !ok {
		return NotFoundError{Kind: "row", ID: rowID}
	}
	if _, ok := s.ColumnIndex(colID); !ok {
		return NotFoundError{Kind: "column", ID: colID}
	}
	if s.Rows[ri].Cells == nil {
		s.Rows[ri].Cells = map[string]CellValue{}
	}
	s.Rows[ri].Cells[colID] = v
	return nil
}

// Normalize fills defaults and checks ids and kinds.
func (s *Sheet) Normalize() error {
	seen := map[string]bool{}
	for i := range s.Columns {
		c := &s.Columns[i]
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return fmt.Errorf("column %d: missing id", i+1)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate column id %q", c.ID)
		}
		seen[c.ID] = true
		k, err := ParseColumnKind(string(c.Kind))
		if err != nil {
			return fmt.Errorf("column %q: %w", c.ID, err)
		}
		c.Kind = k
		if strings.TrimSpace(c.Title) == "" {
			c.Title = c.ID
		}
		if c.Width < 0 {
			c.Width = 0
		}
	}

	rows := map[string]bool{}
	for i := range s.Rows {
		r := &s.Rows[i]
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return fmt.Errorf("row %d: missing id", i+1)
		}
		if rows[r.ID] {
			return fmt.Errorf("duplicate row id %q", r.ID)
		}
		rows[r.ID] = true
		for colID := range r.Cells {
			if !seen[colID] {
				return fmt.Errorf("row %q: unknown column %q", r.ID, colID)
			}
		}
		if r.Cells == nil {
			r.Cells = map[string]CellValue{}
		}
	}
	return nil
}
