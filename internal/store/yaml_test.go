package store

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const sampleYAML = `title: Pantry
columns:
  - id: item
    title: Item
  - id: qty
    kind: number
  - id: tags
    title: Tags
    kind: tags
    allowCreation: true
    options:
      - dry
      - {value: cold, label: Cold, color: "#1c7ed6"}
rows:
  - id: a
    cells:
      item: Rice
      qty: "2"
      tags: [dry]
  - id: b
    cells:
      item: Milk
      tags: []
`

func TestReadSheetYAML(t *testing.T) {
	sh, err := ReadSheetYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if sh.Columns[0].Kind != ColumnText || sh.Columns[1].Title != "qty" {
		t.Fatalf("defaults not applied: %+v", sh.Columns[:2])
	}
	if len(sh.Columns[2].Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(sh.Columns[2].Options))
	}
	v, _ := sh.Value("a", "tags")
	if !v.IsTags || !reflect.DeepEqual(v.Tags, []string{"dry"}) {
		t.Fatalf("unexpected tags: %+v", v)
	}
	v, _ = sh.Value("b", "tags")
	if !v.IsTags || len(v.Tags) != 0 {
		t.Fatalf("expected empty tags, got %+v", v)
	}
	v, _ = sh.Value("b", "qty")
	if v.IsTags || v.Text != "" {
		t.Fatalf("expected missing cell to read empty, got %+v", v)
	}
}

func TestReadSheetYAML_NullOptionKept(t *testing.T) {
	src := "columns:\n  - id: tags\n    kind: tags\n    options:\n      - a\n      -\n      - ~\n      - b\n"
	sh, err := ReadSheetYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	opts := sh.Columns[0].Options
	if len(opts) != 4 {
		t.Fatalf("expected 4 options, got %d: %+v", len(opts), opts)
	}
	if opts[1].Value != "" || opts[1].Label != nil || opts[2].Value != "" {
		t.Fatalf("null entries should decode empty, got %+v", opts)
	}
}

func TestReadSheetYAML_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"unknown field":  "title: x\nbogus: 1\n",
		"bad kind":       "columns:\n  - {id: a, kind: date}\n",
		"dup column":     "columns:\n  - {id: a}\n  - {id: a}\n",
		"dup row":        "columns:\n  - {id: a}\nrows:\n  - {id: r}\n  - {id: r}\n",
		"unknown column": "columns:\n  - {id: a}\nrows:\n  - {id: r, cells: {b: x}}\n",
		"mapping cell":   "columns:\n  - {id: a}\nrows:\n  - {id: r, cells: {a: {x: 1}}}\n",
	}
	for name, src := range cases {
		if _, err := ReadSheetYAML(strings.NewReader(src)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestWriteSheetYAML_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSheetYAML(&buf, SeedSheet()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "- imported") || !strings.Contains(out, "label: On sale") {
		t.Fatalf("expected mixed option forms in output:\n%s", out)
	}
	back, err := ReadSheetYAML(&buf)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := SeedSheet()
	if err := want.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !reflect.DeepEqual(back.Rows, want.Rows) {
		t.Fatalf("rows did not round-trip:\n%+v\n%+v", back.Rows, want.Rows)
	}
}

func TestCellValue_JSON(t *testing.T) {
	row := Row{ID: "x", Cells: map[string]CellValue{"a": TextValue("hi"), "b": TagsValue(nil)}}
	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"id":"x","cells":{"a":"hi","b":[]}}` {
		t.Fatalf("unexpected json: %s", b)
	}
	var back Row
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, row) {
		t.Fatalf("json round-trip mismatch: %+v", back)
	}
}

func TestCellValue_TagList(t *testing.T) {
	if got := TextValue("solo").TagList(); !reflect.DeepEqual(got, []string{"solo"}) {
		t.Fatalf("scalar should read as one tag, got %v", got)
	}
	if got := TextValue("  ").TagList(); got == nil || len(got) != 0 {
		t.Fatalf("blank should read as no tags, got %v", got)
	}
	if s := TagsValue([]string{"a", "b"}).String(); s != "a,b" {
		t.Fatalf("unexpected string form %q", s)
	}
}
