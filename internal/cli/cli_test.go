package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// testEnv isolates config and logs and returns a fresh db path.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("TAGSHEET_CONFIG_DIR", t.TempDir())
	t.Setenv("TAGSHEET_DB", "")
	t.Setenv("TAGSHEET_LOG", "")
	t.Setenv("TAGSHEET_FORMAT", "")
	return filepath.Join(t.TempDir(), "sheet.sqlite")
}

func mustData(t *testing.T, args ...string) any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: tagsheet %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return data
}

func mustFail(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err == nil {
		t.Fatalf("expected tagsheet %v to fail; stdout:\n%s", args, string(stdout))
	}
	return string(stderr)
}

func tagsOf(t *testing.T, data any) []string {
	t.Helper()
	m, ok := data.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", data)
	}
	raw, ok := m["value"].([]any)
	if !ok {
		t.Fatalf("expected tag list value, got %#v", m["value"])
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, v.(string))
	}
	return out
}

const strictYAML = `title: Pantry
columns:
  - id: item
  - id: qty
    kind: number
  - id: tags
    kind: tags
    options: [dry, cold]
  - id: locked
    kind: tags
    readonly: true
    allowCreation: true
rows:
  - id: a
    cells:
      item: Rice
      qty: "2"
      tags: [dry]
`

func importStrict(t *testing.T, db string) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "pantry.yaml")
	if err := os.WriteFile(p, []byte(strictYAML), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	data := mustData(t, "--db", db, "import", p)
	if rows := data.(map[string]any)["rows"]; rows != float64(1) {
		t.Fatalf("expected 1 imported row, got %v", rows)
	}
}

func TestRowsList_SeedsEmptyDB(t *testing.T) {
	db := testEnv(t)
	rows, ok := mustData(t, "--db", db, "rows", "list").([]any)
	if !ok || len(rows) != 3 {
		t.Fatalf("expected 3 seeded rows, got %#v", rows)
	}
	first := rows[0].(map[string]any)
	if first["id"] != "r1" {
		t.Fatalf("expected r1 first, got %v", first["id"])
	}
	cells := first["cells"].(map[string]any)
	if !reflect.DeepEqual(cells["tags"], []any{"organic", "new"}) {
		t.Fatalf("unexpected tags cell: %#v", cells["tags"])
	}
}

func TestRowsList_YAMLFormat(t *testing.T) {
	db := testEnv(t)
	stdout, _, err := runCLI(t, []string{"--db", db, "--format", "yaml", "rows", "list"})
	if err != nil {
		t.Fatalf("rows list: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "data:\n") || !strings.Contains(string(stdout), "id: r2") {
		t.Fatalf("unexpected yaml output:\n%s", stdout)
	}
}

func TestCellPaste_Tags(t *testing.T) {
	db := testEnv(t)

	data := mustData(t, "--db", db, "cell", "paste", "r1", "tags", "sale, new, sale")
	if got := tagsOf(t, data); !reflect.DeepEqual(got, []string{"sale", "new"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
	if ct := data.(map[string]any)["copyText"]; ct != "sale,new" {
		t.Fatalf("unexpected copy text %v", ct)
	}

	// Labels allow duplicates.
	data = mustData(t, "--db", db, "cell", "paste", "r1", "labels", "a,a , b")
	if got := tagsOf(t, data); !reflect.DeepEqual(got, []string{"a", "a", "b"}) {
		t.Fatalf("unexpected labels: %v", got)
	}

	data = mustData(t, "--db", db, "cell", "get", "r1", "tags")
	if got := tagsOf(t, data); !reflect.DeepEqual(got, []string{"sale", "new"}) {
		t.Fatalf("paste did not persist: %v", got)
	}

	data = mustData(t, "--db", db, "cell", "paste", "r1", "tags", "   ")
	if got := tagsOf(t, data); len(got) != 0 {
		t.Fatalf("blank paste should clear, got %v", got)
	}
}

func TestCellPaste_StrictColumn(t *testing.T) {
	db := testEnv(t)
	importStrict(t, db)

	stderr := mustFail(t, "--db", db, "cell", "paste", "a", "tags", "bogus, other")
	if !strings.Contains(stderr, "cell unchanged") {
		t.Fatalf("expected nothing-to-paste error, got:\n%s", stderr)
	}
	data := mustData(t, "--db", db, "cell", "get", "a", "tags")
	if got := tagsOf(t, data); !reflect.DeepEqual(got, []string{"dry"}) {
		t.Fatalf("rejected paste changed the cell: %v", got)
	}

	data = mustData(t, "--db", db, "cell", "paste", "a", "tags", "bogus, cold")
	if got := tagsOf(t, data); !reflect.DeepEqual(got, []string{"cold"}) {
		t.Fatalf("unknown values should be dropped: %v", got)
	}

	if stderr := mustFail(t, "--db", db, "cell", "paste", "a", "locked", "x"); !strings.Contains(stderr, "readonly") {
		t.Fatalf("expected readonly error, got:\n%s", stderr)
	}
	if stderr := mustFail(t, "--db", db, "cell", "paste", "a", "qty", "two"); !strings.Contains(stderr, "expects a number") {
		t.Fatalf("expected number error, got:\n%s", stderr)
	}
	if stderr := mustFail(t, "--db", db, "cell", "get", "zz", "qty"); !strings.Contains(stderr, "row not found: zz") {
		t.Fatalf("expected not found error, got:\n%s", stderr)
	}
}

func TestCellClear(t *testing.T) {
	db := testEnv(t)
	data := mustData(t, "--db", db, "cell", "clear", "r2", "tags")
	if got := tagsOf(t, data); len(got) != 0 {
		t.Fatalf("expected empty tags, got %v", got)
	}
	data = mustData(t, "--db", db, "cell", "clear", "r2", "info")
	m := data.(map[string]any)
	if m["value"] != "" || m["kind"] != "text" {
		t.Fatalf("unexpected cleared text cell: %#v", m)
	}
}

func TestRowsAddAndDelete(t *testing.T) {
	db := testEnv(t)

	data := mustData(t, "--db", db, "rows", "add", "--cell", "product=Tea", "--cell", "price=3.50", "--cell", "tags=new, organic")
	row := data.(map[string]any)
	id, _ := row["id"].(string)
	if !strings.HasPrefix(id, "row-") {
		t.Fatalf("expected generated row id, got %q", id)
	}
	cells := row["cells"].(map[string]any)
	if cells["price"] != "3.5" || !reflect.DeepEqual(cells["tags"], []any{"new", "organic"}) {
		t.Fatalf("unexpected cells: %#v", cells)
	}

	mustData(t, "--db", db, "rows", "add", "--id", "fixed")
	mustFail(t, "--db", db, "rows", "add", "--id", "fixed")
	mustFail(t, "--db", db, "rows", "add", "--cell", "nope=1")
	mustFail(t, "--db", db, "rows", "add", "--cell", "novalue")

	rows := mustData(t, "--db", db, "rows", "list").([]any)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}

	mustData(t, "--db", db, "rows", "delete", "fixed")
	if stderr := mustFail(t, "--db", db, "rows", "delete", "fixed"); !strings.Contains(stderr, "not found") {
		t.Fatalf("expected not found, got:\n%s", stderr)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	db := testEnv(t)
	mustData(t, "--db", db, "cell", "paste", "r3", "labels", "bulk")

	stdout, _, err := runCLI(t, []string{"--db", db, "export"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(stdout), "title: Products") {
		t.Fatalf("unexpected export:\n%s", stdout)
	}

	file := filepath.Join(t.TempDir(), "out.yaml")
	mustData(t, "--db", db, "export", "-o", file)

	other := filepath.Join(t.TempDir(), "other.sqlite")
	mustData(t, "--db", other, "import", file)
	data := mustData(t, "--db", other, "cell", "get", "r3", "labels")
	if got := tagsOf(t, data); !reflect.DeepEqual(got, []string{"bulk"}) {
		t.Fatalf("import lost data: %v", got)
	}

	mustFail(t, "--db", other, "import", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestDocs(t *testing.T) {
	testEnv(t)
	data := mustData(t, "docs")
	topics := data.(map[string]any)["topics"]
	if !reflect.DeepEqual(topics, []any{"keys", "paste", "sheets", "tags"}) {
		t.Fatalf("unexpected topics: %#v", topics)
	}

	stdout, _, err := runCLI(t, []string{"docs", "keys", "--raw"})
	if err != nil || !strings.HasPrefix(string(stdout), "# Keys") {
		t.Fatalf("unexpected raw docs (%v):\n%s", err, stdout)
	}

	stdout, _, err = runCLI(t, []string{"docs", "paste", "--style", "notty"})
	if err != nil || !strings.Contains(string(stdout), "Copy and paste") {
		t.Fatalf("unexpected rendered docs (%v):\n%s", err, stdout)
	}

	mustFail(t, "docs", "nope")
}

func TestDBUse(t *testing.T) {
	db := testEnv(t)
	data := mustData(t, "db", "use", db)
	if data.(map[string]any)["currentDb"] != db {
		t.Fatalf("unexpected db use output: %#v", data)
	}
	data = mustData(t, "db", "path")
	if data.(map[string]any)["path"] != db {
		t.Fatalf("expected config db, got %#v", data)
	}
	data = mustData(t, "--db", "/x/flag.sqlite", "db", "path")
	if data.(map[string]any)["path"] != "/x/flag.sqlite" {
		t.Fatalf("expected flag db, got %#v", data)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	db := testEnv(t)
	mustFail(t, "--db", db, "--log-level", "loud", "rows", "list")
}
