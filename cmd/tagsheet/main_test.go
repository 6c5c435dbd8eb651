package main

import (
	"reflect"
	"testing"
)

func TestRewriteDBPathArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"tagsheet"},
			want: []string{"tagsheet"},
		},
		{
			name: "db path first token",
			in:   []string{"tagsheet", "./pantry.sqlite"},
			want: []string{"tagsheet", "--db", "./pantry.sqlite"},
		},
		{
			name: "db path after bool flag",
			in:   []string{"tagsheet", "--pretty", "x.db"},
			want: []string{"tagsheet", "--pretty", "--db", "x.db"},
		},
		{
			name: "db path after value flag",
			in:   []string{"tagsheet", "--format", "yaml", "x.SQLITE"},
			want: []string{"tagsheet", "--format", "yaml", "--db", "x.SQLITE"},
		},
		{
			name: "value of --db is not rewritten",
			in:   []string{"tagsheet", "--db", "x.sqlite", "rows", "list"},
			want: []string{"tagsheet", "--db", "x.sqlite", "rows", "list"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"tagsheet", "import", "sheet.yaml"},
			want: []string{"tagsheet", "import", "sheet.yaml"},
		},
		{
			name: "subcommand argument ending in .db untouched",
			in:   []string{"tagsheet", "db", "use", "x.db"},
			want: []string{"tagsheet", "db", "use", "x.db"},
		},
		{
			name: "after double dash",
			in:   []string{"tagsheet", "--", "x.sqlite"},
			want: []string{"tagsheet", "--db", "x.sqlite"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDBPathArgs(append([]string(nil), tt.in...))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDBPathArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
