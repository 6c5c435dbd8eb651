package docs

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	got := strings.Join(Topics(), ",")
	if got != "keys,paste,sheets,tags" {
		t.Fatalf("unexpected topics: %s", got)
	}
}

func TestGet(t *testing.T) {
	for _, topic := range Topics() {
		body, ok := Get(" " + strings.ToUpper(topic) + " ")
		if !ok || !strings.HasPrefix(body, "# ") {
			t.Fatalf("topic %q: expected markdown heading, got ok=%v", topic, ok)
		}
	}
	if _, ok := Get("../docs"); ok {
		t.Fatalf("expected miss for path-like topic")
	}
	if _, ok := Get(""); ok {
		t.Fatalf("expected miss for empty topic")
	}
}
