// internal/input/loader_test.go
package input

import (
	"os"
	"path/filepath"
	"testing"
)

const validDocument = `{
  "groups": [
    {
      "id": "g1",
      "prompt": "What is the capital of France?",
      "provider": "openai",
      "model": "gpt-4",
      "outputs": [
        {"id": "o1", "content": "Paris is the capital of France.", "sequence": 0},
        {"id": "o2", "content": "Paris is the capital of France.", "sequence": 1}
      ]
    }
  ]
}`

func TestParseGroups(t *testing.T) {
	t.Parallel()

	groups, err := ParseGroups([]byte(validDocument))
	if err != nil {
		t.Fatalf("ParseGroups returned error: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("groups count = %d want 1", len(groups))
	}
	g := groups[0]
	if g.ID != "g1" || g.Provider != "openai" || g.Model != "gpt-4" {
		t.Fatalf("unexpected group fields: %+v", g)
	}
	if len(g.Outputs) != 2 || g.Outputs[1].Sequence != 1 {
		t.Fatalf("unexpected outputs: %+v", g.Outputs)
	}
}

func TestParseGroupsRejectsMissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "no groups key", doc: `{"batch": []}`},
		{name: "group missing model", doc: `{"groups": [{"id": "g", "prompt": "p", "provider": "x", "outputs": []}]}`},
		{name: "output missing content", doc: `{"groups": [{"id": "g", "prompt": "p", "provider": "x", "model": "m", "outputs": [{"id": "o"}]}]}`},
		{name: "empty group id", doc: `{"groups": [{"id": "", "prompt": "p", "provider": "x", "model": "m", "outputs": []}]}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseGroups([]byte(tt.doc)); err == nil {
				t.Fatalf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestParseGroupsRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	if _, err := ParseGroups([]byte(`{"groups": [`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestLoadGroups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "groups.json")
	if err := os.WriteFile(path, []byte(validDocument), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	groups, err := LoadGroups(path)
	if err != nil {
		t.Fatalf("LoadGroups returned error: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("groups count = %d want 1", len(groups))
	}
}

func TestLoadGroupsMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadGroups(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
