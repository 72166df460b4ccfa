package taxonomy_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-contentkit/internal/taxonomy"
)

func TestNormalizeTag(t *testing.T) {
	tax := taxonomy.Default()

	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"systems", "systems", true},
		{"  Design ", "design", true},
		{"Engineering", "building", true},
		{"philosophy", "mental-models", true},
		{"talk", "reflection", true},
		{"unknown", "", false},
		{"   ", "", false},
	}

	for _, tc := range cases {
		got, ok := tax.NormalizeTag(tc.input)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("NormalizeTag(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeTagIdempotent(t *testing.T) {
	tax := taxonomy.Default()
	inputs := append(tax.Tags(), "constraints", "ENGINEERING", "Meta", " parenting ")

	for _, input := range inputs {
		once, ok := tax.NormalizeTag(input)
		if !ok {
			t.Fatalf("expected %q to normalise", input)
		}
		twice, ok := tax.NormalizeTag(once)
		if !ok || twice != once {
			t.Fatalf("NormalizeTag not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestDefaultCallouts(t *testing.T) {
	tax := taxonomy.Default()
	for _, name := range []string{"aside", "Constraints", "LENS"} {
		if !tax.IsCallout(name) {
			t.Fatalf("expected %q to be a callout", name)
		}
	}
	if tax.IsCallout("warning") {
		t.Fatalf("did not expect warning to be a callout")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	doc := []byte(`tags:
  - go
  - databases
aliases:
  golang: go
  sql: databases
callouts:
  - warning
`)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("write taxonomy: %v", err)
	}

	tax, err := taxonomy.Load(path)
	if err != nil {
		t.Fatalf("load taxonomy: %v", err)
	}
	if got, ok := tax.NormalizeTag("Golang"); !ok || got != "go" {
		t.Fatalf("expected alias to resolve, got %q %v", got, ok)
	}
	if _, ok := tax.NormalizeTag("systems"); ok {
		t.Fatalf("expected default tags to be replaced")
	}
	if !tax.IsCallout("warning") || tax.IsCallout("aside") {
		t.Fatalf("unexpected callout set %v", tax.Callouts())
	}
}

func TestParseFallsBackToDefaults(t *testing.T) {
	tax, err := taxonomy.Parse([]byte("callouts: [note]\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := tax.NormalizeTag("meta"); !ok {
		t.Fatalf("expected default aliases when tags are omitted")
	}
	if !tax.IsCallout("note") {
		t.Fatalf("expected custom callout")
	}
}

func TestNewRejectsDanglingAlias(t *testing.T) {
	_, err := taxonomy.New(taxonomy.File{
		Tags:    []string{"go"},
		Aliases: map[string]string{"rust": "systems"},
	})
	if !errors.Is(err, taxonomy.ErrUnknownAliasTarget) {
		t.Fatalf("expected ErrUnknownAliasTarget, got %v", err)
	}
}
