// Package taxonomy holds the vocabularies content is checked against: the
// canonical tag set, tag aliases and the callout types the renderer knows.
package taxonomy

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownAliasTarget is returned when an alias points outside the canonical
// tag set.
var ErrUnknownAliasTarget = errors.New("taxonomy: alias target is not canonical")

var defaultTags = []string{
	"aerial", "ai", "architecture", "building", "craft", "creativity", "culture",
	"design", "education", "epistemology", "identity", "judgment", "landscape",
	"leadership", "life", "mental-models", "night", "observation", "photography",
	"reflection", "systems", "tools", "travel", "tutorial", "urban",
}

var defaultAliases = map[string]string{
	"constraints": "architecture",
	"engineering": "building",
	"interfaces":  "design",
	"meta":        "reflection",
	"parenting":   "life",
	"philosophy":  "mental-models",
	"talk":        "reflection",
}

var defaultCallouts = []string{"aside", "constraints", "lens"}

// Taxonomy is immutable after construction and safe for concurrent use.
type Taxonomy struct {
	canonical map[string]struct{}
	aliases   map[string]string
	callouts  map[string]struct{}
}

// File is the on-disk representation read by Load.
type File struct {
	Tags     []string          `yaml:"tags"`
	Aliases  map[string]string `yaml:"aliases"`
	Callouts []string          `yaml:"callouts"`
}

// Default returns the built-in vocabulary.
func Default() *Taxonomy {
	tax, _ := New(File{Tags: defaultTags, Aliases: defaultAliases, Callouts: defaultCallouts})
	return tax
}

// New builds a taxonomy from explicit vocabularies. Entries are trimmed and
// lowercased; aliases must resolve to a canonical tag.
func New(file File) (*Taxonomy, error) {
	tax := &Taxonomy{
		canonical: make(map[string]struct{}, len(file.Tags)),
		aliases:   make(map[string]string, len(file.Aliases)),
		callouts:  make(map[string]struct{}, len(file.Callouts)),
	}
	for _, tag := range file.Tags {
		if key := fold(tag); key != "" {
			tax.canonical[key] = struct{}{}
		}
	}
	for alias, target := range file.Aliases {
		key, canonical := fold(alias), fold(target)
		if key == "" {
			continue
		}
		if _, ok := tax.canonical[canonical]; !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownAliasTarget, alias, target)
		}
		tax.aliases[key] = canonical
	}
	for _, callout := range file.Callouts {
		if key := fold(callout); key != "" {
			tax.callouts[key] = struct{}{}
		}
	}
	return tax, nil
}

// Parse decodes a YAML taxonomy document. Sections left empty fall back to
// the built-in vocabulary.
func Parse(data []byte) (*Taxonomy, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("taxonomy: decode: %w", err)
	}
	if len(file.Tags) == 0 {
		file.Tags = defaultTags
		if file.Aliases == nil {
			file.Aliases = defaultAliases
		}
	}
	if len(file.Callouts) == 0 {
		file.Callouts = defaultCallouts
	}
	return New(file)
}

// Load reads a taxonomy from a YAML file on disk.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: read %s: %w", path, err)
	}
	return Parse(data)
}

// NormalizeTag maps tag onto its canonical form. The second return value is
// false when the tag is blank or not part of the vocabulary. Normalising a
// canonical tag returns it unchanged.
func (t *Taxonomy) NormalizeTag(tag string) (string, bool) {
	key := fold(tag)
	if key == "" {
		return "", false
	}
	if _, ok := t.canonical[key]; ok {
		return key, true
	}
	canonical, ok := t.aliases[key]
	return canonical, ok
}

// IsCallout reports whether name is a known callout type.
func (t *Taxonomy) IsCallout(name string) bool {
	_, ok := t.callouts[fold(name)]
	return ok
}

// Tags returns the canonical tags in sorted order.
func (t *Taxonomy) Tags() []string {
	return sortedKeys(t.canonical)
}

// Callouts returns the callout types in sorted order.
func (t *Taxonomy) Callouts() []string {
	return sortedKeys(t.callouts)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

func fold(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
