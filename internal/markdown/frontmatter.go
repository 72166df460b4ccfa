package markdown

import (
	"bytes"
	"fmt"
	"maps"

	"github.com/adrg/frontmatter"
)

// FrontMatter is metadata decoded with a complete YAML (or TOML) parser. It
// serves sources outside the main content tree, such as book chapters, whose
// authors write unrestricted frontmatter.
type FrontMatter struct {
	Title string
	Draft bool
	Raw   map[string]any
}

// ParseFrontMatter extracts metadata and the markdown body from source. A
// source without frontmatter yields zero metadata and the full source.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

type frontMatterEnvelope struct {
	Title  string         `yaml:"title" toml:"title"`
	Draft  bool           `yaml:"draft" toml:"draft"`
	Custom map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	raw := make(map[string]any, len(env.Custom)+2)
	maps.Copy(raw, env.Custom)
	if env.Title != "" {
		raw["title"] = env.Title
	}
	raw["draft"] = env.Draft

	return FrontMatter{
		Title: env.Title,
		Draft: env.Draft,
		Raw:   raw,
	}
}
