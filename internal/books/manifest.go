package books

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contentkit/internal/dates"
	"github.com/goliatone/go-contentkit/internal/validation"
)

// ManifestFile is the name of the per-book manifest.
const ManifestFile = "book.yaml"

var (
	// ErrInvalidManifest wraps manifest decoding and schema failures.
	ErrInvalidManifest = errors.New("books: invalid manifest")

	//go:embed manifest.schema.json
	manifestSchemaDoc []byte

	manifestSchema = validation.MustCompileSchema("book-manifest.json", manifestSchemaDoc)
)

// Manifest is the decoded book.yaml.
type Manifest struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Genre       string `yaml:"genre"`
	Status      string `yaml:"status"`
	Date        string `yaml:"date"`
	CoverImage  string `yaml:"coverImage"`
}

// ParseManifest decodes and validates a manifest and returns it with its
// parsed date.
func ParseManifest(data []byte) (Manifest, time.Time, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Manifest{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := manifestSchema.ValidateValue(raw); err != nil {
		return Manifest{}, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	date, ok := dates.ParseString(manifest.Date)
	if !ok {
		return Manifest{}, time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidManifest, manifest.Date)
	}
	return manifest, date, nil
}
