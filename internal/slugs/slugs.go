// Package slugs derives URL-safe identifiers from titles, explicit metadata
// and filenames.
package slugs

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	separatorPattern = regexp.MustCompile(`[\s_]+`)
	invalidPattern   = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun        = regexp.MustCompile(`-+`)
	datePrefix       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)
)

// Slugify lowercases input, strips diacritics and reduces everything outside
// [a-z0-9] to single hyphens. The result never starts or ends with a hyphen.
// Slugify is idempotent.
func Slugify(input string) string {
	value := stripDiacritics(input)
	value = strings.ToLower(value)
	value = separatorPattern.ReplaceAllString(value, "-")
	value = invalidPattern.ReplaceAllString(value, "")
	value = hyphenRun.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}

func stripDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}

// FromFilename derives a slug from a file name, dropping the .md extension
// and a leading YYYY-MM-DD- date prefix.
func FromFilename(filename string) string {
	name := strings.TrimSuffix(path.Base(filename), ".md")
	name = datePrefix.ReplaceAllString(name, "")
	return Slugify(name)
}

// Resolve returns the normalised explicit slug when it is non-blank,
// otherwise the slug derived from filename.
func Resolve(explicit, filename string) string {
	if strings.TrimSpace(explicit) != "" {
		return Slugify(explicit)
	}
	return FromFilename(filename)
}
