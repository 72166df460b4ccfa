// Package frontmatter splits markdown documents into a metadata block and a
// body. The metadata grammar is a small YAML subset: one `key: value` pair per
// line, scalars, inline arrays and block arrays.
package frontmatter

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	documentPattern = regexp.MustCompile(`^---\r?\n([\s\S]*?)\r?\n---\r?\n([\s\S]*)$`)
	integerPattern  = regexp.MustCompile(`^-?\d+$`)
	decimalPattern  = regexp.MustCompile(`^-?\d+\.\d+$`)
)

// Document is the result of splitting a source file.
type Document struct {
	Meta    map[string]any
	Body    string
	HasMeta bool
}

// Parse splits source into metadata and body. A document without a leading
// delimiter block is returned whole as body with empty metadata. Parse never
// fails.
func Parse(source string) Document {
	match := documentPattern.FindStringSubmatch(source)
	if match == nil {
		return Document{Meta: map[string]any{}, Body: source}
	}
	return Document{
		Meta:    ParseMeta(match[1]),
		Body:    strings.TrimSpace(match[2]),
		HasMeta: true,
	}
}

// ParseMeta parses the lines of a metadata block. Duplicate keys are resolved
// last-write-wins; blank and comment lines are skipped.
func ParseMeta(block string) map[string]any {
	meta := map[string]any{}

	var (
		currentKey string
		inArray    bool
		values     []any
	)

	flush := func() {
		meta[currentKey] = values
		values = nil
		inArray = false
	}

	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if inArray {
			if strings.HasPrefix(trimmed, "- ") {
				values = append(values, ParseScalar(strings.TrimSpace(trimmed[2:])))
				continue
			}
			flush()
		}

		colon := strings.Index(trimmed, ":")
		if colon <= 0 {
			continue
		}

		key := strings.TrimSpace(trimmed[:colon])
		raw := strings.TrimSpace(trimmed[colon+1:])
		currentKey = key

		if raw == "" {
			inArray = true
			values = []any{}
			continue
		}

		if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
			meta[key] = parseInlineArray(raw[1 : len(raw)-1])
			continue
		}

		meta[key] = ParseScalar(raw)
	}

	if inArray && len(values) > 0 {
		meta[currentKey] = values
	}

	return meta
}

func parseInlineArray(inner string) []any {
	parts := strings.Split(inner, ",")
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, ParseScalar(part))
	}
	return out
}

// ParseScalar converts a single raw value. Quoted values keep their contents
// verbatim; `true`/`false` become booleans, `null`/`~` become nil, integer
// and decimal literals become int and float64. Anything else is a string.
func ParseScalar(value string) any {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return value[1 : len(value)-1]
		}
	}

	switch value {
	case "true":
		return true
	case "false":
		return false
	case "null", "~":
		return nil
	}

	if integerPattern.MatchString(value) {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	if decimalPattern.MatchString(value) {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}

	return value
}
