// Package validation enforces the content schema over collected items and
// validates structured manifests against JSON schemas.
package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/dates"
	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/internal/taxonomy"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// Validator checks raw items and converts the valid ones into content.Item.
// It keeps no state between calls.
type Validator struct {
	taxonomy *taxonomy.Taxonomy
	logger   interfaces.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithTaxonomy overrides the tag vocabulary.
func WithTaxonomy(tax *taxonomy.Taxonomy) Option {
	return func(v *Validator) {
		if tax != nil {
			v.taxonomy = tax
		}
	}
}

// WithLogger sets the logger used for per-issue diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New constructs a Validator using the default taxonomy.
func New(opts ...Option) *Validator {
	v := &Validator{
		taxonomy: taxonomy.Default(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every item before reporting. When any check fails the
// returned error carries one Issue per violation (see Issues) and no items
// are returned. On success the items keep input order.
func (v *Validator) Validate(items []content.RawItem) ([]*content.Item, error) {
	var issues []Issue
	seen := map[content.Type]map[string]struct{}{}
	validated := make([]*content.Item, 0, len(items))

	for _, raw := range items {
		itemIssues := v.check(raw, seen)
		if len(itemIssues) > 0 {
			for _, issue := range itemIssues {
				v.logger.Debug("validation.issue", "file_path", issue.FilePath, "message", issue.Message)
			}
			issues = append(issues, itemIssues...)
			continue
		}
		validated = append(validated, v.toItem(raw))
	}

	if len(issues) > 0 {
		v.logger.Error("validation.failed", "issues", len(issues), "items", len(items))
		return nil, wrapIssues(issues)
	}
	return validated, nil
}

func (v *Validator) check(raw content.RawItem, seen map[content.Type]map[string]struct{}) []Issue {
	var issues []Issue
	add := func(format string, args ...any) {
		issues = append(issues, Issue{FilePath: raw.FilePath, Message: fmt.Sprintf(format, args...)})
	}
	meta := raw.FrontMatter

	if title, ok := meta["title"].(string); !ok || title == "" {
		add("missing or invalid title")
	}

	if _, ok := dates.Parse(meta["date"]); !ok {
		add("missing or invalid date")
	}

	typ, typeOK := v.itemType(meta)
	if !typeOK {
		add("invalid type %q (must be one of: %s)", displayValue(meta["type"]), joinTypes(content.CollectedTypes))
	}

	switch typ {
	case content.TypePost:
		if !nonEmptyString(meta, "description") {
			add("posts require description")
		}
	case content.TypePhoto:
		if !nonEmptyString(meta, "image") {
			add("photos require image")
		}
		if !nonEmptyString(meta, "alt") {
			add("photos require alt text")
		}
	}

	slug, _ := meta["slug"].(string)
	if strings.TrimSpace(slug) == "" {
		add("missing or blank slug")
	} else if typeOK {
		bucket := seen[typ]
		if bucket == nil {
			bucket = map[string]struct{}{}
			seen[typ] = bucket
		}
		if _, dup := bucket[slug]; dup {
			add("duplicate slug %q for type %q", slug, typ)
		}
		bucket[slug] = struct{}{}
	}

	if updated, ok := meta["updated"]; ok {
		if _, valid := dates.Parse(updated); !valid {
			add("invalid updated date")
		}
	}

	if version, ok := meta["schemaVersion"]; ok && !isSupportedVersion(version) {
		add("unsupported schemaVersion %q (expected %d)", displayValue(version), content.SchemaVersion)
	}

	if rawTags, ok := meta["tags"]; ok {
		list, isList := rawTags.([]any)
		if !isList {
			add("tags must be an array")
		} else {
			reportedType := false
			for _, entry := range list {
				tag, isString := entry.(string)
				if !isString {
					if !reportedType {
						add("tags must be strings")
						reportedType = true
					}
					continue
				}
				if _, known := v.taxonomy.NormalizeTag(tag); !known {
					add("unknown tag %q (not in canonical taxonomy)", tag)
				}
			}
		}
	}

	return issues
}

func (v *Validator) itemType(meta map[string]any) (content.Type, bool) {
	name, ok := meta["type"].(string)
	if !ok {
		return "", false
	}
	typ := content.Type(name)
	return typ, typ.Valid()
}

func (v *Validator) toItem(raw content.RawItem) *content.Item {
	meta := raw.FrontMatter
	date, _ := dates.Parse(meta["date"])

	item := &content.Item{
		Slug:          meta["slug"].(string),
		Type:          content.Type(meta["type"].(string)),
		SchemaVersion: content.SchemaVersion,
		Title:         meta["title"].(string),
		Date:          date,
		Draft:         boolField(meta, "draft"),
		Tags:          v.normalizeTags(meta["tags"]),
		Description:   stringField(meta, "description"),
		Body:          raw.Body,
		WordCount:     content.CountWords(raw.Body),
		FilePath:      raw.FilePath,
		FrontMatter:   meta,
	}
	item.ReadingTime = content.ReadingTime(item.WordCount)

	if updated, ok := dates.Parse(meta["updated"]); ok {
		item.Updated = &updated
	}

	switch item.Type {
	case content.TypePost:
		item.Post = postFields(meta)
	case content.TypeNote:
		if hero := stringField(meta, "heroImage"); hero != "" {
			item.Note = &content.NoteFields{HeroImage: hero}
		}
	case content.TypePhoto:
		item.Photo = &content.PhotoFields{
			Image:       stringField(meta, "image"),
			Alt:         stringField(meta, "alt"),
			Observation: stringField(meta, "observation"),
			Location:    stringField(meta, "location"),
			Camera:      stringField(meta, "camera"),
			Settings:    stringField(meta, "settings"),
		}
	}

	return item
}

// normalizeTags maps tags onto the canonical set, drops duplicates and sorts
// the result.
func (v *Validator) normalizeTags(value any) []string {
	list, _ := value.([]any)
	tags := make([]string, 0, len(list))
	for _, entry := range list {
		tag, _ := entry.(string)
		if canonical, ok := v.taxonomy.NormalizeTag(tag); ok {
			tags = append(tags, canonical)
		}
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}

func postFields(meta map[string]any) *content.PostFields {
	fields := &content.PostFields{
		HeroImage:    stringField(meta, "heroImage"),
		CanonicalURL: stringField(meta, "canonicalUrl"),
		Series:       stringField(meta, "series"),
		NoIndex:      boolField(meta, "noIndex"),
		Featured:     boolField(meta, "featured"),
		Tension:      stringField(meta, "tension"),
		Questions:    stringList(meta, "questions"),
		Constraints:  stringList(meta, "constraints"),
		Tools:        stringList(meta, "tools"),
		Preface:      stringField(meta, "preface"),
	}
	for _, name := range stringList(meta, "coAuthors") {
		fields.CoAuthors = append(fields.CoAuthors, content.CoAuthor{Name: name})
	}
	return fields
}

func isSupportedVersion(value any) bool {
	switch v := value.(type) {
	case int:
		return v == content.SchemaVersion
	case float64:
		return v == float64(content.SchemaVersion)
	default:
		return false
	}
}

func nonEmptyString(meta map[string]any, key string) bool {
	value, ok := meta[key].(string)
	return ok && value != ""
}

func stringField(meta map[string]any, key string) string {
	value, _ := meta[key].(string)
	return value
}

func boolField(meta map[string]any, key string) bool {
	value, _ := meta[key].(bool)
	return value
}

func stringList(meta map[string]any, key string) []string {
	switch value := meta[key].(type) {
	case []any:
		out := make([]string, 0, len(value))
		for _, entry := range value {
			if s, ok := entry.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if value != "" {
			return []string{value}
		}
	}
	return nil
}

func displayValue(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func joinTypes(types []content.Type) string {
	names := make([]string, len(types))
	for i, typ := range types {
		names[i] = string(typ)
	}
	return strings.Join(names, ", ")
}
