package markdown

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// newSanitizePolicy extends the bluemonday UGC policy with the markup the
// custom renderers emit: callout asides, wikilink classes, highlighted code
// spans, heading anchors and the table wrapper.
func newSanitizePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("aside", "div", "span")
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).Globally()
	policy.AllowAttrs("role").Matching(regexp.MustCompile(`^note$`)).OnElements("aside")
	policy.AllowAttrs("title").OnElements("span", "a")
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return policy
}
