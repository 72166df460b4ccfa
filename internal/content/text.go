package content

import (
	"regexp"
	"strings"
)

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

var (
	fencePattern      = regexp.MustCompile("```[\\s\\S]*?```")
	inlineCodePattern = regexp.MustCompile("`[^`]*`")
	imagePattern      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkPattern       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	symbolPattern     = regexp.MustCompile("[#*_~`>\\-|]")
	wordCharPattern   = regexp.MustCompile(`\w`)
)

// CountWords counts the prose words of a markdown body. Fenced and inline
// code, images, link targets, HTML tags and markdown punctuation are removed
// first; a word must contain at least one letter, digit or underscore.
func CountWords(markdown string) int {
	text := fencePattern.ReplaceAllString(markdown, "")
	text = inlineCodePattern.ReplaceAllString(text, "")
	text = imagePattern.ReplaceAllString(text, "")
	text = linkPattern.ReplaceAllString(text, "$1")
	text = tagPattern.ReplaceAllString(text, "")
	text = symbolPattern.ReplaceAllString(text, "")

	count := 0
	for _, word := range strings.Fields(text) {
		if wordCharPattern.MatchString(word) {
			count++
		}
	}
	return count
}

// ReadingTime converts a word count into whole minutes, never less than one.
func ReadingTime(words int) int {
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return max(1, minutes)
}
