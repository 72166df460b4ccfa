package xref

import (
	"sort"

	"github.com/goliatone/go-contentkit/internal/content"
)

// DefaultRelatedLimit is used when Related is called with a non-positive limit.
const DefaultRelatedLimit = 3

// Related fills Item.Related for every non-draft post with the other non-draft
// posts sharing the most tags. Posts sharing no tag are never related. Ties
// go to the newer post, then to the smaller slug.
func Related(items []*content.Item, limit int) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	posts := make([]*content.Item, 0, len(items))
	for _, item := range items {
		if item != nil && item.Type == content.TypePost && !item.Draft {
			posts = append(posts, item)
		}
	}

	for _, post := range posts {
		tags := make(map[string]struct{}, len(post.Tags))
		for _, tag := range post.Tags {
			tags[tag] = struct{}{}
		}

		type candidate struct {
			item  *content.Item
			score int
		}
		var candidates []candidate
		for _, other := range posts {
			if other == post {
				continue
			}
			score := 0
			for _, tag := range other.Tags {
				if _, ok := tags[tag]; ok {
					score++
				}
			}
			if score > 0 {
				candidates = append(candidates, candidate{item: other, score: score})
			}
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.score != b.score {
				return a.score > b.score
			}
			if !a.item.Date.Equal(b.item.Date) {
				return a.item.Date.After(b.item.Date)
			}
			return a.item.Slug < b.item.Slug
		})
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}

		post.Related = nil
		for _, c := range candidates {
			post.Related = append(post.Related, content.RelatedRef{
				Slug:        c.item.Slug,
				Title:       c.item.Title,
				URL:         c.item.URL(),
				Description: c.item.Description,
				Score:       c.score,
			})
		}
	}
}
