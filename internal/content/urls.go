package content

// URLFor builds the canonical route for an item. Drafts are rerouted under
// /drafts/ regardless of type.
func URLFor(typ Type, slug, bookSlug string, draft bool) string {
	if draft {
		return "/drafts/" + slug + "/"
	}
	return PublishedURL(typ, slug, bookSlug)
}

// PublishedURL builds the route an item has once published. Cross-reference
// indexes use it for every item, drafts included.
func PublishedURL(typ Type, slug, bookSlug string) string {
	switch typ {
	case TypePost:
		return "/posts/" + slug + "/"
	case TypeNote:
		return "/notes/" + slug + "/"
	case TypePhoto:
		return "/photos/" + slug + "/"
	case TypeSoul:
		return "/about/soul/"
	case TypeSkills:
		return "/about/skills/"
	case TypeChapter:
		return "/books/" + bookSlug + "/" + slug + "/"
	default:
		return "/" + slug + "/"
	}
}
