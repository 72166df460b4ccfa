// Package identity derives stable identifiers for exported records.
package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by record kind to avoid cross-kind collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ContentUUID identifies an item by type and slug, the pair that is unique
// within a valid build. Chapters add their book.
func ContentUUID(contentType, slug, bookSlug string) uuid.UUID {
	key := "contentkit:content:" + strings.ToLower(strings.TrimSpace(contentType)) + ":"
	if bookSlug = strings.TrimSpace(bookSlug); bookSlug != "" {
		key += bookSlug + "/"
	}
	return UUID(key + strings.TrimSpace(slug))
}

// BookUUID identifies a book by its slug.
func BookUUID(slug string) uuid.UUID {
	return UUID("contentkit:book:" + strings.TrimSpace(slug))
}

// LinkUUID identifies the n-th edge between source and target. Repeated
// wikilinks keep distinct ids.
func LinkUUID(kind, source, target string, n int) uuid.UUID {
	return UUID("contentkit:" + kind + ":" + source + "->" + target + "#" + strconv.Itoa(n))
}
