package store

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewItemRepository creates a repository for exported items, addressed by URL.
func NewItemRepository(db *bun.DB) repository.Repository[*ItemRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ItemRecord]{
		NewRecord: func() *ItemRecord { return &ItemRecord{} },
		GetID: func(record *ItemRecord) uuid.UUID {
			return record.ID
		},
		SetID: func(record *ItemRecord, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "url"
		},
		GetIdentifierValue: func(record *ItemRecord) string {
			return record.URL
		},
	})
}
