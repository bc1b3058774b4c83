package interfaces

import (
	"context"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
)

// DocumentStore persists chunk embeddings and text in named collections and
// serves top-k similarity search. Chunk IDs are content-derived, so writes
// are idempotent per ID: a duplicate write carries identical content by
// construction and may be skipped or overwritten.
type DocumentStore interface {
	// Put writes chunks into the collection, creating it lazily on first
	// write. Chunks whose ID is already present are skipped. Returns the
	// number of chunks actually added.
	Put(ctx context.Context, collection string, chunks []*model.Chunk) (int, error)

	// Has reports which of the given chunk IDs already exist in the
	// collection. A missing collection yields an empty set.
	Has(ctx context.Context, collection string, ids []string) (map[string]bool, error)

	// Exists reports whether the collection has been created.
	Exists(ctx context.Context, collection string) (bool, error)

	// Count returns the number of chunks stored in the collection.
	Count(ctx context.Context, collection string) (uint64, error)

	// Search returns up to limit chunks most similar to the vector.
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]*model.ScoredChunk, error)

	// Close releases any resources held by the store.
	Close() error
}
