package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
)

// DocumentStore is an in-memory vector store used for tests and local
// development. Collections are independent buckets; writes are additive and
// keyed by content-derived chunk ID.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*model.Chunk
}

var _ interfaces.DocumentStore = &DocumentStore{}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string]*model.Chunk),
	}
}

func copyChunk(c *model.Chunk) *model.Chunk {
	copied := &model.Chunk{
		ID:   c.ID,
		Text: c.Text,
	}
	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}
	return copied
}

// Put adds chunks to the collection, creating it on first write and skipping
// IDs that are already present.
func (s *DocumentStore) Put(ctx context.Context, collection string, chunks []*model.Chunk) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.collections[collection]
	if !ok {
		bucket = make(map[string]*model.Chunk)
		s.collections[collection] = bucket
	}

	added := 0
	for _, c := range chunks {
		if _, exists := bucket[c.ID]; exists {
			continue
		}
		bucket[c.ID] = copyChunk(c)
		added++
	}
	return added, nil
}

// Has reports which of the given IDs exist in the collection.
func (s *DocumentStore) Has(ctx context.Context, collection string, ids []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]bool, len(ids))
	bucket, ok := s.collections[collection]
	if !ok {
		return found, nil
	}
	for _, id := range ids {
		if _, exists := bucket[id]; exists {
			found[id] = true
		}
	}
	return found, nil
}

// Exists reports whether the collection has been created.
func (s *DocumentStore) Exists(ctx context.Context, collection string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.collections[collection]
	return ok, nil
}

// Count returns the number of chunks in the collection.
func (s *DocumentStore) Count(ctx context.Context, collection string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint64(len(s.collections[collection])), nil
}

// Search returns up to limit chunks ranked by cosine similarity.
func (s *DocumentStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]*model.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.collections[collection]
	if !ok {
		return []*model.ScoredChunk{}, nil
	}

	candidates := make([]*model.ScoredChunk, 0, len(bucket))
	for _, c := range bucket {
		if len(c.Embedding) == 0 {
			continue
		}
		candidates = append(candidates, &model.ScoredChunk{
			Chunk: *copyChunk(c),
			Score: cosineSimilarity(vector, c.Embedding),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// Close is a no-op for the in-memory store.
func (s *DocumentStore) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
