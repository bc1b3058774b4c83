package model

import "github.com/google/uuid"

// EmbeddingDimension is the default embedding vector size
// (OpenAI text-embedding-3-small).
const EmbeddingDimension = 1536

// chunkNamespace is a fixed UUID v5 namespace so that identical chunk text
// yields the identical point ID across ingestion runs and across processes.
var chunkNamespace = uuid.MustParse("8f2b6a1e-42d7-5c90-a3be-17e6c04d9f55")

// Chunk is a bounded slice of document text. Its ID is derived from the text
// content alone, independent of source file name or retrieval order; this is
// the deduplication primitive of the document store.
type Chunk struct {
	ID        string
	Text      string
	Embedding []float32
}

// NewChunk creates a chunk with its content-derived ID. The embedding is
// attached later, and only for chunks not yet present in the target
// collection.
func NewChunk(text string) *Chunk {
	return &Chunk{
		ID:   ChunkID(text),
		Text: text,
	}
}

// ChunkID computes the content-derived identifier for chunk text.
func ChunkID(text string) string {
	return uuid.NewSHA1(chunkNamespace, []byte(text)).String()
}

// ScoredChunk pairs a retrieved chunk with its similarity score.
type ScoredChunk struct {
	Chunk
	Score float32
}
