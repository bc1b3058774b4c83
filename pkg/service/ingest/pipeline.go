package ingest

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/chunk"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

// embedBatchSize bounds one embedding call.
const embedBatchSize = 50

// Pipeline coordinates document acquisition, chunking, embedding, and
// storage for one case collection. Chunk IDs are content-derived, so a
// re-run (including one after a partial failure) embeds and writes only
// chunks that are not yet committed.
type Pipeline struct {
	fetcher    interfaces.DocumentFetcher
	splitter   *chunk.Splitter
	llm        interfaces.LLMClient
	store      interfaces.DocumentStore
	stagingDir string
	dimension  int
}

// Result summarizes one ingestion run.
type Result struct {
	Documents int // fetched documents
	Chunks    int // distinct chunks in the fetched set
	Added     int // chunks newly written to the collection
}

// New creates an ingestion pipeline.
func New(fetcher interfaces.DocumentFetcher, splitter *chunk.Splitter, llm interfaces.LLMClient, store interfaces.DocumentStore, stagingDir string, dimension int) *Pipeline {
	if dimension <= 0 {
		dimension = model.EmbeddingDimension
	}
	return &Pipeline{
		fetcher:    fetcher,
		splitter:   splitter,
		llm:        llm,
		store:      store,
		stagingDir: stagingDir,
		dimension:  dimension,
	}
}

// Run ingests all documents for the case into its collection. Zero fetched
// documents completes successfully with zero new chunks.
func (p *Pipeline) Run(ctx context.Context, ref model.CaseRef) (*Result, error) {
	logger := logging.From(ctx)

	destDir := filepath.Join(p.stagingDir, ref.CollectionKey)
	paths, err := p.fetcher.Fetch(ctx, ref.Query, ref.Type, destDir)
	if err != nil {
		return nil, goerr.Wrap(err, "document retrieval failed",
			goerr.V("query", ref.Query), goerr.V("collection", ref.CollectionKey))
	}

	result := &Result{Documents: len(paths)}
	if len(paths) == 0 {
		logger.Info("no documents found for case", "query", ref.Query, "collection", ref.CollectionKey)
		return result, nil
	}

	chunks, err := p.chunkDocuments(paths)
	if err != nil {
		return nil, err
	}
	result.Chunks = len(chunks)
	if len(chunks) == 0 {
		return result, nil
	}

	missing, err := p.filterStored(ctx, ref.CollectionKey, chunks)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		logger.Info("all chunks already indexed", "collection", ref.CollectionKey, "chunks", len(chunks))
		return result, nil
	}

	if err := p.embedChunks(ctx, missing); err != nil {
		return nil, err
	}

	added, err := p.store.Put(ctx, ref.CollectionKey, missing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store chunks", goerr.V("collection", ref.CollectionKey))
	}
	result.Added = added

	logger.Info("ingestion finished",
		"collection", ref.CollectionKey,
		"documents", result.Documents,
		"chunks", result.Chunks,
		"added", result.Added,
	)
	return result, nil
}

// chunkDocuments reads staged files and splits them, deduplicating by
// content ID within the run: identical text across documents yields one
// chunk.
func (p *Pipeline) chunkDocuments(paths []string) ([]*model.Chunk, error) {
	var chunks []*model.Chunk
	seen := make(map[string]bool)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read staged document", goerr.V("path", path))
		}

		for _, text := range p.splitter.Split(string(data)) {
			c := model.NewChunk(text)
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}

func (p *Pipeline) filterStored(ctx context.Context, collection string, chunks []*model.Chunk) ([]*model.Chunk, error) {
	ids := make([]string, 0, len(chunks))
	for _, c := range chunks {
		ids = append(ids, c.ID)
	}

	stored, err := p.store.Has(ctx, collection, ids)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check stored chunks", goerr.V("collection", collection))
	}

	missing := make([]*model.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if !stored[c.ID] {
			missing = append(missing, c)
		}
	}
	return missing, nil
}

func (p *Pipeline) embedChunks(ctx context.Context, chunks []*model.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		embeddings, err := p.llm.GenerateEmbedding(ctx, p.dimension, texts)
		if err != nil {
			return goerr.Wrap(err, "failed to embed chunks", goerr.V("batchSize", len(batch)))
		}
		if len(embeddings) != len(batch) {
			return goerr.New("embedding count mismatch",
				goerr.V("want", len(batch)), goerr.V("got", len(embeddings)))
		}

		for i, emb := range embeddings {
			vec := make([]float32, len(emb))
			for j, v := range emb {
				vec[j] = float32(v)
			}
			batch[i].Embedding = vec
		}
	}
	return nil
}
