package retrieval_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
	"github.com/fatmaann/agent-judgement-assistant/pkg/repository/memory"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/retrieval"
)

const testDimension = 2

// mockLLM serves query expansion and embeddings for the engine.
type mockLLM struct {
	expansion     string
	expansionErr  error
	completeCalls int
}

func (m *mockLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.completeCalls++
	if m.expansionErr != nil {
		return "", m.expansionErr
	}
	return m.expansion, nil
}

func (m *mockLLM) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	out := make([][]float64, len(input))
	for i := range input {
		out[i] = []float64{1, 0}
	}
	return out, nil
}

func seedStore(t *testing.T, collection string, texts ...string) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore()

	chunks := make([]*model.Chunk, len(texts))
	for i, text := range texts {
		c := model.NewChunk(text)
		c.Embedding = []float32{1, 0}
		chunks[i] = c
	}
	_, err := store.Put(context.Background(), collection, chunks)
	gt.NoError(t, err).Required()
	return store
}

func TestRetrieve(t *testing.T) {
	const coll = "case_a40_deadbeef1234"

	t.Run("absent collection yields NoData", func(t *testing.T) {
		llm := &mockLLM{}
		engine := retrieval.New(llm, memory.NewDocumentStore(), retrieval.WithDimension(testDimension))

		rctx, err := engine.Retrieve(context.Background(), coll, "who is the claimant?")
		gt.NoError(t, err).Required()
		gt.Value(t, rctx.State).Equal(types.RetrievalNoData)
		gt.Bool(t, rctx.Usable()).False()

		// No LLM work is spent on an empty collection
		gt.Number(t, llm.completeCalls).Equal(0)
	})

	t.Run("empty collection yields NoData", func(t *testing.T) {
		store := memory.NewDocumentStore()
		_, err := store.Put(context.Background(), coll, nil)
		gt.NoError(t, err).Required()

		engine := retrieval.New(&mockLLM{}, store, retrieval.WithDimension(testDimension))
		rctx, err := engine.Retrieve(context.Background(), coll, "who is the claimant?")
		gt.NoError(t, err).Required()
		gt.Value(t, rctx.State).Equal(types.RetrievalNoData)
	})

	t.Run("no hits yields NothingFound", func(t *testing.T) {
		// A stored chunk without an embedding is never returned by search
		store := memory.NewDocumentStore()
		_, err := store.Put(context.Background(), coll, []*model.Chunk{model.NewChunk("unreachable")})
		gt.NoError(t, err).Required()

		engine := retrieval.New(&mockLLM{expansion: `[]`}, store, retrieval.WithDimension(testDimension))
		rctx, err := engine.Retrieve(context.Background(), coll, "who is the claimant?")
		gt.NoError(t, err).Required()
		gt.Value(t, rctx.State).Equal(types.RetrievalNothingFound)
	})

	t.Run("hits are assembled and whitespace normalized", func(t *testing.T) {
		store := seedStore(t, coll, "The court\n\n dismissed   the claim.")
		engine := retrieval.New(&mockLLM{expansion: `[]`}, store, retrieval.WithDimension(testDimension))

		rctx, err := engine.Retrieve(context.Background(), coll, "what was the verdict?")
		gt.NoError(t, err).Required()
		gt.Value(t, rctx.State).Equal(types.RetrievalOK)
		gt.Bool(t, rctx.Usable()).True()
		gt.Value(t, rctx.Text).Equal("Document 1: The court dismissed the claim.")
	})

	t.Run("expanded queries deduplicate shared hits", func(t *testing.T) {
		store := seedStore(t, coll, "The court dismissed the claim.")
		llm := &mockLLM{expansion: `["what did the court decide?", "outcome of the claim"]`}
		engine := retrieval.New(llm, store, retrieval.WithDimension(testDimension))

		rctx, err := engine.Retrieve(context.Background(), coll, "what was the verdict?")
		gt.NoError(t, err).Required()
		gt.Number(t, strings.Count(rctx.Text, "dismissed")).Equal(1)
	})

	t.Run("expansion failure degrades to the original query", func(t *testing.T) {
		store := seedStore(t, coll, "The court dismissed the claim.")
		llm := &mockLLM{expansionErr: fmt.Errorf("model overloaded")}
		engine := retrieval.New(llm, store, retrieval.WithDimension(testDimension))

		rctx, err := engine.Retrieve(context.Background(), coll, "what was the verdict?")
		gt.NoError(t, err).Required()
		gt.Value(t, rctx.State).Equal(types.RetrievalOK)
	})

	t.Run("unparsable expansion degrades to the original query", func(t *testing.T) {
		store := seedStore(t, coll, "The court dismissed the claim.")
		llm := &mockLLM{expansion: "I cannot produce JSON today"}
		engine := retrieval.New(llm, store, retrieval.WithDimension(testDimension))

		rctx, err := engine.Retrieve(context.Background(), coll, "what was the verdict?")
		gt.NoError(t, err).Required()
		gt.Value(t, rctx.State).Equal(types.RetrievalOK)
	})

	t.Run("zero expansions skips the expansion call", func(t *testing.T) {
		store := seedStore(t, coll, "The court dismissed the claim.")
		llm := &mockLLM{}
		engine := retrieval.New(llm, store,
			retrieval.WithDimension(testDimension),
			retrieval.WithExpansions(0),
		)

		_, err := engine.Retrieve(context.Background(), coll, "what was the verdict?")
		gt.NoError(t, err).Required()
		gt.Number(t, llm.completeCalls).Equal(0)
	})
}
