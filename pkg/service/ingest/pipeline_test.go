package ingest_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
	"github.com/fatmaann/agent-judgement-assistant/pkg/repository/memory"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/chunk"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/ingest"
)

const testDimension = 4

// mockFetcher stages a fixed set of documents into the destination
// directory, like the registry client does.
type mockFetcher struct {
	documents map[string]string
	err       error
	calls     int
}

func (m *mockFetcher) Fetch(ctx context.Context, query string, caseType types.CaseType, destDir string) ([]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	for name, content := range m.documents {
		path := filepath.Join(destDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// mockLLM returns a deterministic embedding per input text.
type mockLLM struct {
	embedErr   error
	embedCalls int
}

func (m *mockLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "", goerr.New("not used in this test")
}

func (m *mockLLM) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}

	out := make([][]float64, len(input))
	for i, text := range input {
		vec := make([]float64, dimension)
		for j := range vec {
			vec[j] = float64(len(text)%7) + float64(j)
		}
		out[i] = vec
	}
	return out, nil
}

func newTestPipeline(t *testing.T, fetcher *mockFetcher, llm *mockLLM, store *memory.DocumentStore) *ingest.Pipeline {
	t.Helper()
	splitter, err := chunk.NewSplitter(64, 16)
	gt.NoError(t, err).Required()
	return ingest.New(fetcher, splitter, llm, store, t.TempDir(), testDimension)
}

func TestPipelineRun(t *testing.T) {
	ref := model.ClassifyCase("A40-12345-2023")

	t.Run("ingests fetched documents", func(t *testing.T) {
		fetcher := &mockFetcher{documents: map[string]string{
			"ruling.txt":   "The court dismissed the claim in full.",
			"decision.txt": "The appellate court upheld the ruling.",
		}}
		llm := &mockLLM{}
		store := memory.NewDocumentStore()

		result, err := newTestPipeline(t, fetcher, llm, store).Run(context.Background(), ref)
		gt.NoError(t, err).Required()
		gt.Number(t, result.Documents).Equal(2)
		gt.Number(t, result.Chunks).Equal(2)
		gt.Number(t, result.Added).Equal(2)

		count, err := store.Count(context.Background(), ref.CollectionKey)
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(uint64(2))
	})

	t.Run("second run adds nothing", func(t *testing.T) {
		fetcher := &mockFetcher{documents: map[string]string{
			"ruling.txt": "The court dismissed the claim in full.",
		}}
		llm := &mockLLM{}
		store := memory.NewDocumentStore()
		pipeline := newTestPipeline(t, fetcher, llm, store)

		first, err := pipeline.Run(context.Background(), ref)
		gt.NoError(t, err).Required()
		gt.Number(t, first.Added).Equal(1)

		second, err := pipeline.Run(context.Background(), ref)
		gt.NoError(t, err).Required()
		gt.Number(t, second.Chunks).Equal(1)
		gt.Number(t, second.Added).Equal(0)

		// Nothing new to embed on the second run
		gt.Number(t, llm.embedCalls).Equal(1)
	})

	t.Run("identical text across documents is stored once", func(t *testing.T) {
		fetcher := &mockFetcher{documents: map[string]string{
			"a.txt": "The court dismissed the claim in full.",
			"b.txt": "The court dismissed the claim in full.",
		}}
		llm := &mockLLM{}
		store := memory.NewDocumentStore()

		result, err := newTestPipeline(t, fetcher, llm, store).Run(context.Background(), ref)
		gt.NoError(t, err).Required()
		gt.Number(t, result.Documents).Equal(2)
		gt.Number(t, result.Chunks).Equal(1)
		gt.Number(t, result.Added).Equal(1)
	})

	t.Run("zero documents is success", func(t *testing.T) {
		fetcher := &mockFetcher{documents: map[string]string{}}
		llm := &mockLLM{}
		store := memory.NewDocumentStore()

		result, err := newTestPipeline(t, fetcher, llm, store).Run(context.Background(), ref)
		gt.NoError(t, err).Required()
		gt.Number(t, result.Documents).Equal(0)
		gt.Number(t, result.Added).Equal(0)
		gt.Number(t, llm.embedCalls).Equal(0)
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		fetcher := &mockFetcher{err: fmt.Errorf("registry unreachable")}
		llm := &mockLLM{}
		store := memory.NewDocumentStore()

		_, err := newTestPipeline(t, fetcher, llm, store).Run(context.Background(), ref)
		gt.Error(t, err)
	})

	t.Run("embedding failure propagates and stores nothing", func(t *testing.T) {
		fetcher := &mockFetcher{documents: map[string]string{
			"ruling.txt": "The court dismissed the claim in full.",
		}}
		llm := &mockLLM{embedErr: fmt.Errorf("quota exceeded")}
		store := memory.NewDocumentStore()

		_, err := newTestPipeline(t, fetcher, llm, store).Run(context.Background(), ref)
		gt.Error(t, err)

		count, err := store.Count(context.Background(), ref.CollectionKey)
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(uint64(0))
	})
}
