package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

const (
	// DefaultTopK is the number of chunks fetched per sub-query.
	DefaultTopK = 5

	// DefaultExpansions is the number of LLM paraphrases added to the
	// original query.
	DefaultExpansions = 3
)

const expansionSystemPrompt = `You rewrite a search query into alternative phrasings for semantic document search.
Given the user's question, produce paraphrases that use different wording but keep the exact meaning.
Answer in the same language as the question.
Return ONLY a JSON array of strings, one paraphrase per element.`

var whitespaceRun = regexp.MustCompile(`\s+`)

// Engine answers retrieval requests against one collection: it expands the
// query into paraphrases, searches each, and assembles the deduplicated
// chunk texts into a single context string. Degraded outcomes (no
// collection, nothing relevant) are sentinel results, never errors.
type Engine struct {
	llm   interfaces.LLMClient
	store interfaces.DocumentStore

	topK       int
	expansions int
	dimension  int
}

// Option is a functional option for Engine configuration
type Option func(*Engine)

// WithTopK overrides the per-sub-query result count.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithExpansions overrides the number of query paraphrases.
func WithExpansions(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.expansions = n
		}
	}
}

// WithDimension overrides the embedding dimension.
func WithDimension(d int) Option {
	return func(e *Engine) {
		if d > 0 {
			e.dimension = d
		}
	}
}

// New creates a retrieval engine.
func New(llm interfaces.LLMClient, store interfaces.DocumentStore, opts ...Option) *Engine {
	e := &Engine{
		llm:        llm,
		store:      store,
		topK:       DefaultTopK,
		expansions: DefaultExpansions,
		dimension:  model.EmbeddingDimension,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Retrieve runs similarity search for the query against the collection and
// returns the assembled context. An absent or empty collection yields the
// NoData sentinel; a search with no hits yields NothingFound.
func (e *Engine) Retrieve(ctx context.Context, collection, query string) (model.RetrievalContext, error) {
	exists, err := e.store.Exists(ctx, collection)
	if err != nil {
		return model.RetrievalContext{}, goerr.Wrap(err, "failed to check collection", goerr.V("collection", collection))
	}
	if !exists {
		return model.NoDataContext(), nil
	}

	count, err := e.store.Count(ctx, collection)
	if err != nil {
		return model.RetrievalContext{}, goerr.Wrap(err, "failed to count collection", goerr.V("collection", collection))
	}
	if count == 0 {
		return model.NoDataContext(), nil
	}

	queries := e.expandQuery(ctx, query)

	vectors, err := e.llm.GenerateEmbedding(ctx, e.dimension, queries)
	if err != nil {
		return model.RetrievalContext{}, goerr.Wrap(err, "failed to embed queries")
	}
	if len(vectors) != len(queries) {
		return model.RetrievalContext{}, goerr.New("query embedding count mismatch",
			goerr.V("want", len(queries)), goerr.V("got", len(vectors)))
	}

	var texts []string
	seen := make(map[string]bool)
	for _, vec := range vectors {
		vector := make([]float32, len(vec))
		for i, v := range vec {
			vector[i] = float32(v)
		}

		hits, err := e.store.Search(ctx, collection, vector, e.topK)
		if err != nil {
			return model.RetrievalContext{}, goerr.Wrap(err, "similarity search failed", goerr.V("collection", collection))
		}
		for _, hit := range hits {
			if hit.Text == "" || seen[hit.ID] {
				continue
			}
			seen[hit.ID] = true
			texts = append(texts, hit.Text)
		}
	}

	if len(texts) == 0 {
		return model.NothingFoundContext(), nil
	}

	var sb strings.Builder
	for i, text := range texts {
		fmt.Fprintf(&sb, "Document %d:\n%s\n\n", i+1, text)
	}
	context := strings.TrimSpace(whitespaceRun.ReplaceAllString(sb.String(), " "))

	return model.NewRetrievalContext(context), nil
}

// expandQuery asks the LLM for paraphrases of the query. The original query
// always comes first; expansion failure degrades to searching the original
// alone.
func (e *Engine) expandQuery(ctx context.Context, query string) []string {
	queries := []string{query}
	if e.expansions == 0 {
		return queries
	}

	prompt := fmt.Sprintf("Produce %d paraphrases of this question:\n%s", e.expansions, query)
	raw, err := e.llm.Complete(ctx, expansionSystemPrompt, prompt)
	if err != nil {
		logging.From(ctx).Warn("query expansion failed, searching original query only", "error", err.Error())
		return queries
	}

	var paraphrases []string
	if err := json.Unmarshal([]byte(extractJSONArray(raw)), &paraphrases); err != nil {
		logging.From(ctx).Warn("unparsable query expansion, searching original query only", "response", raw)
		return queries
	}

	seen := map[string]bool{query: true}
	for _, p := range paraphrases {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		queries = append(queries, p)
		if len(queries) > e.expansions {
			break
		}
	}
	return queries
}

// extractJSONArray tolerates models that wrap the array in code fences or
// prose.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
