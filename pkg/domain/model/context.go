package model

import "github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"

// RetrievalContext is the outcome of one retrieval call: either usable
// concatenated chunk text, or one of two sentinel states that the answer
// composer turns into fixed messages without a completion call.
type RetrievalContext struct {
	State types.RetrievalState
	Text  string
}

// NewRetrievalContext wraps retrieved context text.
func NewRetrievalContext(text string) RetrievalContext {
	return RetrievalContext{State: types.RetrievalOK, Text: text}
}

// NoDataContext signals that the collection is absent or empty.
func NoDataContext() RetrievalContext {
	return RetrievalContext{State: types.RetrievalNoData}
}

// NothingFoundContext signals that search returned no relevant chunks.
func NothingFoundContext() RetrievalContext {
	return RetrievalContext{State: types.RetrievalNothingFound}
}

// Usable reports whether the context can ground an answer.
func (c RetrievalContext) Usable() bool {
	return c.State == types.RetrievalOK && c.Text != ""
}
