package usecase

import (
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/answer"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/ingest"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/retrieval"
)

// UseCases aggregates the application logic: the per-conversation session
// state machine and the ingestion/retrieval flows behind it.
type UseCases struct {
	sessions  interfaces.SessionRepository
	pipeline  *ingest.Pipeline
	retriever *retrieval.Engine
	composer  *answer.Composer
}

// New creates a UseCases instance.
func New(sessions interfaces.SessionRepository, pipeline *ingest.Pipeline, retriever *retrieval.Engine, composer *answer.Composer) *UseCases {
	return &UseCases{
		sessions:  sessions,
		pipeline:  pipeline,
		retriever: retriever,
		composer:  composer,
	}
}
