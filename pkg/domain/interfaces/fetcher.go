package interfaces

import (
	"context"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
)

// DocumentFetcher retrieves raw case documents from the public case registry
// via the external browser-automation service. Fetched documents land as
// text files under destDir; returning zero paths is a legitimate outcome
// (a case with no published documents in the lookback window).
type DocumentFetcher interface {
	Fetch(ctx context.Context, query string, caseType types.CaseType, destDir string) ([]string, error)
}
