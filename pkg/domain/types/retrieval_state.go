package types

// RetrievalState distinguishes a usable retrieval context from the two
// non-error degraded outcomes. Neither degraded state aborts a turn; the
// answer composer converts them into fixed user-facing messages without
// spending a completion call.
type RetrievalState string

const (
	// RetrievalOK means the context holds retrieved chunk text.
	RetrievalOK RetrievalState = "OK"

	// RetrievalNoData means the collection is absent or empty.
	RetrievalNoData RetrievalState = "NO_DATA"

	// RetrievalNothingFound means the collection has chunks but nothing
	// relevant matched the query.
	RetrievalNothingFound RetrievalState = "NOTHING_FOUND"
)

// IsValid checks if the retrieval state is valid
func (s RetrievalState) IsValid() bool {
	switch s {
	case RetrievalOK, RetrievalNoData, RetrievalNothingFound:
		return true
	default:
		return false
	}
}

// String returns the string representation of the retrieval state
func (s RetrievalState) String() string {
	return string(s)
}
