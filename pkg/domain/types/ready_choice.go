package types

import "github.com/m-mizutani/goerr/v2"

// ReadyChoice is the user's answer to "are the case documents already
// indexed?". It arrives as a button interaction from the chat transport.
type ReadyChoice string

const (
	// ReadyChoiceIndexed asserts the collection already holds the case
	// documents; no ingestion is performed.
	ReadyChoiceIndexed ReadyChoice = "indexed_yes"

	// ReadyChoiceNeedsIndexing requests a fresh ingestion run.
	ReadyChoiceNeedsIndexing ReadyChoice = "indexed_no"
)

// IsValid checks if the ready choice is valid
func (c ReadyChoice) IsValid() bool {
	switch c {
	case ReadyChoiceIndexed, ReadyChoiceNeedsIndexing:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ready choice
func (c ReadyChoice) String() string {
	return string(c)
}

// ParseReadyChoice parses a string into a ReadyChoice
func ParseReadyChoice(s string) (ReadyChoice, error) {
	c := ReadyChoice(s)
	if !c.IsValid() {
		return "", goerr.New("unknown ready choice", goerr.V("value", s))
	}
	return c, nil
}
