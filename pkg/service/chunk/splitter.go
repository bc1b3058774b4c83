package chunk

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pkoukk/tiktoken-go"
)

const (
	// DefaultChunkSize is the token budget per chunk.
	DefaultChunkSize = 512

	// DefaultChunkOverlap is the number of tokens shared between adjacent
	// chunks so that statements spanning a boundary stay retrievable.
	DefaultChunkOverlap = 100

	encodingName = "cl100k_base"
)

// Splitter cuts document text into overlapping chunks bounded by a token
// budget. Chunk boundaries are measured in tokens, not bytes, so the budget
// holds for any script.
type Splitter struct {
	encoder *tiktoken.Tiktoken
	size    int
	overlap int
}

// NewSplitter creates a token-budget splitter. Non-positive size or negative
// overlap fall back to the defaults; overlap must stay below size.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		return nil, goerr.New("chunk overlap must be smaller than chunk size",
			goerr.V("size", size), goerr.V("overlap", overlap))
	}

	encoder, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load tokenizer encoding")
	}

	return &Splitter{
		encoder: encoder,
		size:    size,
		overlap: overlap,
	}, nil
}

// Split returns the chunk texts for one document. Blank documents yield no
// chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	tokens := s.encoder.Encode(text, nil, nil)
	if len(tokens) <= s.size {
		return []string{strings.TrimSpace(text)}
	}

	step := s.size - s.overlap
	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + s.size
		if end > len(tokens) {
			end = len(tokens)
		}

		piece := strings.TrimSpace(s.encoder.Decode(tokens[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}

		if end == len(tokens) {
			break
		}
	}
	return chunks
}
