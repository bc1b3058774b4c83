package model

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
)

// CaseRef is the result of classifying raw user input: what kind of case
// identifier it is and which vector collection it maps to.
type CaseRef struct {
	Query         string // normalized input (trimmed, uppercased)
	Type          types.CaseType
	CollectionKey string
}

var (
	taxIDShortPattern = regexp.MustCompile(`^\d{10}$`)
	taxIDLongPattern  = regexp.MustCompile(`^\d{12}$`)
	caseNumberPattern = regexp.MustCompile(`^[A-ZА-Я]\d+-\d+`)

	collectionKeyChars    = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)
	collectionKeyRepeats  = regexp.MustCompile(`_+`)
	collectionKeyMaxChars = 30
)

// ClassifyCase derives a (case type, collection key) pair from free-form user
// input. It is a pure function: the same input always yields the same result.
// Classification is an ordered first-match test; anything that is neither a
// tax ID nor a case number falls back to an organization name so that every
// input maps to a collection.
func ClassifyCase(input string) CaseRef {
	query := strings.ToUpper(strings.TrimSpace(input))

	var caseType types.CaseType
	var prefixed string

	switch {
	case taxIDShortPattern.MatchString(query), taxIDLongPattern.MatchString(query):
		caseType = types.CaseTypeTaxID
		prefixed = "INN_" + query
	case caseNumberPattern.MatchString(query):
		caseType = types.CaseTypeCaseNumber
		prefixed = query
	default:
		caseType = types.CaseTypeOrganization
		prefixed = "ORG_" + query
	}

	return CaseRef{
		Query:         query,
		Type:          caseType,
		CollectionKey: normalizeCollectionKey(prefixed),
	}
}

// normalizeCollectionKey turns the prefixed input into a bounded, storage-safe
// collection name. The appended hash is computed over the untruncated input,
// so two long inputs that share the first 30 cleaned characters still get
// distinct keys.
func normalizeCollectionKey(name string) string {
	sum := sha256.Sum256([]byte(name))
	digest := hex.EncodeToString(sum[:])[:12]

	clean := collectionKeyChars.ReplaceAllString(name, "_")
	clean = collectionKeyRepeats.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, "_")
	if len(clean) > collectionKeyMaxChars {
		clean = clean[:collectionKeyMaxChars]
	}

	if clean == "" {
		return "case_" + digest
	}
	return "case_" + clean + "_" + digest
}
