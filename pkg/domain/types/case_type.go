package types

import "fmt"

// CaseType classifies the raw case identifier entered by a user
type CaseType string

const (
	// CaseTypeTaxID is a 10- or 12-digit organization tax number (INN).
	CaseTypeTaxID CaseType = "TAX_ID"

	// CaseTypeCaseNumber is a court case number such as "А40-312285".
	CaseTypeCaseNumber CaseType = "CASE_NUMBER"

	// CaseTypeOrganization is the fallback: a free-form organization name.
	CaseTypeOrganization CaseType = "ORGANIZATION"
)

// AllCaseTypes returns all valid case types
func AllCaseTypes() []CaseType {
	return []CaseType{
		CaseTypeTaxID,
		CaseTypeCaseNumber,
		CaseTypeOrganization,
	}
}

// IsValid checks if the case type is valid
func (t CaseType) IsValid() bool {
	switch t {
	case CaseTypeTaxID,
		CaseTypeCaseNumber,
		CaseTypeOrganization:
		return true
	default:
		return false
	}
}

// String returns the string representation of the case type
func (t CaseType) String() string {
	return string(t)
}

// ParseCaseType parses a string into a CaseType
func ParseCaseType(s string) (CaseType, error) {
	t := CaseType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid case type: %s", s)
	}
	return t, nil
}
