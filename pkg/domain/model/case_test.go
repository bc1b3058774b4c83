package model_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
)

func TestClassifyCase(t *testing.T) {
	t.Run("10-digit tax ID", func(t *testing.T) {
		ref := model.ClassifyCase("7707083893")
		gt.Value(t, ref.Type).Equal(types.CaseTypeTaxID)
		gt.Value(t, ref.Query).Equal("7707083893")
	})

	t.Run("12-digit tax ID", func(t *testing.T) {
		ref := model.ClassifyCase("770708389312")
		gt.Value(t, ref.Type).Equal(types.CaseTypeTaxID)
	})

	t.Run("11 digits is not a tax ID", func(t *testing.T) {
		ref := model.ClassifyCase("77070838931")
		gt.Value(t, ref.Type).Equal(types.CaseTypeOrganization)
	})

	t.Run("latin case number", func(t *testing.T) {
		ref := model.ClassifyCase("A40-12345-2023")
		gt.Value(t, ref.Type).Equal(types.CaseTypeCaseNumber)
	})

	t.Run("cyrillic case number", func(t *testing.T) {
		ref := model.ClassifyCase("А40-312285")
		gt.Value(t, ref.Type).Equal(types.CaseTypeCaseNumber)
	})

	t.Run("lowercase input is uppercased before matching", func(t *testing.T) {
		ref := model.ClassifyCase("  a40-12345-2023  ")
		gt.Value(t, ref.Type).Equal(types.CaseTypeCaseNumber)
		gt.Value(t, ref.Query).Equal("A40-12345-2023")
	})

	t.Run("anything else is an organization", func(t *testing.T) {
		ref := model.ClassifyCase("Gazprom Neft")
		gt.Value(t, ref.Type).Equal(types.CaseTypeOrganization)
		gt.Value(t, ref.Query).Equal("GAZPROM NEFT")
	})
}

func TestCollectionKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := model.ClassifyCase("A40-12345-2023")
		b := model.ClassifyCase("a40-12345-2023")
		gt.Value(t, a.CollectionKey).Equal(b.CollectionKey)
	})

	t.Run("has the case prefix", func(t *testing.T) {
		ref := model.ClassifyCase("A40-12345-2023")
		gt.Bool(t, strings.HasPrefix(ref.CollectionKey, "case_")).True()
	})

	t.Run("bounded length", func(t *testing.T) {
		ref := model.ClassifyCase(strings.Repeat("Very Long Organization Name ", 20))
		// "case_" + 30 cleaned chars + "_" + 12 hex digest
		gt.Number(t, len(ref.CollectionKey)).LessOrEqual(5 + 30 + 1 + 12)
	})

	t.Run("long inputs sharing a prefix get distinct keys", func(t *testing.T) {
		base := strings.Repeat("SAME-PREFIX-", 10)
		a := model.ClassifyCase(base + "ALPHA")
		b := model.ClassifyCase(base + "BETA")
		gt.Value(t, a.CollectionKey).NotEqual(b.CollectionKey)
	})

	t.Run("tax ID and organization with same digits differ", func(t *testing.T) {
		// Prefixing keeps the namespaces apart even for equal raw input
		a := model.ClassifyCase("7707083893")
		b := model.ClassifyCase("7707083893 OOO")
		gt.Value(t, a.CollectionKey).NotEqual(b.CollectionKey)
	})

	t.Run("fully non-ASCII input still yields a key", func(t *testing.T) {
		ref := model.ClassifyCase("ООО Ромашка")
		gt.Bool(t, strings.HasPrefix(ref.CollectionKey, "case_")).True()
		gt.Value(t, ref.Type).Equal(types.CaseTypeOrganization)
	})
}
