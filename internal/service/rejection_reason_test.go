package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

func TestResolveRejectionUsesReasonTable(t *testing.T) {
	rejection := ResolveRejection(&dto.RejectionDetails{ReasonCode: " GWA ", AdditionalNotes: "Retake Math 101"})
	require.Equal(t, ReasonGWA, rejection.Code)
	require.Equal(t, reasonTexts[ReasonGWA], rejection.Reason)
	require.Equal(t, "Retake Math 101", rejection.Notes)

	unknown := ResolveRejection(&dto.RejectionDetails{ReasonCode: "not-a-code"})
	require.Equal(t, ReasonOther, unknown.Code)
	require.Equal(t, reasonTexts[ReasonOther], unknown.Reason)

	require.Equal(t, ReasonOther, ResolveRejection(nil).Code)
}

func TestResolveRejectionCustomReason(t *testing.T) {
	rejection := ResolveRejection(&dto.RejectionDetails{
		ReasonCode:       ReasonCustom,
		CustomReasonText: "<b>Essay</b> was not original",
	})
	require.Equal(t, ReasonCustom, rejection.Code)
	require.Equal(t, "Essay was not original", rejection.Reason)

	empty := ResolveRejection(&dto.RejectionDetails{ReasonCode: ReasonCustom, CustomReasonText: "   "})
	require.Equal(t, ReasonOther, empty.Code)
}

func TestLegacyRejectionRoundTrip(t *testing.T) {
	for code, text := range reasonTexts {
		composed := ComposeLegacyRejection(text, "Please reapply next term.")
		reason, notes := SplitLegacyRejection(composed)
		require.Equal(t, text, reason, code)
		require.Equal(t, "Please reapply next term.", notes, code)
	}

	reason, notes := SplitLegacyRejection(ComposeLegacyRejection("Custom reason", ""))
	require.Equal(t, "Custom reason", reason)
	require.Empty(t, notes)
}

func TestEvaluateRejectionGWAMarksSingleItem(t *testing.T) {
	evaluation := EvaluateRejection(reasonTexts[ReasonGWA])
	require.Equal(t, CategoryAcademic, evaluation.Category)
	require.Equal(t, "Minimum GWA Requirement", evaluation.FailedItem)
	require.Len(t, evaluation.Checklist, 4)

	for _, item := range evaluation.Checklist {
		if item.Label == "Minimum GWA Requirement" {
			require.False(t, item.Passed)
			continue
		}
		require.True(t, item.Passed, item.Label)
	}
	require.NotEmpty(t, evaluation.Suggestions)
}

func TestEvaluateRejectionCategoriesForReasonTable(t *testing.T) {
	cases := map[string]struct {
		category string
		item     string
	}{
		ReasonIncompleteDocuments:  {CategoryDocumentation, "Complete Document Submission"},
		ReasonIncomeThreshold:      {CategoryFinancial, "Income Threshold"},
		ReasonProgramMismatch:      {CategoryEligibility, "Program Eligibility"},
		ReasonYearLevel:            {CategoryEligibility, "Year Level Requirement"},
		ReasonDeadlineMissed:       {CategoryQuality, "Submission Deadline"},
		ReasonDuplicateApplication: {CategoryQuality, "Unique Application"},
		ReasonQuotaReached:         {CategoryEligibility, "Scholarship Slot Availability"},
		ReasonOther:                {CategoryAcademic, defaultFailedItem},
	}

	for code, want := range cases {
		evaluation := EvaluateRejection(reasonTexts[code])
		require.Equal(t, want.category, evaluation.Category, code)
		require.Equal(t, want.item, evaluation.FailedItem, code)
	}
}

func TestEvaluateRejectionFirstMatchWins(t *testing.T) {
	// Mentions both grades and missing documents; the academic rule is checked first.
	evaluation := EvaluateRejection("Low grades and missing documents")
	require.Equal(t, CategoryAcademic, evaluation.Category)
	require.Equal(t, "Grade Consistency", evaluation.FailedItem)
}

func TestEvaluateRejectionPicksItemWithinCategory(t *testing.T) {
	// "certificate" selects Documentation; the income keywords belong to another checklist.
	evaluation := EvaluateRejection("Family income certificate is outdated")
	require.Equal(t, CategoryDocumentation, evaluation.Category)
	require.Equal(t, defaultFailedItem, evaluation.FailedItem)
	for _, item := range evaluation.Checklist {
		require.NotEqual(t, "Income Threshold", item.Label)
	}

	evaluation = EvaluateRejection("Transcript shows low income family")
	require.Equal(t, CategoryDocumentation, evaluation.Category)
	require.Equal(t, "Transcript of Records", evaluation.FailedItem)
	failed := 0
	for _, item := range evaluation.Checklist {
		if !item.Passed {
			failed++
			require.Equal(t, "Transcript of Records", item.Label)
		}
	}
	require.Equal(t, 1, failed)
}

func TestResolveRejectionKeepsEncodedMarkupInert(t *testing.T) {
	rejection := ResolveRejection(&dto.RejectionDetails{
		ReasonCode:       ReasonCustom,
		CustomReasonText: "&lt;script&gt;alert(1)&lt;/script&gt; bad",
		AdditionalNotes:  "&lt;img src=x onerror=alert(1)&gt;",
	})
	require.Equal(t, ReasonCustom, rejection.Code)
	require.NotContains(t, rejection.Reason, "<")
	require.Contains(t, rejection.Reason, "bad")
	require.NotContains(t, rejection.Notes, "<")
	require.NotContains(t, rejection.Legacy(), "<img")
}

func TestRejectionViewForLegacyRow(t *testing.T) {
	view := rejectionViewFor(models.Application{
		Status:          models.ApplicationStatusRejected,
		RejectionReason: "Income too high\n\nAdditional Notes: Submit ITR next time",
	})
	require.NotNil(t, view)
	require.Equal(t, "Income too high", view.Reason)
	require.Equal(t, "Submit ITR next time", view.AdditionalNotes)

	require.Nil(t, rejectionViewFor(models.Application{Status: models.ApplicationStatusApproved}))
}
