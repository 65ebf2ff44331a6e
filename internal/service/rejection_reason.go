package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

// Rejection reason codes offered to reviewers.
const (
	ReasonGWA                  = "gwa"
	ReasonIncompleteDocuments  = "incomplete_documents"
	ReasonIncomeThreshold      = "income_threshold"
	ReasonProgramMismatch      = "program_mismatch"
	ReasonYearLevel            = "year_level"
	ReasonDeadlineMissed       = "deadline_missed"
	ReasonDuplicateApplication = "duplicate_application"
	ReasonQuotaReached         = "quota_reached"
	ReasonOther                = "other"
	ReasonCustom               = "custom_reason"
)

// Evaluation categories, in matching order.
const (
	CategoryAcademic      = "Academic Requirements"
	CategoryEligibility   = "Eligibility Criteria"
	CategoryDocumentation = "Documentation Issues"
	CategoryFinancial     = "Financial Assessment"
	CategoryQuality       = "Application Quality"
)

// LegacyNotesMarker separates the reason from reviewer notes in rows written before
// rejection_notes existed.
const LegacyNotesMarker = "Additional Notes:"

const defaultFailedItem = "Application Requirements"

var reasonTexts = map[string]string{
	ReasonGWA:                  "Your General Weighted Average (GWA) does not meet the minimum requirement for this scholarship.",
	ReasonIncompleteDocuments:  "One or more required documents are missing or incomplete.",
	ReasonIncomeThreshold:      "Your declared household income exceeds the financial need threshold of this scholarship.",
	ReasonProgramMismatch:      "Your degree program is not among the programs covered by this scholarship.",
	ReasonYearLevel:            "Your current year level is not eligible for this scholarship.",
	ReasonDeadlineMissed:       "Your application was received after the scholarship deadline.",
	ReasonDuplicateApplication: "A duplicate application for this scholarship was found on record.",
	ReasonQuotaReached:         "The scholarship has reached its maximum number of grantees for this cycle.",
	ReasonOther:                "Your application did not meet the requirements of this scholarship.",
}

// Rejection is the resolved, storable form of a reviewer's rejection details.
type Rejection struct {
	Code   string
	Reason string
	Notes  string
}

// Legacy returns the single-column text used by exports and older readers.
func (r Rejection) Legacy() string {
	return ComposeLegacyRejection(r.Reason, r.Notes)
}

type keywordRule struct {
	keywords []string
	result   string
}

func (r keywordRule) matches(text string) bool {
	for _, keyword := range r.keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// categoryRules is evaluated top to bottom and the first hit wins.
var categoryRules = []keywordRule{
	{keywords: []string{"gwa", "gpa", "grade", "academic", "units", "standing", "probation", "failing"}, result: CategoryAcademic},
	{keywords: []string{"eligib", "year level", "program", "course", "enrol", "quota", "slot", "grantees", "citizenship", "residency"}, result: CategoryEligibility},
	{keywords: []string{"document", "transcript", "certificate", "missing", "incomplete", "upload", "identification", "registration"}, result: CategoryDocumentation},
	{keywords: []string{"income", "financial", "family", "need", "grant"}, result: CategoryFinancial},
	{keywords: []string{"deadline", "late", "duplicate", "essay", "inaccurate", "information", "quality"}, result: CategoryQuality},
}

// itemRules is evaluated top to bottom. "gwa" must stay ahead of "grade".
var itemRules = []keywordRule{
	{keywords: []string{"gwa", "gpa", "general weighted average"}, result: "Minimum GWA Requirement"},
	{keywords: []string{"grade"}, result: "Grade Consistency"},
	{keywords: []string{"standing", "probation", "academic"}, result: "Academic Standing"},
	{keywords: []string{"units", "course load", "load"}, result: "Course Load Requirement"},
	{keywords: []string{"year level"}, result: "Year Level Requirement"},
	{keywords: []string{"program", "course"}, result: "Program Eligibility"},
	{keywords: []string{"enrol"}, result: "Enrollment Status"},
	{keywords: []string{"quota", "slot", "grantees"}, result: "Scholarship Slot Availability"},
	{keywords: []string{"transcript"}, result: "Transcript of Records"},
	{keywords: []string{"registration"}, result: "Certificate of Registration"},
	{keywords: []string{"identification", "valid id"}, result: "Valid Identification"},
	{keywords: []string{"document", "missing", "incomplete"}, result: "Complete Document Submission"},
	{keywords: []string{"income", "threshold"}, result: "Income Threshold"},
	{keywords: []string{"need"}, result: "Financial Need Justification"},
	{keywords: []string{"family"}, result: "Family Income Documentation"},
	{keywords: []string{"grant", "other scholarship"}, result: "Existing Scholarship Grants"},
	{keywords: []string{"deadline", "late"}, result: "Submission Deadline"},
	{keywords: []string{"duplicate"}, result: "Unique Application"},
	{keywords: []string{"inaccurate", "falsified", "information"}, result: "Accurate Information"},
}

var categoryChecklists = map[string][]string{
	CategoryAcademic:      {"Minimum GWA Requirement", "Academic Standing", "Course Load Requirement", "Grade Consistency"},
	CategoryEligibility:   {"Year Level Requirement", "Program Eligibility", "Enrollment Status", "Scholarship Slot Availability"},
	CategoryDocumentation: {"Complete Document Submission", "Transcript of Records", "Certificate of Registration", "Valid Identification"},
	CategoryFinancial:     {"Income Threshold", "Financial Need Justification", "Family Income Documentation", "Existing Scholarship Grants"},
	CategoryQuality:       {"Submission Deadline", "Unique Application", "Accurate Information", "Application Completeness"},
}

var categorySuggestions = map[string][]string{
	CategoryAcademic: {
		"Focus on raising your GWA before the next application period.",
		"Keep a full academic load and avoid dropped or failed subjects.",
		"Ask your adviser about academic support programs.",
	},
	CategoryEligibility: {
		"Review the eligibility criteria before applying.",
		"Look for scholarships that cover your program and year level.",
		"Apply early while grantee slots are still available.",
	},
	CategoryDocumentation: {
		"Upload every required document in a readable format.",
		"Make sure your transcript and registration certificate are current.",
		"Check that your identification is valid and clearly scanned.",
	},
	CategoryFinancial: {
		"Prepare complete and accurate income documents.",
		"Explain your financial need clearly in your application.",
		"Consider merit-based scholarships that have no income ceiling.",
	},
	CategoryQuality: {
		"Submit your application well before the deadline.",
		"Apply only once per scholarship.",
		"Double check that all information you provide is accurate.",
	},
}

var rejectionSanitizer = bluemonday.StrictPolicy()

// ResolveRejection turns reviewer input into the stored reason and notes.
// custom_reason uses the custom text verbatim when present; unknown codes fall back to "other".
func ResolveRejection(details *dto.RejectionDetails) Rejection {
	if details == nil {
		return Rejection{Code: ReasonOther, Reason: reasonTexts[ReasonOther]}
	}

	code := strings.ToLower(strings.TrimSpace(details.ReasonCode))
	custom := cleanReviewerText(details.CustomReasonText)
	notes := cleanReviewerText(details.AdditionalNotes)

	if code == ReasonCustom && custom != "" {
		return Rejection{Code: ReasonCustom, Reason: custom, Notes: notes}
	}

	text, ok := reasonTexts[code]
	if !ok {
		code = ReasonOther
		text = reasonTexts[ReasonOther]
	}
	return Rejection{Code: code, Reason: text, Notes: notes}
}

// ReasonText returns the canonical text for a reason code.
func ReasonText(code string) (string, bool) {
	text, ok := reasonTexts[strings.ToLower(strings.TrimSpace(code))]
	return text, ok
}

// ComposeLegacyRejection joins reason and notes the way single-column rows stored them.
func ComposeLegacyRejection(reason, notes string) string {
	reason = strings.TrimSpace(reason)
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return reason
	}
	return reason + "\n\n" + LegacyNotesMarker + " " + notes
}

// SplitLegacyRejection recovers reason and notes from single-column text.
func SplitLegacyRejection(text string) (string, string) {
	idx := strings.Index(text, LegacyNotesMarker)
	if idx < 0 {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx+len(LegacyNotesMarker):])
}

// EvaluateRejection renders the checklist view of a rejection reason.
func EvaluateRejection(reason string) dto.RejectionEvaluation {
	text := strings.ToLower(reason)

	category := matchRule(categoryRules, text, CategoryAcademic)
	labels := categoryChecklists[category]
	failed := matchItemWithin(labels, text)

	checklist := make([]dto.ChecklistItem, 0, len(labels))
	for _, label := range labels {
		checklist = append(checklist, dto.ChecklistItem{Label: label, Passed: label != failed})
	}

	return dto.RejectionEvaluation{
		Category:    category,
		FailedItem:  failed,
		Checklist:   checklist,
		Suggestions: append([]string(nil), categorySuggestions[category]...),
	}
}

func matchRule(rules []keywordRule, text, fallback string) string {
	for _, rule := range rules {
		if rule.matches(text) {
			return rule.result
		}
	}
	return fallback
}

// matchItemWithin applies itemRules in order but only accepts items on the
// matched category's checklist.
func matchItemWithin(labels []string, text string) string {
	for _, rule := range itemRules {
		if !containsString(labels, rule.result) {
			continue
		}
		if rule.matches(text) {
			return rule.result
		}
	}
	return defaultFailedItem
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// rejectionViewFor reads the structured columns, falling back to the legacy marker split.
func rejectionViewFor(application models.Application) *dto.RejectionView {
	if application.Status != models.ApplicationStatusRejected {
		return nil
	}

	reason := strings.TrimSpace(application.RejectionReason)
	notes := strings.TrimSpace(application.RejectionNotes)
	if notes == "" && application.RejectionCode == "" {
		reason, notes = SplitLegacyRejection(reason)
	}
	if reason == "" {
		reason = reasonTexts[ReasonOther]
	}

	return &dto.RejectionView{
		Code:            application.RejectionCode,
		Reason:          reason,
		AdditionalNotes: notes,
	}
}

func cleanReviewerText(value string) string {
	return strings.TrimSpace(rejectionSanitizer.Sanitize(value))
}
