package validate

import (
	"strings"
	"testing"

	"github.com/jpagaduan/nqeshgen/internal/config"
	"github.com/jpagaduan/nqeshgen/internal/qbank"
)

func TestRenderMarkdown(t *testing.T) {
	th := config.Default().Thresholds
	results := []qbank.QuestionValidationResult{
		{QuestionID: "leadership_q1", CategoryID: "leadership", IsValid: true, ConfidenceScore: 0.95},
		{
			QuestionID:      "leadership_q2",
			CategoryID:      "leadership",
			ConfidenceScore: 0.7,
			Notes:           "Answer key disagrees with the order text.",
			Issues: []qbank.ValidationIssue{{
				Severity:    qbank.SeverityMajor,
				Type:        qbank.IssueAnswerMismatch,
				Description: "Marked answer is option A but the order names option C.",
				Evidence:    "Section 5 of the order assigns this duty to the division office.",
				Suggestion:  "Change the correct answer to option C.",
			}},
		},
	}
	report := BuildReport(testBank(2), results, th, testTime())

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# NQESH Question Bank Validation Report",
		"**Overall Accuracy:** 50.0%",
		"- Total Questions: 2",
		"## Recommendations",
		"### Educational Leadership",
		"- Accuracy: 50.0%",
		"### leadership_q1 - VALID",
		"### leadership_q2 - INVALID",
		"**MAJOR** (answer_mismatch)",
		"Evidence: Section 5 of the order",
		"Suggestion: Change the correct answer to option C.",
		"Notes: Answer key disagrees with the order text.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("rendered markdown is missing %q", want)
		}
	}
}

func TestRenderMarkdown_NoIssueBlockForCleanResult(t *testing.T) {
	th := config.Default().Thresholds
	report := BuildReport(testBank(1), []qbank.QuestionValidationResult{
		{QuestionID: "leadership_q1", CategoryID: "leadership", IsValid: true, ConfidenceScore: 0.95},
	}, th, testTime())

	md := RenderMarkdown(report)
	if strings.Contains(md, "- Issues:") {
		t.Error("clean result should not render an issues block")
	}
}
