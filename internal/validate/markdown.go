package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/jpagaduan/nqeshgen/internal/qbank"
)

// RenderMarkdown produces the human-readable rendering of a report.
func RenderMarkdown(report *qbank.ValidationReport) string {
	var b strings.Builder

	b.WriteString("# NQESH Question Bank Validation Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", report.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Overall Accuracy:** %.1f%%\n\n", report.OverallAccuracy)
	fmt.Fprintf(&b, "**Overall Confidence:** %.2f\n\n", report.OverallConfidence)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Total Questions: %d\n", report.TotalQuestions)
	fmt.Fprintf(&b, "- Valid Questions: %d\n", report.ValidQuestions)
	fmt.Fprintf(&b, "- Invalid Questions: %d\n", report.InvalidQuestions)
	fmt.Fprintf(&b, "- Critical Issues: %d\n\n", report.CriticalIssues)

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Category Summaries\n\n")
	for _, cat := range report.CategorySummaries {
		fmt.Fprintf(&b, "### %s\n\n", cat.CategoryName)
		fmt.Fprintf(&b, "- Total: %d\n", cat.TotalQuestions)
		fmt.Fprintf(&b, "- Valid: %d\n", cat.ValidQuestions)
		fmt.Fprintf(&b, "- Invalid: %d\n", cat.InvalidQuestions)
		fmt.Fprintf(&b, "- Accuracy: %.1f%%\n", cat.AccuracyRate())
		fmt.Fprintf(&b, "- Average Confidence: %.2f\n\n", cat.AverageConfidence)
	}

	b.WriteString("## Question Details\n\n")
	for _, result := range report.QuestionResults {
		status := "VALID"
		if !result.IsValid {
			status = "INVALID"
		}
		fmt.Fprintf(&b, "### %s - %s\n\n", result.QuestionID, status)
		fmt.Fprintf(&b, "- Confidence: %.2f\n", result.ConfidenceScore)
		if len(result.Issues) > 0 {
			b.WriteString("- Issues:\n")
			for _, issue := range result.Issues {
				fmt.Fprintf(&b, "  - **%s** (%s): %s\n",
					strings.ToUpper(string(issue.Severity)), issue.Type, issue.Description)
				if issue.Evidence != "" {
					fmt.Fprintf(&b, "    - Evidence: %s\n", issue.Evidence)
				}
				if issue.Suggestion != "" {
					fmt.Fprintf(&b, "    - Suggestion: %s\n", issue.Suggestion)
				}
			}
		}
		if result.Notes != "" {
			fmt.Fprintf(&b, "- Notes: %s\n", result.Notes)
		}
		b.WriteString("\n")
	}

	return b.String()
}
