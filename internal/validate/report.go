package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jpagaduan/nqeshgen/internal/config"
	"github.com/jpagaduan/nqeshgen/internal/qbank"
)

// BuildReport aggregates per-question results into the final report.
// Category accuracy is valid/total as a percentage, 0 for an empty
// category; overall accuracy is the same ratio across all questions.
func BuildReport(bank *qbank.QuestionBank, results []qbank.QuestionValidationResult, th config.Thresholds, now time.Time) *qbank.ValidationReport {
	validCount := 0
	for _, r := range results {
		if r.IsValid {
			validCount++
		}
	}

	var summaries []qbank.CategoryValidationSummary
	for _, category := range bank.Categories {
		var categoryResults []qbank.QuestionValidationResult
		for _, r := range results {
			if r.CategoryID == category.ID {
				categoryResults = append(categoryResults, r)
			}
		}
		if len(categoryResults) == 0 {
			continue
		}

		summary := qbank.CategoryValidationSummary{
			CategoryID:   category.ID,
			CategoryName: category.Name,
		}
		confidenceSum := 0.0
		for _, r := range categoryResults {
			summary.TotalQuestions++
			if r.IsValid {
				summary.ValidQuestions++
			} else {
				summary.InvalidQuestions++
			}
			confidenceSum += r.ConfidenceScore
			critical, major, minor := countIssues(r.Issues)
			summary.CriticalIssues += critical
			summary.MajorIssues += major
			summary.MinorIssues += minor
		}
		summary.AverageConfidence = confidenceSum / float64(summary.TotalQuestions)
		summaries = append(summaries, summary)
	}

	totalCritical := 0
	confidenceSum := 0.0
	for _, r := range results {
		critical, _, _ := countIssues(r.Issues)
		totalCritical += critical
		confidenceSum += r.ConfidenceScore
	}

	overallConfidence := 0.0
	if len(results) > 0 {
		overallConfidence = confidenceSum / float64(len(results))
	}
	accuracy := qbank.Accuracy(validCount, len(results))

	return &qbank.ValidationReport{
		Timestamp:         now,
		TotalQuestions:    len(results),
		ValidQuestions:    validCount,
		InvalidQuestions:  len(results) - validCount,
		CategorySummaries: summaries,
		QuestionResults:   results,
		OverallAccuracy:   accuracy,
		OverallConfidence: overallConfidence,
		CriticalIssues:    totalCritical,
		Recommendations:   recommendations(accuracy, overallConfidence, len(results)-validCount, totalCritical, th),
	}
}

// recommendations picks the report advice from the configured thresholds.
// The first entry is always the readiness tier.
func recommendations(accuracy, confidence float64, invalid, critical int, th config.Thresholds) []string {
	var recs []string

	switch {
	case accuracy >= th.ReadyAccuracy:
		recs = append(recs, "Question bank is ready for use")
	case accuracy >= th.MinorRevisionAccuracy:
		recs = append(recs, "Question bank needs minor revision before use")
	default:
		recs = append(recs, "Question bank needs major revision")
	}

	if invalid > 0 {
		recs = append(recs, fmt.Sprintf("%d question(s) require review and correction", invalid))
	}
	if critical > 0 {
		recs = append(recs, fmt.Sprintf("%d critical issue(s) found that must be addressed immediately", critical))
	}
	if accuracy < th.ReviewAccuracy {
		recs = append(recs, fmt.Sprintf("Overall accuracy is below %.0f%% - recommend thorough review", th.ReviewAccuracy))
	}
	if confidence < th.MinConfidence {
		recs = append(recs, fmt.Sprintf("Average confidence score is below %.1f - some validations need manual verification", th.MinConfidence))
	}

	return recs
}

func countIssues(issues []qbank.ValidationIssue) (critical, major, minor int) {
	for _, issue := range issues {
		switch issue.Severity {
		case qbank.SeverityCritical:
			critical++
		case qbank.SeverityMajor:
			major++
		case qbank.SeverityMinor:
			minor++
		}
	}
	return critical, major, minor
}

func writeJSON(report *qbank.ValidationReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
