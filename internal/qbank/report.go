package qbank

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Severity grades how serious a validation issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

func (s Severity) valid() bool {
	switch s {
	case SeverityCritical, SeverityMajor, SeverityMinor:
		return true
	}
	return false
}

// IssueType classifies what kind of problem was found.
type IssueType string

const (
	IssueFactualError         IssueType = "factual_error"
	IssueAnswerMismatch       IssueType = "answer_mismatch"
	IssueExplanationIncorrect IssueType = "explanation_incorrect"
	IssueSourceNotFound       IssueType = "source_not_found"
	IssueOptionProblems       IssueType = "option_issues"
	IssueValidationError      IssueType = "validation_error"
)

// ValidationIssue is one problem found while validating a question.
type ValidationIssue struct {
	Severity    Severity  `json:"severity"`
	Type        IssueType `json:"issue_type"`
	Description string    `json:"description"`

	// Evidence is an excerpt from the source documents supporting the
	// issue, when the model could quote one.
	Evidence string `json:"evidence,omitempty"`

	// Suggestion is a proposed correction, when available.
	Suggestion string `json:"suggestion,omitempty"`
}

// QuestionValidationResult is the model's verdict for a single question.
type QuestionValidationResult struct {
	QuestionID            string            `json:"question_id"`
	CategoryID            string            `json:"category_id"`
	IsValid               bool              `json:"is_valid"`
	IsFactuallyAccurate   bool              `json:"is_factually_accurate"`
	IsAnswerCorrect       bool              `json:"is_answer_correct"`
	IsExplanationAccurate bool              `json:"is_explanation_accurate"`
	AreOptionsValid       bool              `json:"are_options_valid"`
	Issues                []ValidationIssue `json:"issues"`
	ConfidenceScore       float64           `json:"confidence_score"`
	Notes                 string            `json:"notes,omitempty"`
}

// Validate checks bounds and enumerations on a parsed result.
func (r QuestionValidationResult) Validate() error {
	if r.QuestionID == "" {
		return fmt.Errorf("validation result has no question id")
	}
	if r.ConfidenceScore < 0 || r.ConfidenceScore > 1 {
		return fmt.Errorf("result %s: confidence %.3f out of range [0,1]", r.QuestionID, r.ConfidenceScore)
	}
	for _, issue := range r.Issues {
		if !issue.Severity.valid() {
			return fmt.Errorf("result %s: unknown severity %q", r.QuestionID, issue.Severity)
		}
	}
	return nil
}

// ParseResult parses and validates a QuestionValidationResult from raw JSON.
func ParseResult(raw []byte) (*QuestionValidationResult, error) {
	var result QuestionValidationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse validation result: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid validation result: %w", err)
	}
	return &result, nil
}

// CategoryValidationSummary aggregates validation results for one category.
// Accuracy is derived, not stored.
type CategoryValidationSummary struct {
	CategoryID        string  `json:"category_id"`
	CategoryName      string  `json:"category_name"`
	TotalQuestions    int     `json:"total_questions"`
	ValidQuestions    int     `json:"valid_questions"`
	InvalidQuestions  int     `json:"invalid_questions"`
	CriticalIssues    int     `json:"critical_issues"`
	MajorIssues       int     `json:"major_issues"`
	MinorIssues       int     `json:"minor_issues"`
	AverageConfidence float64 `json:"average_confidence"`
}

// AccuracyRate returns the category pass percentage, 0 for an empty category.
func (s CategoryValidationSummary) AccuracyRate() float64 {
	return Accuracy(s.ValidQuestions, s.TotalQuestions)
}

// ValidationReport is the full validation outcome for a question bank.
type ValidationReport struct {
	Timestamp         time.Time                   `json:"validation_timestamp"`
	TotalQuestions    int                         `json:"total_questions"`
	ValidQuestions    int                         `json:"valid_questions"`
	InvalidQuestions  int                         `json:"invalid_questions"`
	CategorySummaries []CategoryValidationSummary `json:"category_summaries"`
	QuestionResults   []QuestionValidationResult  `json:"question_results"`
	OverallAccuracy   float64                     `json:"overall_accuracy_rate"`
	OverallConfidence float64                     `json:"overall_confidence"`
	CriticalIssues    int                         `json:"critical_issues_count"`
	Recommendations   []string                    `json:"recommendations"`
}

// Accuracy computes valid/total as a percentage rounded to one decimal
// place. Defined as 0 when total is 0.
func Accuracy(valid, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(valid)/float64(total)*1000) / 10
}
