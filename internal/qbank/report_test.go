package qbank

import "testing"

func TestAccuracy(t *testing.T) {
	cases := []struct {
		valid, total int
		want         float64
	}{
		{8, 10, 80.0},
		{10, 10, 100.0},
		{0, 10, 0.0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{0, 0, 0.0}, // defined, not a division by zero
	}
	for _, c := range cases {
		if got := Accuracy(c.valid, c.total); got != c.want {
			t.Errorf("Accuracy(%d, %d) = %v, want %v", c.valid, c.total, got, c.want)
		}
	}
}

func TestCategorySummaryAccuracyRate(t *testing.T) {
	s := CategoryValidationSummary{TotalQuestions: 4, ValidQuestions: 3}
	if got := s.AccuracyRate(); got != 75.0 {
		t.Errorf("expected 75.0, got %v", got)
	}

	empty := CategoryValidationSummary{}
	if got := empty.AccuracyRate(); got != 0 {
		t.Errorf("empty category accuracy should be 0, got %v", got)
	}
}

func TestResultValidate(t *testing.T) {
	r := QuestionValidationResult{
		QuestionID:      "EL001",
		CategoryID:      "educational-leadership",
		IsValid:         true,
		ConfidenceScore: 0.9,
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResultValidate_ConfidenceBounds(t *testing.T) {
	for _, score := range []float64{-0.1, 1.1, 2} {
		r := QuestionValidationResult{QuestionID: "EL001", ConfidenceScore: score}
		if err := r.Validate(); err == nil {
			t.Errorf("expected error for confidence %v", score)
		}
	}
}

func TestResultValidate_Severity(t *testing.T) {
	r := QuestionValidationResult{
		QuestionID:      "EL001",
		ConfidenceScore: 0.5,
		Issues:          []ValidationIssue{{Severity: "catastrophic", Type: IssueFactualError, Description: "x"}},
	}
	if err := r.Validate(); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestParseResult(t *testing.T) {
	raw := []byte(`{
		"question_id": "EL001",
		"category_id": "educational-leadership",
		"is_valid": false,
		"is_factually_accurate": true,
		"is_answer_correct": false,
		"is_explanation_accurate": true,
		"are_options_valid": true,
		"issues": [{"severity": "major", "issue_type": "answer_mismatch", "description": "Answer disagrees with DO 42 Item 5"}],
		"confidence_score": 0.85
	}`)

	result, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsValid {
		t.Error("expected is_valid false")
	}
	if len(result.Issues) != 1 || result.Issues[0].Severity != SeverityMajor {
		t.Errorf("unexpected issues: %+v", result.Issues)
	}
	if result.ConfidenceScore != 0.85 {
		t.Errorf("unexpected confidence: %v", result.ConfidenceScore)
	}
}

func TestParseResult_OutOfRangeConfidence(t *testing.T) {
	raw := []byte(`{"question_id": "EL001", "category_id": "c", "is_valid": true, "confidence_score": 1.5}`)
	if _, err := ParseResult(raw); err == nil {
		t.Error("expected error for out-of-range confidence")
	}
}
