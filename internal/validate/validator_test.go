package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpagaduan/nqeshgen/internal/config"
	"github.com/jpagaduan/nqeshgen/internal/gemini"
	"github.com/jpagaduan/nqeshgen/internal/qbank"
)

func testBank(numQuestions int) *qbank.QuestionBank {
	questions := make([]qbank.Question, 0, numQuestions)
	for i := 0; i < numQuestions; i++ {
		questions = append(questions, qbank.Question{
			ID:          fmt.Sprintf("leadership_q%d", i+1),
			Text:        "Which law governs basic education governance?",
			Options:     []string{"RA 9155", "RA 10533", "RA 4670", "RA 7836"},
			AnswerIndex: 0,
			Explanation: "RA 9155 is the Governance of Basic Education Act.",
			Source:      "https://deped.gov.ph",
		})
	}
	return &qbank.QuestionBank{
		Categories: []qbank.Category{
			{ID: "leadership", Name: "Educational Leadership", Description: "Leadership and management"},
		},
		Questions: map[string][]qbank.Question{"leadership": questions},
	}
}

func writeBank(t *testing.T, bank *qbank.QuestionBank) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nqesh_questions.json")
	if err := qbank.SaveBank(bank, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func resultJSON(valid bool, confidence float64) json.RawMessage {
	result := map[string]any{
		"question_id":             "placeholder",
		"category_id":             "placeholder",
		"is_valid":                valid,
		"is_factually_accurate":   valid,
		"is_answer_correct":       valid,
		"is_explanation_accurate": valid,
		"are_options_valid":       true,
		"issues":                  []any{},
		"confidence_score":        confidence,
	}
	if !valid {
		result["issues"] = []map[string]any{{
			"severity":    "major",
			"issue_type":  "answer_mismatch",
			"description": "The marked answer does not match the source document.",
		}}
	}
	raw, err := json.Marshal(result)
	if err != nil {
		panic(err)
	}
	return raw
}

func uploadSources(t *testing.T, s *Session) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "order1.pdf"), []byte("content"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UploadFiles(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
}

func TestValidateBank(t *testing.T) {
	// 8 valid out of 10 lands in the minor-revision tier.
	responses := make([]gemini.MockResponse, 0, 10)
	for i := 0; i < 10; i++ {
		responses = append(responses, gemini.MockResponse{Content: resultJSON(i < 8, 0.9)})
	}
	mock := gemini.NewMockClient(responses...)
	s := NewSession(mock, config.Default())
	uploadSources(t, s)

	report, err := s.ValidateBank(context.Background(), writeBank(t, testBank(10)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalQuestions != 10 {
		t.Errorf("expected 10 questions, got %d", report.TotalQuestions)
	}
	if report.ValidQuestions != 8 || report.InvalidQuestions != 2 {
		t.Errorf("expected 8 valid / 2 invalid, got %d / %d", report.ValidQuestions, report.InvalidQuestions)
	}
	if report.OverallAccuracy != 80.0 {
		t.Errorf("expected 80.0 accuracy, got %.1f", report.OverallAccuracy)
	}
	if len(report.Recommendations) == 0 || report.Recommendations[0] != "Question bank needs minor revision before use" {
		t.Errorf("unexpected recommendations: %v", report.Recommendations)
	}
	if mock.CallCount() != 10 {
		t.Errorf("expected one request per question, got %d", mock.CallCount())
	}
}

func TestValidateBank_RequestFailure(t *testing.T) {
	mock := gemini.NewMockClient(
		gemini.MockResponse{Content: resultJSON(true, 0.95)},
		gemini.MockResponse{Err: &gemini.ErrServiceUnavailable{Err: errors.New("backend down")}},
	)
	s := NewSession(mock, config.Default())
	uploadSources(t, s)

	report, err := s.ValidateBank(context.Background(), writeBank(t, testBank(2)))
	if err != nil {
		t.Fatalf("a failed request must not abort the run: %v", err)
	}

	if report.TotalQuestions != 2 {
		t.Fatalf("expected 2 results, got %d", report.TotalQuestions)
	}
	failed := report.QuestionResults[1]
	if failed.IsValid {
		t.Error("synthetic result for a failed request must be invalid")
	}
	if failed.QuestionID != "leadership_q2" {
		t.Errorf("synthetic result should keep the question id, got %q", failed.QuestionID)
	}
	if len(failed.Issues) != 1 || failed.Issues[0].Type != qbank.IssueValidationError {
		t.Errorf("expected one validation_error issue, got %v", failed.Issues)
	}
	if failed.Issues[0].Severity != qbank.SeverityCritical {
		t.Errorf("request failures are critical, got %q", failed.Issues[0].Severity)
	}
}

func TestValidateBank_AuthoritativeIdentity(t *testing.T) {
	// The model's echoed ids are ignored in favor of the bank's.
	mock := gemini.NewMockClient(gemini.MockResponse{Content: resultJSON(true, 0.9)})
	s := NewSession(mock, config.Default())
	uploadSources(t, s)

	report, err := s.ValidateBank(context.Background(), writeBank(t, testBank(1)))
	if err != nil {
		t.Fatal(err)
	}
	result := report.QuestionResults[0]
	if result.QuestionID != "leadership_q1" || result.CategoryID != "leadership" {
		t.Errorf("expected bank identity, got %q / %q", result.QuestionID, result.CategoryID)
	}
}

func TestValidateBank_RequiresFiles(t *testing.T) {
	s := NewSession(gemini.NewMockClient(), config.Default())

	if _, err := s.ValidateBank(context.Background(), "missing.json"); !errors.Is(err, ErrNoFiles) {
		t.Errorf("expected ErrNoFiles, got %v", err)
	}
}

func TestValidateBank_UsesCache(t *testing.T) {
	mock := gemini.NewMockClient(
		gemini.MockResponse{Content: resultJSON(true, 0.9)},
		gemini.MockResponse{Content: resultJSON(true, 0.9)},
	)
	s := NewSession(mock, config.Default())
	uploadSources(t, s)

	if _, err := s.ValidateBank(context.Background(), writeBank(t, testBank(2))); err != nil {
		t.Fatal(err)
	}
	for i, call := range mock.Calls {
		if call.CacheName == "" {
			t.Errorf("call %d should reference the cache", i)
		}
		if !strings.Contains(call.Prompt, "RA 9155") {
			t.Errorf("call %d prompt should carry the question content", i)
		}
	}
}

func TestUploadFiles_FailureIsFatal(t *testing.T) {
	mock := gemini.NewMockClient()
	mock.UploadErr = errors.New("quota exceeded")
	s := NewSession(mock, config.Default())

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "order1.pdf"), []byte("content"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UploadFiles(context.Background(), dir); err == nil {
		t.Error("validation uploads must not skip failed files")
	}
}

func TestSaveReport(t *testing.T) {
	s := NewSession(gemini.NewMockClient(), config.Default())
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "validation_report.json")
	mdPath := filepath.Join(dir, "validation_report.md")

	report := BuildReport(testBank(1), []qbank.QuestionValidationResult{
		{QuestionID: "leadership_q1", CategoryID: "leadership", IsValid: true, ConfidenceScore: 0.9},
	}, config.Default().Thresholds, testTime())

	if err := s.SaveReport(report, jsonPath, mdPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var decoded qbank.ValidationReport
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("saved JSON does not parse: %v", err)
	}
	if decoded.OverallAccuracy != 100.0 {
		t.Errorf("expected 100.0 accuracy, got %.1f", decoded.OverallAccuracy)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(md), "# NQESH Question Bank Validation Report") {
		t.Error("markdown report is missing its title")
	}
}
