package qbank

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func validQuestion(id string) Question {
	return Question{
		ID:          id,
		Text:        "Which DepEd Order governs school-based management?",
		Options:     []string{"DO 83", "DO 1", "DO 42", "DO 21"},
		AnswerIndex: 2,
		Explanation: "DO 42 covers school-based management grants.",
		Source:      "https://deped.gov.ph",
	}
}

func validBank() *QuestionBank {
	return &QuestionBank{
		Categories: []Category{
			{ID: "educational-leadership", Name: "Educational Leadership", Description: "Leadership and administration"},
			{ID: "legal-foundations", Name: "Legal and Ethical Foundations", Description: "Education laws and ethics"},
		},
		Questions: map[string][]Question{
			"educational-leadership": {validQuestion("EL001"), validQuestion("EL002")},
			"legal-foundations":      {validQuestion("LF001")},
		},
	}
}

func TestQuestionValidate(t *testing.T) {
	if err := validQuestion("EL001").Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuestionValidate_OptionCount(t *testing.T) {
	for _, n := range []int{0, 1, 3, 5} {
		q := validQuestion("EL001")
		q.Options = make([]string, n)
		for i := range q.Options {
			q.Options[i] = "option"
		}
		if q.AnswerIndex >= n {
			q.AnswerIndex = 0
		}
		if err := q.Validate(); err == nil {
			t.Errorf("expected error for %d options", n)
		}
	}
}

func TestQuestionValidate_AnswerIndexBounds(t *testing.T) {
	for _, idx := range []int{-1, 4, 10} {
		q := validQuestion("EL001")
		q.AnswerIndex = idx
		if err := q.Validate(); err == nil {
			t.Errorf("expected error for index %d", idx)
		}
	}
	for idx := 0; idx < 4; idx++ {
		q := validQuestion("EL001")
		q.AnswerIndex = idx
		if err := q.Validate(); err != nil {
			t.Errorf("index %d: unexpected error: %v", idx, err)
		}
	}
}

func TestQuestionCorrectOption(t *testing.T) {
	q := validQuestion("EL001")
	if got := q.CorrectOption(); got != "DO 42" {
		t.Errorf("expected DO 42, got %q", got)
	}
}

func TestBankValidate(t *testing.T) {
	if err := validBank().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBankValidate_UnknownCategory(t *testing.T) {
	bank := validBank()
	bank.Questions["curriculum"] = []Question{validQuestion("CI001")}

	err := bank.Validate()
	if err == nil {
		t.Fatal("expected error for unknown category key")
	}
	if !strings.Contains(err.Error(), "curriculum") {
		t.Errorf("error should name the unknown category: %v", err)
	}
}

func TestBankValidate_BadQuestion(t *testing.T) {
	bank := validBank()
	q := validQuestion("EL003")
	q.AnswerIndex = 7
	bank.Questions["educational-leadership"] = append(bank.Questions["educational-leadership"], q)

	if err := bank.Validate(); err == nil {
		t.Fatal("expected error for out-of-range answer index")
	}
}

func TestBankTotalQuestions(t *testing.T) {
	if got := validBank().TotalQuestions(); got != 3 {
		t.Errorf("expected 3 questions, got %d", got)
	}
}

func TestBankRoundTrip(t *testing.T) {
	bank := validBank()
	path := filepath.Join(t.TempDir(), "out", "bank.json")

	if err := SaveBank(bank, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadBank(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(bank, loaded) {
		t.Errorf("round-trip mismatch:\nsaved:  %+v\nloaded: %+v", bank, loaded)
	}
}

func TestParseBank_Invalid(t *testing.T) {
	if _, err := ParseBank([]byte("not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}

	raw := []byte(`{"categories": [], "questions": {"ghost": []}}`)
	if _, err := ParseBank(raw); err == nil {
		t.Error("expected error for unknown category reference")
	}
}
