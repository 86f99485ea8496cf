// Package qbank defines the question bank data model and the validation
// report model, with validate-on-construct semantics for everything parsed
// from model responses or disk.
package qbank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// NumOptions is the required number of answer options per question.
const NumOptions = 4

// Category is one question category, named after a DepEd Order title or
// main topic. Immutable once created.
type Category struct {
	// ID is the unique identifier, kebab-case, e.g. "educational-leadership".
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Description covers what the category tests.
	Description string `json:"description"`
}

// Question is a single multiple-choice question.
type Question struct {
	// ID is the unique question identifier, e.g. "EL001".
	ID string `json:"question_id"`

	// Text is the question prompt.
	Text string `json:"question"`

	// Options holds exactly four answer options, order-preserving.
	Options []string `json:"options"`

	// AnswerIndex is the zero-based index of the correct option.
	AnswerIndex int `json:"correct_index"`

	// Explanation says why the correct option is correct, referencing
	// the source material.
	Explanation string `json:"explanation"`

	// Source is the citation placeholder (deped.gov.ph URL, edited later
	// by the user).
	Source string `json:"source"`
}

// Validate checks the question invariants: exactly four options and a
// correct-answer index within bounds.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question has no id")
	}
	if q.Text == "" {
		return fmt.Errorf("question %s: empty question text", q.ID)
	}
	if len(q.Options) != NumOptions {
		return fmt.Errorf("question %s: expected %d options, got %d", q.ID, NumOptions, len(q.Options))
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= NumOptions {
		return fmt.Errorf("question %s: correct index %d out of range [0,%d]", q.ID, q.AnswerIndex, NumOptions-1)
	}
	return nil
}

// CorrectOption returns the text of the correct answer option.
// The question must be valid.
func (q Question) CorrectOption() string {
	return q.Options[q.AnswerIndex]
}

// QuestionBank is the full set of generated categories and their questions.
type QuestionBank struct {
	// Categories is the ordered list of categories.
	Categories []Category `json:"categories"`

	// Questions maps category IDs to ordered question lists. Every key
	// must name a category present in Categories.
	Questions map[string][]Question `json:"questions"`
}

// Validate checks referential integrity and every question's invariants.
func (b QuestionBank) Validate() error {
	known := make(map[string]bool, len(b.Categories))
	for _, c := range b.Categories {
		if c.ID == "" {
			return fmt.Errorf("category %q has no id", c.Name)
		}
		known[c.ID] = true
	}

	for catID, questions := range b.Questions {
		if !known[catID] {
			return fmt.Errorf("questions reference unknown category %q", catID)
		}
		for _, q := range questions {
			if err := q.Validate(); err != nil {
				return fmt.Errorf("category %q: %w", catID, err)
			}
		}
	}
	return nil
}

// TotalQuestions counts questions across all categories.
func (b QuestionBank) TotalQuestions() int {
	total := 0
	for _, qs := range b.Questions {
		total += len(qs)
	}
	return total
}

// ParseBank parses and validates a QuestionBank from raw JSON.
func ParseBank(raw []byte) (*QuestionBank, error) {
	var bank QuestionBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}
	return &bank, nil
}

// SaveBank serializes the bank to an indented JSON file, creating parent
// directories as needed.
func SaveBank(bank *QuestionBank, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(bank, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal question bank: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadBank reads and validates a QuestionBank from a JSON file.
func LoadBank(path string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return ParseBank(data)
}
