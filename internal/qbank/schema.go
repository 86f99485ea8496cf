package qbank

import "github.com/jpagaduan/nqeshgen/internal/gemini"

// questionProperties is the JSON Schema for a single question, shared by
// the bank schema and reused in prompts.
var questionProperties = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question_id": map[string]any{
			"type":        "string",
			"description": "Unique identifier for the question, e.g. EL001",
		},
		"question": map[string]any{
			"type":        "string",
			"description": "The question text",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    4,
			"maxItems":    4,
			"description": "Exactly 4 answer options",
		},
		"correct_index": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"maximum":     3,
			"description": "Zero-based index of the correct option",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Detailed explanation of why the correct option is correct, referencing the source material",
		},
		"source": map[string]any{
			"type":        "string",
			"description": "Source URL, use the deped.gov.ph website only",
		},
	},
	"required": []any{"question_id", "question", "options", "correct_index", "explanation", "source"},
}

// BankSchema defines the structured-output schema for question generation.
var BankSchema = &gemini.Schema{
	Name:        "question-bank",
	Description: "NQESH question categories and their multiple-choice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"categories": map[string]any{
				"type":        "array",
				"description": "Question categories based on the DepEd Orders",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Unique identifier for the category (kebab-case)",
						},
						"name": map[string]any{
							"type":        "string",
							"description": "Display name of the category",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "What the category covers",
						},
					},
					"required": []any{"id", "name", "description"},
				},
			},
			"questions": map[string]any{
				"type":        "object",
				"description": "Mapping from category id to the list of questions for that category",
				"additionalProperties": map[string]any{
					"type":  "array",
					"items": questionProperties,
				},
			},
		},
		"required": []any{"categories", "questions"},
	},
}

// ResultSchema defines the structured-output schema for validating one
// question against the source documents.
var ResultSchema = &gemini.Schema{
	Name:        "question-validation-result",
	Description: "Fact-check verdict for a single question against the source documents",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_id": map[string]any{
				"type":        "string",
				"description": "ID of the question being validated",
			},
			"category_id": map[string]any{
				"type":        "string",
				"description": "Category ID the question belongs to",
			},
			"is_valid": map[string]any{
				"type":        "boolean",
				"description": "Whether the question passed validation overall",
			},
			"is_factually_accurate": map[string]any{
				"type":        "boolean",
				"description": "Whether the question content is found in the source documents",
			},
			"is_answer_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the stated correct answer is actually correct per the documents",
			},
			"is_explanation_accurate": map[string]any{
				"type":        "boolean",
				"description": "Whether the explanation matches the source material",
			},
			"are_options_valid": map[string]any{
				"type":        "boolean",
				"description": "Whether all options are plausible and distinct",
			},
			"issues": map[string]any{
				"type":        "array",
				"description": "Issues found during validation",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"severity": map[string]any{
							"type": "string",
							"enum": []any{"critical", "major", "minor"},
						},
						"issue_type": map[string]any{
							"type": "string",
							"enum": []any{
								"factual_error",
								"answer_mismatch",
								"explanation_incorrect",
								"source_not_found",
								"option_issues",
								"validation_error",
							},
						},
						"description": map[string]any{
							"type":        "string",
							"description": "Detailed description of the issue",
						},
						"evidence": map[string]any{
							"type":        "string",
							"description": "Excerpt from the source documents supporting the issue",
						},
						"suggestion": map[string]any{
							"type":        "string",
							"description": "Suggested correction or improvement",
						},
					},
					"required": []any{"severity", "issue_type", "description"},
				},
			},
			"confidence_score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "Confidence in this assessment from 0.0 to 1.0",
			},
			"notes": map[string]any{
				"type":        "string",
				"description": "Additional notes or context",
			},
		},
		"required": []any{
			"question_id", "category_id", "is_valid",
			"is_factually_accurate", "is_answer_correct",
			"is_explanation_accurate", "are_options_valid",
			"issues", "confidence_score",
		},
	},
}
