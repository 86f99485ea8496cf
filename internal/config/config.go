// Package config holds the immutable configuration for the question
// generator and validator. A Config value is built once at startup and
// passed into each component.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/jpagaduan/nqeshgen/internal/gemini"
)

// Config is the full application configuration.
type Config struct {
	// APIKey is the Gemini API credential (GEMINI_API_KEY).
	APIKey string

	// GeneratorModel serves generation requests.
	GeneratorModel string

	// ValidatorModel serves validation requests. A cheaper flash-tier
	// model is enough for fact-checking.
	ValidatorModel string

	// SystemInstruction is cached with the source documents for
	// generation runs.
	SystemInstruction string

	// ValidatorInstruction is cached with the source documents for
	// validation runs.
	ValidatorInstruction string

	// PromptTemplate is the default generation prompt. Use Prompt to
	// render it with a question count.
	PromptTemplate string

	// QuestionsPerCategory is the default generation target per category.
	QuestionsPerCategory int

	// CacheTTL is how long cached contexts are kept alive remotely.
	CacheTTL time.Duration

	// MaxTokens is the response token budget for generation requests.
	MaxTokens int

	// OutputDir holds the persisted artifacts.
	OutputDir string

	// Thresholds drive the recommendation text in validation reports.
	Thresholds Thresholds

	// Retry configures the retry middleware. Defaults to a single
	// attempt: failed calls surface their error and the run stops.
	Retry gemini.RetryConfig
}

// Thresholds are the accuracy and confidence cutoffs for recommendations.
type Thresholds struct {
	// ReadyAccuracy and above: the bank is ready for use.
	ReadyAccuracy float64

	// MinorRevisionAccuracy and above (but below ReadyAccuracy): minor
	// revision needed. Below it: major revision.
	MinorRevisionAccuracy float64

	// ReviewAccuracy is the cutoff below which a thorough review is
	// advised.
	ReviewAccuracy float64

	// MinConfidence is the average confidence below which manual
	// verification is advised.
	MinConfidence float64
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		GeneratorModel:       "gemini-2.5-pro",
		ValidatorModel:       "gemini-2.5-flash",
		SystemInstruction:    generatorInstruction,
		ValidatorInstruction: validatorInstruction,
		PromptTemplate:       defaultPromptTemplate,
		QuestionsPerCategory: 10,
		CacheTTL:             time.Hour,
		MaxTokens:            65536,
		OutputDir:            "output",
		Thresholds: Thresholds{
			ReadyAccuracy:         95,
			MinorRevisionAccuracy: 80,
			ReviewAccuracy:        90,
			MinConfidence:         0.8,
		},
		Retry: gemini.RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values. LoadEnv should run first so a local dotfile
// can supply the variables.
func FromEnv() Config {
	cfg := Default()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.APIKey = k
	}
	if m := os.Getenv("NQESHGEN_MODEL"); m != "" {
		cfg.GeneratorModel = m
	}
	if m := os.Getenv("NQESHGEN_VALIDATOR_MODEL"); m != "" {
		cfg.ValidatorModel = m
	}
	if d := os.Getenv("NQESHGEN_OUTPUT_DIR"); d != "" {
		cfg.OutputDir = d
	}

	return cfg
}

// Standard artifact file names inside OutputDir.
const (
	QuestionsFile        = "nqesh_questions.json"
	ValidationReportJSON = "validation_report.json"
	ValidationReportMD   = "validation_report.md"
)

// QuestionsPath returns the question bank output path.
func (c Config) QuestionsPath() string {
	return filepath.Join(c.OutputDir, QuestionsFile)
}

// ReportJSONPath returns the JSON validation report output path.
func (c Config) ReportJSONPath() string {
	return filepath.Join(c.OutputDir, ValidationReportJSON)
}

// ReportMDPath returns the Markdown validation report output path.
func (c Config) ReportMDPath() string {
	return filepath.Join(c.OutputDir, ValidationReportMD)
}
