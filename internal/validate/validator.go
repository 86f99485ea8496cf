// Package validate orchestrates fact-checking a question bank against the
// original source documents and assembling the validation report.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jpagaduan/nqeshgen/internal/config"
	"github.com/jpagaduan/nqeshgen/internal/gemini"
	"github.com/jpagaduan/nqeshgen/internal/qbank"
)

// ErrNoFiles is returned when validation is attempted before the source
// documents have been uploaded.
var ErrNoFiles = errors.New("no source files uploaded")

// Session owns one validation run. Same linear sequence as generation:
// UploadFiles, then the cached context, then per-question validation.
type Session struct {
	client gemini.Client
	cfg    config.Config

	// Output receives progress lines. Defaults to discard.
	Output io.Writer

	files []gemini.FileRef
	cache *gemini.CacheRef

	cacheFailed bool
}

// NewSession creates a validation session using the given client.
func NewSession(client gemini.Client, cfg config.Config) *Session {
	return &Session{client: client, cfg: cfg, Output: io.Discard}
}

// Files returns the uploaded file handles.
func (s *Session) Files() []gemini.FileRef { return s.files }

// UploadFiles uploads the source documents the questions were generated
// from. Unlike generation, an upload failure here is fatal: validating
// against a partial corpus would produce misleading verdicts.
func (s *Session) UploadFiles(ctx context.Context, dir string) ([]gemini.FileRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory %q: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, entry.Name()))
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no files found in %q", dir)
	}

	s.logf("Uploading %d source files for validation...", len(candidates))

	for _, path := range candidates {
		ref, err := s.client.UploadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", filepath.Base(path), err)
		}
		s.logf("  uploaded %s -> %s", filepath.Base(path), ref.Name)

		if verified, err := s.client.GetFile(ctx, ref.Name); err != nil {
			s.logf("  warning: could not verify %s: %v", ref.Name, err)
		} else if verified.State != "" {
			s.logf("  verified %s: %s", ref.Name, verified.State)
		}

		s.files = append(s.files, ref)
	}

	return s.files, nil
}

// CreateCache bundles the source documents with the validator instruction
// into one cached-content handle. UploadFiles must run first.
func (s *Session) CreateCache(ctx context.Context) (*gemini.CacheRef, error) {
	if len(s.files) == 0 {
		return nil, ErrNoFiles
	}

	ref, err := s.client.CreateCache(ctx, gemini.CacheParams{
		DisplayName: fmt.Sprintf("nqesh-validation-%d-files", len(s.files)),
		System:      s.cfg.ValidatorInstruction,
		Files:       s.files,
		TTL:         s.cfg.CacheTTL,
	})
	if err != nil {
		s.cacheFailed = true
		return nil, fmt.Errorf("create cached content: %w", err)
	}

	s.cache = &ref
	s.logf("Cache created: %s", ref.Name)
	return s.cache, nil
}

// ValidateBank loads a question bank from disk and validates every
// question against the cached source context, one structured request per
// question. A failed request yields a synthetic failing result rather
// than aborting the run. Returns the assembled report.
func (s *Session) ValidateBank(ctx context.Context, bankPath string) (*qbank.ValidationReport, error) {
	if len(s.files) == 0 {
		return nil, ErrNoFiles
	}

	bank, err := qbank.LoadBank(bankPath)
	if err != nil {
		return nil, err
	}

	s.logf("Loaded %d categories, %d questions from %s",
		len(bank.Categories), bank.TotalQuestions(), bankPath)

	if s.cache == nil && !s.cacheFailed {
		if _, err := s.CreateCache(ctx); err != nil {
			s.logf("warning: %v; continuing without cache", err)
		}
	}

	var results []qbank.QuestionValidationResult

	for _, category := range bank.Categories {
		questions := bank.Questions[category.ID]
		if len(questions) == 0 {
			continue
		}

		s.logf("Validating category: %s (%d questions)", category.Name, len(questions))

		for _, q := range questions {
			result, err := s.validateQuestion(ctx, q, category)
			if err != nil {
				s.logf("  %s: ERROR: %v", q.ID, err)
				results = append(results, failedResult(q, category, err))
				continue
			}

			status := "valid"
			if !result.IsValid {
				status = "issues found"
			}
			s.logf("  %s: %s (confidence %.2f)", q.ID, status, result.ConfidenceScore)
			results = append(results, *result)
		}
	}

	return BuildReport(bank, results, s.cfg.Thresholds, time.Now()), nil
}

// validateQuestion issues one structured validation request for a single
// question against the cached source context.
func (s *Session) validateQuestion(ctx context.Context, q qbank.Question, category qbank.Category) (*qbank.QuestionValidationResult, error) {
	req := gemini.Request{
		Prompt:    questionPrompt(q, category),
		Schema:    qbank.ResultSchema,
		MaxTokens: s.cfg.MaxTokens,
	}
	if s.cache != nil {
		req.CacheName = s.cache.Name
	} else {
		req.System = s.cfg.ValidatorInstruction
		req.Files = s.files
	}

	ctx = gemini.WithPurpose(ctx, "question-validate")
	resp, err := s.client.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := qbank.ParseResult(resp.Content)
	if err != nil {
		return nil, err
	}

	// The bank is authoritative for identity; the model only judges content.
	result.QuestionID = q.ID
	result.CategoryID = category.ID
	return result, nil
}

// failedResult builds the synthetic failing result recorded when the
// validation request itself failed.
func failedResult(q qbank.Question, category qbank.Category, err error) qbank.QuestionValidationResult {
	return qbank.QuestionValidationResult{
		QuestionID: q.ID,
		CategoryID: category.ID,
		Issues: []qbank.ValidationIssue{{
			Severity:    qbank.SeverityCritical,
			Type:        qbank.IssueValidationError,
			Description: fmt.Sprintf("validation request failed: %v", err),
		}},
		Notes: fmt.Sprintf("validation error: %v", err),
	}
}

// SaveReport writes the report as JSON and as a human-readable Markdown
// rendering.
func (s *Session) SaveReport(report *qbank.ValidationReport, jsonPath, mdPath string) error {
	if err := writeJSON(report, jsonPath); err != nil {
		return err
	}
	s.logf("JSON report saved to: %s", jsonPath)

	if err := os.MkdirAll(filepath.Dir(mdPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(mdPath, []byte(RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}
	s.logf("Markdown report saved to: %s", mdPath)
	return nil
}

// Cleanup deletes the cached content and uploaded files. Best-effort.
func (s *Session) Cleanup(ctx context.Context) error {
	var errs []error

	if s.cache != nil {
		if err := s.client.DeleteCache(ctx, s.cache.Name); err != nil {
			errs = append(errs, fmt.Errorf("delete cache %s: %w", s.cache.Name, err))
		}
	}
	for _, f := range s.files {
		if err := s.client.DeleteFile(ctx, f.Name); err != nil {
			errs = append(errs, fmt.Errorf("delete file %s: %w", f.Name, err))
		}
	}

	s.files = nil
	s.cache = nil
	s.cacheFailed = false

	return errors.Join(errs...)
}

func (s *Session) logf(format string, args ...any) {
	fmt.Fprintf(s.Output, format+"\n", args...)
}
