// Package generate orchestrates question generation: upload source
// documents, cache them as reusable context, and issue structured
// generation requests against that context.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jpagaduan/nqeshgen/internal/config"
	"github.com/jpagaduan/nqeshgen/internal/gemini"
	"github.com/jpagaduan/nqeshgen/internal/qbank"
)

// ErrNoFiles is returned when an operation requires uploaded source files
// but none have been uploaded yet.
var ErrNoFiles = errors.New("no source files uploaded")

// Session owns one generation run: the uploaded file handles, the cached
// context, and the configuration. Operations follow a strict linear
// sequence: UploadFiles, then CreateCache, then Generate. An operation
// invoked before its prerequisite fails immediately.
type Session struct {
	client gemini.Client
	cfg    config.Config

	// Output receives progress lines. Defaults to discard; the CLI sets
	// it to stdout.
	Output io.Writer

	files []gemini.FileRef
	cache *gemini.CacheRef

	// cacheFailed remembers that cache creation failed, so later calls
	// fall back to uncached generation instead of retrying the cache.
	cacheFailed bool
}

// NewSession creates a generation session using the given client.
func NewSession(client gemini.Client, cfg config.Config) *Session {
	return &Session{client: client, cfg: cfg, Output: io.Discard}
}

// Files returns the uploaded file handles.
func (s *Session) Files() []gemini.FileRef { return s.files }

// Cache returns the cached-content handle, or nil if none exists.
func (s *Session) Cache() *gemini.CacheRef { return s.cache }

// UploadFiles uploads every regular file in dir and verifies each handle.
// Hidden files are skipped. A single failed upload is skipped with a
// warning; an empty or missing directory is an error.
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
		return nil, fmt.Errorf("no files found in %q: add DepEd Order documents first", dir)
	}

	s.logf("Uploading %d files from %q...", len(candidates), dir)

	for _, path := range candidates {
		ref, err := s.client.UploadFile(ctx, path)
		if err != nil {
			s.logf("  skipping %s: %v", filepath.Base(path), err)
			continue
		}
		s.logf("  uploaded %s -> %s", filepath.Base(path), ref.Name)

		// Verification is advisory; a failed lookup does not drop the file.
		if verified, err := s.client.GetFile(ctx, ref.Name); err != nil {
			s.logf("  warning: could not verify %s: %v", ref.Name, err)
		} else if verified.State != "" {
			s.logf("  verified %s: %s", ref.Name, verified.State)
		}

		s.files = append(s.files, ref)
	}

	if len(s.files) == 0 {
		return nil, fmt.Errorf("all uploads from %q failed", dir)
	}

	s.logf("Uploaded %d of %d files", len(s.files), len(candidates))
	return s.files, nil
}

// CreateCache bundles the uploaded files and the system instruction into
// one reusable cached-content handle. UploadFiles must run first.
func (s *Session) CreateCache(ctx context.Context) (*gemini.CacheRef, error) {
	if len(s.files) == 0 {
		return nil, ErrNoFiles
	}

	ref, err := s.client.CreateCache(ctx, gemini.CacheParams{
		DisplayName: fmt.Sprintf("nqesh-question-gen-%d-files", len(s.files)),
		System:      s.cfg.SystemInstruction,
		Files:       s.files,
		TTL:         s.cfg.CacheTTL,
	})
	if err != nil {
		s.cacheFailed = true
		return nil, fmt.Errorf("create cached content: %w", err)
	}

	s.cache = &ref
	s.logf("Cache created: %s (expires %s)", ref.Name, ref.ExpireTime.Format("15:04:05"))
	return s.cache, nil
}

// Generate issues one structured generation request and parses the
// response into a QuestionBank. When prompt is empty the configured
// default template is used with numQuestions per category. When useCache
// is set, the cached context is created lazily if needed; if cache
// creation fails the call proceeds uncached (files sent inline).
func (s *Session) Generate(ctx context.Context, prompt string, numQuestions int, useCache bool) (*qbank.QuestionBank, error) {
	if len(s.files) == 0 {
		return nil, ErrNoFiles
	}

	if useCache && s.cache == nil && !s.cacheFailed {
		if _, err := s.CreateCache(ctx); err != nil {
			s.logf("warning: %v; continuing without cache", err)
		}
	}

	if prompt == "" {
		prompt = s.cfg.Prompt(numQuestions)
	}

	req := gemini.Request{
		Prompt:    prompt,
		Schema:    qbank.BankSchema,
		MaxTokens: s.cfg.MaxTokens,
	}
	if useCache && s.cache != nil {
		req.CacheName = s.cache.Name
	} else {
		req.System = s.cfg.SystemInstruction
		req.Files = s.files
	}

	ctx = gemini.WithPurpose(ctx, "question-gen")
	resp, err := s.client.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	if resp.Usage.CachedTokens > 0 {
		s.logf("Cached tokens reused: %d (prompt %d, output %d)",
			resp.Usage.CachedTokens, resp.Usage.PromptTokens, resp.Usage.OutputTokens)
	}

	bank, err := qbank.ParseBank(resp.Content)
	if err != nil {
		return nil, err
	}
	return bank, nil
}

// Regenerate reuses the existing cached context to request an alternate
// generation with a different prompt, without re-uploading source files.
func (s *Session) Regenerate(ctx context.Context, prompt string) (*qbank.QuestionBank, error) {
	return s.Generate(ctx, prompt, 0, true)
}

// CategoryErrors reports which categories failed during per-category
// generation. Successfully generated categories are kept.
type CategoryErrors struct {
	Failed map[string]error
}

func (e *CategoryErrors) Error() string {
	names := make([]string, 0, len(e.Failed))
	for name := range e.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("generation failed for %d categories: %s", len(names), strings.Join(names, ", "))
}

// GenerateByCategory invokes generation once per category prompt and
// merges the results into a single QuestionBank. A failure in one
// category does not discard the others: the merged bank holds everything
// that succeeded and the returned *CategoryErrors names the failures.
func (s *Session) GenerateByCategory(ctx context.Context, categoryPrompts map[string]string, numQuestions int) (*qbank.QuestionBank, error) {
	if len(s.files) == 0 {
		return nil, ErrNoFiles
	}

	if numQuestions <= 0 {
		numQuestions = s.cfg.QuestionsPerCategory
	}

	names := make([]string, 0, len(categoryPrompts))
	for name := range categoryPrompts {
		names = append(names, name)
	}
	sort.Strings(names)

	merged := &qbank.QuestionBank{Questions: make(map[string][]qbank.Question)}
	failed := make(map[string]error)

	for _, name := range names {
		s.logf("Generating questions for: %s", name)

		prompt := fmt.Sprintf("%s\n\nGenerate %d questions for the category: %s\n\nOutput in the standard question bank format.",
			categoryPrompts[name], numQuestions, name)

		bank, err := s.Generate(ctx, prompt, numQuestions, true)
		if err != nil {
			s.logf("  failed: %v", err)
			failed[name] = err
			continue
		}

		for _, category := range bank.Categories {
			merged.Categories = append(merged.Categories, category)
			if questions, ok := bank.Questions[category.ID]; ok {
				merged.Questions[category.ID] = append(merged.Questions[category.ID], questions...)
			}
		}
		s.logf("  generated %d questions", bank.TotalQuestions())
	}

	if len(failed) > 0 {
		return merged, &CategoryErrors{Failed: failed}
	}
	return merged, nil
}

// SaveBank writes the question bank to a JSON file.
func (s *Session) SaveBank(bank *qbank.QuestionBank, path string) error {
	if err := qbank.SaveBank(bank, path); err != nil {
		return err
	}
	s.logf("Questions saved to: %s", path)
	return nil
}

// Cleanup deletes the cached content and the uploaded files from the
// remote service. Best-effort: individual failures are collected but do
// not stop the remaining deletions.
func (s *Session) Cleanup(ctx context.Context) error {
	var errs []error

	if s.cache != nil {
		if err := s.client.DeleteCache(ctx, s.cache.Name); err != nil {
			errs = append(errs, fmt.Errorf("delete cache %s: %w", s.cache.Name, err))
		} else {
			s.logf("Deleted cache: %s", s.cache.Name)
		}
	}

	for _, f := range s.files {
		if err := s.client.DeleteFile(ctx, f.Name); err != nil {
			errs = append(errs, fmt.Errorf("delete file %s: %w", f.Name, err))
		} else {
			s.logf("Deleted file: %s", f.Name)
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
