package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpagaduan/nqeshgen/internal/generate"
	"github.com/jpagaduan/nqeshgen/internal/qbank"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate NQESH questions from source documents",
	Long: "Uploads every document in the files directory, caches them as reusable " +
		"context, and generates a structured question bank. With --category, " +
		"generation runs once per category and merges the results.",
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("files", "files", "Directory of DepEd Order source documents")
	generateCmd.Flags().String("out", "", "Question bank output path (default output/nqesh_questions.json)")
	generateCmd.Flags().Int("count", 0, "Questions to generate per category (default 10)")
	generateCmd.Flags().String("model", "", "Override the generation model")
	generateCmd.Flags().Bool("no-cache", false, "Skip context caching and send documents inline")
	generateCmd.Flags().StringArray("category", nil, "Generate per category: name=prompt (repeatable)")
	generateCmd.Flags().Int("retries", 0, "Retry transient API failures up to N attempts")
	generateCmd.Flags().Bool("keep-remote", false, "Keep uploaded files and cache on the service after the run")
	generateCmd.Flags().BoolP("yes", "y", false, "Overwrite an existing question bank without asking")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	filesDir, _ := cmd.Flags().GetString("files")
	outPath, _ := cmd.Flags().GetString("out")
	count, _ := cmd.Flags().GetInt("count")
	modelFlag, _ := cmd.Flags().GetString("model")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	categoryFlags, _ := cmd.Flags().GetStringArray("category")
	keepRemote, _ := cmd.Flags().GetBool("keep-remote")
	yes, _ := cmd.Flags().GetBool("yes")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	model := cfg.GeneratorModel
	if modelFlag != "" {
		model = modelFlag
	}
	if outPath == "" {
		outPath = cfg.QuestionsPath()
	}

	if info, err := os.Stat(filesDir); err != nil || !info.IsDir() {
		return fmt.Errorf("source directory %q not found: create it and add DepEd Order files", filesDir)
	}

	if _, err := os.Stat(outPath); err == nil && !yes {
		if !confirm(cmd, fmt.Sprintf("%s already exists. Overwrite?", outPath)) {
			return fmt.Errorf("aborted: %s already exists", outPath)
		}
	}

	categoryPrompts, err := parseCategoryFlags(categoryFlags)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, s, err := newClient(ctx, cmd, cfg, model)
	if err != nil {
		return err
	}
	defer s.Close()

	session := generate.NewSession(client, cfg)
	session.Output = cmd.OutOrStdout()

	if _, err := session.UploadFiles(ctx, filesDir); err != nil {
		return err
	}

	if !keepRemote {
		defer func() {
			if err := session.Cleanup(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: cleanup: %v\n", err)
			}
		}()
	}

	if !noCache {
		if _, err := session.CreateCache(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; continuing without cache\n", err)
		}
	}

	var bank *qbank.QuestionBank
	var genErr error
	if len(categoryPrompts) > 0 {
		bank, genErr = session.GenerateByCategory(ctx, categoryPrompts, count)
	} else {
		bank, genErr = session.Generate(ctx, "", count, !noCache)
	}

	// Per-category generation keeps partial results: save whatever was
	// produced before reporting which categories failed.
	var catErrs *generate.CategoryErrors
	if genErr != nil && !errors.As(genErr, &catErrs) {
		return genErr
	}

	printBankSummary(cmd, bank)

	if err := session.SaveBank(bank, outPath); err != nil {
		return err
	}

	if catErrs != nil {
		return catErrs
	}
	return nil
}

// parseCategoryFlags splits repeated name=prompt pairs into a map.
func parseCategoryFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	prompts := make(map[string]string, len(flags))
	for _, f := range flags {
		name, prompt, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --category value %q: expected name=prompt", f)
		}
		prompts[name] = prompt
	}
	return prompts, nil
}

func printBankSummary(cmd *cobra.Command, bank *qbank.QuestionBank) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "QUESTION BANK SUMMARY")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "Categories: %d\n", len(bank.Categories))

	for _, category := range bank.Categories {
		fmt.Fprintf(out, "  %s (%s): %d questions\n",
			category.Name, category.ID, len(bank.Questions[category.ID]))
	}

	fmt.Fprintf(out, "Total questions: %d\n\n", bank.TotalQuestions())
}
