package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpagaduan/nqeshgen/internal/qbank"
	"github.com/jpagaduan/nqeshgen/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Fact-check a question bank against the source documents",
	Long: "Uploads the source documents, caches them as validation context, and " +
		"issues one structured fact-check request per question. Writes a JSON " +
		"and a Markdown report.",
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("files", "files", "Directory of DepEd Order source documents")
	validateCmd.Flags().String("bank", "", "Question bank to validate (default output/nqesh_questions.json)")
	validateCmd.Flags().String("json-out", "", "JSON report output path (default output/validation_report.json)")
	validateCmd.Flags().String("md-out", "", "Markdown report output path (default output/validation_report.md)")
	validateCmd.Flags().String("model", "", "Override the validation model")
	validateCmd.Flags().Int("retries", 0, "Retry transient API failures up to N attempts")
	validateCmd.Flags().Bool("keep-remote", false, "Keep uploaded files and cache on the service after the run")
}

func runValidate(cmd *cobra.Command, args []string) error {
	filesDir, _ := cmd.Flags().GetString("files")
	bankPath, _ := cmd.Flags().GetString("bank")
	jsonOut, _ := cmd.Flags().GetString("json-out")
	mdOut, _ := cmd.Flags().GetString("md-out")
	modelFlag, _ := cmd.Flags().GetString("model")
	keepRemote, _ := cmd.Flags().GetBool("keep-remote")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	model := cfg.ValidatorModel
	if modelFlag != "" {
		model = modelFlag
	}
	if bankPath == "" {
		bankPath = cfg.QuestionsPath()
	}
	if jsonOut == "" {
		jsonOut = cfg.ReportJSONPath()
	}
	if mdOut == "" {
		mdOut = cfg.ReportMDPath()
	}

	if _, err := os.Stat(bankPath); err != nil {
		return fmt.Errorf("question bank %q not found: run 'nqeshgen generate' first", bankPath)
	}
	if info, err := os.Stat(filesDir); err != nil || !info.IsDir() {
		return fmt.Errorf("source directory %q not found", filesDir)
	}

	ctx := context.Background()
	client, s, err := newClient(ctx, cmd, cfg, model)
	if err != nil {
		return err
	}
	defer s.Close()

	session := validate.NewSession(client, cfg)
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

	report, err := session.ValidateBank(ctx, bankPath)
	if err != nil {
		return err
	}

	if err := session.SaveReport(report, jsonOut, mdOut); err != nil {
		return err
	}

	printReportSummary(cmd, report)
	return nil
}

func printReportSummary(cmd *cobra.Command, report *qbank.ValidationReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "VALIDATION SUMMARY")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "Total questions:  %d\n", report.TotalQuestions)
	fmt.Fprintf(out, "Valid questions:  %d\n", report.ValidQuestions)
	fmt.Fprintf(out, "With issues:      %d\n", report.InvalidQuestions)
	fmt.Fprintf(out, "Accuracy rate:    %.1f%%\n", report.OverallAccuracy)
	fmt.Fprintf(out, "Avg confidence:   %.2f\n", report.OverallConfidence)
	fmt.Fprintf(out, "Critical issues:  %d\n", report.CriticalIssues)

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(out, "\nRecommendations:")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(out, "  - %s\n", rec)
		}
	}
	fmt.Fprintln(out)
}
