package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jpagaduan/nqeshgen/internal/config"
	"github.com/jpagaduan/nqeshgen/internal/gemini"
	"github.com/jpagaduan/nqeshgen/internal/store"
)

// loadConfig loads the dotfile named by --env-file and builds the app
// config from the environment plus common flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnv(envFile); err != nil {
		return config.Config{}, err
	}

	cfg := config.FromEnv()
	if cfg.APIKey == "" {
		return config.Config{}, fmt.Errorf("GEMINI_API_KEY is not set: export it or add it to %s", envFile)
	}

	if retries, _ := cmd.Flags().GetInt("retries"); retries > 1 {
		cfg.Retry.MaxAttempts = retries
	}

	return cfg, nil
}

// newClient opens the event log store and builds the Gemini client stack:
// caller -> retry -> event log -> API.
func newClient(ctx context.Context, cmd *cobra.Command, cfg config.Config, model string) (gemini.Client, *store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve event log path: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open event log: %w", err)
	}

	base, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.APIKey, Model: model})
	if err != nil {
		s.Close()
		return nil, nil, err
	}

	runID := uuid.NewString()
	logged := gemini.WithEventLog(base, s.EventRepo(), runID)
	retried := gemini.WithRetry(logged, cfg.Retry)

	return retried, s, nil
}

// confirm asks a y/n question on the command's streams and returns
// whether the user answered yes.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
