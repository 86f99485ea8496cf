package cmd

import (
	"github.com/jpagaduan/nqeshgen/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nqeshgen",
	Short: "NQESH question bank generator and validator",
	Long: "nqeshgen generates NQESH practice questions from DepEd Order documents " +
		"using the Gemini API with context caching, and validates an existing " +
		"question bank against the same sources.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite request event log (overrides NQESHGEN_DB env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotfile to load environment variables from")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the event log path using --db flag (highest
// priority), then NQESHGEN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
