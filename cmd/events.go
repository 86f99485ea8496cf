package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpagaduan/nqeshgen/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect logged Gemini request events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent request events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().List(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No request events found.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-5s  %-19s  %-18s  %-24s  %-7s  %-7s  %-7s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "Prompt", "Cached", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 110))

		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			model := e.Model
			if len(model) > 24 {
				model = model[:24]
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-18s  %-24s  %-7d  %-7d  %-7d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				model,
				e.PromptTokens,
				e.CachedTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var eventsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one request event in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().Get(context.Background(), id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %d\n", e.ID)
		fmt.Fprintf(out, "Run:       %s\n", e.RunID)
		fmt.Fprintf(out, "Timestamp: %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
		fmt.Fprintf(out, "Model:     %s\n", e.Model)
		fmt.Fprintf(out, "Tokens:    prompt=%d cached=%d output=%d\n", e.PromptTokens, e.CachedTokens, e.OutputTokens)
		fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Success:   %t\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
		}
		if e.RequestBody != "" {
			fmt.Fprintf(out, "\n--- request ---\n%s\n", e.RequestBody)
		}
		if e.ResponseBody != "" {
			fmt.Fprintf(out, "\n--- response ---\n%s\n", e.ResponseBody)
		}
		return nil
	},
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve event log path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return s, nil
}

func init() {
	eventsListCmd.Flags().Int("limit", 50, "Maximum number of events to list")
	eventsListCmd.Flags().String("purpose", "", "Filter by purpose label")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsViewCmd)
}
