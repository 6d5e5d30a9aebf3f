package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldside/sideline/internal/config"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/store"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [session-id]",
		Short: "List stored sessions or show one session's module scores",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolve working directory: %w", err)
			}
			cfg, err := config.Load(cwd)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			st, err := store.Open(cfg.ResultsDBPath())
			if err != nil {
				return fmt.Errorf("open results store: %w", err)
			}
			defer func() { _ = st.Close() }()

			if len(args) == 1 {
				return printSessionReport(cmd, st, args[0])
			}
			return printSessionList(cmd, st)
		},
	}
	return cmd
}

func printSessionList(cmd *cobra.Command, st *store.Store) error {
	sessions, err := st.ListSessions()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no stored sessions")
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-38s %-10s %-22s %-6s %s\n", "SESSION", "TYPE", "CREATED", "SCORE", "MODULES")
	for _, s := range sessions {
		fmt.Fprintf(out, "%-38s %-10s %-22s %-6d %s\n",
			s.ID, s.Type, s.CreatedAt, s.TotalScore, strings.Join(s.Modules, ","))
	}
	return nil
}

func printSessionReport(cmd *cobra.Command, st *store.Store, sessionID string) error {
	results, err := st.SessionResults(sessionID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no results for session %q", sessionID)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %s\n\n", sessionID)
	total := 0
	for _, r := range results {
		title := r.Module
		if id := exam.ModuleID(r.Module); id.IsValid() {
			title = id.Title()
		}
		fmt.Fprintf(out, "  %-28s %d\n", title, r.Score)
		total += r.Score
	}
	fmt.Fprintf(out, "\n  %-28s %d\n", "total", total)
	return nil
}
