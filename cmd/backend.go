package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/synthtutor/internal/tutor"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the module registry with lock state",
	Long:  "List the module registry. With --student, locks are computed from that student's progress; otherwise from no progress.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		client := newClient(cfg, log)
		studentID, _ := cmd.Flags().GetString("student")

		ctx := cmd.Context()
		raw, err := client.ListModules(ctx)
		if err != nil {
			return fmt.Errorf("list modules: %w", err)
		}
		mods := tutor.ResolveModules(raw)
		if err := tutor.Validate(mods); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
		}

		completed := map[string]bool{}
		if studentID != "" {
			records, err := client.ListProgress(ctx, studentID)
			if err != nil {
				return fmt.Errorf("list progress: %w", err)
			}
			completed = tutor.CompletedNames(records)
		}
		mods = tutor.Recompute(mods, completed)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-8s  %-28s  %-10s  %-3s  %-9s  %s\n", "ID", "Name", "Subject", "Lvl", "Exercise", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 84))
		for _, m := range mods {
			status := "open"
			switch {
			case completed[m.Name]:
				status = "done"
			case m.Locked:
				status = "locked (requires " + strings.Join(m.Requirements, ", ") + ")"
			}
			fmt.Fprintf(out, "%-8s  %-28s  %-10s  %-3d  %-9s  %s\n",
				truncate(m.ID, 8), truncate(m.Name, 28), m.Subject, m.Difficulty, m.Kind, status)
		}
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <student-id>",
	Short: "Show a student's progress records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		records, err := newClient(cfg, log).ListProgress(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("list progress: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No progress recorded.")
			return nil
		}
		fmt.Fprintf(out, "%-28s  %-9s  %s\n", "Module", "Completed", "Score")
		fmt.Fprintln(out, strings.Repeat("─", 48))
		for _, r := range records {
			done := "no"
			if r.Completed {
				done = "yes"
			}
			fmt.Fprintf(out, "%-28s  %-9s  %s%%\n", truncate(r.ModuleName, 28), done, tutor.FormatScore(r.Score))
		}
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		client := newClient(cfg, log)
		h, err := client.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("ping %s: %w", client.BaseURL(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", client.BaseURL(), h.Message)
		return nil
	},
}

func init() {
	modulesCmd.Flags().String("student", "", "Compute locks from this student's progress")
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
