package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/synthtutor/internal/llm"
	"github.com/abhisek/synthtutor/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent backend and LLM calls from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Journal == "" {
			p, err := store.DefaultJournalPath()
			if err != nil {
				return fmt.Errorf("resolve journal path: %w", err)
			}
			cfg.Journal = p
		}
		st, err := openJournal(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.EventRepo()
		out := cmd.OutOrStdout()
		opts := store.QueryOpts{Limit: limit}

		if kind == "" || kind == "api" {
			events, err := repo.QueryAPIEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query api events: %w", err)
			}
			printAPIEvents(out, events)
		}
		if kind == "" || kind == "llm" {
			events, err := repo.QueryLLMEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query llm events: %w", err)
			}
			printLLMEvents(out, events)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().Int("limit", 20, "Number of events to show per kind")
	eventsCmd.Flags().String("kind", "", `Only show "api" or "llm" events`)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func printAPIEvents(out io.Writer, events []store.APIRequestEvent) {
	fmt.Fprintln(out, "Backend calls")
	if len(events) == 0 {
		fmt.Fprintln(out, "  none")
		return
	}
	fmt.Fprintf(out, "%-5s  %-19s  %-6s  %-28s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Method", "Endpoint", "Status", "Ms", "OK")
	fmt.Fprintln(out, strings.Repeat("─", 86))
	for _, e := range events {
		fmt.Fprintf(out, "%-5d  %-19s  %-6s  %-28s  %-6d  %-7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Method,
			truncate(e.Endpoint, 28),
			e.StatusCode,
			e.LatencyMs,
			mark(e.Success),
		)
	}
	fmt.Fprintln(out)
}

func printLLMEvents(out io.Writer, events []store.LLMRequestEvent) {
	fmt.Fprintln(out, "LLM calls")
	if len(events) == 0 {
		fmt.Fprintln(out, "  none")
		return
	}
	fmt.Fprintf(out, "%-5s  %-19s  %-28s  %-6s  %-6s  %-7s  %-9s  %s\n",
		"ID", "Timestamp", "Model", "In", "Out", "Ms", "Cost", "OK")
	fmt.Fprintln(out, strings.Repeat("─", 98))

	var total float64
	for _, e := range events {
		cost := "-"
		if usd, ok := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); ok {
			cost = fmt.Sprintf("$%.4f", usd)
			total += usd
		}
		fmt.Fprintf(out, "%-5d  %-19s  %-28s  %-6d  %-6d  %-7d  %-9s  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.Model, 28),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			cost,
			mark(e.Success),
		)
	}
	fmt.Fprintf(out, "Estimated total: $%.4f\n", total)
}
