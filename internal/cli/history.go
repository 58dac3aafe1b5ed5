package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"llm-bench/internal/store"
)

var (
	historyDB    string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past benchmark runs from a history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listHistory()
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "", "SQLite history database path (required)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func listHistory() error {
	if historyDB == "" {
		return fmt.Errorf("--db is required")
	}

	s, err := store.Open(historyDB)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Recent(context.Background(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tMODEL\tBACKEND\tWORKERS\tREQUESTS\tREQ/S\tTOK/S\tP50 (ms)\tP99 (ms)")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2f\t%.1f\t%.1f\t%.1f\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Model,
			r.Backend,
			r.Workers,
			r.Requests,
			r.RequestsPerSecond,
			r.TokensPerSecond,
			r.P50LatencyMs,
			r.P99LatencyMs,
		)
	}
	return w.Flush()
}
