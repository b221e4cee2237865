package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claude/pplog/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress [day]",
	Short: "Show total volume and reps per completed day",
	Long: `Show the progress series for one day name, or for all three when no day
is given. Each row is one completed session in completion order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgress,
}

func runProgress(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer ws.Close()

	series := ws.tracker.ProgressAll()
	if len(args) == 1 {
		s, ok := ws.tracker.Progress(args[0])
		if !ok {
			return fmt.Errorf("unknown day %q", args[0])
		}
		series = []progress.Series{s}
	}
	printSeries(cmd.OutOrStdout(), series)
	return nil
}

func printSeries(w io.Writer, series []progress.Series) {
	for i, s := range series {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, s.Day)
		if s.Len() == 0 {
			fmt.Fprintln(w, "  no sessions yet")
			continue
		}
		fmt.Fprintf(w, "  %-20s %10s %6s\n", "completed", "kg", "reps")
		fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 38))
		for j, label := range s.Labels {
			fmt.Fprintf(w, "  %-20s %10s %6d\n", label, formatKg(s.TotalWeight[j]), s.TotalReps[j])
		}
	}
}
