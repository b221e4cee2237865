package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claude/pplog/internal/program"
	"github.com/claude/pplog/internal/tracker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the day that is due next",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer ws.Close()
	printStatus(cmd.OutOrStdout(), ws.tracker)
	return nil
}

func printStatus(w io.Writer, tr *tracker.Tracker) {
	cursor, day := tr.Current()
	fmt.Fprintf(w, "Day %d · %s\n", cursor, day.Name)
	for _, ex := range day.Exercises {
		fmt.Fprintf(w, "  %-28s %s\n", ex.Name, strings.Join(ex.Targets, " / "))
	}

	hist := tr.History()
	if len(hist) == 0 {
		fmt.Fprintln(w, "\nNo completed days yet.")
		return
	}
	last := hist[0]
	fmt.Fprintf(w, "\nLast completed: day %d (%s) on %s, %s kg, %d reps\n",
		last.DayNumber, last.DayName, last.DateStr, formatKg(last.TotalWeight), last.TotalReps)
	fmt.Fprintf(w, "Completed days: %d (%d full rotations)\n", len(hist), len(hist)/program.Len)
}
