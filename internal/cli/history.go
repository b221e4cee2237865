package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/program"
)

var (
	historyDay      string
	historyLimit    int
	historyMarkdown bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed days, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDay, "day", "", "only show one day (Push, Pull or Legs)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most n records (0 = all)")
	historyCmd.Flags().BoolVar(&historyMarkdown, "markdown", false, "print raw markdown instead of rendering it")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyDay != "" {
		if _, ok := program.Lookup(historyDay); !ok {
			return fmt.Errorf("unknown day %q (valid: %s)", historyDay, strings.Join(program.DayNames(), ", "))
		}
	}

	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer ws.Close()

	md := historyMarkdownDoc(filterHistory(ws.tracker.History(), historyDay, historyLimit))
	if historyMarkdown {
		_, err := fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering history: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func filterHistory(records []models.HistoryRecord, day string, limit int) []models.HistoryRecord {
	out := make([]models.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if day != "" && rec.DayName != day {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// historyMarkdownDoc renders records as one section per day with a set table.
func historyMarkdownDoc(records []models.HistoryRecord) string {
	var b strings.Builder
	b.WriteString("# Training history\n\n")
	if len(records) == 0 {
		b.WriteString("_No completed days yet._\n")
		return b.String()
	}
	for _, rec := range records {
		fmt.Fprintf(&b, "## Day %d · %s\n\n", rec.DayNumber, rec.DayName)
		fmt.Fprintf(&b, "%s · **%s kg** · **%d reps**\n\n", rec.DateStr, formatKg(rec.TotalWeight), rec.TotalReps)
		b.WriteString("| Exercise | Sets |\n|---|---|\n")
		for _, ex := range rec.Exercises {
			sets := make([]string, len(ex.Sets))
			for i, s := range ex.Sets {
				sets[i] = formatKg(s.Weight) + " × " + strconv.Itoa(s.Reps)
			}
			fmt.Fprintf(&b, "| %s | %s |\n", ex.Name, strings.Join(sets, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
