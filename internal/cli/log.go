package cli

import (
	"github.com/spf13/cobra"

	"github.com/claude/pplog/internal/tui"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Open the interactive logger",
	Long: `Open the terminal UI on the day that is due next.

Tab switches between the entry form, the progress charts and the history.
Enter edits the highlighted weight or reps cell; c completes the day.`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer ws.Close()
	return tui.Run(ws.tracker)
}
