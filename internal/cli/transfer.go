package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claude/pplog/internal/transfer"
)

var exportLegacy bool

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a backup of the cursor and history",
	Long: `Write a backup file that can be imported here or in the web app.
Without a file argument the backup is written to ` + transfer.Filename + `
in the current directory. Use "-" to print it to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the cursor and history with a backup",
	Long: `Replace the stored cursor and history with the contents of a backup.
The in-progress inputs are discarded. Nothing changes if the file is not
a valid backup.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportLegacy, "legacy", false, "encode historyRecords as a JSON string, as older app versions did")
}

func runExport(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer ws.Close()

	export := ws.tracker.Export
	if exportLegacy {
		export = ws.tracker.ExportLegacy
	}
	data, err := export()
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	path := transfer.Filename
	if len(args) == 1 {
		path = args[0]
	}
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	st := ws.tracker.State()
	fmt.Fprintf(cmd.OutOrStdout(), "Exported day %d and %d records to %s\n", st.DayNumber, len(st.HistoryRecords), path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}

	ws, err := openWorkspace(cmd.Context())
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := ws.tracker.Import(cmd.Context(), data); err != nil {
		if errors.Is(err, transfer.ErrFormatMismatch) {
			return fmt.Errorf("%s is not a workout backup: %w", args[0], err)
		}
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	st := ws.tracker.State()
	fmt.Fprintf(cmd.OutOrStdout(), "Imported day %d and %d records\n", st.DayNumber, len(st.HistoryRecords))
	return nil
}
