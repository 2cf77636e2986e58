package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jfavela/checkin-normalizer/internal/audit"
)

func newHistoryCmd() *cobra.Command {
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs and their synthesized records",
		Long: `Show past runs recorded in the audit database.

Without flags, lists recent runs. With --run, lists every check-in record
that run fabricated.

Examples:
  ckn history
  ckn history --limit 5
  ckn history --run 2f1c9a7e-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(runID, limit)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "show synthesized records for one run")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")

	return cmd
}

func runHistory(runID string, limit int) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	if s.AuditDB == "" {
		return fmt.Errorf("no audit_db configured in %s", flagSettings)
	}

	store, err := audit.Open(s.AuditDB)
	if err != nil {
		return err
	}
	defer closeStore(store)

	if runID != "" {
		return printSynthetics(store, runID)
	}
	return printRuns(store, limit)
}

func printRuns(store *audit.Store, limit int) error {
	runs, err := store.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "STARTED\tRUN\tFILES\tSYNTHESIZED\tSTATUS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for _, r := range runs {
		status := r.Status
		if r.Error != "" {
			status += ": " + r.Error
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.ID,
			r.FilesProcessed, r.RecordsSynthesized, status); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

func printSynthetics(store *audit.Store, runID string) error {
	visits, err := store.SyntheticsForRun(runID)
	if err != nil {
		return err
	}
	if len(visits) == 0 {
		fmt.Printf("No synthesized records for run %s.\n", runID)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "FILE\tVISITOR\tDATE\tTIME"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for _, v := range visits {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			v.SourceFile, v.Visitor, v.CheckInDate, v.CheckInTime); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d synthesized record(s)\n", len(visits))
	return nil
}
