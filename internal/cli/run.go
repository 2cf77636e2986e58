package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jfavela/checkin-normalizer/internal/audit"
	"github.com/jfavela/checkin-normalizer/internal/batch"
	"github.com/jfavela/checkin-normalizer/internal/ledger"
	"github.com/jfavela/checkin-normalizer/internal/logging"
)

func newRunCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process all matching input files",
		Long: `Process all matching input files.

Reads every file in the input folder whose name matches the configured
pattern, reconciles each visitor's visit count against its quota, and
writes one normalized CSV per input file to the output folder.

Examples:
  ckn run
  ckn run --settings march.yaml --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "process files without writing outputs or audit records")

	return cmd
}

func runBatch(dryRun bool) error {
	logging.Setup(flagVerbose)

	s, err := loadSettings()
	if err != nil {
		return err
	}

	driver := &batch.Driver{
		Settings: s,
		Quotas:   newQuotaSource(s),
		Logger:   slog.Default(),
		RunID:    uuid.NewString(),
		DryRun:   dryRun,
	}

	var store *audit.Store
	if s.AuditDB != "" && !dryRun {
		store, err = audit.Open(s.AuditDB)
		if err != nil {
			return err
		}
		defer closeStore(store)

		runID, err := store.BeginRun(flagSettings)
		if err != nil {
			return err
		}
		driver.RunID = runID
		driver.Recorder = store
	}

	slog.Info("starting run", "run_id", driver.RunID, "settings", flagSettings, "dry_run", dryRun)

	result, runErr := driver.Run()

	if store != nil {
		files, synthesized := 0, 0
		if result != nil {
			files = result.FilesProcessed
			synthesized = result.RecordsSynthesized
		}
		if err := store.FinishRun(driver.RunID, files, synthesized, runErr); err != nil {
			slog.Error("recording run outcome", "error", err)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, ledger.ErrRetriesExhausted) {
			slog.Error("retry budget exhausted, aborting run; check valid_days and quota ranges against the month", "error", runErr)
		}
		return runErr
	}

	fmt.Printf("Processed %d file(s), synthesized %d record(s).\n",
		result.FilesProcessed, result.RecordsSynthesized)
	for _, path := range result.OutputFiles {
		fmt.Printf("  %s\n", path)
	}
	return nil
}

// closeStore closes the audit store, logging any error.
func closeStore(store *audit.Store) {
	if err := store.Close(); err != nil {
		slog.Warn("closing audit store", "error", err)
	}
}
