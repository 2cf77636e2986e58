// Package batch drives a full run: discover input files, derive each
// file's calendar-month window from its name, reconcile every visitor's
// quota, and write the normalized output CSV. Files are processed strictly
// one at a time, each with its own retry budget.
package batch

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jfavela/checkin-normalizer/internal/audit"
	"github.com/jfavela/checkin-normalizer/internal/config"
	"github.com/jfavela/checkin-normalizer/internal/csvio"
	"github.com/jfavela/checkin-normalizer/internal/ledger"
	"github.com/jfavela/checkin-normalizer/internal/prompt"
	"github.com/jfavela/checkin-normalizer/internal/visit"
)

// Recorder receives the fabricated visits of each processed file. The audit
// store implements it; a nil Recorder disables recording.
type Recorder interface {
	AddSynthetics(visits []audit.SyntheticVisit) error
}

// Driver runs the batch over all matching input files.
type Driver struct {
	Settings *config.Settings
	Quotas   prompt.Source
	Logger   *slog.Logger
	Rand     *rand.Rand
	Recorder Recorder
	RunID    string
	DryRun   bool
}

// Result summarizes a completed run.
type Result struct {
	FilesProcessed     int
	RecordsSynthesized int
	OutputFiles        []string
}

// Run processes every matching input file in name order. The first failure
// aborts the run immediately: an exhausted retry budget in one file means
// no output of the run can be trusted.
func (d *Driver) Run() (*Result, error) {
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	files, err := d.discover()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files in %s match %q",
			d.Settings.InputFolder, d.Settings.FilenameFormatRegex)
	}

	result := &Result{}
	for _, name := range files {
		outPath, synths, err := d.processFile(name)
		if err != nil {
			return result, fmt.Errorf("processing %s: %w", name, err)
		}

		result.FilesProcessed++
		result.RecordsSynthesized += len(synths)
		if outPath != "" {
			result.OutputFiles = append(result.OutputFiles, outPath)
		}

		if d.Recorder != nil && !d.DryRun {
			if err := d.Recorder.AddSynthetics(synths); err != nil {
				return result, fmt.Errorf("recording audit trail for %s: %w", name, err)
			}
		}
	}

	return result, nil
}

// discover lists input files matching the filename pattern, sorted by name.
func (d *Driver) discover() ([]string, error) {
	entries, err := os.ReadDir(d.Settings.InputFolder)
	if err != nil {
		return nil, fmt.Errorf("reading input folder: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if d.Settings.Regex.MatchString(e.Name()) {
			files = append(files, e.Name())
		}
	}

	sort.Strings(files)
	return files, nil
}

// processFile reconciles one input file and writes its output, returning the
// output path and the visits that were fabricated along the way. In dry-run
// mode nothing is written and the returned path is empty.
func (d *Driver) processFile(name string) (string, []audit.SyntheticVisit, error) {
	window, err := d.monthWindow(name)
	if err != nil {
		return "", nil, err
	}

	policy := ledger.Policy{
		WindowStart:     window,
		WindowEnd:       window.AddDate(0, 1, -1),
		AllowedWeekdays: d.Settings.Weekdays,
		CanRepeatDays:   d.Settings.CanRepeatDays,
		MinTime:         d.Settings.MinTimeOfDay,
		MaxTime:         d.Settings.MaxTimeOfDay,
		MaxRetries:      d.Settings.MaxRetries,
	}
	if err := policy.Validate(); err != nil {
		return "", nil, fmt.Errorf("building policy: %w", err)
	}

	d.Logger.Info("processing file",
		"file", name,
		"window_start", visit.FormatDate(policy.WindowStart),
		"window_end", visit.FormatDate(policy.WindowEnd))

	in, err := os.Open(filepath.Join(d.Settings.InputFolder, name))
	if err != nil {
		return "", nil, fmt.Errorf("opening input: %w", err)
	}
	rows, readErr := csvio.ReadRows(in)
	if closeErr := in.Close(); closeErr != nil && readErr == nil {
		readErr = fmt.Errorf("closing input: %w", closeErr)
	}
	if readErr != nil {
		return "", nil, readErr
	}

	entries, err := ledger.Group(rows, d.Quotas.Resolve)
	if err != nil {
		return "", nil, err
	}

	// One budget for the whole file, shared across visitors.
	budget := ledger.NewBudget(policy.MaxRetries)
	var synths []audit.SyntheticVisit
	for _, e := range entries {
		before := len(e.Visits)
		if err := ledger.Reconcile(e, policy, budget, d.Rand, d.Logger); err != nil {
			return "", nil, err
		}
		for _, v := range e.Visits[before:] {
			synths = append(synths, audit.SyntheticVisit{
				RunID:       d.RunID,
				SourceFile:  name,
				Visitor:     e.Key(),
				CheckInDate: v.DateString(),
				CheckInTime: v.TimeString(),
			})
		}
	}

	out := ledger.Flatten(entries)

	if d.DryRun {
		d.Logger.Info("dry run, skipping output",
			"file", name, "rows", len(out), "synthesized", len(synths))
		return "", synths, nil
	}

	outPath, err := d.writeOutput(name, out)
	if err != nil {
		return "", nil, err
	}

	d.Logger.Info("wrote output",
		"file", outPath, "rows", len(out), "synthesized", len(synths))
	return outPath, synths, nil
}

// monthWindow derives the first day of the file's month from its name,
// using the configured regex and date format. A regex with a capture group
// dates the file from that group; otherwise the whole match is used.
func (d *Driver) monthWindow(name string) (time.Time, error) {
	m := d.Settings.Regex.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, fmt.Errorf("filename %q does not match %q", name, d.Settings.FilenameFormatRegex)
	}

	datePart := m[0]
	if len(m) > 1 {
		datePart = m[1]
	}

	t, err := time.Parse(d.Settings.DateFormat, datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q from filename: %w", datePart, err)
	}

	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// writeOutput writes rows to the output folder via a temp file, renaming
// into place only on success so a failed run leaves no partial output.
func (d *Driver) writeOutput(inputName string, rows []csvio.Row) (string, error) {
	if err := os.MkdirAll(d.Settings.OutputFolder, 0o755); err != nil {
		return "", fmt.Errorf("creating output folder: %w", err)
	}

	base := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	outPath := filepath.Join(d.Settings.OutputFolder, base+d.Settings.OutputFilenameSuffix+".csv")

	tmp, err := os.CreateTemp(d.Settings.OutputFolder, "."+base+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp output: %w", err)
	}

	writeErr := csvio.WriteRows(tmp, rows)
	if closeErr := tmp.Close(); closeErr != nil && writeErr == nil {
		writeErr = fmt.Errorf("closing temp output: %w", closeErr)
	}
	if writeErr != nil {
		if rmErr := os.Remove(tmp.Name()); rmErr != nil {
			return "", fmt.Errorf("%w (also failed to remove temp file: %v)", writeErr, rmErr)
		}
		return "", writeErr
	}

	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return "", fmt.Errorf("renaming output into place: %w", err)
	}
	return outPath, nil
}
