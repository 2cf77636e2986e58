package audit

import (
	"errors"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := testStore(t)

	id, err := store.BeginRun("settings.yaml")
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty run ID")
	}

	if err := store.FinishRun(id, 2, 7, nil); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	r := runs[0]
	if r.ID != id || r.SettingsPath != "settings.yaml" {
		t.Errorf("run = %+v", r)
	}
	if r.FilesProcessed != 2 || r.RecordsSynthesized != 7 {
		t.Errorf("totals = %d files, %d synthesized", r.FilesProcessed, r.RecordsSynthesized)
	}
	if r.Status != "ok" || r.Error != "" {
		t.Errorf("status = %q, error = %q", r.Status, r.Error)
	}
	if !r.FinishedAt.Valid {
		t.Error("finished_at not set")
	}
}

func TestFinishRunFailure(t *testing.T) {
	store := testStore(t)

	id, err := store.BeginRun("settings.yaml")
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if err := store.FinishRun(id, 1, 0, errors.New("budget exhausted")); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	runs, err := store.RecentRuns(1)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if runs[0].Status != "failed" || runs[0].Error != "budget exhausted" {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestFinishRunUnknownID(t *testing.T) {
	store := testStore(t)
	if err := store.FinishRun("no-such-run", 0, 0, nil); err == nil {
		t.Fatal("expected error for unknown run ID")
	}
}

func TestSyntheticVisits(t *testing.T) {
	store := testStore(t)

	id, err := store.BeginRun("settings.yaml")
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}

	visits := []SyntheticVisit{
		{RunID: id, SourceFile: "checkins-2024-03.csv", Visitor: "Jane Doe", CheckInDate: "2024-03-11", CheckInTime: "2:40pm"},
		{RunID: id, SourceFile: "checkins-2024-03.csv", Visitor: "Jane Doe", CheckInDate: "2024-03-19", CheckInTime: "9:05am"},
	}
	if err := store.AddSynthetics(visits); err != nil {
		t.Fatalf("add synthetics: %v", err)
	}

	got, err := store.SyntheticsForRun(id)
	if err != nil {
		t.Fatalf("synthetics for run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d visits, want 2", len(got))
	}
	if got[0].CheckInDate != "2024-03-11" || got[1].CheckInTime != "9:05am" {
		t.Errorf("visits = %+v", got)
	}

	other, err := store.SyntheticsForRun("other-run")
	if err != nil {
		t.Fatalf("synthetics for other run: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("got %d visits for an unknown run, want 0", len(other))
	}
}

func TestAddSyntheticsEmpty(t *testing.T) {
	store := testStore(t)
	if err := store.AddSynthetics(nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
}
