package ledger

import (
	"testing"
	"time"

	"github.com/jfavela/checkin-normalizer/internal/csvio"
)

func fixedQuota(q Quota) QuotaFunc {
	return func(string) Quota { return q }
}

func TestGroupByVisitor(t *testing.T) {
	rows := []csvio.Row{
		{AccountNumber: "1", IDNumber: "a", FirstName: "Jane", LastName: "Doe", Program: "Fit", CheckInDate: "2024-03-05", CheckInTime: "10:00AM"},
		{AccountNumber: "2", IDNumber: "b", FirstName: "John", LastName: "Smith", Program: "Swim", CheckInDate: "2024-03-06", CheckInTime: "9:15am"},
		{AccountNumber: "1", IDNumber: "a", FirstName: "Jane", LastName: "Doe", Program: "Fit", CheckInDate: "2024-03-12", CheckInTime: "2:30pm"},
	}

	entries, err := Group(rows, fixedQuota(Quota{Min: 1, Max: 5}))
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// First-seen order.
	if entries[0].Key() != "Jane Doe" || entries[1].Key() != "John Smith" {
		t.Errorf("order = %q, %q", entries[0].Key(), entries[1].Key())
	}

	jane := entries[0]
	if len(jane.Visits) != 2 {
		t.Fatalf("Jane has %d visits, want 2", len(jane.Visits))
	}
	if jane.Visits[1].Time != 14*time.Hour+30*time.Minute {
		t.Errorf("second visit time = %v", jane.Visits[1].Time)
	}
	if jane.AccountNumber != "1" || jane.Program != "Fit" {
		t.Errorf("identity not carried: %+v", jane)
	}
}

func TestGroupResolvesQuotaOncePerVisitor(t *testing.T) {
	rows := []csvio.Row{
		{FirstName: "Jane", LastName: "Doe", CheckInDate: "2024-03-05", CheckInTime: "10:00am"},
		{FirstName: "Jane", LastName: "Doe", CheckInDate: "2024-03-06", CheckInTime: "11:00am"},
		{FirstName: "John", LastName: "Smith", CheckInDate: "2024-03-07", CheckInTime: "12:00pm"},
	}

	calls := make(map[string]int)
	resolve := func(name string) Quota {
		calls[name]++
		return Quota{Min: 1, Max: 2}
	}

	if _, err := Group(rows, resolve); err != nil {
		t.Fatalf("group: %v", err)
	}
	if calls["Jane Doe"] != 1 || calls["John Smith"] != 1 {
		t.Errorf("resolver calls = %v, want exactly one per visitor", calls)
	}
}

func TestGroupKeyIsCaseSensitive(t *testing.T) {
	rows := []csvio.Row{
		{FirstName: "Jane", LastName: "Doe", CheckInDate: "2024-03-05", CheckInTime: "10:00am"},
		{FirstName: "jane", LastName: "doe", CheckInDate: "2024-03-06", CheckInTime: "11:00am"},
	}

	entries, err := Group(rows, fixedQuota(Quota{Min: 1, Max: 2}))
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2 (keys are case-sensitive)", len(entries))
	}
}

func TestGroupBadDate(t *testing.T) {
	rows := []csvio.Row{
		{FirstName: "Jane", LastName: "Doe", CheckInDate: "03/05/2024", CheckInTime: "10:00am"},
	}
	if _, err := Group(rows, fixedQuota(Quota{Min: 1, Max: 2})); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestGroupBadTime(t *testing.T) {
	rows := []csvio.Row{
		{FirstName: "Jane", LastName: "Doe", CheckInDate: "2024-03-05", CheckInTime: "ten o'clock"},
	}
	if _, err := Group(rows, fixedQuota(Quota{Min: 1, Max: 2})); err == nil {
		t.Fatal("expected error for malformed time")
	}
}
