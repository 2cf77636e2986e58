package ledger

import (
	"testing"
	"time"

	"github.com/jfavela/checkin-normalizer/internal/visit"
)

func TestFlattenSortsChronologically(t *testing.T) {
	// 9:00am must sort before 10:00am even though "10:..." < "9:..."
	// as strings.
	e := &Entry{
		AccountNumber: "1001", IDNumber: "A-1",
		FirstName: "Jane", LastName: "Doe", Program: "Fitness",
		Visits: []visit.Record{
			{Date: day(5), Time: 10 * time.Hour},
			{Date: day(5), Time: 9 * time.Hour},
			{Date: day(2), Time: 16 * time.Hour},
		},
	}

	rows := Flatten([]*Entry{e})
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	wantDates := []string{"2024-03-02", "2024-03-05", "2024-03-05"}
	wantTimes := []string{"4:00pm", "9:00am", "10:00am"}
	for i, row := range rows {
		if row.CheckInDate != wantDates[i] || row.CheckInTime != wantTimes[i] {
			t.Errorf("row %d = %s %s, want %s %s",
				i, row.CheckInDate, row.CheckInTime, wantDates[i], wantTimes[i])
		}
	}
}

func TestFlattenTotalVisitsConstant(t *testing.T) {
	e := &Entry{
		FirstName: "Jane", LastName: "Doe",
		Visits: []visit.Record{
			{Date: day(1), Time: 9 * time.Hour},
			{Date: day(2), Time: 9 * time.Hour},
			{Date: day(3), Time: 9 * time.Hour},
		},
	}

	rows := Flatten([]*Entry{e})
	for i, row := range rows {
		if row.TotalVisits != 3 {
			t.Errorf("row %d TotalVisits = %d, want 3", i, row.TotalVisits)
		}
	}
}

func TestFlattenPreservesEntryOrder(t *testing.T) {
	a := &Entry{FirstName: "Zed", LastName: "Last",
		Visits: []visit.Record{{Date: day(1), Time: 9 * time.Hour}}}
	b := &Entry{FirstName: "Amy", LastName: "First",
		Visits: []visit.Record{{Date: day(1), Time: 9 * time.Hour}}}

	rows := Flatten([]*Entry{a, b})
	if rows[0].FirstName != "Zed" || rows[1].FirstName != "Amy" {
		t.Errorf("entry order not preserved: %s then %s", rows[0].FirstName, rows[1].FirstName)
	}
}

func TestFlattenIdentityVerbatim(t *testing.T) {
	e := &Entry{
		AccountNumber: " 007 ", IDNumber: "x-Y", FirstName: "Ana", LastName: "de la Cruz",
		Program: "Weights & Cardio",
		Visits:  []visit.Record{{Date: day(9), Time: 12*time.Hour + 5*time.Minute}},
	}

	rows := Flatten([]*Entry{e})
	r := rows[0]
	if r.AccountNumber != " 007 " || r.Program != "Weights & Cardio" || r.LastName != "de la Cruz" {
		t.Errorf("identity fields altered: %+v", r)
	}
	if r.CheckInTime != "12:05pm" {
		t.Errorf("time = %q, want 12:05pm", r.CheckInTime)
	}
}
