package visit

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.March || d.Day() != 5 {
		t.Errorf("got %v, want 2024-03-05", d)
	}

	if _, err := ParseDate("03/05/2024"); err == nil {
		t.Error("expected error for slash-separated date")
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"9:00am", 9 * time.Hour},
		{"10:00AM", 10 * time.Hour},
		{"3:05pm", 15*time.Hour + 5*time.Minute},
		{"03:05PM", 15*time.Hour + 5*time.Minute},
		{"12:00am", 0},
		{"12:30pm", 12*time.Hour + 30*time.Minute},
		{"17:45", 17*time.Hour + 45*time.Minute},
	}

	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		if err != nil {
			t.Errorf("ParseTime(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTime("quarter past nine"); err == nil {
		t.Error("expected error for unparseable time")
	}
}

func TestFormatTimeLowercase(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{9 * time.Hour, "9:00am"},
		{15*time.Hour + 5*time.Minute, "3:05pm"},
		{0, "12:00am"},
		{12 * time.Hour, "12:00pm"},
	}

	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLess(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC) }

	a := Record{Date: day(5), Time: 10 * time.Hour}
	b := Record{Date: day(5), Time: 9 * time.Hour}
	c := Record{Date: day(4), Time: 16 * time.Hour}

	if a.Less(b) {
		t.Error("10:00am should not sort before 9:00am on the same day")
	}
	if !b.Less(a) {
		t.Error("9:00am should sort before 10:00am on the same day")
	}
	if !c.Less(b) {
		t.Error("earlier date should sort first regardless of time")
	}
	if a.Less(a) {
		t.Error("a record should not sort before itself")
	}
}
