// Package csvio reads and writes check-in CSV files. Input columns are
// matched by header name, not position, and unknown columns are ignored.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Input column names. Output files carry the same columns plus Total Visits.
const (
	ColAccountNumber = "Account Number"
	ColIDNumber      = "ID Number"
	ColFirstName     = "First Name"
	ColLastName      = "Last Name"
	ColProgram       = "Program"
	ColCheckInDate   = "Check-In Date"
	ColCheckInTime   = "Check-In Time"
	ColTotalVisits   = "Total Visits"
)

var requiredColumns = []string{
	ColAccountNumber, ColIDNumber, ColFirstName, ColLastName,
	ColProgram, ColCheckInDate, ColCheckInTime,
}

// Row is one check-in row. Date and time are carried as their serialized
// strings; parsing is the caller's concern. TotalVisits is zero on input
// rows unless the file carries a Total Visits column.
type Row struct {
	AccountNumber string
	IDNumber      string
	FirstName     string
	LastName      string
	Program       string
	CheckInDate   string
	CheckInTime   string
	TotalVisits   int
}

// ReadRows parses check-in rows from r. The first record must be a header
// naming at least the seven required columns; extra columns are ignored.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	field := func(record []string, name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}
	_, hasTotal := index[ColTotalVisits]

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+2, err)
		}
		row := Row{
			AccountNumber: field(record, ColAccountNumber),
			IDNumber:      field(record, ColIDNumber),
			FirstName:     field(record, ColFirstName),
			LastName:      field(record, ColLastName),
			Program:       field(record, ColProgram),
			CheckInDate:   field(record, ColCheckInDate),
			CheckInTime:   field(record, ColCheckInTime),
		}
		if hasTotal {
			total, err := strconv.Atoi(field(record, ColTotalVisits))
			if err != nil {
				return nil, fmt.Errorf("row %d: bad %s value: %w", len(rows)+2, ColTotalVisits, err)
			}
			row.TotalVisits = total
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// WriteRows writes a header row followed by one record per row, including
// the Total Visits column.
func WriteRows(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, requiredColumns...), ColTotalVisits)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.AccountNumber, row.IDNumber, row.FirstName, row.LastName,
			row.Program, row.CheckInDate, row.CheckInTime,
			strconv.Itoa(row.TotalVisits),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row for %s %s: %w", row.FirstName, row.LastName, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
