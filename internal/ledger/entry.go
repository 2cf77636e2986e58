// Package ledger holds the per-file visitor ledger and the visit-quota
// reconciliation algorithm: grouping check-in rows by visitor, deciding
// whether a visitor needs synthetic visits, generating them under the
// configured constraints, and flattening the result back to output rows.
package ledger

import (
	"fmt"

	"github.com/jfavela/checkin-normalizer/internal/csvio"
	"github.com/jfavela/checkin-normalizer/internal/visit"
)

// Quota is the inclusive [Min, Max] range of visits a visitor should have
// after reconciliation.
type Quota struct {
	Min int
	Max int
}

// Validate checks that the quota range is well-formed.
func (q Quota) Validate() error {
	if q.Min < 0 {
		return fmt.Errorf("min entries must not be negative, got %d", q.Min)
	}
	if q.Max < q.Min {
		return fmt.Errorf("max entries (%d) must be >= min entries (%d)", q.Max, q.Min)
	}
	return nil
}

// Entry is one visitor's ledger for a single input file: identity fields,
// the resolved quota, and the collected visits in insertion order. Entries
// never outlive the file they were built from.
type Entry struct {
	AccountNumber string
	IDNumber      string
	FirstName     string
	LastName      string
	Program       string
	Quota         Quota
	Visits        []visit.Record
}

// Key returns the grouping key for this visitor: first and last name joined
// with a space, case-sensitive.
func (e *Entry) Key() string {
	return e.FirstName + " " + e.LastName
}

// QuotaFunc resolves a visitor name to its quota. It is called once per
// visitor, at first encounter in the file.
type QuotaFunc func(name string) Quota

// Group builds ledger entries from parsed CSV rows in a single pass. Rows
// are grouped by visitor key; the quota is resolved once when a key is
// first seen. Entries come back in first-seen order.
func Group(rows []csvio.Row, resolve QuotaFunc) ([]*Entry, error) {
	byKey := make(map[string]*Entry)
	var entries []*Entry

	for i, row := range rows {
		key := row.FirstName + " " + row.LastName

		e, ok := byKey[key]
		if !ok {
			e = &Entry{
				AccountNumber: row.AccountNumber,
				IDNumber:      row.IDNumber,
				FirstName:     row.FirstName,
				LastName:      row.LastName,
				Program:       row.Program,
				Quota:         resolve(key),
			}
			byKey[key] = e
			entries = append(entries, e)
		}

		date, err := visit.ParseDate(row.CheckInDate)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+2, key, err)
		}
		tod, err := visit.ParseTime(row.CheckInTime)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+2, key, err)
		}

		e.Visits = append(e.Visits, visit.Record{Date: date, Time: tod})
	}

	return entries, nil
}
