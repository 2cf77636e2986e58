package ledger

import (
	"sort"

	"github.com/jfavela/checkin-normalizer/internal/csvio"
)

// Flatten sorts each entry's visits chronologically (date first, time of
// day as tie-break) and expands the entries into output rows. Every row
// for a visitor carries the same Total Visits value: the visitor's final
// count after reconciliation. Entries are emitted in the order given,
// which Group makes first-seen order.
func Flatten(entries []*Entry) []csvio.Row {
	var rows []csvio.Row

	for _, e := range entries {
		sort.Slice(e.Visits, func(i, j int) bool {
			return e.Visits[i].Less(e.Visits[j])
		})

		total := len(e.Visits)
		for _, v := range e.Visits {
			rows = append(rows, csvio.Row{
				AccountNumber: e.AccountNumber,
				IDNumber:      e.IDNumber,
				FirstName:     e.FirstName,
				LastName:      e.LastName,
				Program:       e.Program,
				CheckInDate:   v.DateString(),
				CheckInTime:   v.TimeString(),
				TotalVisits:   total,
			})
		}
	}

	return rows
}
