package ledger

import (
	"math/rand"
	"time"

	"github.com/jfavela/checkin-normalizer/internal/visit"
)

// Generate produces one synthetic visit by rejection sampling: draw a
// uniformly random day from the policy window, retry while the candidate
// violates the weekday allowlist or collides with an existing visit date,
// then attach a uniformly random time of day. Every rejection spends one
// attempt from the shared budget; when the budget runs out the whole file
// run fails with ErrRetriesExhausted.
func Generate(existing []visit.Record, p Policy, b *Budget, rng *rand.Rand) (visit.Record, error) {
	for {
		offset := rng.Intn(p.windowDays())
		date := p.WindowStart.AddDate(0, 0, offset)

		if len(p.AllowedWeekdays) > 0 && !p.AllowedWeekdays[date.Weekday()] {
			if err := b.spend(); err != nil {
				return visit.Record{}, err
			}
			continue
		}

		if !p.CanRepeatDays && dateTaken(existing, date) {
			if err := b.spend(); err != nil {
				return visit.Record{}, err
			}
			continue
		}

		return visit.Record{Date: date, Time: randomTimeOfDay(p, rng)}, nil
	}
}

// dateTaken reports whether any existing visit falls on the given date.
func dateTaken(existing []visit.Record, date time.Time) bool {
	for _, v := range existing {
		if v.Date.Equal(date) {
			return true
		}
	}
	return false
}

// randomTimeOfDay draws a uniform time of day in [MinTime, MaxTime],
// truncated to the minute to match the serialized granularity.
func randomTimeOfDay(p Policy, rng *rand.Rand) time.Duration {
	span := p.MaxTime - p.MinTime
	tod := p.MinTime
	if span > 0 {
		tod += time.Duration(rng.Int63n(int64(span) + 1))
	}
	return tod.Truncate(time.Minute)
}
