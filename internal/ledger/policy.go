package ledger

import (
	"errors"
	"fmt"
	"time"
)

// ErrRetriesExhausted is returned when the shared per-file retry budget for
// synthetic date generation runs out. It is fatal to the whole run: no
// partial output for the in-progress file is valid.
var ErrRetriesExhausted = errors.New("synthetic visit retry budget exhausted")

// Policy holds the constraints for synthetic visit generation within one
// input file. WindowStart and WindowEnd are both inclusive and cover the
// calendar month implied by the file's name.
type Policy struct {
	WindowStart     time.Time
	WindowEnd       time.Time
	AllowedWeekdays map[time.Weekday]bool
	CanRepeatDays   bool
	MinTime         time.Duration
	MaxTime         time.Duration
	MaxRetries      int
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	if p.WindowEnd.Before(p.WindowStart) {
		return fmt.Errorf("window end %s before start %s",
			p.WindowEnd.Format("2006-01-02"), p.WindowStart.Format("2006-01-02"))
	}
	if p.MaxTime < p.MinTime {
		return fmt.Errorf("max time %v before min time %v", p.MaxTime, p.MinTime)
	}
	if p.MaxRetries <= 0 {
		return fmt.Errorf("max retries must be positive, got %d", p.MaxRetries)
	}
	return nil
}

// windowDays returns the number of candidate days in the window, both
// endpoints included.
func (p Policy) windowDays() int {
	return int(p.WindowEnd.Sub(p.WindowStart).Hours()/24) + 1
}

// Budget is the shared rejection-sampling counter for one file run. Every
// rejected candidate date spends one attempt; exhausting the budget aborts
// the run. One visitor with an over-constrained policy can therefore not
// spin forever: the counter is a global circuit breaker, never reset until
// the next file begins.
type Budget struct {
	limit int
	used  int
}

// NewBudget creates a budget allowing limit rejected candidates.
func NewBudget(limit int) *Budget {
	return &Budget{limit: limit}
}

// Used reports how many attempts have been spent so far.
func (b *Budget) Used() int { return b.used }

// spend consumes one attempt, failing with ErrRetriesExhausted once the
// limit is reached.
func (b *Budget) spend() error {
	b.used++
	if b.used >= b.limit {
		return fmt.Errorf("%w after %d attempts", ErrRetriesExhausted, b.used)
	}
	return nil
}
