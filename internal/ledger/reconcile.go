package ledger

import (
	"log/slog"
	"math/rand"
)

// Reconcile brings one visitor's visit count into its quota. A visitor
// below the minimum gets synthetic visits appended until a target drawn
// uniformly from [Min, Max] is reached; a visitor above the maximum is
// logged and left untouched; a visitor within range passes through.
//
// Reconcile itself never fails: the only error is ErrRetriesExhausted
// surfacing from the generator, which aborts the run.
func Reconcile(e *Entry, p Policy, b *Budget, rng *rand.Rand, logger *slog.Logger) error {
	count := len(e.Visits)

	switch {
	case count < e.Quota.Min:
		target := e.Quota.Min + rng.Intn(e.Quota.Max-e.Quota.Min+1)
		toAdd := target - count

		logger.Warn("visitor below minimum, synthesizing visits",
			"visitor", e.Key(),
			"have", count,
			"min", e.Quota.Min,
			"max", e.Quota.Max,
			"adding", toAdd)

		for i := 0; i < toAdd; i++ {
			rec, err := Generate(e.Visits, p, b, rng)
			if err != nil {
				return err
			}
			e.Visits = append(e.Visits, rec)
		}

	case count > e.Quota.Max:
		logger.Info("visitor above maximum, leaving visits as-is",
			"visitor", e.Key(),
			"have", count,
			"max", e.Quota.Max)
	}

	return nil
}
