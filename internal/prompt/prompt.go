// Package prompt resolves per-visitor visit quotas. The reconciliation core
// never performs I/O: it receives quotas already resolved by one of the
// sources here, either straight from the settings file or by asking the
// operator once per unknown visitor.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jfavela/checkin-normalizer/internal/ledger"
)

// Source resolves a visitor name to its visit quota. Resolve is called once
// per visitor per file, at first encounter.
type Source interface {
	Resolve(name string) ledger.Quota
}

// Lookup finds an explicitly configured quota for a visitor.
type Lookup func(name string) (ledger.Quota, bool)

// Static resolves quotas from explicit configuration, falling back to the
// defaults for unknown visitors.
type Static struct {
	lookup   Lookup
	fallback ledger.Quota
}

// NewStatic creates a non-interactive quota source.
func NewStatic(lookup Lookup, fallback ledger.Quota) *Static {
	return &Static{lookup: lookup, fallback: fallback}
}

// Resolve returns the configured quota for name, or the defaults.
func (s *Static) Resolve(name string) ledger.Quota {
	if q, ok := s.lookup(name); ok {
		return q
	}
	return s.fallback
}

// Interactive resolves quotas from explicit configuration and asks the
// operator for unknown visitors. Empty or invalid answers fall back to the
// defaults.
type Interactive struct {
	lookup   Lookup
	fallback ledger.Quota
	in       *bufio.Reader
	out      io.Writer
}

// NewInteractive creates a quota source that prompts on the given streams.
func NewInteractive(lookup Lookup, fallback ledger.Quota, in io.Reader, out io.Writer) *Interactive {
	return &Interactive{
		lookup:   lookup,
		fallback: fallback,
		in:       bufio.NewReader(in),
		out:      out,
	}
}

// Resolve returns the configured quota for name, or prompts for one.
func (p *Interactive) Resolve(name string) ledger.Quota {
	if q, ok := p.lookup(name); ok {
		return q
	}

	fmt.Fprintf(p.out, "No configured visit quota for %s.\n", name)
	min, okMin := p.askInt(fmt.Sprintf("  Minimum visits [%d]: ", p.fallback.Min))
	max, okMax := p.askInt(fmt.Sprintf("  Maximum visits [%d]: ", p.fallback.Max))

	if !okMin || !okMax {
		fmt.Fprintf(p.out, "  Using defaults [%d, %d].\n", p.fallback.Min, p.fallback.Max)
		return p.fallback
	}

	q := ledger.Quota{Min: min, Max: max}
	if err := q.Validate(); err != nil {
		fmt.Fprintf(p.out, "  %v; using defaults [%d, %d].\n", err, p.fallback.Min, p.fallback.Max)
		return p.fallback
	}
	return q
}

// askInt prompts for one integer. Empty input, EOF, or a non-number all
// report not-ok.
func (p *Interactive) askInt(question string) (int, bool) {
	fmt.Fprint(p.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return 0, false
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return 0, false
	}

	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, false
	}
	return n, true
}
