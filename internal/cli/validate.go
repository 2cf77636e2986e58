package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the settings file and print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
}

func runValidate() error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	fmt.Printf("Settings OK: %s\n", flagSettings)
	fmt.Printf("  Input folder:   %s\n", s.InputFolder)
	fmt.Printf("  Output folder:  %s\n", s.OutputFolder)
	fmt.Printf("  File pattern:   %s\n", s.FilenameFormatRegex)
	fmt.Printf("  Time window:    %s - %s\n", s.MinTime, s.MaxTime)
	fmt.Printf("  Valid days:     %s\n", weekdayList(s.Weekdays))
	fmt.Printf("  Repeat days:    %t\n", s.CanRepeatDays)
	fmt.Printf("  Retry budget:   %d\n", s.MaxRetries)
	fmt.Printf("  Default quota:  [%d, %d]\n", s.UnknownVisitorMin, s.UnknownVisitorMax)
	fmt.Printf("  Visitor quotas: %d configured\n", len(s.EntriesPerVisitor))
	if s.AuditDB != "" {
		fmt.Printf("  Audit database: %s\n", s.AuditDB)
	}
	return nil
}

// weekdayList renders the allowed weekdays in week order, or "any".
func weekdayList(days map[time.Weekday]bool) string {
	if len(days) == 0 {
		return "any"
	}

	var names []string
	for d := range days {
		names = append(names, d.String())
	}
	sort.Slice(names, func(i, j int) bool {
		order := func(n string) int {
			for d := time.Sunday; d <= time.Saturday; d++ {
				if d.String() == n {
					return int(d)
				}
			}
			return -1
		}
		return order(names[i]) < order(names[j])
	})
	return strings.Join(names, ", ")
}
