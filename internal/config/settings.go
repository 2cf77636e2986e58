// Package config loads and validates the ckn settings file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jfavela/checkin-normalizer/internal/ledger"
	"github.com/jfavela/checkin-normalizer/internal/visit"
)

// DefaultMaxRetries bounds rejection sampling per file when the settings
// file does not say otherwise.
const DefaultMaxRetries = 1000

// QuotaSpec is a per-visitor [min, max] visit quota in the settings file.
type QuotaSpec struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Settings is the operator's settings file. Load populates the derived
// fields (compiled regex, parsed times and weekdays) after validation.
type Settings struct {
	InputFolder          string               `yaml:"input_folder"`
	OutputFolder         string               `yaml:"output_folder"`
	OutputFilenameSuffix string               `yaml:"output_filename_suffix"`
	FilenameFormatRegex  string               `yaml:"filename_format_regex"`
	DateFormat           string               `yaml:"date_format"`
	MinTime              string               `yaml:"min_time"`
	MaxTime              string               `yaml:"max_time"`
	ValidDays            []string             `yaml:"valid_days"`
	CanRepeatDays        bool                 `yaml:"can_repeat_days"`
	MaxRetries           int                  `yaml:"max_retries"`
	EntriesPerVisitor    map[string]QuotaSpec `yaml:"entries_per_visitor"`
	UnknownVisitorMin    int                  `yaml:"unknown_visitor_min_entries"`
	UnknownVisitorMax    int                  `yaml:"unknown_visitor_max_entries"`
	AskForMissingEntries bool                 `yaml:"ask_for_missing_entries"`
	AuditDB              string               `yaml:"audit_db"`

	// Derived by Load; not part of the YAML schema.
	Regex        *regexp.Regexp        `yaml:"-"`
	MinTimeOfDay time.Duration         `yaml:"-"`
	MaxTimeOfDay time.Duration         `yaml:"-"`
	Weekdays     map[time.Weekday]bool `yaml:"-"`
}

// Load reads and validates a settings file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	if s.MaxRetries == 0 {
		s.MaxRetries = DefaultMaxRetries
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &s, nil
}

// validate checks the schema and fills in the derived fields.
func (s *Settings) validate() error {
	if s.InputFolder == "" {
		return fmt.Errorf("input_folder is required")
	}
	if s.OutputFolder == "" {
		return fmt.Errorf("output_folder is required")
	}
	if s.FilenameFormatRegex == "" {
		return fmt.Errorf("filename_format_regex is required")
	}
	if s.DateFormat == "" {
		return fmt.Errorf("date_format is required")
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", s.MaxRetries)
	}

	re, err := regexp.Compile(s.FilenameFormatRegex)
	if err != nil {
		return fmt.Errorf("compiling filename_format_regex: %w", err)
	}
	s.Regex = re

	if s.MinTime == "" || s.MaxTime == "" {
		return fmt.Errorf("min_time and max_time are required")
	}
	minT, err := visit.ParseTime(s.MinTime)
	if err != nil {
		return fmt.Errorf("min_time: %w", err)
	}
	maxT, err := visit.ParseTime(s.MaxTime)
	if err != nil {
		return fmt.Errorf("max_time: %w", err)
	}
	if maxT < minT {
		return fmt.Errorf("max_time %s is before min_time %s", s.MaxTime, s.MinTime)
	}
	s.MinTimeOfDay = minT
	s.MaxTimeOfDay = maxT

	if len(s.ValidDays) > 0 {
		s.Weekdays = make(map[time.Weekday]bool, len(s.ValidDays))
		for _, name := range s.ValidDays {
			wd, err := parseWeekday(name)
			if err != nil {
				return err
			}
			s.Weekdays[wd] = true
		}
	}

	if err := (ledger.Quota{Min: s.UnknownVisitorMin, Max: s.UnknownVisitorMax}).Validate(); err != nil {
		return fmt.Errorf("unknown visitor quota: %w", err)
	}
	for name, q := range s.EntriesPerVisitor {
		if err := (ledger.Quota{Min: q.Min, Max: q.Max}).Validate(); err != nil {
			return fmt.Errorf("entries_per_visitor[%q]: %w", name, err)
		}
	}

	return nil
}

// QuotaFor returns the explicit quota configured for a visitor, if any.
func (s *Settings) QuotaFor(name string) (ledger.Quota, bool) {
	q, ok := s.EntriesPerVisitor[name]
	if !ok {
		return ledger.Quota{}, false
	}
	return ledger.Quota{Min: q.Min, Max: q.Max}, true
}

// DefaultQuota returns the quota applied to visitors with no explicit entry.
func (s *Settings) DefaultQuota() ledger.Quota {
	return ledger.Quota{Min: s.UnknownVisitorMin, Max: s.UnknownVisitorMax}
}

// weekdayNames maps lowercase weekday names to time.Weekday.
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseWeekday parses a weekday name, case-insensitively.
func parseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q in valid_days", name)
	}
	return wd, nil
}
