package types

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Severity is the consequence magnitude of a hazard if realized. Higher is worse.
type Severity int

const (
	SeverityNegligible   Severity = 1
	SeverityModerate     Severity = 2
	SeverityCritical     Severity = 3
	SeverityCatastrophic Severity = 4
)

// AllSeverities returns all severities in display order, worst first
func AllSeverities() []Severity {
	return []Severity{
		SeverityCatastrophic,
		SeverityCritical,
		SeverityModerate,
		SeverityNegligible,
	}
}

// IsValid checks if the severity is one of the four defined values
func (s Severity) IsValid() bool {
	return s >= SeverityNegligible && s <= SeverityCatastrophic
}

// Validate returns ErrInvalidSeverity when the value is out of range
func (s Severity) Validate() error {
	if !s.IsValid() {
		return goerr.Wrap(ErrInvalidSeverity, "severity out of range", goerr.V("severity", int(s)))
	}
	return nil
}

// Label returns the display label, e.g. "Catastrophic (4)"
func (s Severity) Label() string {
	return s.Name() + " (" + strconv.Itoa(int(s)) + ")"
}

// Name returns the severity name without its code
func (s Severity) Name() string {
	switch s {
	case SeverityNegligible:
		return "Negligible"
	case SeverityModerate:
		return "Moderate"
	case SeverityCritical:
		return "Critical"
	case SeverityCatastrophic:
		return "Catastrophic"
	default:
		return "Unknown"
	}
}

// String returns the numeric code of the severity
func (s Severity) String() string {
	return strconv.Itoa(int(s))
}

// ParseSeverity accepts either the numeric code ("1".."4") or the name (case-insensitive)
func ParseSeverity(v string) (Severity, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		s := Severity(n)
		if err := s.Validate(); err != nil {
			return 0, err
		}
		return s, nil
	}
	for _, s := range AllSeverities() {
		if strings.EqualFold(s.Name(), v) {
			return s, nil
		}
	}
	return 0, goerr.Wrap(ErrInvalidSeverity, "unknown severity", goerr.V("value", v))
}
