package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RiskLevel is the derived classification of a severity x likelihood pair.
// It is never set directly; use Classify.
type RiskLevel int

const (
	RiskLevelUsual        RiskLevel = 1
	RiskLevelLow          RiskLevel = 2
	RiskLevelHigh         RiskLevel = 3
	RiskLevelUnacceptable RiskLevel = 4
)

// AllRiskLevels returns all levels in ascending order
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskLevelUsual,
		RiskLevelLow,
		RiskLevelHigh,
		RiskLevelUnacceptable,
	}
}

// riskMatrix is indexed by [severity-1][likelihood rank]. The table is
// intentionally asymmetric and must not be replaced by a formula.
var riskMatrix = [4][4]RiskLevel{
	// VeryImprobable, Rare, Occasional, Frequent
	{RiskLevelUsual, RiskLevelUsual, RiskLevelLow, RiskLevelLow},                // Negligible
	{RiskLevelUsual, RiskLevelLow, RiskLevelLow, RiskLevelHigh},                 // Moderate
	{RiskLevelLow, RiskLevelLow, RiskLevelHigh, RiskLevelUnacceptable},          // Critical
	{RiskLevelLow, RiskLevelHigh, RiskLevelUnacceptable, RiskLevelUnacceptable}, // Catastrophic
}

// Classify maps a severity and likelihood to a risk level. Both values must
// belong to their closed enumerations; anything else is a programming error
// and panics.
func Classify(s Severity, l Likelihood) RiskLevel {
	if !s.IsValid() {
		panic(goerr.Wrap(ErrInvalidSeverity, "cannot classify", goerr.V("severity", int(s))))
	}
	if !l.IsValid() {
		panic(goerr.Wrap(ErrInvalidLikelihood, "cannot classify", goerr.V("likelihood", string(l))))
	}
	return riskMatrix[s-1][l.Rank()]
}

// IsValid checks if the level is one of the four defined values
func (r RiskLevel) IsValid() bool {
	return r >= RiskLevelUsual && r <= RiskLevelUnacceptable
}

// String returns the machine name of the level
func (r RiskLevel) String() string {
	switch r {
	case RiskLevelUsual:
		return "usual"
	case RiskLevelLow:
		return "low"
	case RiskLevelHigh:
		return "high"
	case RiskLevelUnacceptable:
		return "unacceptable"
	default:
		return "unknown"
	}
}

// Label returns the display label
func (r RiskLevel) Label() string {
	switch r {
	case RiskLevelUsual:
		return "Usual"
	case RiskLevelLow:
		return "Low"
	case RiskLevelHigh:
		return "High"
	case RiskLevelUnacceptable:
		return "Unacceptable"
	default:
		return "Unknown"
	}
}

// Color returns the fill color used by renderers for this level
func (r RiskLevel) Color() string {
	switch r {
	case RiskLevelUsual:
		return "#22c55e"
	case RiskLevelLow:
		return "#fde047"
	case RiskLevelHigh:
		return "#f97316"
	case RiskLevelUnacceptable:
		return "#dc2626"
	default:
		return "#e5e7eb"
	}
}

// MarshalText encodes the level by name
func (r RiskLevel) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, goerr.Wrap(ErrInvalidRiskLevel, "cannot marshal", goerr.V("level", int(r)))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a level name
func (r *RiskLevel) UnmarshalText(data []byte) error {
	level, err := ParseRiskLevel(string(data))
	if err != nil {
		return err
	}
	*r = level
	return nil
}

// ParseRiskLevel parses a level name (case-insensitive)
func ParseRiskLevel(v string) (RiskLevel, error) {
	for _, r := range AllRiskLevels() {
		if strings.EqualFold(r.String(), strings.TrimSpace(v)) {
			return r, nil
		}
	}
	return 0, goerr.Wrap(ErrInvalidRiskLevel, "unknown risk level", goerr.V("value", v))
}
