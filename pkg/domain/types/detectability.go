package types

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Detectability is informational and does not take part in classification
type Detectability int

const (
	DetectabilityTotal        Detectability = 1
	DetectabilityExploitable  Detectability = 2
	DetectabilityPoor         Detectability = 3
	DetectabilityUndetectable Detectability = 4
)

// AllDetectabilities returns all detectabilities in display order, worst first
func AllDetectabilities() []Detectability {
	return []Detectability{
		DetectabilityUndetectable,
		DetectabilityPoor,
		DetectabilityExploitable,
		DetectabilityTotal,
	}
}

func (d Detectability) IsValid() bool {
	return d >= DetectabilityTotal && d <= DetectabilityUndetectable
}

func (d Detectability) Validate() error {
	if !d.IsValid() {
		return goerr.Wrap(ErrInvalidDetectability, "detectability out of range", goerr.V("detectability", int(d)))
	}
	return nil
}

func (d Detectability) Label() string {
	switch d {
	case DetectabilityTotal:
		return "Total"
	case DetectabilityExploitable:
		return "Exploitable"
	case DetectabilityPoor:
		return "Poor"
	case DetectabilityUndetectable:
		return "Undetectable"
	default:
		return "Unknown"
	}
}

func (d Detectability) String() string {
	return strconv.Itoa(int(d))
}

// ParseDetectability accepts the numeric code or the label
func ParseDetectability(v string) (Detectability, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		d := Detectability(n)
		if err := d.Validate(); err != nil {
			return 0, err
		}
		return d, nil
	}
	for _, d := range AllDetectabilities() {
		if strings.EqualFold(d.Label(), v) {
			return d, nil
		}
	}
	return 0, goerr.Wrap(ErrInvalidDetectability, "unknown detectability", goerr.V("value", v))
}
