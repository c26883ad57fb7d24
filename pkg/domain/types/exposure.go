package types

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Exposure is informational and does not take part in classification
type Exposure int

const (
	ExposureLow         Exposure = 1
	ExposureMedium      Exposure = 2
	ExposureSignificant Exposure = 3
	ExposureStrong      Exposure = 4
)

// AllExposures returns all exposures in display order, strongest first
func AllExposures() []Exposure {
	return []Exposure{ExposureStrong, ExposureSignificant, ExposureMedium, ExposureLow}
}

func (e Exposure) IsValid() bool {
	return e >= ExposureLow && e <= ExposureStrong
}

func (e Exposure) Validate() error {
	if !e.IsValid() {
		return goerr.Wrap(ErrInvalidExposure, "exposure out of range", goerr.V("exposure", int(e)))
	}
	return nil
}

func (e Exposure) Label() string {
	switch e {
	case ExposureLow:
		return "Low"
	case ExposureMedium:
		return "Medium"
	case ExposureSignificant:
		return "Significant"
	case ExposureStrong:
		return "Strong"
	default:
		return "Unknown"
	}
}

func (e Exposure) String() string {
	return strconv.Itoa(int(e))
}

// ParseExposure accepts the numeric code or the label
func ParseExposure(v string) (Exposure, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		e := Exposure(n)
		if err := e.Validate(); err != nil {
			return 0, err
		}
		return e, nil
	}
	for _, e := range AllExposures() {
		if strings.EqualFold(e.Label(), v) {
			return e, nil
		}
	}
	return 0, goerr.Wrap(ErrInvalidExposure, "unknown exposure", goerr.V("value", v))
}
