package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

// Assessment is one rating of a hazard. The risk level is never stored:
// Level recomputes it from Severity and Likelihood on every call.
type Assessment struct {
	Severity      types.Severity      `json:"severity"`
	Likelihood    types.Likelihood    `json:"likelihood"`
	Exposure      types.Exposure      `json:"exposure"`
	Detectability types.Detectability `json:"detectability"`
}

// DefaultAssessment returns the rating given to a freshly created risk: the worst case on every axis
func DefaultAssessment() Assessment {
	return Assessment{
		Severity:      types.SeverityCatastrophic,
		Likelihood:    types.LikelihoodFrequent,
		Exposure:      types.ExposureStrong,
		Detectability: types.DetectabilityUndetectable,
	}
}

// Level returns the classification of the assessment. It panics if the
// assessment has not been validated.
func (a Assessment) Level() types.RiskLevel {
	return types.Classify(a.Severity, a.Likelihood)
}

// Validate checks every axis of the assessment
func (a Assessment) Validate() error {
	if err := a.Severity.Validate(); err != nil {
		return err
	}
	if err := a.Likelihood.Validate(); err != nil {
		return err
	}
	if err := a.Exposure.Validate(); err != nil {
		return err
	}
	if err := a.Detectability.Validate(); err != nil {
		return err
	}
	return nil
}

// Rate replaces every axis at once
func (a *Assessment) Rate(s types.Severity, l types.Likelihood, e types.Exposure, d types.Detectability) error {
	next := Assessment{Severity: s, Likelihood: l, Exposure: e, Detectability: d}
	if err := next.Validate(); err != nil {
		return goerr.Wrap(err, "invalid assessment")
	}
	*a = next
	return nil
}

type assessmentJSON struct {
	Severity      types.Severity      `json:"severity"`
	Likelihood    types.Likelihood    `json:"likelihood"`
	Exposure      types.Exposure      `json:"exposure"`
	Detectability types.Detectability `json:"detectability"`
	ComputedLevel types.RiskLevel     `json:"computedLevel"`
}

// MarshalJSON writes the assessment together with its computed level.
// UnmarshalJSON uses the default decoding, so a stored computedLevel is
// ignored on the way back in.
func (a Assessment) MarshalJSON() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, goerr.Wrap(err, "cannot marshal invalid assessment")
	}
	return json.Marshal(assessmentJSON{
		Severity:      a.Severity,
		Likelihood:    a.Likelihood,
		Exposure:      a.Exposure,
		Detectability: a.Detectability,
		ComputedLevel: a.Level(),
	})
}
