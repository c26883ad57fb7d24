package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

// RiskEntry is a hazard recorded for a flight-test study. It owns exactly
// two assessments: before and after mitigation. The residual assessment is
// allowed to be worse than the initial one.
type RiskEntry struct {
	ID                 types.RiskID `json:"id"`
	StudyNumber        string       `json:"studyNumber"`
	Experimentation    string       `json:"experimentation"`
	ActivityTitle      string       `json:"activityTitle"`
	Aircraft           string       `json:"aircraft"`
	DreadedEvent       string       `json:"dreadedEvent"`
	MitigationMeasures string       `json:"mitigationMeasures"`
	Synthesis          string       `json:"synthesis"`
	InitialRisk        Assessment   `json:"initialRisk"`
	ResidualRisk       Assessment   `json:"residualRisk"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// NewRiskEntry creates an entry with a fresh ID and default assessments
func NewRiskEntry(now time.Time) *RiskEntry {
	return &RiskEntry{
		ID:           types.NewRiskID(),
		InitialRisk:  DefaultAssessment(),
		ResidualRisk: DefaultAssessment(),
		UpdatedAt:    now,
	}
}

// Validate checks the ID and both assessments
func (r *RiskEntry) Validate() error {
	if err := r.ID.Validate(); err != nil {
		return err
	}
	if err := r.InitialRisk.Validate(); err != nil {
		return goerr.Wrap(err, "invalid initial assessment", goerr.V("id", r.ID))
	}
	if err := r.ResidualRisk.Validate(); err != nil {
		return goerr.Wrap(err, "invalid residual assessment", goerr.V("id", r.ID))
	}
	return nil
}

// Assessment returns a pointer to the assessment of the given phase
func (r *RiskEntry) Assessment(phase types.Phase) (*Assessment, error) {
	switch phase {
	case types.PhaseInitial:
		return &r.InitialRisk, nil
	case types.PhaseResidual:
		return &r.ResidualRisk, nil
	default:
		return nil, goerr.Wrap(types.ErrInvalidPhase, "unknown phase", goerr.V("phase", phase))
	}
}

// Trend compares the residual level against the initial one
func (r *RiskEntry) Trend() types.Trend {
	return types.CompareLevels(r.InitialRisk.Level(), r.ResidualRisk.Level())
}

// Title returns the activity title, falling back to the ID for untitled entries
func (r *RiskEntry) Title() string {
	if r.ActivityTitle != "" {
		return r.ActivityTitle
	}
	return r.ID.String()
}

// Copy returns a deep copy of the entry
func (r *RiskEntry) Copy() *RiskEntry {
	copied := *r
	return &copied
}
