package types

import "github.com/m-mizutani/goerr/v2"

// Phase selects which assessment of a risk entry is addressed
type Phase string

const (
	PhaseInitial  Phase = "initial"
	PhaseResidual Phase = "residual"
)

// AllPhases returns all valid phases
func AllPhases() []Phase {
	return []Phase{PhaseInitial, PhaseResidual}
}

// IsValid checks if the phase is valid
func (p Phase) IsValid() bool {
	switch p {
	case PhaseInitial, PhaseResidual:
		return true
	default:
		return false
	}
}

func (p Phase) String() string {
	return string(p)
}

// ParsePhase parses a string into a Phase
func ParsePhase(s string) (Phase, error) {
	phase := Phase(s)
	if !phase.IsValid() {
		return "", goerr.Wrap(ErrInvalidPhase, "unknown phase", goerr.V("phase", s))
	}
	return phase, nil
}
