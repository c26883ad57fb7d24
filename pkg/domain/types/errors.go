package types

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for closed enumerations
var (
	ErrInvalidSeverity      = goerr.New("invalid severity")
	ErrInvalidLikelihood    = goerr.New("invalid likelihood")
	ErrInvalidExposure      = goerr.New("invalid exposure")
	ErrInvalidDetectability = goerr.New("invalid detectability")
	ErrInvalidRiskLevel     = goerr.New("invalid risk level")
	ErrInvalidPhase         = goerr.New("invalid assessment phase")
	ErrInvalidID            = goerr.New("invalid ID")
)

// IsValidationError reports whether err was caused by an out-of-range value
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidSeverity,
		ErrInvalidLikelihood,
		ErrInvalidExposure,
		ErrInvalidDetectability,
		ErrInvalidRiskLevel,
		ErrInvalidPhase,
		ErrInvalidID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
