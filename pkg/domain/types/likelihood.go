package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Likelihood is the probability category of a hazard occurring. It is
// encoded by a letter but ordered VeryImprobable < Rare < Occasional < Frequent.
type Likelihood string

const (
	LikelihoodVeryImprobable Likelihood = "A"
	LikelihoodRare           Likelihood = "B"
	LikelihoodOccasional     Likelihood = "C"
	LikelihoodFrequent       Likelihood = "D"
)

// AllLikelihoods returns all likelihoods in display order, most frequent first
func AllLikelihoods() []Likelihood {
	return []Likelihood{
		LikelihoodFrequent,
		LikelihoodOccasional,
		LikelihoodRare,
		LikelihoodVeryImprobable,
	}
}

// Rank returns the ordinal position, 0 for VeryImprobable up to 3 for Frequent.
// Invalid values return -1.
func (l Likelihood) Rank() int {
	switch l {
	case LikelihoodVeryImprobable:
		return 0
	case LikelihoodRare:
		return 1
	case LikelihoodOccasional:
		return 2
	case LikelihoodFrequent:
		return 3
	default:
		return -1
	}
}

// Less reports whether l is strictly less likely than other
func (l Likelihood) Less(other Likelihood) bool {
	return l.Rank() < other.Rank()
}

// IsValid checks if the likelihood is one of the four defined letters
func (l Likelihood) IsValid() bool {
	return l.Rank() >= 0
}

// Validate returns ErrInvalidLikelihood when the value is not a defined letter
func (l Likelihood) Validate() error {
	if !l.IsValid() {
		return goerr.Wrap(ErrInvalidLikelihood, "likelihood out of range", goerr.V("likelihood", string(l)))
	}
	return nil
}

// Name returns the likelihood name without its code
func (l Likelihood) Name() string {
	switch l {
	case LikelihoodVeryImprobable:
		return "Very improbable"
	case LikelihoodRare:
		return "Rare"
	case LikelihoodOccasional:
		return "Occasional"
	case LikelihoodFrequent:
		return "Frequent"
	default:
		return "Unknown"
	}
}

// Label returns the display label, e.g. "Frequent (D)"
func (l Likelihood) Label() string {
	return l.Name() + " (" + string(l) + ")"
}

// String returns the letter code
func (l Likelihood) String() string {
	return string(l)
}

// ParseLikelihood accepts the letter code (case-insensitive) or the name
func ParseLikelihood(v string) (Likelihood, error) {
	v = strings.TrimSpace(v)
	if l := Likelihood(strings.ToUpper(v)); l.IsValid() {
		return l, nil
	}
	for _, l := range AllLikelihoods() {
		if strings.EqualFold(l.Name(), v) || strings.EqualFold(strings.ReplaceAll(l.Name(), " ", "-"), v) {
			return l, nil
		}
	}
	return "", goerr.Wrap(ErrInvalidLikelihood, "unknown likelihood", goerr.V("value", v))
}
