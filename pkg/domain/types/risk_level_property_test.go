package types_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

var likelihoodByRank = []types.Likelihood{
	types.LikelihoodVeryImprobable,
	types.LikelihoodRare,
	types.LikelihoodOccasional,
	types.LikelihoodFrequent,
}

func TestClassifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("classification is total and deterministic", prop.ForAll(
		func(sev, rank int) bool {
			s := types.Severity(sev)
			l := likelihoodByRank[rank]
			first := types.Classify(s, l)
			return first.IsValid() && first == types.Classify(s, l)
		},
		gen.IntRange(1, 4),
		gen.IntRange(0, 3),
	))

	properties.Property("higher severity never lowers the level", prop.ForAll(
		func(sev, rank int) bool {
			l := likelihoodByRank[rank]
			return types.Classify(types.Severity(sev+1), l) >= types.Classify(types.Severity(sev), l)
		},
		gen.IntRange(1, 3),
		gen.IntRange(0, 3),
	))

	properties.Property("higher likelihood never lowers the level", prop.ForAll(
		func(sev, rank int) bool {
			s := types.Severity(sev)
			return types.Classify(s, likelihoodByRank[rank+1]) >= types.Classify(s, likelihoodByRank[rank])
		},
		gen.IntRange(1, 4),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
