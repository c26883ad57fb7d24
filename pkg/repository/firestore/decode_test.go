package firestore_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/repository/firestore"
)

func TestDecodeRisk(t *testing.T) {
	valid := firestore.AssessmentDocument{Severity: 3, Likelihood: "B", Exposure: 2, Detectability: 1}

	tests := []struct {
		name    string
		doc     firestore.RiskDocument
		wantErr error
	}{
		{
			name: "valid",
			doc:  firestore.RiskDocument{ID: "r1", InitialRisk: valid, ResidualRisk: valid},
		},
		{
			name:    "likelihood outside the enumeration",
			doc:     firestore.RiskDocument{ID: "r1", InitialRisk: valid, ResidualRisk: firestore.AssessmentDocument{Severity: 1, Likelihood: "E", Exposure: 1, Detectability: 1}},
			wantErr: types.ErrInvalidLikelihood,
		},
		{
			name:    "severity outside the enumeration",
			doc:     firestore.RiskDocument{ID: "r1", InitialRisk: firestore.AssessmentDocument{Severity: 9, Likelihood: "A", Exposure: 1, Detectability: 1}, ResidualRisk: valid},
			wantErr: types.ErrInvalidSeverity,
		},
		{
			name:    "missing ID",
			doc:     firestore.RiskDocument{InitialRisk: valid, ResidualRisk: valid},
			wantErr: types.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, err := firestore.DecodeRisk(&tt.doc)
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				gt.Value(t, risk).Nil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, risk.ResidualRisk.Level()).Equal(types.Classify(types.SeverityCritical, types.LikelihoodRare))
		})
	}
}

func TestDecodeCatalogEntry(t *testing.T) {
	entry, err := firestore.DecodeCatalogEntry(&firestore.CatalogDocument{
		ID: "cat-9", Title: "Icing", DefaultSeverity: 2, DefaultLikelihood: "C",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, entry.DefaultLikelihood).Equal(types.LikelihoodOccasional)

	_, err = firestore.DecodeCatalogEntry(&firestore.CatalogDocument{
		ID: "cat-9", Title: "Icing", DefaultSeverity: 2, DefaultLikelihood: "Z",
	})
	gt.Error(t, err).Is(types.ErrInvalidLikelihood)
}
