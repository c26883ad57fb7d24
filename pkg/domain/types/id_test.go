package types_test

import (
	"errors"
	"testing"

	"github.com/secmon-lab/grxp/pkg/domain/types"
)

func TestCatalogEntryID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.CatalogEntryID
		wantErr bool
	}{
		{"valid default id", "cat-1", false},
		{"valid single word", "hoist", false},
		{"valid with numbers", "ship-2-deck", false},
		{"empty", "", true},
		{"uppercase", "Cat-1", true},
		{"spaces", "cat 1", true},
		{"underscore", "cat_1", true},
		{"starting with hyphen", "-cat", true},
		{"ending with hyphen", "cat-", true},
		{"double hyphen", "cat--1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("CatalogEntryID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, types.ErrInvalidID) {
				t.Errorf("expected ErrInvalidID, got %v", err)
			}
		})
	}
}

func TestRiskID(t *testing.T) {
	a := types.NewRiskID()
	b := types.NewRiskID()
	if a == b {
		t.Errorf("expected distinct IDs, got %s twice", a)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("expected generated ID to be valid: %v", err)
	}
	if err := types.RiskID("").Validate(); !errors.Is(err, types.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID for empty ID, got %v", err)
	}
}

func TestIsValidationError(t *testing.T) {
	_, errSeverity := types.ParseSeverity("9")
	_, errPhase := types.ParsePhase("final")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"severity", errSeverity, true},
		{"phase", errPhase, true},
		{"unrelated", errors.New("disk full"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.IsValidationError(tt.err); got != tt.want {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.want)
			}
		})
	}
}
