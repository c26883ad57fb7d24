package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

// CatalogEntry is a reusable hazard template
type CatalogEntry struct {
	ID                 types.CatalogEntryID `json:"id" toml:"id" yaml:"id"`
	Title              string               `json:"title" toml:"title" yaml:"title"`
	Category           string               `json:"category" toml:"category" yaml:"category"`
	DreadedEvent       string               `json:"dreadedEvent" toml:"dreaded_event" yaml:"dreaded_event"`
	MitigationMeasures string               `json:"mitigationMeasures" toml:"mitigation_measures" yaml:"mitigation_measures"`
	DefaultSeverity    types.Severity       `json:"defaultSeverity" toml:"default_severity" yaml:"default_severity"`
	DefaultLikelihood  types.Likelihood     `json:"defaultLikelihood" toml:"default_likelihood" yaml:"default_likelihood"`
}

// Validate checks the ID, title and default rating
func (c *CatalogEntry) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return err
	}
	if c.Title == "" {
		return goerr.New("catalog entry title is required", goerr.V("id", c.ID))
	}
	if err := c.DefaultSeverity.Validate(); err != nil {
		return goerr.Wrap(err, "invalid default severity", goerr.V("id", c.ID))
	}
	if err := c.DefaultLikelihood.Validate(); err != nil {
		return goerr.Wrap(err, "invalid default likelihood", goerr.V("id", c.ID))
	}
	return nil
}

// DefaultLevel returns the classification of the template's default rating
func (c *CatalogEntry) DefaultLevel() types.RiskLevel {
	return types.Classify(c.DefaultSeverity, c.DefaultLikelihood)
}

// DefaultCatalog returns the built-in hazard templates
func DefaultCatalog() []*CatalogEntry {
	return []*CatalogEntry{
		{
			ID:                 "cat-1",
			Title:              "Engine failure at take-off (OEI)",
			Category:           "Technical / Propulsion",
			DreadedEvent:       "Loss of one engine (OEI) during the transition phase when leaving the ship (CDP). Critical height loss and surface impact.",
			MitigationMeasures: "- Rigorous pre-flight performance computation (mass/temperature/wind)\n- Clear Deck or Lateral take-off profile\n- Crew OEI training up to date\n- Fuel dumping available",
			DefaultSeverity:    types.SeverityCatastrophic,
			DefaultLikelihood:  types.LikelihoodRare,
		},
		{
			ID:                 "cat-2",
			Title:              "Deck landing in rough sea (SHOL)",
			Category:           "Environment / Piloting",
			DreadedEvent:       "Helicopter sliding on deck or violent gear/fuselage impact due to excessive ship pitch and roll.",
			MitigationMeasures: "- Strict compliance with SHOL envelopes (Ship Helicopter Operating Limits)\n- Immediate harpoon engagement on touchdown\n- Deck crew ready for quick lashing\n- Qualified LSO (Landing Signal Officer) in place",
			DefaultSeverity:    types.SeverityCatastrophic,
			DefaultLikelihood:  types.LikelihoodOccasional,
		},
		{
			ID:                 "cat-3",
			Title:              "Spatial disorientation under NVG",
			Category:           "Human factors",
			DreadedEvent:       "Loss of horizon visual references on a dark night (level 5) over water. Unintended steep turn or surface impact.",
			MitigationMeasures: "- Rigorous scan pattern (instruments/outside)\n- Height callouts by the PNF (radio altimeter)\n- Immediate IFR transition on loss of references\n- Limited NVG flight duration",
			DefaultSeverity:    types.SeverityCritical,
			DefaultLikelihood:  types.LikelihoodOccasional,
		},
		{
			ID:                 "cat-4",
			Title:              "Hoist cable failure",
			Category:           "Operational / Equipment",
			DreadedEvent:       "Cable shear or break during a hoisting operation (diver/stretcher). Personnel fall or cable whipping into the tail rotor.",
			MitigationMeasures: "- Pre-flight check of the cable and cable cutter\n- Backup pneumatic cutter operational\n- Degraded hoist procedure training\n- Secured harness worn",
			DefaultSeverity:    types.SeverityCritical,
			DefaultLikelihood:  types.LikelihoodRare,
		},
		{
			ID:                 "cat-5",
			Title:              "Electromagnetic interference (EMC)",
			Category:           "Environment / Ship",
			DreadedEvent:       "Disturbance of fly-by-wire controls or displays (MFD) during the ship radar approach (strong fields).",
			MitigationMeasures: "- Mapping of ship emitters and exclusion zones (HIRTA)\n- Real-time telemetry monitoring of EMC parameters\n- Defined immediate escape procedure",
			DefaultSeverity:    types.SeverityModerate,
			DefaultLikelihood:  types.LikelihoodOccasional,
		},
		{
			ID:                 "cat-6",
			Title:              "Excessive vibrations (envelope expansion)",
			Category:           "Flight test",
			DreadedEvent:       "Undamped vibration phenomena (flutter) when reaching Vne + 10kts. Structural damage.",
			MitigationMeasures: "- Incremental speed build-up\n- Real-time strain gauge monitoring by the flight test engineer\n- Immediate test stop when thresholds are exceeded",
			DefaultSeverity:    types.SeverityCritical,
			DefaultLikelihood:  types.LikelihoodVeryImprobable,
		},
		{
			ID:                 "cat-7",
			Title:              "Low-altitude bird strike",
			Category:           "Environment",
			DreadedEvent:       "Bird impact in tactical low flight causing canopy breakage and pilot injury, or engine ingestion.",
			MitigationMeasures: "- Avoidance of known migration areas (NOTAM)\n- Helmet visor down in low flight\n- Bird escape profile (reflex climb)",
			DefaultSeverity:    types.SeverityModerate,
			DefaultLikelihood:  types.LikelihoodOccasional,
		},
	}
}
