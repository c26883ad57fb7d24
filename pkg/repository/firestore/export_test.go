package firestore

type RiskDocument = riskDocument
type AssessmentDocument = assessmentDocument
type CatalogDocument = catalogDocument

var (
	DecodeRisk         = decodeRisk
	DecodeCatalogEntry = decodeCatalogEntry
)
