package types

// Trend describes how the residual level compares to the initial level
type Trend string

const (
	TrendImproved  Trend = "improved"
	TrendUnchanged Trend = "unchanged"
	TrendRegressed Trend = "regressed"
)

// CompareLevels returns the trend going from initial to residual
func CompareLevels(initial, residual RiskLevel) Trend {
	switch {
	case residual < initial:
		return TrendImproved
	case residual > initial:
		return TrendRegressed
	default:
		return TrendUnchanged
	}
}

func (t Trend) String() string {
	return string(t)
}
