// internal/models/match.go
package models

// SuggestedMatch is one ranked entry returned to the caller.
type SuggestedMatch struct {
	CandidateID             string         `json:"candidateId"`
	Score                   float64        `json:"score"`
	BaseScore               float64        `json:"baseScore"`
	Multiplier              float64        `json:"multiplier"`
	AppliedRules            []string       `json:"appliedRules,omitempty"`
	MatchedAreas            []string       `json:"matchedAreas"`
	CommonLifestyleKeywords []string       `json:"commonLifestyleKeywords"`
	CommonWaveKeywords      []string       `json:"commonWaveKeywords"`
	Breakdown               ScoreBreakdown `json:"breakdown"`
}

// ScoreBreakdown lists the clamped similarity terms behind a score.
type ScoreBreakdown struct {
	DestinationDays  float64 `json:"destinationDays"`
	AreaMatch        float64 `json:"areaMatch"`
	Budget           float64 `json:"budget"`
	SurfLevel        float64 `json:"surfLevel"`
	TravelExperience float64 `json:"travelExperience"`
	BoardType        float64 `json:"boardType"`
	GroupType        float64 `json:"groupType"`
	Lifestyle        float64 `json:"lifestyle"`
	Wave             float64 `json:"wave"`
}
