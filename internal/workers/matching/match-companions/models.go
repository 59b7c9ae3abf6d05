package matchcompanions

import (
	"swellyo-workers/internal/matching"
	"swellyo-workers/internal/models"
)

// Input is the decoded job payload. Candidates is nil when the job did not carry a
// population, in which case it is fetched.
type Input struct {
	MatchRequest *models.MatchRequest
	Candidates   []models.CandidateProfile
	TopK         int
	// DroppedCriteria lists non-negotiable fields ignored because they were malformed.
	DroppedCriteria []string
}

const candidateSourceInput = "input"

type Output struct {
	MatchID         string                  `json:"matchId"`
	Matches         []models.SuggestedMatch `json:"matches"`
	MatchCount      int                     `json:"matchCount"`
	ConsideredCount int                     `json:"consideredCount"`
	EligibleCount   int                     `json:"eligibleCount"`
	Rejected        map[string]int          `json:"rejected"`
	Weights         matching.WeightVector   `json:"weights"`
	DroppedCriteria []string                `json:"droppedCriteria,omitempty"`
	CandidateSource string                  `json:"candidateSource"`
	DurationMs      int64                   `json:"durationMs"`
}
