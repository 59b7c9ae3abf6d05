package querycandidates

import "swellyo-workers/internal/models"

type Input struct {
	Destination string `json:"destination"`
	// DestinationKnown defaults to true when a destination is given.
	DestinationKnown *bool `json:"destinationKnown,omitempty"`
	Limit            int   `json:"limit,omitempty"`
}

// destination returns the destination to filter by, or "" to list everyone.
func (in *Input) destination() string {
	if in.DestinationKnown != nil && !*in.DestinationKnown {
		return ""
	}
	return in.Destination
}

type Output struct {
	Candidates           []models.CandidateProfile `json:"candidates"`
	CandidateCount       int                       `json:"candidateCount"`
	Source               string                    `json:"source"`
	QueryExecutionTimeMs int64                     `json:"queryExecutionTimeMs"`
}
