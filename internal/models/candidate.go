// internal/models/candidate.go
package models

// CandidateProfile is a traveler who has been to (or is at) a destination and may be
// suggested to a seeker. Zero values mean the attribute is unknown.
type CandidateProfile struct {
	ID                string   `json:"id"`
	Name              string   `json:"name,omitempty"`
	CountryFrom       string   `json:"countryFrom"`
	BoardType         string   `json:"boardType,omitempty"`
	SurfLevel         int      `json:"surfLevel,omitempty"`
	TravelExperience  int      `json:"travelExperience,omitempty"`
	BudgetTier        int      `json:"budgetTier,omitempty"`
	Age               int      `json:"age,omitempty"`
	GroupType         string   `json:"groupType,omitempty"`
	LifestyleKeywords []string `json:"lifestyleKeywords,omitempty"`
	WaveKeywords      []string `json:"waveKeywords,omitempty"`
	Trips             []Trip   `json:"trips,omitempty"`
}

// Trip is one destination in a candidate's visit history.
type Trip struct {
	Destination string   `json:"destination"`
	Areas       []string `json:"areas,omitempty"`
	Days        int      `json:"days"`
}

// Board types recognised by the matcher.
const (
	BoardShortboard = "shortboard"
	BoardMidLength  = "mid_length"
	BoardLongboard  = "longboard"
	BoardFish       = "fish"
	BoardSoftTop    = "soft_top"
	BoardBodyboard  = "bodyboard"
)

// Group (travel-buddy) types.
const (
	GroupSolo    = "solo"
	GroupCouple  = "couple"
	GroupFriends = "friends"
	GroupFamily  = "family"
)
