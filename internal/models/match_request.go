// internal/models/match_request.go
package models

// PurposeType classifies why the seeker wants to be matched.
type PurposeType string

const (
	PurposeSpecificAdvice  PurposeType = "specific_advice"
	PurposeGeneralGuidance PurposeType = "general_guidance"
	PurposeConnectTraveler PurposeType = "connect_traveler"
	PurposeCombination     PurposeType = "combination"
)

// MatchRequest is the structured trip-planning intent handed over by the
// conversational layer. It is built once per matching call and never mutated.
type MatchRequest struct {
	Destination           string                `json:"destination"`
	DestinationKnown      bool                  `json:"destinationKnown"`
	Area                  string                `json:"area,omitempty"`
	Budget                int                   `json:"budget,omitempty"`
	Purpose               Purpose               `json:"purpose"`
	NonNegotiableCriteria NonNegotiableCriteria `json:"nonNegotiableCriteria"`
	UserContext           UserContext           `json:"userContext"`
	Seeker                Seeker                `json:"seeker"`
}

type Purpose struct {
	Type   PurposeType `json:"purposeType"`
	Topics []string    `json:"specificTopics,omitempty"`
}

// NonNegotiableCriteria are hard constraints. A nil or empty field is not a constraint.
type NonNegotiableCriteria struct {
	CountryFrom      []string  `json:"countryFrom,omitempty"`
	BoardType        []string  `json:"boardType,omitempty"`
	AgeRange         *IntRange `json:"ageRange,omitempty"`
	SurfLevel        *IntRange `json:"surfLevel,omitempty"`
	MustHaveKeywords []string  `json:"mustHaveKeywords,omitempty"`
	Other            string    `json:"other,omitempty"`
}

// IntRange is an inclusive range; a nil bound is open.
type IntRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// Contains reports whether v lies within the range.
func (r *IntRange) Contains(v int) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

type UserContext struct {
	MentionedPreferences  []string `json:"mentionedPreferences,omitempty"`
	MentionedDealbreakers []string `json:"mentionedDealbreakers,omitempty"`
}

// Seeker holds the attributes of the requesting user that candidates are compared
// against. Zero values mean unknown.
type Seeker struct {
	UserID            string   `json:"userId,omitempty"`
	CountryFrom       string   `json:"countryFrom,omitempty"`
	SurfLevel         int      `json:"surfLevel,omitempty"`
	BoardType         string   `json:"boardType,omitempty"`
	BudgetTier        int      `json:"budgetTier,omitempty"`
	TravelExperience  int      `json:"travelExperience,omitempty"`
	GroupType         string   `json:"groupType,omitempty"`
	LifestyleKeywords []string `json:"lifestyleKeywords,omitempty"`
	WaveKeywords      []string `json:"waveKeywords,omitempty"`
}
