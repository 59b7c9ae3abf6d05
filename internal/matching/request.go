package matching

import (
	"swellyo-workers/internal/models"
)

// RequestView is the per-call, read-only digest of a MatchRequest shared by every
// candidate evaluation. Rules receive it instead of the raw request.
type RequestView struct {
	Request *models.MatchRequest

	destination string
	area        string
	topics      []string
	lifestyle   keywordSet
	wave        keywordSet
	hits        preferenceHits
}

func newRequestView(cfg *Config, req *models.MatchRequest) *RequestView {
	hits := preferenceHits{
		lifestyle: newVocabulary(cfg.Vocabulary.Lifestyle).hits(req.UserContext.MentionedPreferences),
		wave:      newVocabulary(cfg.Vocabulary.Wave).hits(req.UserContext.MentionedPreferences),
	}
	v := &RequestView{
		Request:   req,
		area:      normalizeName(req.Area),
		topics:    req.Purpose.Topics,
		lifestyle: newKeywordSet(req.Seeker.LifestyleKeywords, hits.lifestyle),
		wave:      newKeywordSet(req.Seeker.WaveKeywords, hits.wave),
		hits:      hits,
	}
	if req.DestinationKnown {
		v.destination = normalizeName(req.Destination)
	}
	return v
}

// HasTopic reports whether any topic tag mentions one of the given terms.
func (v *RequestView) HasTopic(terms []string) bool {
	return newVocabulary(terms).matchesAny(v.topics)
}

// SeekerCountry is the seeker's origin country. When the profile does not state it,
// a country_from criterion naming exactly one country stands in for it.
func (v *RequestView) SeekerCountry() string {
	if c := normalizeName(v.Request.Seeker.CountryFrom); c != "" {
		return c
	}
	if countries := v.Request.NonNegotiableCriteria.CountryFrom; len(countries) == 1 {
		return normalizeName(countries[0])
	}
	return ""
}

// SeekerBudget prefers the budget stated for this trip over the profile tier.
func (v *RequestView) SeekerBudget() int {
	if v.Request.Budget > 0 {
		return v.Request.Budget
	}
	return v.Request.Seeker.BudgetTier
}

// DaysAtDestination sums the candidate's days at the requested destination. When
// no destination is known every trip counts.
func (v *RequestView) DaysAtDestination(c *models.CandidateProfile) int {
	total := 0
	for _, t := range c.Trips {
		if t.Days <= 0 {
			continue
		}
		if v.destination == "" || normalizeName(t.Destination) == v.destination {
			total += t.Days
		}
	}
	return total
}

// areasAtDestination returns the areas worth surfacing for the candidate: the
// requested area when they visited it, otherwise every area they visited at the
// destination. visited reports any trip to the destination at all.
func (v *RequestView) areasAtDestination(c *models.CandidateProfile) (areas []string, sameArea bool, visited bool) {
	areas = []string{}
	var requested []string
	seen := make(map[string]bool)
	for _, t := range c.Trips {
		if v.destination != "" && normalizeName(t.Destination) != v.destination {
			continue
		}
		visited = true
		for _, a := range t.Areas {
			n := normalizeName(a)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			if v.area != "" && n == v.area {
				sameArea = true
				requested = append(requested, a)
			}
			areas = append(areas, a)
		}
	}
	if sameArea {
		return requested, true, visited
	}
	return areas, false, visited
}
