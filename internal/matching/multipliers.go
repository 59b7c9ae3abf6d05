package matching

import (
	"math"

	"swellyo-workers/internal/models"
)

// Rule names reported in SuggestedMatch.AppliedRules.
const (
	RuleSameCountryVisa   = "same_country_visa"
	RuleWaveExpertise     = "wave_expertise"
	RuleAccommodationStay = "accommodation_stay"
)

// Rule is one context boost: when Applies holds, the candidate's score is
// multiplied by Factor. Rules are independent and commute.
type Rule struct {
	Name    string
	Applies func(v *RequestView, c *models.CandidateProfile) bool
	Factor  func(v *RequestView, c *models.CandidateProfile) float64
}

func constant(f float64) func(*RequestView, *models.CandidateProfile) float64 {
	return func(*RequestView, *models.CandidateProfile) float64 { return f }
}

// DefaultRules builds the standard rule list from the configured factors.
func DefaultRules(cfg Config) []Rule {
	m := cfg.Multipliers
	voc := cfg.Vocabulary
	return []Rule{
		{
			Name: RuleSameCountryVisa,
			Applies: func(v *RequestView, c *models.CandidateProfile) bool {
				seeker := v.SeekerCountry()
				return seeker != "" && seeker == normalizeName(c.CountryFrom) && v.HasTopic(voc.VisaTopics)
			},
			Factor: constant(m.SameCountryVisa),
		},
		{
			Name: RuleWaveExpertise,
			Applies: func(v *RequestView, c *models.CandidateProfile) bool {
				level := v.Request.Seeker.SurfLevel
				return v.HasTopic(voc.WaveTopics) && (level <= 0 || c.SurfLevel >= level)
			},
			Factor: constant(m.WaveExpertise),
		},
		{
			Name: RuleAccommodationStay,
			Applies: func(v *RequestView, _ *models.CandidateProfile) bool {
				return v.HasTopic(voc.AccommodationTopics)
			},
			Factor: stayScaled(m.Accommodation, cfg.StaySaturation),
		},
	}
}

// stayScaled grows the boost with the candidate's stay: a zero-day stay gets the
// base factor, a stay at or beyond the ceiling gets twice the base boost.
func stayScaled(base float64, ceiling int) func(*RequestView, *models.CandidateProfile) float64 {
	return func(v *RequestView, c *models.CandidateProfile) float64 {
		ratio := 0.0
		if ceiling > 0 {
			ratio = math.Min(float64(v.DaysAtDestination(c))/float64(ceiling), 1)
		}
		return 1 + (base-1)*(1+ratio)
	}
}

// composeMultiplier multiplies the factors of every applicable rule and caps the
// product at max when max is positive. No applicable rule yields exactly 1.
func composeMultiplier(rules []Rule, max float64, v *RequestView, c *models.CandidateProfile) (float64, []string) {
	product := 1.0
	var applied []string
	for _, r := range rules {
		if r.Applies == nil || r.Factor == nil || !r.Applies(v, c) {
			continue
		}
		f := r.Factor(v, c)
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		product *= f
		applied = append(applied, r.Name)
	}
	if max > 0 && product > max {
		product = max
	}
	return product, applied
}
