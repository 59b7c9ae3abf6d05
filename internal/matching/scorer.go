package matching

import (
	"math"

	"swellyo-workers/internal/models"
)

const neutralTerm = 0.5

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}

// daysTerm grows logarithmically with days and saturates at ceiling.
func daysTerm(days, ceiling int) float64 {
	if days <= 0 || ceiling <= 0 {
		return 0
	}
	return clamp01(math.Log1p(float64(days)) / math.Log1p(float64(ceiling)))
}

// tierSimilarity is 1 for equal tiers and falls linearly to 0 at the widest gap.
// An unknown side (zero) scores neutral.
func tierSimilarity(a, b, maxTier int) float64 {
	if a <= 0 || b <= 0 {
		return neutralTerm
	}
	span := maxTier - 1
	if span <= 0 {
		span = 1
	}
	return clamp01(1 - math.Abs(float64(a-b))/float64(span))
}

func (e *Engine) boardTerm(seeker, candidate string) float64 {
	s, c := normalizeBoard(seeker), normalizeBoard(candidate)
	if s == "" || c == "" {
		return neutralTerm
	}
	if s == c {
		return 1
	}
	for _, family := range e.boardFamilies {
		if family[s] && family[c] {
			return creditValue(e.cfg.BoardPartialCredit)
		}
	}
	return 0
}

func groupTerm(seeker, candidate string) float64 {
	s, c := normalizeName(seeker), normalizeName(candidate)
	if s == "" || c == "" {
		return neutralTerm
	}
	if s == c {
		return 1
	}
	return 0
}

// scored is a candidate evaluation plus its position in the filtered input.
type scored struct {
	index int
	match models.SuggestedMatch
}

// score evaluates one surviving candidate against the request.
func (e *Engine) score(v *RequestView, w WeightVector, c *models.CandidateProfile) models.SuggestedMatch {
	seeker := v.Request.Seeker
	areas, sameArea, visited := v.areasAtDestination(c)

	areaTerm := 0.0
	switch {
	case sameArea:
		areaTerm = 1
	case visited:
		areaTerm = creditValue(e.cfg.AreaPartialCredit)
	}

	lifestyle, commonLifestyle := v.lifestyle.overlap(c.LifestyleKeywords)
	wave, commonWave := v.wave.overlap(c.WaveKeywords)

	b := models.ScoreBreakdown{
		DestinationDays:  daysTerm(v.DaysAtDestination(c), e.cfg.DaysSaturation),
		AreaMatch:        clamp01(areaTerm),
		Budget:           tierSimilarity(v.SeekerBudget(), c.BudgetTier, e.cfg.MaxBudgetTier),
		SurfLevel:        tierSimilarity(seeker.SurfLevel, c.SurfLevel, e.cfg.MaxSurfLevel),
		TravelExperience: tierSimilarity(seeker.TravelExperience, c.TravelExperience, e.cfg.MaxTravelTier),
		BoardType:        clamp01(e.boardTerm(seeker.BoardType, c.BoardType)),
		GroupType:        groupTerm(seeker.GroupType, c.GroupType),
		Lifestyle:        lifestyle,
		Wave:             wave,
	}

	base := w.Dot(b)
	multiplier, applied := composeMultiplier(e.rules, e.cfg.Multipliers.Max, v, c)

	return models.SuggestedMatch{
		CandidateID:             c.ID,
		Score:                   base * multiplier,
		BaseScore:               base,
		Multiplier:              multiplier,
		AppliedRules:            applied,
		MatchedAreas:            areas,
		CommonLifestyleKeywords: commonLifestyle,
		CommonWaveKeywords:      commonWave,
		Breakdown:               b,
	}
}
