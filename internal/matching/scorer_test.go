package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swellyo-workers/internal/models"
)

func TestDaysTerm(t *testing.T) {
	assert.Equal(t, 0.0, daysTerm(0, 60))
	assert.Equal(t, 0.0, daysTerm(-5, 60))
	assert.InDelta(t, 1.0, daysTerm(60, 60), 1e-12)
	assert.Equal(t, 1.0, daysTerm(400, 60))
	assert.Less(t, daysTerm(10, 60), daysTerm(20, 60))
}

func TestTierSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, tierSimilarity(3, 3, 5))
	assert.Equal(t, 0.0, tierSimilarity(1, 5, 5))
	assert.Equal(t, 0.75, tierSimilarity(2, 3, 5))
	assert.Equal(t, neutralTerm, tierSimilarity(0, 3, 5))
	assert.Equal(t, 0.0, tierSimilarity(1, 9, 5))
}

func TestEngine_Score_Terms(t *testing.T) {
	engine := newTestEngine(t)

	req := &models.MatchRequest{
		Destination:      "Sri Lanka",
		DestinationKnown: true,
		Area:             "Arugam Bay",
		Seeker: models.Seeker{
			BoardType: "shortboard",
			GroupType: "couple",
			SurfLevel: 3,
		},
	}
	view := newRequestView(&engine.cfg, req)
	weights := buildWeights(&engine.cfg, req.Purpose.Type, view.hits)

	tests := []struct {
		name           string
		candidate      models.CandidateProfile
		validateOutput func(t *testing.T, m models.SuggestedMatch)
	}{
		{
			name: "same area and identical attributes",
			candidate: models.CandidateProfile{
				ID: "same", BoardType: "shortboard", GroupType: "couple", SurfLevel: 3,
				Trips: []models.Trip{{Destination: "sri lanka", Areas: []string{"Arugam Bay", "Ella"}, Days: 12}},
			},
			validateOutput: func(t *testing.T, m models.SuggestedMatch) {
				assert.Equal(t, 1.0, m.Breakdown.AreaMatch)
				assert.Equal(t, []string{"Arugam Bay"}, m.MatchedAreas)
				assert.Equal(t, 1.0, m.Breakdown.BoardType)
				assert.Equal(t, 1.0, m.Breakdown.GroupType)
				assert.Equal(t, 1.0, m.Breakdown.SurfLevel)
			},
		},
		{
			name: "other area at the destination gets partial credit",
			candidate: models.CandidateProfile{
				ID: "other", BoardType: "fish", GroupType: "solo", SurfLevel: 5,
				Trips: []models.Trip{{Destination: "Sri Lanka", Areas: []string{"Weligama"}, Days: 12}},
			},
			validateOutput: func(t *testing.T, m models.SuggestedMatch) {
				assert.Equal(t, 0.5, m.Breakdown.AreaMatch)
				assert.Equal(t, []string{"Weligama"}, m.MatchedAreas)
				assert.Equal(t, 0.5, m.Breakdown.BoardType)
				assert.Equal(t, 0.0, m.Breakdown.GroupType)
				assert.Equal(t, 0.5, m.Breakdown.SurfLevel)
			},
		},
		{
			name: "never visited and incompatible board",
			candidate: models.CandidateProfile{
				ID: "away", BoardType: "longboard", SurfLevel: 1,
				Trips: []models.Trip{{Destination: "Portugal", Areas: []string{"Ericeira"}, Days: 90}},
			},
			validateOutput: func(t *testing.T, m models.SuggestedMatch) {
				assert.Equal(t, 0.0, m.Breakdown.AreaMatch)
				assert.Equal(t, 0.0, m.Breakdown.DestinationDays)
				assert.Empty(t, m.MatchedAreas)
				assert.Equal(t, 0.0, m.Breakdown.BoardType)
				assert.Equal(t, neutralTerm, m.Breakdown.GroupType)
			},
		},
		{
			name: "malformed negative days stay in range",
			candidate: models.CandidateProfile{
				ID:    "broken",
				Trips: []models.Trip{{Destination: "Sri Lanka", Days: -40}},
			},
			validateOutput: func(t *testing.T, m models.SuggestedMatch) {
				assert.Equal(t, 0.0, m.Breakdown.DestinationDays)
				assert.GreaterOrEqual(t, m.Score, 0.0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := engine.score(view, weights, &tt.candidate)
			assert.Equal(t, tt.candidate.ID, m.CandidateID)
			assert.InDelta(t, weights.Dot(m.Breakdown), m.BaseScore, 1e-12)
			tt.validateOutput(t, m)
		})
	}
}

func TestEngine_Score_KeywordAbsenceStillScores(t *testing.T) {
	engine := newTestEngine(t)
	req := sriLankaRequest()
	req.UserContext.MentionedPreferences = []string{"party", "barrels"}
	view := newRequestView(&engine.cfg, req)
	weights := buildWeights(&engine.cfg, req.Purpose.Type, view.hits)

	c := candidate("quiet", "Israel", 10)
	c.LifestyleKeywords = []string{"reading"}

	m := engine.score(view, weights, &c)

	assert.Equal(t, 0.0, m.Breakdown.Lifestyle)
	assert.Equal(t, 0.0, m.Breakdown.Wave)
	assert.Empty(t, m.CommonLifestyleKeywords)
	assert.Greater(t, m.BaseScore, 0.0)
}

func TestComposeMultiplier(t *testing.T) {
	cfg := DefaultConfig()
	rules := DefaultRules(cfg)

	c := candidate("A", "Israel", 30)
	c.SurfLevel = 4

	req := sriLankaRequest()
	req.Seeker = models.Seeker{CountryFrom: "Israel", SurfLevel: 3}

	tests := []struct {
		name     string
		topics   []string
		max      float64
		expected float64
		applied  []string
	}{
		{name: "no topics is neutral", topics: nil, max: cfg.Multipliers.Max, expected: 1.0},
		{name: "visa", topics: []string{"visa"}, max: cfg.Multipliers.Max, expected: 1.5, applied: []string{RuleSameCountryVisa}},
		{name: "length of stay is a visa topic", topics: []string{"visa length of stay"}, max: cfg.Multipliers.Max, expected: 1.5, applied: []string{RuleSameCountryVisa}},
		{name: "surf spots", topics: []string{"best surf spots"}, max: cfg.Multipliers.Max, expected: 1.3, applied: []string{RuleWaveExpertise}},
		{
			name: "accommodation at full stay doubles the boost", topics: []string{"accommodation"},
			max: cfg.Multipliers.Max, expected: 1.4, applied: []string{RuleAccommodationStay},
		},
		{
			name: "all rules are capped", topics: []string{"visa", "surf spots", "where to stay"},
			max: cfg.Multipliers.Max, expected: 2.0,
			applied: []string{RuleSameCountryVisa, RuleWaveExpertise, RuleAccommodationStay},
		},
		{
			name: "negative max disables the cap", topics: []string{"visa", "surf spots", "where to stay"},
			max: -1, expected: 1.5 * 1.3 * 1.4,
			applied: []string{RuleSameCountryVisa, RuleWaveExpertise, RuleAccommodationStay},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Purpose.Topics = tt.topics
			view := newRequestView(&cfg, req)
			got, applied := composeMultiplier(rules, tt.max, view, &c)
			assert.InDelta(t, tt.expected, got, 1e-9)
			assert.Equal(t, tt.applied, applied)
		})
	}
}

func TestComposeMultiplier_WaveRuleNeedsEqualOrHigherLevel(t *testing.T) {
	cfg := DefaultConfig()
	rules := DefaultRules(cfg)

	req := sriLankaRequest()
	req.Purpose.Topics = []string{"waves"}
	req.Seeker.SurfLevel = 4

	beginner := candidate("beginner", "France", 5)
	beginner.SurfLevel = 2
	got, applied := composeMultiplier(rules, cfg.Multipliers.Max, newRequestView(&cfg, req), &beginner)
	assert.Equal(t, 1.0, got)
	assert.Empty(t, applied)

	req.Seeker.SurfLevel = 0
	got, _ = composeMultiplier(rules, cfg.Multipliers.Max, newRequestView(&cfg, req), &beginner)
	assert.Equal(t, 1.3, got)
}

func TestComposeMultiplier_SeekerCountryFromSingleCriterion(t *testing.T) {
	cfg := DefaultConfig()
	req := sriLankaRequest()
	c := candidate("A", "Israel", 10)

	view := newRequestView(&cfg, req)
	require.Equal(t, "israel", view.SeekerCountry())

	got, _ := composeMultiplier(DefaultRules(cfg), cfg.Multipliers.Max, view, &c)
	assert.Equal(t, 1.5, got)
}

func TestRank_TieBreaks(t *testing.T) {
	items := []scored{
		{index: 0, match: models.SuggestedMatch{CandidateID: "low", Score: 10, Breakdown: models.ScoreBreakdown{DestinationDays: 0.9}}},
		{index: 1, match: models.SuggestedMatch{CandidateID: "short-stay", Score: 20, Breakdown: models.ScoreBreakdown{DestinationDays: 0.2}}},
		{index: 2, match: models.SuggestedMatch{CandidateID: "long-stay", Score: 20, Breakdown: models.ScoreBreakdown{DestinationDays: 0.8}}},
		{index: 3, match: models.SuggestedMatch{CandidateID: "long-stay-later", Score: 20, Breakdown: models.ScoreBreakdown{DestinationDays: 0.8}}},
	}

	ranked := rank(items, 3)

	require.Len(t, ranked, 3)
	assert.Equal(t, "long-stay", ranked[0].CandidateID)
	assert.Equal(t, "long-stay-later", ranked[1].CandidateID)
	assert.Equal(t, "short-stay", ranked[2].CandidateID)
}

func TestRank_Empty(t *testing.T) {
	ranked := rank(nil, 3)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}
