package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"swellyo-workers/internal/models"
)

func TestBuildWeights_SumsToReferenceBudget(t *testing.T) {
	cfg := DefaultConfig()

	for _, purpose := range []models.PurposeType{
		models.PurposeConnectTraveler,
		models.PurposeSpecificAdvice,
		models.PurposeGeneralGuidance,
		models.PurposeCombination,
		"something_new",
	} {
		t.Run(string(purpose), func(t *testing.T) {
			w := buildWeights(&cfg, purpose, preferenceHits{lifestyle: []string{"yoga"}})
			assert.InDelta(t, cfg.ReferenceBudget, w.Sum(), 1e-9)
			assert.False(t, w.hasNegative())
		})
	}
}

func TestBaseWeights_CombinationAveragesPurposes(t *testing.T) {
	table := DefaultConfig().BaseWeights

	blend := baseWeights(table, models.PurposeCombination)

	connect := table[string(models.PurposeConnectTraveler)]
	advice := table[string(models.PurposeSpecificAdvice)]
	guidance := table[string(models.PurposeGeneralGuidance)]
	assert.InDelta(t, (connect.DestinationDays+advice.DestinationDays+guidance.DestinationDays)/3, blend.DestinationDays, 1e-9)
	assert.InDelta(t, (connect.Lifestyle+advice.Lifestyle+guidance.Lifestyle)/3, blend.Lifestyle, 1e-9)
	assert.InDelta(t, (connect.SurfLevel+advice.SurfLevel+guidance.SurfLevel)/3, blend.SurfLevel, 1e-9)
}

func TestBaseWeights_UnknownPurposeFallsBackToGeneralGuidance(t *testing.T) {
	table := DefaultConfig().BaseWeights

	assert.Equal(t, table[string(models.PurposeGeneralGuidance)], baseWeights(table, "find_a_shaper"))
	assert.Equal(t, table[string(models.PurposeGeneralGuidance)], baseWeights(table, ""))
	assert.Equal(t, table[string(models.PurposeConnectTraveler)], baseWeights(table, " Connect_Traveler "))
}

func TestBaseWeights_ExpertisePurposesWeighDaysHigher(t *testing.T) {
	table := DefaultConfig().BaseWeights

	connect := table[string(models.PurposeConnectTraveler)]
	advice := table[string(models.PurposeSpecificAdvice)]
	assert.Greater(t, advice.DestinationDays, connect.DestinationDays)
	assert.Greater(t, connect.Lifestyle, advice.Lifestyle)
}

func TestBuildWeights_KeywordHitsAreAdditive(t *testing.T) {
	cfg := DefaultConfig()

	plain := buildWeights(&cfg, models.PurposeConnectTraveler, preferenceHits{})
	boosted := buildWeights(&cfg, models.PurposeConnectTraveler, preferenceHits{lifestyle: []string{"yoga", "meditation"}})

	assert.InDelta(t, 1.0, plain.Lifestyle/plain.Wave, 1e-9)
	// connect_traveler has lifestyle 20 and wave 20 before two increments of 5
	assert.InDelta(t, 30.0/20.0, boosted.Lifestyle/boosted.Wave, 1e-9)
	assert.Greater(t, boosted.Lifestyle, plain.Lifestyle)
}

func TestBuildWeights_FloorKeepsEveryComponentPositive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseWeights = map[string]WeightVector{
		string(models.PurposeGeneralGuidance): {DestinationDays: 50},
	}

	w := buildWeights(&cfg, models.PurposeGeneralGuidance, preferenceHits{})

	for _, c := range w.components() {
		assert.Greater(t, *c, 0.0)
	}
	assert.InDelta(t, cfg.ReferenceBudget, w.Sum(), 1e-9)
}

func TestVocabulary_RepeatedMentionsCountOnce(t *testing.T) {
	v := newVocabulary(DefaultConfig().Vocabulary.Lifestyle)

	hits := v.hits([]string{"Yoga every morning", "more yoga please", "and some remote-work"})

	assert.Equal(t, []string{"yoga", "remote work"}, hits)
}

func TestVocabulary_MatchesWholeWordsOnly(t *testing.T) {
	v := newVocabulary([]string{"art", "big waves"})

	assert.Empty(t, v.hits([]string{"I love startups", "big beaches with waves"}))
	assert.Equal(t, []string{"big wave"}, v.hits([]string{"Chasing BIG waves"}))
}
