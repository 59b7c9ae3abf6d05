package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"swellyo-workers/internal/models"
)

func filterPopulationFixture() []models.CandidateProfile {
	return []models.CandidateProfile{
		{
			ID: "il-short", CountryFrom: "Israel", BoardType: "shortboard", Age: 27, SurfLevel: 4,
			LifestyleKeywords: []string{"yoga", "party"}, WaveKeywords: []string{"barrels"},
		},
		{
			ID: "fr-long", CountryFrom: "France", BoardType: "longboard", Age: 41, SurfLevel: 2,
			LifestyleKeywords: []string{"food"}, WaveKeywords: []string{"mellow"},
		},
		{
			ID: "il-unknown", CountryFrom: "israel ", BoardType: "Mid-Length",
		},
	}
}

func ids(candidates []models.CandidateProfile) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.NonNegotiableCriteria
		expected []string
	}{
		{
			name:     "no criteria keeps everyone",
			criteria: models.NonNegotiableCriteria{},
			expected: []string{"il-short", "fr-long", "il-unknown"},
		},
		{
			name:     "country is case and whitespace insensitive",
			criteria: models.NonNegotiableCriteria{CountryFrom: []string{"ISRAEL"}},
			expected: []string{"il-short", "il-unknown"},
		},
		{
			name:     "board type normalises separators",
			criteria: models.NonNegotiableCriteria{BoardType: []string{"mid_length", "longboard"}},
			expected: []string{"fr-long", "il-unknown"},
		},
		{
			name:     "age range is inclusive and rejects unknown ages",
			criteria: models.NonNegotiableCriteria{AgeRange: &models.IntRange{Min: intPtr(27), Max: intPtr(41)}},
			expected: []string{"il-short", "fr-long"},
		},
		{
			name:     "open ended surf range",
			criteria: models.NonNegotiableCriteria{SurfLevel: &models.IntRange{Min: intPtr(3)}},
			expected: []string{"il-short"},
		},
		{
			name:     "must-have keywords span lifestyle and wave sets",
			criteria: models.NonNegotiableCriteria{MustHaveKeywords: []string{"Yoga", "barrel"}},
			expected: []string{"il-short"},
		},
		{
			name: "every criterion must hold",
			criteria: models.NonNegotiableCriteria{
				CountryFrom: []string{"France"},
				SurfLevel:   &models.IntRange{Min: intPtr(3)},
			},
			expected: []string{},
		},
		{
			name:     "inverted range is ignored",
			criteria: models.NonNegotiableCriteria{AgeRange: &models.IntRange{Min: intPtr(50), Max: intPtr(20)}},
			expected: []string{"il-short", "fr-long", "il-unknown"},
		},
		{
			name: "blank entries are ignored",
			criteria: models.NonNegotiableCriteria{
				CountryFrom:      []string{"", "  "},
				MustHaveKeywords: []string{""},
				AgeRange:         &models.IntRange{},
			},
			expected: []string{"il-short", "fr-long", "il-unknown"},
		},
		{
			name:     "free text does not filter",
			criteria: models.NonNegotiableCriteria{Other: "someone chill"},
			expected: []string{"il-short", "fr-long", "il-unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(filterPopulationFixture(), tt.criteria)
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

func TestFilter_ReportsFirstUnmetCriterion(t *testing.T) {
	c := compileCriteria(models.NonNegotiableCriteria{
		CountryFrom: []string{"Israel"},
		BoardType:   []string{"shortboard"},
	})

	_, rejected := filterPopulation(filterPopulationFixture(), c)

	assert.Equal(t, map[string]int{
		CriterionCountryFrom: 1,
		CriterionBoardType:   1,
	}, rejected)
}
