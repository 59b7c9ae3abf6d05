package matching

import (
	"strings"

	"swellyo-workers/internal/models"
)

// Filter criterion names reported in Result.Rejected.
const (
	CriterionCountryFrom      = "country_from"
	CriterionBoardType        = "board_type"
	CriterionAgeRange         = "age_range"
	CriterionSurfLevel        = "surf_level"
	CriterionMustHaveKeywords = "must_have_keywords"
)

// criteria is the cleaned form of models.NonNegotiableCriteria. Malformed fields
// (empty strings, inverted ranges) have already been dropped.
type criteria struct {
	countries map[string]bool
	boards    map[string]bool
	age       *models.IntRange
	surf      *models.IntRange
	keywords  []string
}

func compileCriteria(c models.NonNegotiableCriteria) criteria {
	return criteria{
		countries: stringSet(c.CountryFrom, normalizeName),
		boards:    stringSet(c.BoardType, normalizeBoard),
		age:       validRange(c.AgeRange),
		surf:      validRange(c.SurfLevel),
		keywords:  nonEmpty(c.MustHaveKeywords),
	}
}

func stringSet(values []string, norm func(string) string) map[string]bool {
	var out map[string]bool
	for _, v := range values {
		n := norm(v)
		if n == "" {
			continue
		}
		if out == nil {
			out = make(map[string]bool, len(values))
		}
		out[n] = true
	}
	return out
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if normalizeKeyword(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func validRange(r *models.IntRange) *models.IntRange {
	if r == nil || (r.Min == nil && r.Max == nil) {
		return nil
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return nil
	}
	return r
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func normalizeBoard(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

// unmet returns the first criterion the candidate fails, or "" when it passes all.
// An unknown candidate value never satisfies an explicit range.
func (c criteria) unmet(p *models.CandidateProfile) string {
	if c.countries != nil && !c.countries[normalizeName(p.CountryFrom)] {
		return CriterionCountryFrom
	}
	if c.boards != nil && !c.boards[normalizeBoard(p.BoardType)] {
		return CriterionBoardType
	}
	if c.age != nil && (p.Age <= 0 || !c.age.Contains(p.Age)) {
		return CriterionAgeRange
	}
	if c.surf != nil && (p.SurfLevel <= 0 || !c.surf.Contains(p.SurfLevel)) {
		return CriterionSurfLevel
	}
	if len(c.keywords) > 0 {
		have := newKeywordSet(p.LifestyleKeywords, p.WaveKeywords)
		for _, k := range c.keywords {
			if !have.has(k) {
				return CriterionMustHaveKeywords
			}
		}
	}
	return ""
}

// Filter returns the candidates satisfying every specified criterion, in input order.
func Filter(population []models.CandidateProfile, nc models.NonNegotiableCriteria) []models.CandidateProfile {
	kept, _ := filterPopulation(population, compileCriteria(nc))
	return kept
}

func filterPopulation(population []models.CandidateProfile, c criteria) ([]models.CandidateProfile, map[string]int) {
	kept := make([]models.CandidateProfile, 0, len(population))
	rejected := make(map[string]int)
	for i := range population {
		if reason := c.unmet(&population[i]); reason != "" {
			rejected[reason]++
			continue
		}
		kept = append(kept, population[i])
	}
	return kept, rejected
}
