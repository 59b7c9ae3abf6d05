package matching

import (
	"strings"

	"swellyo-workers/internal/models"
)

// WeightVector holds one importance coefficient per similarity term.
type WeightVector struct {
	DestinationDays  float64 `mapstructure:"destination_days" json:"destinationDays"`
	AreaMatch        float64 `mapstructure:"area_match" json:"areaMatch"`
	Budget           float64 `mapstructure:"budget" json:"budget"`
	SurfLevel        float64 `mapstructure:"surf_level" json:"surfLevel"`
	TravelExperience float64 `mapstructure:"travel_experience" json:"travelExperience"`
	BoardType        float64 `mapstructure:"board_type" json:"boardType"`
	GroupType        float64 `mapstructure:"group_type" json:"groupType"`
	Lifestyle        float64 `mapstructure:"lifestyle" json:"lifestyle"`
	Wave             float64 `mapstructure:"wave" json:"wave"`
}

func (w *WeightVector) components() []*float64 {
	return []*float64{
		&w.DestinationDays, &w.AreaMatch, &w.Budget, &w.SurfLevel, &w.TravelExperience,
		&w.BoardType, &w.GroupType, &w.Lifestyle, &w.Wave,
	}
}

// Sum returns the total of all components.
func (w WeightVector) Sum() float64 {
	var total float64
	for _, c := range w.components() {
		total += *c
	}
	return total
}

func (w WeightVector) hasNegative() bool {
	for _, c := range w.components() {
		if *c < 0 {
			return true
		}
	}
	return false
}

func (w WeightVector) add(o WeightVector) WeightVector {
	oc := o.components()
	for i, c := range w.components() {
		*c += *oc[i]
	}
	return w
}

func (w WeightVector) scale(f float64) WeightVector {
	for _, c := range w.components() {
		*c *= f
	}
	return w
}

// floor raises every component to at least min; negatives become min as well.
func (w WeightVector) floor(min float64) WeightVector {
	for _, c := range w.components() {
		if *c < min {
			*c = min
		}
	}
	return w
}

// normalize rescales w so its components sum to budget.
func (w WeightVector) normalize(budget float64) WeightVector {
	sum := w.Sum()
	if sum <= 0 {
		return w
	}
	return w.scale(budget / sum)
}

// Dot returns Σ wᵢ·termᵢ over the breakdown.
func (w WeightVector) Dot(b models.ScoreBreakdown) float64 {
	return w.DestinationDays*b.DestinationDays +
		w.AreaMatch*b.AreaMatch +
		w.Budget*b.Budget +
		w.SurfLevel*b.SurfLevel +
		w.TravelExperience*b.TravelExperience +
		w.BoardType*b.BoardType +
		w.GroupType*b.GroupType +
		w.Lifestyle*b.Lifestyle +
		w.Wave*b.Wave
}

// baseWeights selects the table entry for a purpose. Combination averages the
// single-purpose entries unless the table defines it explicitly; anything
// unrecognised falls back to general guidance.
func baseWeights(table map[string]WeightVector, purpose models.PurposeType) WeightVector {
	key := strings.ToLower(strings.TrimSpace(string(purpose)))
	if w, ok := table[key]; ok {
		return w
	}
	if models.PurposeType(key) == models.PurposeCombination {
		var blend WeightVector
		n := 0
		for _, p := range []models.PurposeType{
			models.PurposeConnectTraveler, models.PurposeSpecificAdvice, models.PurposeGeneralGuidance,
		} {
			if w, ok := table[string(p)]; ok {
				blend = blend.add(w)
				n++
			}
		}
		if n > 0 {
			return blend.scale(1 / float64(n))
		}
	}
	if w, ok := table[string(models.PurposeGeneralGuidance)]; ok {
		return w
	}
	return WeightVector{}
}

// preferenceHits are the vocabulary terms found in the seeker's stated preferences.
type preferenceHits struct {
	lifestyle []string
	wave      []string
}

// buildWeights derives the request's weight vector: purpose base, additive keyword
// increments, a per-component floor, then normalisation to the reference budget.
func buildWeights(cfg *Config, purpose models.PurposeType, hits preferenceHits) WeightVector {
	w := baseWeights(cfg.BaseWeights, purpose)
	w.Lifestyle += cfg.KeywordIncrement * float64(len(hits.lifestyle))
	w.Wave += cfg.KeywordIncrement * float64(len(hits.wave))
	return w.floor(cfg.WeightFloor).normalize(cfg.ReferenceBudget)
}
