package matching

import (
	"fmt"
	"strings"

	"swellyo-workers/internal/models"
)

// Config holds every tunable of the matching pipeline. Zero fields, and zero
// components of a supplied base_weights table, are filled from DefaultConfig by
// WithDefaults, so a partially written YAML section is valid. The partial credits are
// pointers so an explicit 0 survives defaulting.
type Config struct {
	TopK               int                     `mapstructure:"top_k"`
	DaysSaturation     int                     `mapstructure:"days_saturation"`
	StaySaturation     int                     `mapstructure:"stay_saturation"`
	AreaPartialCredit  *float64                `mapstructure:"area_partial_credit"`
	BoardPartialCredit *float64                `mapstructure:"board_partial_credit"`
	MaxBudgetTier      int                     `mapstructure:"max_budget_tier"`
	MaxSurfLevel       int                     `mapstructure:"max_surf_level"`
	MaxTravelTier      int                     `mapstructure:"max_travel_tier"`
	KeywordIncrement   float64                 `mapstructure:"keyword_increment"`
	WeightFloor        float64                 `mapstructure:"weight_floor"`
	ReferenceBudget    float64                 `mapstructure:"reference_budget"`
	BaseWeights        map[string]WeightVector `mapstructure:"base_weights"`
	BoardFamilies      [][]string              `mapstructure:"board_families"`
	Multipliers        MultiplierConfig        `mapstructure:"multipliers"`
	Vocabulary         VocabularyConfig        `mapstructure:"vocabulary"`
	ParallelThreshold  int                     `mapstructure:"parallel_threshold"`
	PoolSize           int                     `mapstructure:"pool_size"`
}

// MultiplierConfig holds the context boost factors. Max caps the composed product and
// must be at least 1; zero takes the default and a negative Max disables the cap.
type MultiplierConfig struct {
	SameCountryVisa float64 `mapstructure:"same_country_visa"`
	WaveExpertise   float64 `mapstructure:"wave_expertise"`
	Accommodation   float64 `mapstructure:"accommodation"`
	Max             float64 `mapstructure:"max"`
}

// VocabularyConfig lists the terms recognised in free text and topic tags.
type VocabularyConfig struct {
	Lifestyle           []string `mapstructure:"lifestyle"`
	Wave                []string `mapstructure:"wave"`
	VisaTopics          []string `mapstructure:"visa_topics"`
	WaveTopics          []string `mapstructure:"wave_topics"`
	AccommodationTopics []string `mapstructure:"accommodation_topics"`
}

func DefaultConfig() Config {
	return Config{
		TopK:               3,
		DaysSaturation:     60,
		StaySaturation:     30,
		AreaPartialCredit:  float64Ptr(0.5),
		BoardPartialCredit: float64Ptr(0.5),
		MaxBudgetTier:      3,
		MaxSurfLevel:       5,
		MaxTravelTier:      4,
		KeywordIncrement:   5,
		WeightFloor:        1,
		ReferenceBudget:    100,
		BaseWeights: map[string]WeightVector{
			string(models.PurposeConnectTraveler): {
				DestinationDays: 5, AreaMatch: 6, Budget: 10, SurfLevel: 20, TravelExperience: 6,
				BoardType: 12, GroupType: 10, Lifestyle: 20, Wave: 20,
			},
			string(models.PurposeSpecificAdvice): {
				DestinationDays: 20, AreaMatch: 15, Budget: 4, SurfLevel: 20, TravelExperience: 12,
				BoardType: 5, GroupType: 4, Lifestyle: 5, Wave: 12,
			},
			string(models.PurposeGeneralGuidance): {
				DestinationDays: 20, AreaMatch: 12, Budget: 8, SurfLevel: 12, TravelExperience: 10,
				BoardType: 5, GroupType: 6, Lifestyle: 12, Wave: 12,
			},
		},
		BoardFamilies: [][]string{
			{"shortboard", "fish", "mid_length"},
			{"mid_length", "longboard", "soft_top"},
		},
		Multipliers: MultiplierConfig{
			SameCountryVisa: 1.5,
			WaveExpertise:   1.3,
			Accommodation:   1.2,
			Max:             2.0,
		},
		Vocabulary: VocabularyConfig{
			Lifestyle: []string{
				"yoga", "meditation", "wellness", "fitness", "party", "nightlife", "music", "art",
				"photography", "culture", "food", "cooking", "nature", "hiking", "climbing", "diving",
				"snorkeling", "fishing", "skating", "volleyball", "remote work", "digital nomad",
				"sustainability", "volunteering", "reading", "coffee",
			},
			Wave: []string{
				"barrels", "big waves", "small waves", "mellow", "reef break", "beach break",
				"point break", "hollow", "powerful", "uncrowded", "lefts", "rights", "peeling",
				"longboard waves", "tubes",
			},
			VisaTopics:          []string{"visa", "entry requirements", "immigration", "passport", "border"},
			WaveTopics:          []string{"wave", "surf spot", "spot", "break", "swell", "lineup"},
			AccommodationTopics: []string{"accommodation", "hostel", "hotel", "lodging", "surf camp", "guesthouse", "villa", "where to stay", "place to stay"},
		},
		ParallelThreshold: 256,
	}
}

// WithDefaults returns a copy of c with every unset field taken from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.TopK <= 0 {
		c.TopK = d.TopK
	}
	if c.DaysSaturation <= 0 {
		c.DaysSaturation = d.DaysSaturation
	}
	if c.StaySaturation <= 0 {
		c.StaySaturation = d.StaySaturation
	}
	if c.AreaPartialCredit == nil {
		c.AreaPartialCredit = d.AreaPartialCredit
	}
	if c.BoardPartialCredit == nil {
		c.BoardPartialCredit = d.BoardPartialCredit
	}
	if c.MaxBudgetTier <= 1 {
		c.MaxBudgetTier = d.MaxBudgetTier
	}
	if c.MaxSurfLevel <= 1 {
		c.MaxSurfLevel = d.MaxSurfLevel
	}
	if c.MaxTravelTier <= 1 {
		c.MaxTravelTier = d.MaxTravelTier
	}
	if c.KeywordIncrement == 0 {
		c.KeywordIncrement = d.KeywordIncrement
	}
	if c.WeightFloor <= 0 {
		c.WeightFloor = d.WeightFloor
	}
	if c.ReferenceBudget <= 0 {
		c.ReferenceBudget = d.ReferenceBudget
	}
	// tables and components missing from a partial base_weights section keep their defaults
	merged := make(map[string]WeightVector, len(d.BaseWeights)+len(c.BaseWeights))
	for purpose, w := range d.BaseWeights {
		merged[purpose] = w
	}
	for purpose, w := range c.BaseWeights {
		key := strings.ToLower(purpose)
		merged[key] = fillWeights(w, merged[key])
	}
	c.BaseWeights = merged
	if len(c.BoardFamilies) == 0 {
		c.BoardFamilies = d.BoardFamilies
	}
	if c.Multipliers.SameCountryVisa == 0 {
		c.Multipliers.SameCountryVisa = d.Multipliers.SameCountryVisa
	}
	if c.Multipliers.WaveExpertise == 0 {
		c.Multipliers.WaveExpertise = d.Multipliers.WaveExpertise
	}
	if c.Multipliers.Accommodation == 0 {
		c.Multipliers.Accommodation = d.Multipliers.Accommodation
	}
	if c.Multipliers.Max == 0 {
		c.Multipliers.Max = d.Multipliers.Max
	}
	if len(c.Vocabulary.Lifestyle) == 0 {
		c.Vocabulary.Lifestyle = d.Vocabulary.Lifestyle
	}
	if len(c.Vocabulary.Wave) == 0 {
		c.Vocabulary.Wave = d.Vocabulary.Wave
	}
	if len(c.Vocabulary.VisaTopics) == 0 {
		c.Vocabulary.VisaTopics = d.Vocabulary.VisaTopics
	}
	if len(c.Vocabulary.WaveTopics) == 0 {
		c.Vocabulary.WaveTopics = d.Vocabulary.WaveTopics
	}
	if len(c.Vocabulary.AccommodationTopics) == 0 {
		c.Vocabulary.AccommodationTopics = d.Vocabulary.AccommodationTopics
	}
	if c.ParallelThreshold <= 0 {
		c.ParallelThreshold = d.ParallelThreshold
	}
	return c
}

// fillWeights copies every zero component of w from def.
func fillWeights(w, def WeightVector) WeightVector {
	dst, src := w.components(), def.components()
	for i, c := range dst {
		if *c == 0 {
			*c = *src[i]
		}
	}
	return w
}

func float64Ptr(f float64) *float64 { return &f }

func creditValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Validate rejects values that would make scores negative or undefined.
func (c Config) Validate() error {
	if v := creditValue(c.AreaPartialCredit); v < 0 || v > 1 {
		return fmt.Errorf("area_partial_credit must be within [0,1], got %v", v)
	}
	if v := creditValue(c.BoardPartialCredit); v < 0 || v > 1 {
		return fmt.Errorf("board_partial_credit must be within [0,1], got %v", v)
	}
	if m := c.Multipliers.Max; m > 0 && m < 1 {
		return fmt.Errorf("multipliers.max must be at least 1 or negative to disable the cap, got %v", m)
	}
	if c.KeywordIncrement < 0 {
		return fmt.Errorf("keyword_increment must not be negative, got %v", c.KeywordIncrement)
	}
	for name, f := range map[string]float64{
		"same_country_visa": c.Multipliers.SameCountryVisa,
		"wave_expertise":    c.Multipliers.WaveExpertise,
		"accommodation":     c.Multipliers.Accommodation,
	} {
		if f <= 0 {
			return fmt.Errorf("multiplier %s must be positive, got %v", name, f)
		}
	}
	for purpose, w := range c.BaseWeights {
		if w.hasNegative() {
			return fmt.Errorf("base_weights.%s contains a negative weight", purpose)
		}
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("pool_size must not be negative, got %d", c.PoolSize)
	}
	return nil
}
