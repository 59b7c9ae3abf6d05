package matchcompanions

import (
	"encoding/json"
	"fmt"

	"swellyo-workers/internal/common/validation"
	"swellyo-workers/internal/matching"
	"swellyo-workers/internal/models"
)

// inputSchema checks the envelope only. nonNegotiableCriteria is left open so a
// malformed criterion can be dropped instead of failing the job.
var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["matchRequest"],
	"properties": {
		"matchRequest": {
			"type": "object",
			"properties": {
				"destination": {"type": "string"},
				"destinationKnown": {"type": "boolean"},
				"area": {"type": "string"},
				"budget": {"type": "integer", "minimum": 0},
				"purpose": {
					"type": "object",
					"properties": {
						"purposeType": {"type": "string"},
						"specificTopics": {"type": "array", "items": {"type": "string"}}
					}
				},
				"userContext": {"type": "object"},
				"seeker": {"type": "object"}
			}
		},
		"candidates": {"type": "array", "items": {"type": "object"}},
		"topK": {"type": "integer", "minimum": 1}
	}
}`)

type envelope struct {
	MatchRequest map[string]json.RawMessage `json:"matchRequest"`
	Candidates   *[]models.CandidateProfile `json:"candidates"`
	TopK         int                        `json:"topK"`
}

// parseInput validates and decodes raw job variables.
func parseInput(raw []byte) (*Input, error) {
	var document interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("variables are not valid JSON: %w", err)
	}
	if result := inputSchema.Validate(document); !result.Valid {
		return nil, fmt.Errorf("variables do not match schema: %s", result.Error())
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode variables: %w", err)
	}

	criteriaRaw, hasCriteria := env.MatchRequest["nonNegotiableCriteria"]
	delete(env.MatchRequest, "nonNegotiableCriteria")

	rest, err := json.Marshal(env.MatchRequest)
	if err != nil {
		return nil, fmt.Errorf("re-encode matchRequest: %w", err)
	}
	var req models.MatchRequest
	if err := json.Unmarshal(rest, &req); err != nil {
		return nil, fmt.Errorf("decode matchRequest: %w", err)
	}

	input := &Input{MatchRequest: &req, TopK: env.TopK}
	if hasCriteria {
		req.NonNegotiableCriteria, input.DroppedCriteria = parseCriteria(criteriaRaw)
	}
	if env.Candidates != nil {
		input.Candidates = *env.Candidates
		if input.Candidates == nil {
			input.Candidates = []models.CandidateProfile{}
		}
	}
	return input, nil
}

// parseCriteria decodes each criterion independently and returns the names of the
// ones that could not be decoded.
func parseCriteria(raw json.RawMessage) (models.NonNegotiableCriteria, []string) {
	var nc models.NonNegotiableCriteria

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		if string(raw) == "null" {
			return nc, nil
		}
		return nc, []string{"nonNegotiableCriteria"}
	}

	var dropped []string
	decode := func(key, criterion string, target interface{}) {
		value, ok := fields[key]
		if !ok || string(value) == "null" {
			return
		}
		if err := json.Unmarshal(value, target); err != nil {
			dropped = append(dropped, criterion)
		}
	}

	decode("countryFrom", matching.CriterionCountryFrom, &nc.CountryFrom)
	decode("boardType", matching.CriterionBoardType, &nc.BoardType)
	decode("ageRange", matching.CriterionAgeRange, &nc.AgeRange)
	decode("surfLevel", matching.CriterionSurfLevel, &nc.SurfLevel)
	decode("mustHaveKeywords", matching.CriterionMustHaveKeywords, &nc.MustHaveKeywords)
	decode("other", "other", &nc.Other)

	// a rejected decode may leave a partial value behind
	for _, name := range dropped {
		switch name {
		case matching.CriterionCountryFrom:
			nc.CountryFrom = nil
		case matching.CriterionBoardType:
			nc.BoardType = nil
		case matching.CriterionAgeRange:
			nc.AgeRange = nil
		case matching.CriterionSurfLevel:
			nc.SurfLevel = nil
		case matching.CriterionMustHaveKeywords:
			nc.MustHaveKeywords = nil
		case "other":
			nc.Other = ""
		}
	}
	return nc, dropped
}
