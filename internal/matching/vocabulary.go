package matching

import (
	"strings"
	"unicode"
)

// tokenize lowercases s, splits it on anything that is not a letter or digit and
// strips a trailing plural "s" so "waves" and "wave" compare equal.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, f := range fields {
		fields[i] = stem(f)
	}
	return fields
}

func stem(w string) string {
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return w[:len(w)-1]
	}
	return w
}

func normalizeKeyword(s string) string {
	return strings.Join(tokenize(s), " ")
}

// containsPhrase reports whether phrase occurs as a contiguous run of tokens in text.
func containsPhrase(text, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(text) {
		return false
	}
	for i := 0; i+len(phrase) <= len(text); i++ {
		match := true
		for j := range phrase {
			if text[i+j] != phrase[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

type vocabTerm struct {
	key    string
	tokens []string
}

// vocabulary is a fixed list of recognised phrases.
type vocabulary []vocabTerm

func newVocabulary(terms []string) vocabulary {
	v := make(vocabulary, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		tokens := tokenize(t)
		key := strings.Join(tokens, " ")
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		v = append(v, vocabTerm{key: key, tokens: tokens})
	}
	return v
}

// hits returns the distinct terms found in texts, in vocabulary order. Repeated
// mentions of one term count once.
func (v vocabulary) hits(texts []string) []string {
	if len(v) == 0 || len(texts) == 0 {
		return nil
	}
	tokenized := make([][]string, 0, len(texts))
	for _, t := range texts {
		if tokens := tokenize(t); len(tokens) > 0 {
			tokenized = append(tokenized, tokens)
		}
	}
	var out []string
	for _, term := range v {
		for _, tokens := range tokenized {
			if containsPhrase(tokens, term.tokens) {
				out = append(out, term.key)
				break
			}
		}
	}
	return out
}

func (v vocabulary) matchesAny(texts []string) bool {
	return len(v.hits(texts)) > 0
}

// keywordSet maps normalised keywords to membership.
type keywordSet map[string]struct{}

func newKeywordSet(groups ...[]string) keywordSet {
	s := make(keywordSet)
	for _, g := range groups {
		for _, k := range g {
			if n := normalizeKeyword(k); n != "" {
				s[n] = struct{}{}
			}
		}
	}
	return s
}

func (s keywordSet) has(k string) bool {
	_, ok := s[normalizeKeyword(k)]
	return ok
}

// overlap computes the Jaccard similarity between the seeker set and a candidate's
// keywords, returning the shared keywords in the candidate's own spelling and order.
func (s keywordSet) overlap(candidate []string) (float64, []string) {
	common := []string{}
	if len(s) == 0 || len(candidate) == 0 {
		return 0, common
	}
	seen := make(map[string]bool, len(candidate))
	for _, k := range candidate {
		n := normalizeKeyword(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		if _, ok := s[n]; ok {
			common = append(common, k)
		}
	}
	union := len(s) + len(seen) - len(common)
	if union == 0 {
		return 0, common
	}
	return clamp01(float64(len(common)) / float64(union)), common
}
