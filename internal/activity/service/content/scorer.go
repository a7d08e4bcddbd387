// Package content scores free text for being a meaningful farming report
// versus noise or filler. This is pure domain logic - no I/O, no side effects.
package content

import (
	"strings"

	"agrilog/internal/activity/config"
)

// Fixed vocabulary of crops, farming actions, and local-language equivalents.
// Matching is case-insensitive substring over the normalized text.
var domainKeywords = []string{
	// crops
	"rice", "wheat", "cotton", "maize", "sugarcane", "millet", "pulses",
	"soybean", "mustard", "groundnut", "paddy", "dhaan", "kapas", "gehu",
	// inputs and practices
	"compost", "manure", "mulch", "vermicompost", "fertilizer", "pesticide",
	"neem", "drip", "irrigation", "bund", "trench", "seed", "sowing",
	"harvest", "weeding", "khad", "khet", "fasal", "sinchai",
	// soil and water
	"soil", "water", "moisture", "organic", "rotation", "cover crop",
}

// Action indicators show the text describes something that was done, not
// just named.
var actionIndicators = []string{
	"applied", "planted", "irrigated", "sprayed", "sowed", "harvested",
	"watered", "mixed", "spread", "dug", "rotated", "mulched", "prepared",
	"installed", "covered", "removed", "lagaya", "dala", "kiya",
}

// Filler words carry no reporting content on their own.
var fillerWords = map[string]struct{}{
	"hello": {}, "hi": {}, "hey": {}, "test": {}, "testing": {}, "ok": {},
	"okay": {}, "yes": {}, "no": {}, "umm": {}, "uh": {}, "hmm": {},
	"haan": {}, "nahi": {}, "acha": {}, "thik": {}, "hai": {}, "namaste": {},
	"the": {}, "a": {}, "is": {}, "it": {},
}

// Scorer rates text on a 0-100 quality scale.
type Scorer struct {
	cfg config.ContentConfig
}

type Option func(*Scorer)

func WithConfig(cfg config.ContentConfig) Option {
	return func(s *Scorer) {
		s.cfg = cfg
	}
}

// New constructs a scorer with default thresholds.
func New(opts ...Option) *Scorer {
	s := &Scorer{cfg: config.DefaultConfig().Content}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the quality score in [0,100]. Sub-signals accumulate
// independently and the total is clamped at the end.
func (s *Scorer) Score(text string) int {
	normalized := normalize(text)
	if len(normalized) < s.cfg.MinLength {
		return 0
	}

	score := s.lengthScore(normalized)
	lower := strings.ToLower(normalized)

	matched := 0
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			matched++
		}
	}
	score += min(matched*s.cfg.KeywordPoints, s.cfg.KeywordCap)

	if containsAny(lower, actionIndicators) {
		score += s.cfg.ActionPoints
	}

	if isDegenerateRepetition(lower) {
		score -= s.cfg.RepetitionPenalty
	}
	if isAllFiller(lower) {
		score -= s.cfg.FillerPenalty
	}

	return clamp(score)
}

// Evaluate scores the text once and applies the hard gate to that score.
// Callers that need both should use this rather than Score plus IsValid.
func (s *Scorer) Evaluate(text string) (int, bool) {
	score := s.Score(text)
	return score, s.isValid(text, score)
}

// IsValid is the hard gate for pipeline continuation. A failed gate is a
// rejection, not a flag.
func (s *Scorer) IsValid(text string) bool {
	return s.isValid(text, s.Score(text))
}

func (s *Scorer) isValid(text string, score int) bool {
	normalized := normalize(text)
	if len(normalized) < s.cfg.MinLength {
		return false
	}
	lower := strings.ToLower(normalized)
	if isAllFiller(lower) || isDegenerateRepetition(lower) {
		return false
	}

	if score < s.cfg.ValidMinScore {
		return false
	}
	if score >= s.cfg.StrongScore {
		return true
	}
	return containsAny(lower, domainKeywords) || containsAny(lower, actionIndicators)
}

func (s *Scorer) lengthScore(normalized string) int {
	switch n := len(normalized); {
	case n >= 100:
		return 30
	case n >= 50:
		return 20
	case n >= 30:
		return 15
	default:
		return 10
	}
}

// normalize collapses all whitespace runs into single spaces.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func containsAny(lower string, vocab []string) bool {
	for _, w := range vocab {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// isDegenerateRepetition detects texts that repeat rather than report:
// five or more words drawn from at most two distinct words, or any single
// character repeated five or more times consecutively.
func isDegenerateRepetition(lower string) bool {
	words := strings.Fields(lower)
	if len(words) >= 5 {
		distinct := map[string]struct{}{}
		for _, w := range words {
			distinct[w] = struct{}{}
		}
		if len(distinct) <= 2 {
			return true
		}
	}
	return hasRepeatedRun(lower, 5)
}

// hasRepeatedRun reports whether any rune repeats n or more times
// consecutively. Written by hand because RE2 has no backreferences.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

func isAllFiller(lower string) bool {
	words := strings.Fields(lower)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if _, ok := fillerWords[strings.Trim(w, ".,!?")]; !ok {
			return false
		}
	}
	return true
}

func clamp(score int) int {
	return max(0, min(100, score))
}
