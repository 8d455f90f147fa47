// Package sentiment maps raw message text to a polarity score and a discrete
// mood label using a small valence lexicon. It is deliberately dependency-free
// and deterministic: the same text always yields the same label.
package sentiment

import (
	"strings"
	"unicode"

	"mood-aware-chat/internal/domain/model"
)

// Discretization thresholds. Fixed policy: equality yields neutral.
const (
	happyThreshold = 0.2
	sadThreshold   = -0.2
)

// Analyzer is a stateless classifier; the zero value is ready to use.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (Analyzer) Polarity(text string) float64 { return Polarity(text) }

func (Analyzer) Classify(text string) model.Mood { return Classify(text) }

// Classify maps text to a mood label via its polarity.
func Classify(text string) model.Mood {
	return FromPolarity(Polarity(text))
}

// FromPolarity discretizes a polarity in [-1, 1]. Thresholds are exclusive:
// exactly 0.2 or -0.2 is neutral.
func FromPolarity(p float64) model.Mood {
	switch {
	case p > happyThreshold:
		return model.MoodHappy
	case p < sadThreshold:
		return model.MoodSad
	default:
		return model.MoodNeutral
	}
}

// Polarity scores text in [-1, 1]. The score is the average valence of matched
// lexicon words, with negation flipping and dampening (x-0.5, the TextBlob
// convention), intensifiers scaling the following word, and a trailing
// exclamation mark boosting a positive score. Text with no matches scores 0.
func Polarity(text string) float64 {
	tokens := tokenize(text)
	var sum float64
	matched := 0
	for i, tok := range tokens {
		v, ok := valences[tok]
		if !ok {
			continue
		}
		mult := 1.0
		negated := false
		// Look back two tokens for modifiers: "not very happy", "so happy".
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			prev := tokens[j]
			if negators[prev] {
				negated = true
				continue
			}
			if m, ok := intensifiers[prev]; ok {
				mult *= m
			}
			if prev == "bit" && j > 0 && tokens[j-1] == "a" {
				mult *= intensifiers["a_bit"]
			}
		}
		v *= mult
		if negated {
			v *= -0.5
		}
		sum += v
		matched++
	}
	if matched == 0 {
		return 0
	}
	p := sum / float64(matched)
	if p > 0 && strings.HasSuffix(strings.TrimSpace(text), "!") {
		p *= 1.25
	}
	return clamp(p)
}

func clamp(p float64) float64 {
	if p > 1 {
		return 1
	}
	if p < -1 {
		return -1
	}
	return p
}

// tokenize lowercases and splits on anything that is not a letter or an
// apostrophe, so contractions like "don't" survive as one token.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
