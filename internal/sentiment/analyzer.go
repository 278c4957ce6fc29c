package sentiment

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"mood-swing/internal/domain"
)

// compound normalization constant, as in the VADER paper.
const normAlpha = 15.0

// negation flips the sign of a valence and damps it.
const negationFactor = -0.74

// Analyzer scores free text with a lexicon of word valences. The lexicon is
// loaded once at construction and never mutated, so a single Analyzer is
// safe to reuse across calls.
type Analyzer struct {
	lexicon   map[string]float64
	boosters  map[string]float64
	negations map[string]struct{}
}

// New returns an Analyzer backed by the built-in lexicon.
func New() *Analyzer {
	return &Analyzer{
		lexicon:   defaultLexicon,
		boosters:  boosters,
		negations: negations,
	}
}

// Scores maps each item to a compound polarity score in [-1, 1], preserving
// input length and order. A nil slice is rejected; an empty slice yields an
// empty result. Each score depends only on that item's text.
func (a *Analyzer) Scores(items []domain.TextItem) ([]float64, error) {
	if items == nil {
		return nil, fmt.Errorf("sentiment: items is nil: %w", domain.ErrInvalidInput)
	}
	out := make([]float64, 0, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			return nil, fmt.Errorf("sentiment: item %d has no text: %w", i, domain.ErrInvalidItem)
		}
		out = append(out, a.Compound(item.Text))
	}
	return out, nil
}

// Compound scores a single text: signed word valences with booster and
// negation adjustment, normalized to [-1, 1].
func (a *Analyzer) Compound(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	for i, tok := range tokens {
		valence, ok := a.lexicon[tok]
		if !ok {
			continue
		}
		// Scan up to three preceding tokens for boosters and negations.
		for back := 1; back <= 3 && i-back >= 0; back++ {
			prev := tokens[i-back]
			if b, ok := a.boosters[prev]; ok {
				if valence < 0 {
					valence -= b
				} else {
					valence += b
				}
			}
			if _, ok := a.negations[prev]; ok {
				valence *= negationFactor
			}
		}
		sum += valence
	}
	if sum == 0 {
		return 0
	}
	compound := sum / math.Sqrt(sum*sum+normAlpha)
	return clamp(compound, -1, 1)
}

func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
