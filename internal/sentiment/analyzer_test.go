package sentiment

import (
	"errors"
	"testing"

	"mood-swing/internal/domain"
)

func items(texts ...string) []domain.TextItem {
	out := make([]domain.TextItem, 0, len(texts))
	for _, t := range texts {
		out = append(out, domain.TextItem{Source: "test", Text: t})
	}
	return out
}

func TestScoresLengthAndRange(t *testing.T) {
	a := New()
	in := items(
		"This stock is going to the moon!",
		"Terrible earnings report, selling everything",
		"Neutral news about the company",
		"Great product launch today!",
	)
	scores, err := a.Scores(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != len(in) {
		t.Fatalf("expected %d scores, got %d", len(in), len(scores))
	}
	for i, s := range scores {
		if s < -1 || s > 1 {
			t.Errorf("score %d out of range: %f", i, s)
		}
	}
}

func TestScoresPolarity(t *testing.T) {
	a := New()
	scores, err := a.Scores(items(
		"Amazing quarter, bullish breakout incoming",
		"Complete fraud, stock will crash and burn",
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores[0] <= 0 {
		t.Errorf("expected positive score for bullish text, got %f", scores[0])
	}
	if scores[1] >= 0 {
		t.Errorf("expected negative score for bearish text, got %f", scores[1])
	}
}

func TestScoresEmptyInput(t *testing.T) {
	a := New()
	scores, err := a.Scores([]domain.TextItem{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected empty result, got %v", scores)
	}
}

func TestScoresNilInput(t *testing.T) {
	a := New()
	_, err := a.Scores(nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestScoresBlankItem(t *testing.T) {
	a := New()
	_, err := a.Scores(items("fine text", "   "))
	if !errors.Is(err, domain.ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}

func TestCompoundNeutralText(t *testing.T) {
	a := New()
	if got := a.Compound("the quarterly report was released on tuesday"); got != 0 {
		t.Errorf("expected 0 for neutral text, got %f", got)
	}
}

func TestCompoundNegationFlips(t *testing.T) {
	a := New()
	plain := a.Compound("this is good")
	negated := a.Compound("this is not good")
	if plain <= 0 {
		t.Fatalf("expected positive baseline, got %f", plain)
	}
	if negated >= 0 {
		t.Errorf("expected negation to flip polarity, got %f", negated)
	}
}

func TestCompoundBoosterAmplifies(t *testing.T) {
	a := New()
	plain := a.Compound("the outlook is good")
	boosted := a.Compound("the outlook is very good")
	if boosted <= plain {
		t.Errorf("expected booster to amplify: plain=%f boosted=%f", plain, boosted)
	}
}

func TestAnalyzerReusable(t *testing.T) {
	a := New()
	first := a.Compound("bullish rally")
	for i := 0; i < 5; i++ {
		if got := a.Compound("bullish rally"); got != first {
			t.Fatalf("score drifted across calls: %f != %f", got, first)
		}
	}
}
