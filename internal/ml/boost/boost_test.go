package boost

import (
	"math/rand"
	"testing"
)

// separable binary set: label follows the sign of the first feature.
func separableSet(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	samples := make([][]float64, n)
	labels := make([]float64, n)
	for i := range samples {
		x := rng.Float64()*2 - 1
		noise := rng.Float64() * 0.1
		samples[i] = []float64{x, noise, rng.Float64()}
		if x > 0 {
			labels[i] = 1
		}
	}
	return samples, labels
}

func TestTrainAndAccuracy(t *testing.T) {
	samples, labels := separableSet(200, 7)
	model, err := Train(samples, labels, []string{"a", "b", "c"}, DefaultTrainOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	holdout, holdoutLabels := separableSet(50, 99)
	acc := model.Accuracy(holdout, holdoutLabels)
	if acc < 0.8 {
		t.Fatalf("expected accuracy above 0.8 on separable data, got %f", acc)
	}
}

func TestPredictProbInRange(t *testing.T) {
	samples, labels := separableSet(100, 3)
	model, err := Train(samples, labels, nil, DefaultTrainOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range samples[:10] {
		p := model.PredictProb(s)
		if p < 0 || p > 1 {
			t.Fatalf("probability out of range: %f", p)
		}
	}
}

func TestTrainRejectsSingleClass(t *testing.T) {
	samples := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	labels := []float64{1, 1, 1}
	if _, err := Train(samples, labels, nil, DefaultTrainOptions()); err == nil {
		t.Fatal("expected error for single-class labels")
	}
}

func TestTrainRejectsBadInput(t *testing.T) {
	if _, err := Train(nil, nil, nil, DefaultTrainOptions()); err == nil {
		t.Fatal("expected error for empty dataset")
	}
	if _, err := Train([][]float64{{1}}, []float64{0, 1}, nil, DefaultTrainOptions()); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}
