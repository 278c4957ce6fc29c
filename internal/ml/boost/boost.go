// Package boost wraps a gradient-boosted-trees classifier used as a
// benchmark alongside the random forest, so the forest's reported accuracy
// has a non-trivial baseline.
package boost

import (
	"errors"
	"math"

	"github.com/rmera/boo"
	"github.com/rmera/boo/utils"
)

type TrainOptions struct {
	Rounds       int
	LearningRate float64
	MaxDepth     int
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Rounds:       40,
		LearningRate: 0.08,
		MaxDepth:     4,
	}
}

type Model struct {
	boost *boo.MultiClass
}

// Train fits a boosted classifier on binary labels. Requires both classes
// present.
func Train(samples [][]float64, labels []float64, featureNames []string, opts TrainOptions) (*Model, error) {
	if len(samples) == 0 || len(samples) != len(labels) {
		return nil, errors.New("boost: invalid training dataset")
	}
	if len(samples[0]) == 0 {
		return nil, errors.New("boost: empty feature vectors")
	}
	intLabels := make([]int, len(labels))
	classes := make(map[int]struct{}, 2)
	for i, v := range labels {
		label := 0
		if v >= 0.5 {
			label = 1
		}
		intLabels[i] = label
		classes[label] = struct{}{}
	}
	if len(classes) < 2 {
		return nil, errors.New("boost: requires both classes in training data")
	}
	if opts.Rounds <= 0 {
		opts.Rounds = DefaultTrainOptions().Rounds
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = DefaultTrainOptions().LearningRate
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultTrainOptions().MaxDepth
	}
	if len(featureNames) != len(samples[0]) {
		featureNames = make([]string, len(samples[0]))
		for i := range featureNames {
			featureNames[i] = "f"
		}
	}

	o := boo.DefaultXOptions()
	o.Rounds = opts.Rounds
	o.LearningRate = opts.LearningRate
	o.MaxDepth = opts.MaxDepth
	o.Verbose = false
	o.EarlyStop = 0

	data := &utils.DataBunch{
		Data:   samples,
		Labels: intLabels,
		Keys:   featureNames,
	}
	model := boo.NewMultiClass(data, o)
	if model == nil {
		return nil, errors.New("boost: training failed")
	}
	return &Model{boost: model}, nil
}

// PredictProb returns P(up) for one sample.
func (m *Model) PredictProb(sample []float64) float64 {
	if m == nil || m.boost == nil {
		return 0.5
	}
	probs := m.boost.PredictSingle(sample)
	labels := m.boost.ClassLabels()
	for i := range labels {
		if labels[i] == 1 {
			return clamp01(probs[i])
		}
	}
	if len(probs) == 0 {
		return 0.5
	}
	return clamp01(probs[len(probs)-1])
}

// Accuracy scores the model on a labeled holdout at a 0.5 threshold.
func (m *Model) Accuracy(samples [][]float64, labels []float64) float64 {
	if len(samples) == 0 || len(samples) != len(labels) {
		return 0
	}
	correct := 0
	for i := range samples {
		pred := 0.0
		if m.PredictProb(samples[i]) >= 0.5 {
			pred = 1
		}
		if pred == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0.5
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
