// Package forest implements a random-forest binary classifier: bagged CART
// trees split on gini impurity with per-split feature subsampling. Training
// is deterministic for a fixed seed.
package forest

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"mood-swing/internal/domain"
)

type Options struct {
	Params domain.ForestParams
	Seed   int64
}

func DefaultOptions() Options {
	return Options{
		Params: domain.ForestParams{
			Trees:    100,
			MaxDepth: 10,
			MinSplit: 2,
			MinLeaf:  1,
		},
		Seed: 1,
	}
}

type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	leaf      bool
	prob      float64
}

type Forest struct {
	trees      []*node
	nFeatures  int
	importance []float64
}

// Train fits a forest on a dense matrix and binary labels. Labels are 0/1;
// rows must share a width.
func Train(x [][]float64, y []float64, opts Options) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, errors.New("forest: invalid training dataset")
	}
	nFeatures := len(x[0])
	if nFeatures == 0 {
		return nil, errors.New("forest: empty feature vectors")
	}
	for i := range x {
		if len(x[i]) != nFeatures {
			return nil, errors.New("forest: ragged feature matrix")
		}
	}
	def := DefaultOptions()
	p := opts.Params
	if p.Trees <= 0 {
		p.Trees = def.Params.Trees
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = def.Params.MaxDepth
	}
	if p.MinSplit < 2 {
		p.MinSplit = def.Params.MinSplit
	}
	if p.MinLeaf < 1 {
		p.MinLeaf = def.Params.MinLeaf
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	mtry := int(math.Ceil(math.Sqrt(float64(nFeatures))))

	f := &Forest{
		trees:      make([]*node, 0, p.Trees),
		nFeatures:  nFeatures,
		importance: make([]float64, nFeatures),
	}
	b := builder{
		x:          x,
		y:          y,
		params:     p,
		mtry:       mtry,
		rng:        rng,
		total:      float64(len(x)),
		importance: f.importance,
	}
	for t := 0; t < p.Trees; t++ {
		indices := make([]int, len(x))
		for i := range indices {
			indices[i] = rng.Intn(len(x))
		}
		f.trees = append(f.trees, b.grow(indices, 0))
	}

	// Normalize accumulated impurity decrease to sum 1. A forest of pure
	// stumps can accumulate nothing; spread uniformly then.
	var sum float64
	for _, v := range f.importance {
		sum += v
	}
	if sum > 0 {
		for i := range f.importance {
			f.importance[i] /= sum
		}
	} else {
		for i := range f.importance {
			f.importance[i] = 1 / float64(nFeatures)
		}
	}
	return f, nil
}

// PredictProba returns {P(down), P(up)} for one sample; the pair sums to 1.
func (f *Forest) PredictProba(sample []float64) ([2]float64, error) {
	if f == nil || len(f.trees) == 0 {
		return [2]float64{}, errors.New("forest: not fitted")
	}
	if len(sample) != f.nFeatures {
		return [2]float64{}, errors.New("forest: feature width mismatch")
	}
	var up float64
	for _, root := range f.trees {
		up += traverse(root, sample)
	}
	up /= float64(len(f.trees))
	return [2]float64{1 - up, up}, nil
}

// Importances returns per-feature mean decrease in impurity, normalized to
// sum 1, index-aligned with the training matrix columns.
func (f *Forest) Importances() []float64 {
	out := make([]float64, len(f.importance))
	copy(out, f.importance)
	return out
}

func (f *Forest) NumFeatures() int {
	return f.nFeatures
}

type builder struct {
	x          [][]float64
	y          []float64
	params     domain.ForestParams
	mtry       int
	rng        *rand.Rand
	total      float64
	importance []float64
}

func (b *builder) grow(indices []int, depth int) *node {
	posFrac := b.positiveFraction(indices)
	if depth >= b.params.MaxDepth || len(indices) < b.params.MinSplit || posFrac == 0 || posFrac == 1 {
		return &node{leaf: true, prob: posFrac}
	}

	feature, threshold, gain, ok := b.bestSplit(indices)
	if !ok {
		return &node{leaf: true, prob: posFrac}
	}

	var left, right []int
	for _, idx := range indices {
		if b.x[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	b.importance[feature] += gain * float64(len(indices)) / b.total

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      b.grow(left, depth+1),
		right:     b.grow(right, depth+1),
	}
}

// bestSplit searches a random subset of features for the threshold with the
// largest gini decrease that leaves at least MinLeaf samples on each side.
func (b *builder) bestSplit(indices []int) (int, float64, float64, bool) {
	parentGini := gini(b.positiveFraction(indices))
	n := float64(len(indices))

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0
	found := false

	for _, feature := range b.sampleFeatures() {
		values := make([]float64, 0, len(indices))
		for _, idx := range indices {
			values = append(values, b.x[idx][feature])
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			threshold := (values[i] + values[i-1]) / 2
			var leftN, leftPos, rightN, rightPos float64
			for _, idx := range indices {
				if b.x[idx][feature] <= threshold {
					leftN++
					leftPos += b.y[idx]
				} else {
					rightN++
					rightPos += b.y[idx]
				}
			}
			if leftN < float64(b.params.MinLeaf) || rightN < float64(b.params.MinLeaf) {
				continue
			}
			childGini := (leftN/n)*gini(leftPos/leftN) + (rightN/n)*gini(rightPos/rightN)
			gain := parentGini - childGini
			if gain > bestGain+1e-12 {
				bestGain = gain
				bestFeature = feature
				bestThreshold = threshold
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, bestGain, found
}

func (b *builder) sampleFeatures() []int {
	nFeatures := len(b.x[0])
	perm := b.rng.Perm(nFeatures)
	k := b.mtry
	if k > nFeatures {
		k = nFeatures
	}
	picked := perm[:k]
	sort.Ints(picked)
	return picked
}

func (b *builder) positiveFraction(indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	var pos float64
	for _, idx := range indices {
		pos += b.y[idx]
	}
	return pos / float64(len(indices))
}

func gini(p float64) float64 {
	return 2 * p * (1 - p)
}

func traverse(n *node, sample []float64) float64 {
	for !n.leaf {
		if sample[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.prob
}
