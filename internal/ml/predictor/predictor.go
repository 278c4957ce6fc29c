// Package predictor owns the trained classifier and its data contract:
// train with grid search and cross-validation over the feature table,
// predict next-period direction probabilities for the latest row.
package predictor

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"mood-swing/internal/domain"
	"mood-swing/internal/features"
	"mood-swing/internal/ml/boost"
	"mood-swing/internal/ml/forest"

	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"
)

// Grid is the hyperparameter search space, evaluated as a full Cartesian
// product.
type Grid struct {
	Trees     []int
	MaxDepths []int
	MinSplits []int
	MinLeafs  []int
}

func DefaultGrid() Grid {
	return Grid{
		Trees:     []int{50, 100, 200},
		MaxDepths: []int{5, 10, 15},
		MinSplits: []int{2, 5, 10},
		MinLeafs:  []int{1, 2, 4},
	}
}

func (g Grid) candidates() []domain.ForestParams {
	out := make([]domain.ForestParams, 0,
		len(g.Trees)*len(g.MaxDepths)*len(g.MinSplits)*len(g.MinLeafs))
	for _, trees := range g.Trees {
		for _, depth := range g.MaxDepths {
			for _, split := range g.MinSplits {
				for _, leaf := range g.MinLeafs {
					out = append(out, domain.ForestParams{
						Trees:    trees,
						MaxDepth: depth,
						MinSplit: split,
						MinLeaf:  leaf,
					})
				}
			}
		}
	}
	return out
}

type Config struct {
	Folds int
	Grid  Grid
	Seed  int64
}

func DefaultConfig() Config {
	return Config{
		Folds: 5,
		Grid:  DefaultGrid(),
		Seed:  1,
	}
}

// Predictor holds the single fitted model. The held model is swapped under
// a lock so a retrain can run while other callers predict against the
// previous fit.
type Predictor struct {
	tracer  trace.Tracer
	builder *features.Builder
	cfg     Config

	mu    sync.RWMutex
	model *forest.Forest
	names []string
}

func New(tracer trace.Tracer, builder *features.Builder, cfg Config) *Predictor {
	def := DefaultConfig()
	if cfg.Folds < 2 {
		cfg.Folds = def.Folds
	}
	if len(cfg.Grid.Trees) == 0 || len(cfg.Grid.MaxDepths) == 0 ||
		len(cfg.Grid.MinSplits) == 0 || len(cfg.Grid.MinLeafs) == 0 {
		cfg.Grid = def.Grid
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if builder == nil {
		builder = features.NewBuilder(features.DefaultConfig())
	}
	return &Predictor{tracer: tracer, builder: builder, cfg: cfg}
}

// Trained reports whether a model is held.
func (p *Predictor) Trained() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model != nil
}

// Train builds the training table, grid-searches hyperparameters under
// k-fold cross-validation, refits the winner on all usable rows, and
// replaces the held model. The reported cv mean/std come from an
// independent cross-validation pass over the selected configuration, not
// from the search's own folds.
func (p *Predictor) Train(ctx context.Context, rows []domain.FusedRow) (*domain.TrainingMetrics, error) {
	_, span := p.tracer.Start(ctx, "predictor.train")
	defer span.End()

	set, err := p.builder.BuildTrainingSet(rows)
	if err != nil {
		return nil, err
	}

	folds := p.cfg.Folds
	if folds > len(set.X) {
		folds = len(set.X)
	}

	candidates := p.cfg.Grid.candidates()
	scores := make([]float64, len(candidates))

	// Candidate fits share nothing mutable, so evaluate them on a bounded
	// worker pool.
	workers := runtime.NumCPU()
	if workers > len(candidates) {
		workers = len(candidates)
	}
	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				scores[i] = p.crossValidate(set, candidates[i], folds, p.cfg.Seed)
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	bestIdx := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[bestIdx] {
			bestIdx = i
		}
	}
	bestParams := candidates[bestIdx]

	model, err := forest.Train(set.X, set.Y, forest.Options{Params: bestParams, Seed: p.cfg.Seed})
	if err != nil {
		return nil, fmt.Errorf("predictor: refit with selected params: %w", err)
	}

	// Independent pass with a different forest seed, so the reported
	// variance is not the optimistically biased search score.
	foldAccs := p.foldAccuracies(set, bestParams, folds, p.cfg.Seed+1)
	cvMean := stat.Mean(foldAccs, nil)
	cvStd := 0.0
	if len(foldAccs) > 1 {
		cvStd = stat.StdDev(foldAccs, nil)
	}

	importance := make(map[string]float64, len(set.Names))
	for i, v := range model.Importances() {
		importance[set.Names[i]] = v
	}

	p.mu.Lock()
	p.model = model
	p.names = set.Names
	p.mu.Unlock()

	return &domain.TrainingMetrics{
		BestAccuracy:      scores[bestIdx],
		CVMean:            cvMean,
		CVStd:             cvStd,
		BestParams:        bestParams,
		FeatureImportance: importance,
		BoostAccuracy:     p.boostBenchmark(set, folds),
		UsableRows:        len(set.X),
		TrainedAt:         time.Now().UTC(),
	}, nil
}

// Predict computes the feature vector for the most recent period and
// returns {P(down), P(up)}. Requires a prior successful Train on a matching
// feature schema.
func (p *Predictor) Predict(ctx context.Context, rows []domain.FusedRow) ([2]float64, error) {
	_, span := p.tracer.Start(ctx, "predictor.predict")
	defer span.End()

	p.mu.RLock()
	model := p.model
	p.mu.RUnlock()
	if model == nil {
		return [2]float64{}, fmt.Errorf("predictor: train first: %w", domain.ErrNotTrained)
	}
	vec, err := p.builder.LatestVector(rows)
	if err != nil {
		return [2]float64{}, err
	}
	if len(vec) != model.NumFeatures() {
		return [2]float64{}, fmt.Errorf("predictor: feature schema mismatch (%d != %d): %w",
			len(vec), model.NumFeatures(), domain.ErrNotTrained)
	}
	probs, err := model.PredictProba(vec)
	if err != nil {
		return [2]float64{}, fmt.Errorf("predictor: %w", err)
	}
	return probs, nil
}

// FeatureNames returns the schema the held model was fitted against.
func (p *Predictor) FeatureNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

func (p *Predictor) crossValidate(set *features.TrainingSet, params domain.ForestParams, folds int, seed int64) float64 {
	accs := p.foldAccuracies(set, params, folds, seed)
	if len(accs) == 0 {
		return 0
	}
	return stat.Mean(accs, nil)
}

// foldAccuracies evaluates one configuration over k contiguous folds.
// Contiguous blocks keep each validation fold a chronological slice, which
// avoids shuffling future rows into the training side.
func (p *Predictor) foldAccuracies(set *features.TrainingSet, params domain.ForestParams, folds int, seed int64) []float64 {
	n := len(set.X)
	accs := make([]float64, 0, folds)
	for k := 0; k < folds; k++ {
		lo := k * n / folds
		hi := (k + 1) * n / folds
		if hi <= lo {
			continue
		}
		trainX := make([][]float64, 0, n-(hi-lo))
		trainY := make([]float64, 0, n-(hi-lo))
		for i := 0; i < n; i++ {
			if i >= lo && i < hi {
				continue
			}
			trainX = append(trainX, set.X[i])
			trainY = append(trainY, set.Y[i])
		}
		model, err := forest.Train(trainX, trainY, forest.Options{Params: params, Seed: seed})
		if err != nil {
			continue
		}
		correct := 0
		for i := lo; i < hi; i++ {
			probs, err := model.PredictProba(set.X[i])
			if err != nil {
				continue
			}
			pred := 0.0
			if probs[1] >= 0.5 {
				pred = 1
			}
			if pred == set.Y[i] {
				correct++
			}
		}
		accs = append(accs, float64(correct)/float64(hi-lo))
	}
	return accs
}

// boostBenchmark trains the gradient-boosted baseline over the same folds
// and returns its mean accuracy. Best effort: a fold without both classes
// cannot fit and is skipped.
func (p *Predictor) boostBenchmark(set *features.TrainingSet, folds int) float64 {
	n := len(set.X)
	accs := make([]float64, 0, folds)
	for k := 0; k < folds; k++ {
		lo := k * n / folds
		hi := (k + 1) * n / folds
		if hi <= lo {
			continue
		}
		trainX := make([][]float64, 0, n-(hi-lo))
		trainY := make([]float64, 0, n-(hi-lo))
		for i := 0; i < n; i++ {
			if i >= lo && i < hi {
				continue
			}
			trainX = append(trainX, set.X[i])
			trainY = append(trainY, set.Y[i])
		}
		model, err := boost.Train(trainX, trainY, set.Names, boost.DefaultTrainOptions())
		if err != nil {
			log.Printf("boost benchmark fold %d skipped: %v", k, err)
			continue
		}
		accs = append(accs, model.Accuracy(set.X[lo:hi], set.Y[lo:hi]))
	}
	if len(accs) == 0 {
		return 0
	}
	return stat.Mean(accs, nil)
}
