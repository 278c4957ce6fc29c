// Package features turns a fused price/sentiment series into a fixed-width,
// NaN-free supervised-learning table. Windows are strictly backward-looking
// and the label looks ahead exactly one period, so incomplete rows at both
// ends are dropped explicitly rather than masked.
package features

import (
	"fmt"
	"math"

	"mood-swing/internal/domain"
	"mood-swing/internal/ta"
)

// Names is the fixed feature list, in vector order. Models fit against this
// schema and reject vectors of any other width.
var Names = []string{
	"sentiment",
	"sentiment_ma7",
	"sentiment_ma14",
	"volume_ma7",
	"price_ma7",
	"price_ma14",
	"rsi14",
	"price_change",
	"sentiment_change",
}

type Config struct {
	ShortWindow int
	LongWindow  int
	RSIPeriod   int
	MinRows     int
}

func DefaultConfig() Config {
	return Config{
		ShortWindow: 7,
		LongWindow:  14,
		RSIPeriod:   14,
		MinRows:     10,
	}
}

// TrainingSet is a complete, label-aligned training table. Every cell of X
// is defined; Y holds the binary next-period-up labels. Dropped counts the
// rows excluded for incomplete windows or a missing label, for audit.
type TrainingSet struct {
	X       [][]float64
	Y       []float64
	Names   []string
	Dropped int
}

type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) *Builder {
	def := DefaultConfig()
	if cfg.ShortWindow <= 0 {
		cfg.ShortWindow = def.ShortWindow
	}
	if cfg.LongWindow <= 0 {
		cfg.LongWindow = def.LongWindow
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.MinRows <= 0 {
		cfg.MinRows = def.MinRows
	}
	return &Builder{cfg: cfg}
}

// columns holds one derived series per feature, index-aligned with the
// fused rows. Cells that cannot be computed are NaN until filtered.
type columns struct {
	sentiment       []float64
	sentimentMAS    []float64
	sentimentMAL    []float64
	volumeMAS       []float64
	priceMAS        []float64
	priceMAL        []float64
	rsi             []float64
	priceChange     []float64
	sentimentChange []float64
}

// BuildTrainingSet derives the feature matrix and label vector from a fused
// series. Rows whose lookback window or label cannot be fully computed are
// dropped; fewer than MinRows survivors is an error rather than a silently
// small dataset.
func (b *Builder) BuildTrainingSet(rows []domain.FusedRow) (*TrainingSet, error) {
	if rows == nil {
		return nil, fmt.Errorf("features: rows is nil: %w", domain.ErrInvalidInput)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("features: no fused rows: %w", domain.ErrMissingData)
	}

	cols := b.derive(rows)
	x := make([][]float64, 0, len(rows))
	y := make([]float64, 0, len(rows))
	dropped := 0
	for i := range rows {
		if i == len(rows)-1 {
			// The last row has no next period, so no label.
			dropped++
			continue
		}
		vec, ok := cols.vectorAt(i)
		if !ok {
			dropped++
			continue
		}
		label := 0.0
		if rows[i+1].Close > rows[i].Close {
			label = 1.0
		}
		x = append(x, vec)
		y = append(y, label)
	}

	if len(x) < b.cfg.MinRows {
		return nil, fmt.Errorf("features: %d usable rows after dropping %d, need >= %d: %w",
			len(x), dropped, b.cfg.MinRows, domain.ErrInsufficientData)
	}
	return &TrainingSet{X: x, Y: y, Names: Names, Dropped: dropped}, nil
}

// LatestVector computes the feature vector for the most recent period, the
// live prediction target. Only data up to and including that period is
// used; the row is exempt from the label requirement.
func (b *Builder) LatestVector(rows []domain.FusedRow) ([]float64, error) {
	if rows == nil {
		return nil, fmt.Errorf("features: rows is nil: %w", domain.ErrInvalidInput)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("features: no fused rows: %w", domain.ErrMissingData)
	}
	cols := b.derive(rows)
	vec, ok := cols.vectorAt(len(rows) - 1)
	if !ok {
		return nil, fmt.Errorf("features: lookback incomplete for latest row: %w", domain.ErrInsufficientData)
	}
	return vec, nil
}

func (b *Builder) derive(rows []domain.FusedRow) columns {
	closes := make([]float64, len(rows))
	volumes := make([]float64, len(rows))
	sentiments := make([]float64, len(rows))
	for i := range rows {
		closes[i] = rows[i].Close
		volumes[i] = rows[i].Volume
		sentiments[i] = rows[i].Sentiment
	}
	return columns{
		sentiment:       sentiments,
		sentimentMAS:    ta.SMASeries(sentiments, b.cfg.ShortWindow),
		sentimentMAL:    ta.SMASeries(sentiments, b.cfg.LongWindow),
		volumeMAS:       ta.SMASeries(volumes, b.cfg.ShortWindow),
		priceMAS:        ta.SMASeries(closes, b.cfg.ShortWindow),
		priceMAL:        ta.SMASeries(closes, b.cfg.LongWindow),
		rsi:             ta.RSISeries(closes, b.cfg.RSIPeriod),
		priceChange:     ta.PctChangeSeries(closes),
		sentimentChange: ta.DiffSeries(sentiments),
	}
}

func (c columns) vectorAt(i int) ([]float64, bool) {
	vec := []float64{
		c.sentiment[i],
		c.sentimentMAS[i],
		c.sentimentMAL[i],
		c.volumeMAS[i],
		c.priceMAS[i],
		c.priceMAL[i],
		c.rsi[i],
		c.priceChange[i],
		c.sentimentChange[i],
	}
	for _, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
	}
	return vec, true
}
