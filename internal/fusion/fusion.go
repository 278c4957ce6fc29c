// Package fusion aligns sparse, irregularly-timed sentiment scores onto a
// regular price-bar series: one aggregated sentiment value per trading
// period, no dropped or duplicated periods, no undefined sentiment.
package fusion

import (
	"fmt"
	"math"
	"sort"
	"time"

	"mood-swing/internal/domain"
)

// Fuse buckets each scored item into its price period and averages within
// the bucket. Periods with no items inherit the most recent defined value;
// a leading gap takes the first defined value. When no item carries a
// timestamp the scores are spread evenly across the bar span before
// bucketing. The result has exactly one row per bar, in bar order.
func Fuse(bars []domain.PriceBar, scored []domain.ScoredItem) ([]domain.FusedRow, error) {
	if bars == nil || scored == nil {
		return nil, fmt.Errorf("fusion: nil input: %w", domain.ErrInvalidInput)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fusion: no price bars: %w", domain.ErrMissingData)
	}
	if len(scored) == 0 {
		return nil, fmt.Errorf("fusion: no scored items: %w", domain.ErrMissingData)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return nil, fmt.Errorf("fusion: bar timestamps not strictly increasing at index %d: %w", i, domain.ErrInvalidInput)
		}
	}

	scored = withTimestamps(bars, scored)

	sums := make([]float64, len(bars))
	counts := make([]int, len(bars))
	for _, item := range scored {
		idx := bucketIndex(bars, item.Time)
		sums[idx] += item.Score
		counts[idx]++
	}

	rows := make([]domain.FusedRow, len(bars))
	last := math.NaN()
	for i, bar := range bars {
		value := math.NaN()
		if counts[i] > 0 {
			value = sums[i] / float64(counts[i])
			last = value
		} else if !math.IsNaN(last) {
			value = last
		}
		rows[i] = domain.FusedRow{
			Time:      bar.Time,
			Close:     bar.Close,
			Volume:    bar.Volume,
			Sentiment: value,
		}
	}

	// Backward-fill the leading gap from the first defined value. At least
	// one bucket is non-empty, so a first value always exists.
	first := math.NaN()
	for i := range rows {
		if !math.IsNaN(rows[i].Sentiment) {
			first = rows[i].Sentiment
			break
		}
	}
	for i := range rows {
		if math.IsNaN(rows[i].Sentiment) {
			rows[i].Sentiment = first
		} else {
			break
		}
	}
	return rows, nil
}

// withTimestamps spreads un-timestamped scores evenly across the bar span,
// oldest first, when no item carries its own timestamp. Items outside the
// span are clamped to the nearest end by bucketIndex.
func withTimestamps(bars []domain.PriceBar, scored []domain.ScoredItem) []domain.ScoredItem {
	timestamped := false
	for _, s := range scored {
		if !s.Time.IsZero() {
			timestamped = true
			break
		}
	}
	if timestamped {
		out := make([]domain.ScoredItem, 0, len(scored))
		for _, s := range scored {
			if !s.Time.IsZero() {
				out = append(out, s)
			}
		}
		return out
	}

	start := bars[0].Time
	span := bars[len(bars)-1].Time.Sub(start)
	out := make([]domain.ScoredItem, len(scored))
	for i, s := range scored {
		offset := time.Duration(0)
		if len(scored) > 1 {
			offset = time.Duration(int64(span) / int64(len(scored)-1) * int64(i))
		}
		out[i] = domain.ScoredItem{Time: start.Add(offset), Score: s.Score}
	}
	return out
}

// bucketIndex maps a timestamp to the latest bar whose period start is not
// after it. Timestamps before the first bar fall into the first bucket.
func bucketIndex(bars []domain.PriceBar, ts time.Time) int {
	idx := sort.Search(len(bars), func(i int) bool {
		return bars[i].Time.After(ts)
	}) - 1
	if idx < 0 {
		return 0
	}
	return idx
}
