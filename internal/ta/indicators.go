package ta

import "math"

// Series functions return one value per input index. Indices whose trailing
// window cannot be fully computed hold NaN; callers filter explicitly rather
// than letting NaN leak into downstream math.

// SMASeries is the simple moving average of the trailing period values,
// current value inclusive.
func SMASeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// RSISeries is the relative strength index over a simple trailing window:
// mean gain divided by mean loss across the last period deltas, scaled to
// 0-100. When the mean loss is zero the value is left NaN instead of being
// pinned to 100, so rows with a degenerate window drop out downstream.
func RSISeries(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}
	for i := period; i < len(closes); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			delta := closes[j] - closes[j-1]
			if delta > 0 {
				gainSum += delta
			} else {
				lossSum -= delta
			}
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - (100 / (1 + rs))
	}
	return out
}

// PctChangeSeries is the one-period fractional change,
// (v_t - v_{t-1}) / v_{t-1}. NaN at index 0 and wherever the base is zero.
func PctChangeSeries(values []float64) []float64 {
	out := nanSeries(len(values))
	for i := 1; i < len(values); i++ {
		base := values[i-1]
		if base == 0 {
			continue
		}
		out[i] = (values[i] - base) / base
	}
	return out
}

// DiffSeries is the one-period difference, v_t - v_{t-1}. NaN at index 0.
func DiffSeries(values []float64) []float64 {
	out := nanSeries(len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
