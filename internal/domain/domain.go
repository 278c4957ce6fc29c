package domain

import "time"

// TextItem is a single piece of social-media text tagged with its origin.
// PostedAt may be zero when the source cannot attribute a timestamp.
type TextItem struct {
	Source   string    `json:"source"`
	Text     string    `json:"text"`
	Author   string    `json:"author,omitempty"`
	PostedAt time.Time `json:"posted_at,omitempty"`
	Upvotes  float64   `json:"upvotes,omitempty"`
}

// ScoredItem pairs a compound polarity score in [-1, 1] with the timestamp
// of the text it was derived from.
type ScoredItem struct {
	Time  time.Time `json:"time"`
	Score float64   `json:"score"`
}

// PriceBar is one trading period of price history: period-start timestamp,
// closing price, and traded volume. Timestamps are unique and strictly
// increasing within a series.
type PriceBar struct {
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// FusedRow aligns one aggregated sentiment value onto one PriceBar period.
// A fused series has exactly one row per bar, in bar order, and the
// sentiment field is always defined (gaps are forward-filled upstream).
type FusedRow struct {
	Time      time.Time `json:"time"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Sentiment float64   `json:"sentiment"`
}

// ForestParams is one random-forest hyperparameter configuration.
type ForestParams struct {
	Trees    int `json:"trees"`
	MaxDepth int `json:"max_depth"`
	MinSplit int `json:"min_split"`
	MinLeaf  int `json:"min_leaf"`
}

// TrainingMetrics reports the outcome of one training run: the best
// cross-validated accuracy found by the grid search, the mean/std of an
// independent cross-validation pass over the selected configuration, the
// winning hyperparameters, and per-feature importances that sum to 1.
// BoostAccuracy is the accuracy of a gradient-boosted benchmark model
// trained on the same data.
type TrainingMetrics struct {
	BestAccuracy      float64            `json:"best_accuracy"`
	CVMean            float64            `json:"cv_mean"`
	CVStd             float64            `json:"cv_std"`
	BestParams        ForestParams       `json:"best_params"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	BoostAccuracy     float64            `json:"boost_accuracy"`
	UsableRows        int                `json:"usable_rows"`
	TrainedAt         time.Time          `json:"trained_at"`
}

// PredictionRun is one persisted pipeline run for a symbol: the
// next-period direction probabilities and the metrics of the model that
// produced them.
type PredictionRun struct {
	ID           int64     `json:"id"`
	Symbol       string    `json:"symbol"`
	RunAt        time.Time `json:"run_at"`
	ProbDown     float64   `json:"prob_down"`
	ProbUp       float64   `json:"prob_up"`
	BestAccuracy float64   `json:"best_accuracy"`
	CVMean       float64   `json:"cv_mean"`
	CVStd        float64   `json:"cv_std"`
	ParamsJSON   string    `json:"params_json,omitempty"`
}

// MoodSummary aggregates the compound scores of one batch of posts.
type MoodSummary struct {
	Symbol    string    `json:"symbol"`
	Posts     int       `json:"posts"`
	Mean      float64   `json:"mean"`
	Positive  int       `json:"positive"`
	Negative  int       `json:"negative"`
	Neutral   int       `json:"neutral"`
	SampledAt time.Time `json:"sampled_at"`
}

// StockSubreddits maps stock symbols to the subreddits worth searching for
// chatter about them.
var StockSubreddits = map[string][]string{
	"TSLA":  {"teslamotors", "teslainvestorsclub"},
	"AAPL":  {"apple", "AAPL"},
	"GOOGL": {"google", "alphabet"},
	"MSFT":  {"microsoft", "MicrosoftStock"},
	"META":  {"facebook", "metastock"},
	"AMZN":  {"amazon", "AmazonStock"},
	"NVDA":  {"nvidia", "NVDA_Stock"},
}

// DefaultSubreddits are searched for every symbol, in addition to any
// symbol-specific subreddits.
var DefaultSubreddits = []string{"stocks", "wallstreetbets"}

// SupportedSymbols lists the stock symbols tracked by default.
var SupportedSymbols = []string{
	"TSLA", "AAPL", "GOOGL", "MSFT", "META", "AMZN", "NVDA",
}

// SubredditsFor returns the subreddits to search for a symbol: its specific
// subreddits (if any) followed by the defaults.
func SubredditsFor(symbol string) []string {
	specific := StockSubreddits[symbol]
	out := make([]string, 0, len(specific)+len(DefaultSubreddits))
	out = append(out, specific...)
	out = append(out, DefaultSubreddits...)
	return out
}

// IsSupported reports whether the symbol is in the tracked set.
func IsSupported(symbol string) bool {
	for _, s := range SupportedSymbols {
		if s == symbol {
			return true
		}
	}
	return false
}
