package advisor

import (
	"fmt"
	"strings"
	"time"

	"mood-swing/internal/domain"
)

const analystBrief = `You are a stock sentiment analyst bot. Your role is to interpret social-media mood and model output, NOT to generate predictions yourself.

Rules:
- Always reference the specific numbers provided when making observations.
- Never fabricate data. If data is unavailable, say so.
- A model probability near 0.5 is a coin flip; say so instead of spinning it.
- Mention the mood breakdown (positive/negative/neutral counts) when it is lopsided.
- Keep responses short and plain. You are summarizing, not advising.
- Do not provide financial advice disclaimers on every message. The user understands this is informational.`

func BuildSystemPrompt(marketContext string) string {
	var sb strings.Builder
	sb.WriteString(analystBrief)
	sb.WriteString("\n\n--- LIVE DATA (as of ")
	sb.WriteString(time.Now().UTC().Format(time.RFC822))
	sb.WriteString(") ---\n")
	sb.WriteString(marketContext)
	return sb.String()
}

func FormatMarketContext(moods []*domain.MoodSummary, runs []*domain.PredictionRun) string {
	var sb strings.Builder

	if len(moods) > 0 {
		sb.WriteString("\nSocial-media mood:\n")
		for _, m := range moods {
			sb.WriteString(fmt.Sprintf("  %s: mean %+.3f over %d posts (pos=%d neg=%d neu=%d)\n",
				m.Symbol, m.Mean, m.Posts, m.Positive, m.Negative, m.Neutral))
		}
	}

	if len(runs) > 0 {
		sb.WriteString("\nModel predictions (next trading day):\n")
		for _, r := range runs {
			sb.WriteString(fmt.Sprintf("  %s: P(up)=%.3f P(down)=%.3f\n",
				r.Symbol, r.ProbUp, r.ProbDown))
		}
	}

	if sb.Len() == 0 {
		return "No data currently available."
	}
	return sb.String()
}
