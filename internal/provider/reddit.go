package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"mood-swing/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	redditBaseURL     = "https://www.reddit.com"
	defaultRedditUA   = "mood-swing/1.0 (stock sentiment research)"
	defaultRedditSize = 100
)

// RedditProvider fetches post titles mentioning a stock symbol from its
// mapped subreddits via the public search endpoint.
type RedditProvider struct {
	client    *http.Client
	baseURL   string
	userAgent string
	tracer    trace.Tracer
}

func NewRedditProvider(tracer trace.Tracer) *RedditProvider {
	return &RedditProvider{
		client:    &http.Client{Timeout: 20 * time.Second},
		baseURL:   redditBaseURL,
		userAgent: defaultRedditUA,
		tracer:    tracer,
	}
}

// FetchPosts searches every subreddit mapped to the symbol, splitting the
// overall limit across them, and returns the posts newest first. A
// subreddit that fails is logged and skipped; only a fully empty harvest
// is the caller's problem.
func (p *RedditProvider) FetchPosts(ctx context.Context, symbol string, limit int) ([]domain.TextItem, error) {
	_, span := p.tracer.Start(ctx, "reddit.fetch-posts")
	defer span.End()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if limit <= 0 {
		limit = defaultRedditSize
	}

	subreddits := domain.SubredditsFor(symbol)
	perSub := limit / len(subreddits)
	if perSub < 1 {
		perSub = 1
	}

	items := make([]domain.TextItem, 0, limit)
	for _, sub := range subreddits {
		posts, err := p.search(ctx, sub, symbol, perSub)
		if err != nil {
			log.Printf("reddit search r/%s failed: %v", sub, err)
			continue
		}
		items = append(items, posts...)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].PostedAt.After(items[j].PostedAt)
	})
	return items, nil
}

func (p *RedditProvider) search(ctx context.Context, subreddit, query string, limit int) ([]domain.TextItem, error) {
	base := strings.TrimRight(p.baseURL, "/")
	u := fmt.Sprintf("%s/r/%s/search.json?q=%s&restrict_sr=1&sort=new&limit=%d",
		base, url.PathEscape(subreddit), url.QueryEscape(query), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("reddit API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					Subreddit  string  `json:"subreddit"`
					Title      string  `json:"title"`
					Author     string  `json:"author"`
					CreatedUTC float64 `json:"created_utc"`
					Score      float64 `json:"score"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode reddit response: %w", err)
	}

	items := make([]domain.TextItem, 0, len(payload.Data.Children))
	for _, row := range payload.Data.Children {
		title := sanitizeText(row.Data.Title, 300)
		if title == "" {
			continue
		}
		items = append(items, domain.TextItem{
			Source:   "reddit:" + strings.TrimSpace(row.Data.Subreddit),
			Text:     title,
			Author:   sanitizeText(row.Data.Author, 120),
			PostedAt: time.Unix(int64(row.Data.CreatedUTC), 0).UTC(),
			Upvotes:  row.Data.Score,
		})
	}
	return items, nil
}

func sanitizeText(in string, maxLen int) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	in = strings.ReplaceAll(in, "\n", " ")
	in = strings.ReplaceAll(in, "\r", " ")
	in = strings.Join(strings.Fields(in), " ")
	if maxLen > 0 && len(in) > maxLen {
		// Trim on a rune boundary so a multi-byte character is never
		// split into invalid UTF-8.
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(in[cut]) {
			cut--
		}
		in = in[:cut]
	}
	return in
}
