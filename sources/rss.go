package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"

	"storyreel/types"
)

const (
	extractWorkerCount = 5
	extractorTimeout   = 30 * time.Second
)

// FeedPresets maps friendly names to RSS feed URLs
var FeedPresets = map[string]string{
	"nosleep": "https://www.reddit.com/r/nosleep/.rss",
	"tifu":    "https://www.reddit.com/r/tifu/.rss",
	"aita":    "https://www.reddit.com/r/AmItheAsshole/.rss",
	"hn":      "https://hnrss.org/newest",
}

// ResolveFeedURL returns the preset URL for a known name, otherwise the input as-is
func ResolveFeedURL(feed string) string {
	if u, ok := FeedPresets[feed]; ok {
		return u
	}
	return feed
}

// RSS reads stories from an RSS or Atom feed. When Extract is set, the full
// article text is pulled from each item's link with readability.
type RSS struct {
	Extract bool
	parser  *gofeed.Parser
	logger  *slog.Logger
}

// NewRSS creates an RSS source
func NewRSS(extract bool, logger *slog.Logger) *RSS {
	if logger == nil {
		logger = slog.Default()
	}
	return &RSS{Extract: extract, parser: gofeed.NewParser(), logger: logger}
}

// Fetch parses the feed named by q.Category (a URL or preset) and returns up to
// q.Limit items as posts. Sort and time window do not apply to feeds.
func (r *RSS) Fetch(ctx context.Context, q types.PostQuery) ([]types.Post, error) {
	feedURL := ResolveFeedURL(q.Category)
	if feedURL == "" {
		return nil, fmt.Errorf("rss: feed URL is required")
	}

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("rss: failed to fetch feed: %w", err)
	}

	count := len(feed.Items)
	if q.Limit > 0 && q.Limit < count {
		count = q.Limit
	}

	now := time.Now()
	posts := make([]types.Post, count)
	for i := 0; i < count; i++ {
		item := feed.Items[i]

		text := item.Content
		if text == "" {
			text = item.Description
		}
		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		posts[i] = types.Post{
			Title:     strings.TrimSpace(item.Title),
			Text:      collapseSpace(text),
			URL:       item.Link,
			Author:    author,
			FetchedAt: now,
		}
	}

	if r.Extract {
		r.extractAll(ctx, posts)
	}
	for i := range posts {
		posts[i].ID = types.GenerateID(posts[i].Title, posts[i].Text)
	}
	return posts, nil
}

// extractAll replaces each post's text with the readable text of its link using a worker pool
func (r *RSS) extractAll(ctx context.Context, posts []types.Post) {
	var wg sync.WaitGroup
	jobs := make(chan int)

	for w := 0; w < extractWorkerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := extractContent(&posts[i]); err != nil {
					r.logger.Warn("readability extraction failed", "url", posts[i].URL, "error", err)
				}
			}
		}()
	}

	for i := range posts {
		select {
		case jobs <- i:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
}

func extractContent(p *types.Post) error {
	if p.URL == "" {
		return fmt.Errorf("post URL is empty")
	}
	article, err := readability.FromURL(p.URL, extractorTimeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}
	if text := collapseSpace(article.TextContent); text != "" {
		p.Text = text
	}
	if p.Author == "" {
		p.Author = article.Byline
	}
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
