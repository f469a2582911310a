package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Post is a single narrative candidate fetched from a source
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	URL       string    `json:"url,omitempty"`
	Author    string    `json:"author,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PostQuery selects which posts a source returns
type PostQuery struct {
	Category   string `json:"category"`
	Sort       string `json:"sort"`
	TimeWindow string `json:"time_window"`
	Limit      int    `json:"limit"`
}

// GenerateID creates a short, stable ID from a post's title and text
func GenerateID(title, text string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(title) + "\n" + strings.TrimSpace(text)))
	return hex.EncodeToString(hash[:])[:16]
}

// RunRequest asks for one pipeline run; zero fields fall back to the configured defaults
type RunRequest struct {
	ID         string `json:"id"`
	Category   string `json:"category,omitempty"`
	Sort       string `json:"sort,omitempty"`
	TimeWindow string `json:"time_window,omitempty"`
	Count      int    `json:"count,omitempty"`
}

// RunSummary counts what a run produced
type RunSummary struct {
	RunID          string `json:"run_id"`
	PostsProcessed int    `json:"posts_processed"`
	PartsPublished int    `json:"parts_published"`
	PartsFailed    int    `json:"parts_failed"`
}
