// Package sources fetches candidate stories from Reddit or RSS feeds.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"storyreel/types"
)

const (
	defaultRedditAuthURL = "https://www.reddit.com"
	defaultRedditAPIURL  = "https://oauth.reddit.com"
)

// RedditConfig holds the script-app credentials used for the password grant
type RedditConfig struct {
	ClientID  string
	Secret    string
	Username  string
	Password  string
	UserAgent string

	// AuthBaseURL and APIBaseURL default to the public Reddit hosts
	AuthBaseURL string
	APIBaseURL  string
	Timeout     time.Duration
}

// Reddit fetches self-posts from a subreddit listing
type Reddit struct {
	oauth    oauth2.Config
	username string
	password string
	apiURL   string
	client   *http.Client
}

// NewReddit builds a Reddit source; no network call is made until Fetch
func NewReddit(cfg RedditConfig) *Reddit {
	authURL := strings.TrimRight(cfg.AuthBaseURL, "/")
	if authURL == "" {
		authURL = defaultRedditAuthURL
	}
	apiURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if apiURL == "" {
		apiURL = defaultRedditAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Reddit{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.Secret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  authURL + "/api/v1/access_token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		username: cfg.Username,
		password: cfg.Password,
		apiURL:   apiURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &userAgentTransport{base: http.DefaultTransport, ua: cfg.UserAgent},
		},
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID        string `json:"id"`
				Title     string `json:"title"`
				Selftext  string `json:"selftext"`
				Author    string `json:"author"`
				Permalink string `json:"permalink"`
				Stickied  bool   `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch requests a fresh access token and returns the listing's posts in order
func (r *Reddit) Fetch(ctx context.Context, q types.PostQuery) ([]types.Post, error) {
	if q.Category == "" {
		return nil, fmt.Errorf("reddit: subreddit is required")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.client)

	tok, err := r.oauth.PasswordCredentialsToken(ctx, r.username, r.password)
	if err != nil {
		return nil, fmt.Errorf("reddit: access token: %w", err)
	}
	hc := r.oauth.Client(ctx, tok)

	endpoint := fmt.Sprintf("%s/r/%s/%s", r.apiURL, url.PathEscape(q.Category), url.PathEscape(orDefault(q.Sort, "top")))
	params := url.Values{}
	if q.TimeWindow != "" {
		params.Set("t", q.TimeWindow)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	params.Set("raw_json", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("reddit: create request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("reddit: listing returned %d: %s", resp.StatusCode, string(body))
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("reddit: decode listing: %w", err)
	}

	now := time.Now()
	posts := make([]types.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		if d.Stickied {
			continue
		}
		title := strings.TrimSpace(d.Title)
		text := strings.TrimSpace(d.Selftext)
		id := d.ID
		if id == "" {
			id = types.GenerateID(title, text)
		}
		p := types.Post{
			ID:        id,
			Title:     title,
			Text:      text,
			Author:    d.Author,
			FetchedAt: now,
		}
		if d.Permalink != "" {
			p.URL = "https://www.reddit.com" + d.Permalink
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// userAgentTransport sets the configured User-Agent on every request
type userAgentTransport struct {
	base http.RoundTripper
	ua   string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.ua == "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.ua)
	return t.base.RoundTrip(r)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
